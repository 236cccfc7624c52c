package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/wiztype/dump"
)

const defaultOutfile = "outfile.json"

var (
	dumpVersion int
	dumpIndent  int
)

var dumpCmd = &cobra.Command{
	Use:   "dump [outfile]",
	Short: "Dump every registered class to a JSON file",
	Long: `Dump every class of the type registry to a JSON file.

Supported versions:
  - 1: classes keyed by name
  - 2: classes keyed by decimal hash, with names and masked enum values (default)

The file defaults to ` + defaultOutfile + `.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVarP(&dumpVersion, "version", "v", dump.Latest, "output version (1 or 2)")
	dumpCmd.Flags().IntVarP(&dumpIndent, "indent", "i", 0, "pretty-print with this many spaces per level (0 = compact)")
}

func runDump(cmd *cobra.Command, args []string) error {
	outfile := defaultOutfile
	if len(args) > 0 {
		outfile = args[0]
	}

	d, err := dump.New(dumpVersion)
	if err != nil {
		return err
	}

	s, err := attach()
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := d.Build(s.snap.Tree)
	if err != nil {
		return fmt.Errorf("failed to read classes: %w", err)
	}

	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outfile, err)
	}
	if err := dump.Write(f, doc, dumpIndent); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(output, "Dumped %d classes to %s (version %d)\n", s.snap.Tree.Len(), outfile, d.Version())
	return nil
}
