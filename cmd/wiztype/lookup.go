package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/wiztype/dump"
	"github.com/skdltmxn/wiztype/rtti"
)

var lookupIndent int

var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Show one class by name or hash",
	Long: `Show the record of one class as it would appear in a version 2 dump,
followed by the methods the class exposes.

Query can be:
  - Class name: lookup "class ClientObject"
  - Hash: lookup hash:0x1A2B3C4D or lookup hash:439041101`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().IntVarP(&lookupIndent, "indent", "i", 2, "pretty-print with this many spaces per level (0 = compact)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	s, err := attach()
	if err != nil {
		return err
	}
	defer s.Close()

	name, node, err := findClass(s.snap.Tree, args[0])
	if err != nil {
		return err
	}

	class, err := dump.ReadClass(name, node)
	if err != nil {
		return err
	}
	if err := dump.Write(output, class, lookupIndent); err != nil {
		return err
	}

	return printFunctions(node)
}

func findClass(tree *rtti.Tree, query string) (string, *rtti.HashNode, error) {
	if !strings.HasPrefix(query, "hash:") {
		node, ok := tree.Get(query)
		if !ok {
			return "", nil, fmt.Errorf("class not found: %s", query)
		}
		return query, node, nil
	}

	want, err := strconv.ParseUint(strings.TrimPrefix(query, "hash:"), 0, 32)
	if err != nil {
		return "", nil, fmt.Errorf("invalid hash: %s", query)
	}
	for name, node := range tree.All() {
		typ, err := node.Type()
		if err != nil {
			return "", nil, err
		}
		hash, err := typ.Hash()
		if err != nil {
			return "", nil, err
		}
		if uint64(hash) == want {
			return name, node, nil
		}
	}
	return "", nil, fmt.Errorf("no class with hash 0x%08X", want)
}

func printFunctions(node *rtti.HashNode) error {
	typ, err := node.Type()
	if err != nil {
		return err
	}
	list, err := typ.PropertyList()
	if err != nil || list == nil {
		return err
	}
	funcs, err := list.Functions()
	if err != nil {
		return err
	}
	if len(funcs) == 0 {
		return nil
	}

	fmt.Fprintf(output, "\nFunctions:\n")
	for _, fn := range funcs {
		name, err := fn.Name()
		if err != nil {
			return err
		}
		target := "-"
		details, err := fn.Details()
		if err != nil {
			return err
		}
		if details != nil {
			called, err := details.CalledFunction()
			if err != nil {
				return err
			}
			target = fmt.Sprintf("0x%X", called)
		}
		fmt.Fprintf(output, "  %-40s %s\n", name, target)
	}
	return nil
}
