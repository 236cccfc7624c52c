package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/wiztype/remote"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display registry location and statistics",
	Long:  `Display where the type registry was found in the target and how many nodes and classes it holds.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := attach()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(output, "Process: %s\n", s.cfg.Process)
	if live, ok := s.proc.(*remote.LiveProcess); ok {
		fmt.Fprintf(output, "PID: %d\n", live.Pid())
	}
	fmt.Fprintf(output, "Pointer Size: %d\n", remote.PointerSize(s.proc))

	loc := s.snap.Location
	fmt.Fprintf(output, "Signature Match: 0x%X\n", loc.Match)
	fmt.Fprintf(output, "Registry Accessor: 0x%X\n", loc.Call)
	fmt.Fprintf(output, "Registry Slot: 0x%X\n", loc.Slot)
	fmt.Fprintf(output, "Root Node: 0x%X\n", loc.Root)

	leaves, err := s.snap.Leaves()
	if err != nil {
		return fmt.Errorf("failed to count leaves: %w", err)
	}
	fmt.Fprintf(output, "Nodes: %d (%d internal, %d leaf)\n", len(s.snap.Nodes), len(s.snap.Nodes)-leaves, leaves)
	fmt.Fprintf(output, "Payload Nodes: %s\n", s.cfg.Options.Payload)
	fmt.Fprintf(output, "Classes: %d\n", s.snap.Tree.Len())
	return nil
}
