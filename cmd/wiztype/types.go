package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	typesFilter string
	typesLimit  int
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered classes",
	Long: `List the classes of the type registry in discovery order.

Use --filter to show only names containing a substring.`,
	Args: cobra.NoArgs,
	RunE: runTypes,
}

func init() {
	typesCmd.Flags().StringVarP(&typesFilter, "filter", "f", "", "show only names containing this substring (case insensitive)")
	typesCmd.Flags().IntVarP(&typesLimit, "limit", "n", 0, "limit number of classes shown (0 = unlimited)")
}

func runTypes(cmd *cobra.Command, args []string) error {
	s, err := attach()
	if err != nil {
		return err
	}
	defer s.Close()

	filter := strings.ToLower(typesFilter)

	fmt.Fprintf(output, "%-10s %-8s %-6s %s\n", "HASH", "SIZE", "PROPS", "NAME")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))

	count := 0
	for name, node := range s.snap.Tree.All() {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}

		typ, err := node.Type()
		if err != nil {
			return err
		}
		hash, err := typ.Hash()
		if err != nil {
			return err
		}
		size, err := typ.Size()
		if err != nil {
			return err
		}

		props := "-"
		list, err := typ.PropertyList()
		if err != nil {
			return err
		}
		if list != nil {
			p, err := list.Properties()
			if err != nil {
				return err
			}
			props = fmt.Sprintf("%d", len(p))
		}

		fmt.Fprintf(output, "0x%08X %-8d %-6s %s\n", hash, size, props, name)
		count++
		if typesLimit > 0 && count >= typesLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d classes\n", count)
	return nil
}
