package main

import (
	"github.com/spf13/cobra"

	"github.com/skdltmxn/wiztype/dump"
)

var schemaVersion int

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a dump version",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

func init() {
	schemaCmd.Flags().IntVarP(&schemaVersion, "version", "v", dump.Latest, "output version (1 or 2)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	s, err := dump.Schema(schemaVersion)
	if err != nil {
		return err
	}
	return dump.Write(output, s, 2)
}
