package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XRPLF/wasmhost"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wasm engine version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := wasmhost.EngineVersion()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wazero %s\n", v)
		return nil
	},
}
