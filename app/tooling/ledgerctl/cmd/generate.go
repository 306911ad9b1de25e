package cmd

import (
	"github.com/ardanlabs/powchain/foundation/identity"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var keyPath string

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key file for a node to be credited under",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := identity.GenerateKeyFile(keyPath)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("key written to %s", keyPath)
		pterm.Info.Printfln("node id: %s", address)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&keyPath, "key", "k", "node.ecdsa", "Path to write the private key.")
}
