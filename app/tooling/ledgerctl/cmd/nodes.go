package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register <address>...",
	Short: "Register peer nodes with the node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().RegisterNodes(cmd.Context(), args)
		if err != nil {
			return err
		}

		pterm.Success.Println(resp.Message)

		items := make([]pterm.BulletListItem, len(resp.TotalNodes))
		for i, node := range resp.TotalNodes {
			items[i] = pterm.BulletListItem{Level: 0, Text: node}
		}

		return pterm.DefaultBulletList.WithItems(items).Render()
	},
}

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus against the node's peers",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Resolve(cmd.Context())
		if err != nil {
			return err
		}

		if resp.Replaced {
			pterm.Warning.Println(resp.Message)
		} else {
			pterm.Success.Println(resp.Message)
		}

		return renderBlocks(resp.Chain)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(resolveCmd)
}
