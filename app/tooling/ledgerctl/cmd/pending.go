package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// pendingCmd represents the pending command
var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Show the transactions waiting to be mined",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Pending(cmd.Context())
		if err != nil {
			return err
		}

		if resp.Length == 0 {
			pterm.Info.Println("no pending transactions")
			return nil
		}

		data := pterm.TableData{{"Sender", "Recipient", "Payload"}}
		for _, tx := range resp.Transactions {
			data = append(data, []string{tx.Sender, tx.Recipient, tx.Payload})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
