package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, _ := pterm.DefaultSpinner.Start("Mining")

		resp, err := newClient().Mine(cmd.Context())
		if err != nil {
			spinner.Fail(err.Error())
			return err
		}

		spinner.Success(resp.Message)

		pterm.DefaultSection.Printfln("Block %d", resp.Index)
		pterm.Info.Printfln("puzzle solution: %d", resp.PuzzleSolution)
		pterm.Info.Printfln("previous digest: %s", resp.PreviousDigest)

		data := pterm.TableData{{"Sender", "Recipient", "Payload"}}
		for _, tx := range resp.Transactions {
			data = append(data, []string{tx.Sender, tx.Recipient, tx.Payload})
		}

		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
