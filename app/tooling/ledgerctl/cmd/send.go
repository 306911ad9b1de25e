package cmd

import (
	"github.com/ardanlabs/powchain/app/services/node/handlers/v1/public"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	payload   string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		nt := public.NewTransaction{
			Sender:    sender,
			Recipient: recipient,
			Payload:   payload,
		}

		resp, err := newClient().SubmitTransaction(cmd.Context(), nt)
		if err != nil {
			return err
		}

		pterm.Success.Println(resp.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the transaction.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Recipient of the transaction.")
	sendCmd.Flags().StringVarP(&payload, "payload", "p", "", "Payload to record.")
	sendCmd.MarkFlagRequired("sender")
	sendCmd.MarkFlagRequired("recipient")
	sendCmd.MarkFlagRequired("payload")
}
