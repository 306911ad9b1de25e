package cmd

import (
	"strconv"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// chainCmd represents the chain command
var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Show the node's chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Chain(cmd.Context())
		if err != nil {
			return err
		}

		pterm.Info.Printfln("length: %d", resp.Length)
		return renderBlocks(resp.Chain)
	},
}

func renderBlocks(blocks []ledger.Block) error {
	data := pterm.TableData{{"Index", "Created", "Solution", "Previous Digest", "Txs"}}
	for _, b := range blocks {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			time.Unix(int64(b.CreatedAt), 0).UTC().Format(time.RFC3339),
			strconv.FormatUint(b.PuzzleSolution, 10),
			b.PreviousDigest.String(),
			strconv.Itoa(len(b.Transactions)),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(chainCmd)
}
