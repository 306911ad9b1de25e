// Package cmd contains the ledgerctl commands for driving a node's public API.
package cmd

import (
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	nodeURL  string
	timeout  time.Duration
	retryMax int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Drive a ledger node from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Maximum time for a single request.")
	rootCmd.PersistentFlags().IntVar(&retryMax, "retries", 2, "Number of retries for failed requests.")
}

func newClient() *Client {
	return NewClient(nodeURL, WithTimeout(timeout), WithRetryMax(retryMax))
}
