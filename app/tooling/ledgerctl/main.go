package main

import "github.com/ardanlabs/powchain/app/tooling/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
