package public

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// NewTransaction is what a client submits to be recorded.
type NewTransaction struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Payload   string `json:"payload" validate:"required"`
}

func toTransaction(nt NewTransaction) ledger.Transaction {
	return ledger.Transaction{
		Sender:    nt.Sender,
		Recipient: nt.Recipient,
		Payload:   nt.Payload,
	}
}

// TransactionAccepted is returned when a transaction is added to the pool.
type TransactionAccepted struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

// BlockForged describes a block that was just mined.
type BlockForged struct {
	Message        string               `json:"message"`
	Index          uint64               `json:"index"`
	Transactions   []ledger.Transaction `json:"transactions"`
	PuzzleSolution uint64               `json:"puzzle_solution"`
	PreviousDigest ledger.Link          `json:"previous_digest"`
}

// Chain is the full chain of the node.
type Chain struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

// Pending is the set of transactions waiting to be mined.
type Pending struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Length       int                  `json:"length"`
}

// RegisterNodes is what a client submits to add peers.
type RegisterNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1,dive,required"`
}

// NodesRegistered is returned once the peers are added.
type NodesRegistered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"total_nodes"`
}

// Resolved reports the outcome of running consensus.
type Resolved struct {
	Message  string         `json:"message"`
	Replaced bool           `json:"replaced"`
	Chain    []ledger.Block `json:"chain"`
}
