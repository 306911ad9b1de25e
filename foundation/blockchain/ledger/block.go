package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ardanlabs/powchain/foundation/blockchain/hasher"
)

// GenesisSentinel is how the genesis link is written on the wire. It is
// not the digest of any block.
const GenesisSentinel = hasher.ZeroDigest

// Transaction represents an entry recorded on the ledger. The core does not
// interpret any of the fields.
type Transaction struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Payload   string `json:"payload"`
}

// sanitize replaces any invalid UTF-8 in the fields so the transaction
// holds exactly what a digest or the wire encoding will see.
func (tx Transaction) sanitize() Transaction {
	return Transaction{
		Sender:    strings.ToValidUTF8(tx.Sender, "\uFFFD"),
		Recipient: strings.ToValidUTF8(tx.Recipient, "\uFFFD"),
		Payload:   strings.ToValidUTF8(tx.Payload, "\uFFFD"),
	}
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s->%s:%s", tx.Sender, tx.Recipient, tx.Payload)
}

// =============================================================================

// Link is the reference a block holds to its predecessor. The genesis block
// has no predecessor, so its link is tagged as genesis instead of carrying
// a digest.
type Link struct {
	genesis bool
	digest  string
}

// GenesisLink constructs the link used by the first block of a chain.
func GenesisLink() Link {
	return Link{genesis: true}
}

// LinkTo constructs a link to the block with the specified digest.
func LinkTo(digest string) Link {
	return Link{digest: digest}
}

// IsGenesis reports whether this is the genesis link.
func (l Link) IsGenesis() bool {
	return l.genesis
}

// Follows reports whether this link points at the specified block.
func (l Link) Follows(prev Block) bool {
	return !l.genesis && l.digest != "" && l.digest == prev.Digest()
}

// String returns the wire form of the link.
func (l Link) String() string {
	if l.genesis {
		return GenesisSentinel
	}
	return l.digest
}

// MarshalJSON implements the json.Marshaler interface.
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (l *Link) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("previous digest: %w", err)
	}

	switch s {
	case "":
		return errors.New("previous digest: empty value")
	case GenesisSentinel:
		*l = GenesisLink()
	default:
		*l = LinkTo(s)
	}

	return nil
}

// =============================================================================

// Block represents a group of transactions sealed with a puzzle solution and
// linked to the block before it.
type Block struct {
	Index          uint64        `json:"index"`
	CreatedAt      uint64        `json:"created_at"`
	Transactions   []Transaction `json:"transactions"`
	PuzzleSolution uint64        `json:"puzzle_solution"`
	PreviousDigest Link          `json:"previous_digest"`
}

// Digest returns the unique digest for the block. A block that cannot be
// hashed, such as one holding invalid UTF-8, gets the empty string which no
// link can follow.
func (b Block) Digest() string {
	digest, err := hasher.Digest(b)
	if err != nil {
		return ""
	}
	return digest
}
