package validate_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type newTx struct {
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
	Payload   string `json:"payload" validate:"required"`
}

func TestCheck(t *testing.T) {
	require.NoError(t, validate.Check(newTx{Sender: "a", Recipient: "b", Payload: "1"}))

	err := validate.Check(newTx{Sender: "a"})
	require.Error(t, err)
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	assert.Len(t, fields, 2)
	assert.Contains(t, fields, "recipient")
	assert.Contains(t, fields, "payload")
	assert.Equal(t, "recipient is a required field", fields["recipient"])
}
