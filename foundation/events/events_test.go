package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents(t *testing.T) {
	evts := events.New()

	a := evts.Acquire("a")
	b := evts.Acquire("b")
	assert.Equal(t, 2, evts.Len())

	evts.Send("block sealed")
	assert.Equal(t, "block sealed", <-a)
	assert.Equal(t, "block sealed", <-b)

	require.NoError(t, evts.Release("a"))
	_, open := <-a
	assert.False(t, open)
	assert.Error(t, evts.Release("a"))

	evts.Shutdown()
	_, open = <-b
	assert.False(t, open)
	assert.Equal(t, 0, evts.Len())
}

func TestSendDoesNotBlock(t *testing.T) {
	evts := events.New()
	ch := evts.Acquire("slow")

	for range 1000 {
		evts.Send("x")
	}

	assert.Equal(t, 100, len(ch))
}
