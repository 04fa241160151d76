package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", false)
	assert.Error(t, err)

	l, err := New("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestTemporalLoggerForwardsKeyvals(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tl := NewTemporalLogger(zap.New(core))

	tl.Info("Order created", "order_id", "o-1")
	tl.With("workflow", "PlaceOrderWorkflow").Warn("retrying", "attempt", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Order created", entries[0].Message)
	assert.Equal(t, "o-1", entries[0].ContextMap()["order_id"])
	assert.Equal(t, "PlaceOrderWorkflow", entries[1].ContextMap()["workflow"])
	assert.Equal(t, int64(2), entries[1].ContextMap()["attempt"])
}
