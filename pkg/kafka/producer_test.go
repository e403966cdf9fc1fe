package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMarshalsValueAsJSON(t *testing.T) {
	msg, err := encode(Event{
		Key:   "history",
		Value: map[string]any{"query": "черный пёс", "returned": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("history"), msg.Key)
	assert.JSONEq(t, `{"query":"черный пёс","returned":2}`, string(msg.Value))
}

func TestEncodeRejectsUnmarshalableValue(t *testing.T) {
	_, err := encode(Event{Key: "bad", Value: make(chan int)})
	assert.Error(t, err)
}
