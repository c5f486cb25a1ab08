package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageEnvelope(t *testing.T) {
	msg, err := NewMessage(MessageTypeAction, ActionData{
		TableID: "t1",
		Action:  "bet",
		Amount:  40,
	})
	require.NoError(t, err)

	assert.Equal(t, MessageTypeAction, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	var action ActionData
	require.NoError(t, json.Unmarshal(msg.Data, &action))
	assert.Equal(t, "t1", action.TableID)
	assert.Equal(t, "bet", action.Action)
	assert.Equal(t, 40, action.Amount)
}

func TestMessageWireFormat(t *testing.T) {
	msg, err := NewMessage(MessageTypeTableMessage, TableMessageData{
		TableID: "t1",
		Handle:  "h1",
		Text:    "pot 30",
		Edit:    true,
	})
	require.NoError(t, err)

	wire, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(wire, &decoded))
	assert.Equal(t, MessageTypeTableMessage, decoded.Type)

	var data TableMessageData
	require.NoError(t, json.Unmarshal(decoded.Data, &data))
	assert.Equal(t, "h1", data.Handle)
	assert.True(t, data.Edit)
	assert.False(t, data.Delete)
}
