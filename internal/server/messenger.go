package server

import (
	"github.com/google/uuid"

	"github.com/lox/tabled/internal/table"
)

// HubMessenger delivers table views and announcements over the WebSocket hub.
// It satisfies table.Messenger: every send mints a handle, and edits/deletes
// rebroadcast referencing it so clients can reconcile their display. A
// stopped hub returns a DeliveryError, which the table treats as fatal for
// the running hand.
type HubMessenger struct {
	server *Server
}

// NewHubMessenger creates a messenger backed by the server's hub.
func NewHubMessenger(server *Server) *HubMessenger {
	return &HubMessenger{server: server}
}

// SendToTable broadcasts a new table message and returns its handle.
func (m *HubMessenger) SendToTable(tableID, text string) (string, error) {
	if m.server.Stopped() {
		return "", &table.DeliveryError{Op: "send", Err: ErrServerStopped}
	}
	handle := uuid.NewString()
	msg, err := NewMessage(MessageTypeTableMessage, TableMessageData{
		TableID: tableID,
		Handle:  handle,
		Text:    text,
	})
	if err != nil {
		return "", &table.DeliveryError{Op: "send", Err: err}
	}
	m.server.BroadcastToTable(tableID, msg)
	return handle, nil
}

// UpdateMessage rebroadcasts new content for an existing handle.
func (m *HubMessenger) UpdateMessage(tableID, handle, text string) error {
	if m.server.Stopped() {
		return &table.DeliveryError{Op: "update", Err: ErrServerStopped}
	}
	msg, err := NewMessage(MessageTypeTableMessage, TableMessageData{
		TableID: tableID,
		Handle:  handle,
		Text:    text,
		Edit:    true,
	})
	if err != nil {
		return &table.DeliveryError{Op: "update", Err: err}
	}
	m.server.BroadcastToTable(tableID, msg)
	return nil
}

// DeleteMessage asks clients to drop the message with the given handle.
func (m *HubMessenger) DeleteMessage(tableID, handle string) error {
	if m.server.Stopped() {
		return &table.DeliveryError{Op: "delete", Err: ErrServerStopped}
	}
	msg, err := NewMessage(MessageTypeTableMessage, TableMessageData{
		TableID: tableID,
		Handle:  handle,
		Delete:  true,
	})
	if err != nil {
		return &table.DeliveryError{Op: "delete", Err: err}
	}
	m.server.BroadcastToTable(tableID, msg)
	return nil
}

// SendPrivate delivers text to a single player's connection. Offline
// recipients (bots included) miss the message without error.
func (m *HubMessenger) SendPrivate(tableID, playerID, text string) (string, error) {
	if m.server.Stopped() {
		return "", &table.DeliveryError{Op: "private", Err: ErrServerStopped}
	}
	handle := uuid.NewString()
	msg, err := NewMessage(MessageTypePrivateMessage, PrivateMessageData{
		TableID: tableID,
		Handle:  handle,
		Text:    text,
	})
	if err != nil {
		return "", &table.DeliveryError{Op: "private", Err: err}
	}
	m.server.SendToPlayer(playerID, msg)
	return handle, nil
}
