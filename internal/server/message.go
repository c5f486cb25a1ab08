package server

import (
	"encoding/json"
	"time"
)

// Message is the base WebSocket message envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server payloads

type HelloData struct {
	PlayerName string `json:"playerName"`
}

type JoinTableData struct {
	TableID string `json:"tableId"`
}

type LeaveTableData struct {
	TableID string `json:"tableId"`
}

type StartHandData struct {
	TableID string `json:"tableId"`
}

type AddBotData struct {
	TableID  string `json:"tableId"`
	Strategy string `json:"strategy,omitempty"`
}

type ActionData struct {
	TableID string `json:"tableId"`
	Action  string `json:"action"`
	Amount  int    `json:"amount,omitempty"`
}

type TableInfoData struct {
	TableID string `json:"tableId"`
}

// Server → Client payloads

type HelloAckData struct {
	PlayerName string `json:"playerName"`
}

type TableCreatedData struct {
	TableID string `json:"tableId"`
}

type TableJoinedData struct {
	TableID string `json:"tableId"`
	Seat    int    `json:"seat"`
	Ready   int    `json:"ready"`
	Balance int    `json:"balance"`
	Stack   int    `json:"stack"`
}

type TableLeftData struct {
	TableID string `json:"tableId"`
	Ready   int    `json:"ready"`
}

type HandStartData struct {
	TableID   string   `json:"tableId"`
	HoleCards []string `json:"holeCards"`
}

type BotAddedData struct {
	TableID  string `json:"tableId"`
	Strategy string `json:"strategy"`
}

// TableMessageData carries a shared table view or announcement. Edit and
// Delete reference an earlier handle instead of creating a new message.
type TableMessageData struct {
	TableID string `json:"tableId"`
	Handle  string `json:"handle"`
	Text    string `json:"text,omitempty"`
	Edit    bool   `json:"edit,omitempty"`
	Delete  bool   `json:"delete,omitempty"`
}

type PrivateMessageData struct {
	TableID string `json:"tableId"`
	Handle  string `json:"handle"`
	Text    string `json:"text"`
}

type TableInfoResponseData struct {
	TableID string `json:"tableId"`
	Info    string `json:"info"`
}

type TableClosedData struct {
	TableID string `json:"tableId"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
