package server

// MessageType identifies a WebSocket message.
type MessageType string

const (
	// Client to server messages
	MessageTypeHello       MessageType = "hello"
	MessageTypeCreateTable MessageType = "create_table"
	MessageTypeJoinTable   MessageType = "join_table"
	MessageTypeLeaveTable  MessageType = "leave_table"
	MessageTypeStartHand   MessageType = "start_hand"
	MessageTypeAddBot      MessageType = "add_bot"
	MessageTypeAction      MessageType = "action"
	MessageTypeTableInfo   MessageType = "table_info"
	MessageTypeCloseTable  MessageType = "close_table"

	// Server to client messages
	MessageTypeHelloAck       MessageType = "hello_ack"
	MessageTypeTableCreated   MessageType = "table_created"
	MessageTypeTableJoined    MessageType = "table_joined"
	MessageTypeTableLeft      MessageType = "table_left"
	MessageTypeHandStart      MessageType = "hand_start"
	MessageTypeBotAdded       MessageType = "bot_added"
	MessageTypeTableMessage   MessageType = "table_message"
	MessageTypePrivateMessage MessageType = "private_message"
	MessageTypeTableInfoData  MessageType = "table_info_data"
	MessageTypeTableClosed    MessageType = "table_closed"
	MessageTypeError          MessageType = "error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
