package table

// Messenger delivers rendered table state to wherever the session is being
// watched. The table treats it as a black box: it decides when to send,
// update or delete, never how the content is displayed. Handles identify a
// delivered message for later edits.
type Messenger interface {
	SendToTable(tableID, text string) (handle string, err error)
	UpdateMessage(tableID, handle, text string) error
	DeleteMessage(tableID, handle string) error
	SendPrivate(tableID, playerID, text string) (handle string, err error)
}
