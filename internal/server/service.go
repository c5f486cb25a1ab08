package server

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lox/tabled/internal/bot"
	"github.com/lox/tabled/internal/table"
)

// TableService owns the live tables and translates client commands into
// table calls. Table errors are descriptive values; they go back to the
// caller as error messages and never take the table down.
type TableService struct {
	logger    *log.Logger
	tableLog  zerolog.Logger
	srv       *Server
	mu        sync.RWMutex
	tables    map[string]*table.Table
	ledger    table.Ledger
	msgr      table.Messenger
	newEngine table.EngineFactory
}

// NewTableService creates the service. tableLog is the structured logger
// handed to each table's core.
func NewTableService(logger *log.Logger, tableLog zerolog.Logger, ledger table.Ledger, msgr table.Messenger, newEngine table.EngineFactory) *TableService {
	return &TableService{
		logger:    logger.WithPrefix("tables"),
		tableLog:  tableLog,
		tables:    make(map[string]*table.Table),
		ledger:    ledger,
		msgr:      msgr,
		newEngine: newEngine,
	}
}

// CreateTable opens a new table owned by the given player.
func (ts *TableService) CreateTable(owner string, opts ...table.Option) *table.Table {
	opts = append([]table.Option{table.WithLogger(ts.tableLog)}, opts...)
	t := table.New(owner, ts.newEngine, ts.ledger, ts.msgr, opts...)

	ts.mu.Lock()
	ts.tables[t.ID()] = t
	ts.mu.Unlock()

	ts.logger.Info("Created table", "id", t.ID(), "owner", owner)
	return t
}

// GetTable retrieves a table by ID.
func (ts *TableService) GetTable(id string) (*table.Table, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	t, ok := ts.tables[id]
	return t, ok
}

// CloseTable destroys a table, forcing everyone out.
func (ts *TableService) CloseTable(id string) bool {
	ts.mu.Lock()
	t, ok := ts.tables[id]
	if ok {
		delete(ts.tables, id)
	}
	ts.mu.Unlock()

	if !ok {
		return false
	}
	t.Close()
	ts.logger.Info("Closed table", "id", id)
	return true
}

// CloseAll closes every table; used at shutdown. Each close waits for its
// table's clock goroutine, so they run concurrently.
func (ts *TableService) CloseAll() {
	ts.mu.Lock()
	tables := make([]*table.Table, 0, len(ts.tables))
	for _, t := range ts.tables {
		tables = append(tables, t)
	}
	ts.tables = make(map[string]*table.Table)
	ts.mu.Unlock()

	var g errgroup.Group
	for _, t := range tables {
		t := t
		g.Go(func() error {
			t.Close()
			return nil
		})
	}
	g.Wait()
}

// LeaveTable releases a player's seat; used for disconnect cleanup.
func (ts *TableService) LeaveTable(tableID, playerID string) {
	if t, ok := ts.GetTable(tableID); ok {
		if _, err := t.Leave(playerID); err != nil && !errors.Is(err, table.ErrNotSeated) {
			ts.logger.Warn("Failed to release seat", "table", tableID, "player", playerID, "error", err)
		}
	}
}

// HandleMessage dispatches one client command.
func (ts *TableService) HandleMessage(conn *Connection, msg *Message) {
	if msg.Type != MessageTypeHello && conn.GetPlayer() == "" {
		conn.sendError("not_identified", "send hello first")
		return
	}

	switch msg.Type {
	case MessageTypeHello:
		ts.handleHello(conn, msg.Data)
	case MessageTypeCreateTable:
		ts.handleCreateTable(conn)
	case MessageTypeJoinTable:
		ts.handleJoinTable(conn, msg.Data)
	case MessageTypeLeaveTable:
		ts.handleLeaveTable(conn, msg.Data)
	case MessageTypeStartHand:
		ts.handleStartHand(conn, msg.Data)
	case MessageTypeAddBot:
		ts.handleAddBot(conn, msg.Data)
	case MessageTypeAction:
		ts.handleAction(conn, msg.Data)
	case MessageTypeTableInfo:
		ts.handleTableInfo(conn, msg.Data)
	case MessageTypeCloseTable:
		ts.handleCloseTable(conn, msg.Data)
	default:
		conn.sendError("unknown_type", "unknown message type "+msg.Type.String())
	}
}

func (ts *TableService) handleHello(conn *Connection, data json.RawMessage) {
	var hello HelloData
	if err := json.Unmarshal(data, &hello); err != nil || hello.PlayerName == "" {
		conn.sendError("bad_hello", "hello requires a player name")
		return
	}
	conn.SetPlayer(hello.PlayerName)
	ts.reply(conn, MessageTypeHelloAck, HelloAckData{PlayerName: hello.PlayerName})
}

func (ts *TableService) handleCreateTable(conn *Connection) {
	t := ts.CreateTable(conn.GetPlayer())
	ts.reply(conn, MessageTypeTableCreated, TableCreatedData{TableID: t.ID()})
}

func (ts *TableService) handleJoinTable(conn *Connection, data json.RawMessage) {
	var join JoinTableData
	if err := json.Unmarshal(data, &join); err != nil {
		conn.sendError("bad_request", "malformed join_table")
		return
	}
	t, ok := ts.GetTable(join.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+join.TableID)
		return
	}

	player := conn.GetPlayer()
	seat, ready, balance, stack, err := t.Join(player, player, false)
	if err != nil {
		conn.sendError("join_failed", err.Error())
		return
	}
	conn.SetTable(t.ID())
	ts.reply(conn, MessageTypeTableJoined, TableJoinedData{
		TableID: t.ID(),
		Seat:    seat,
		Ready:   ready,
		Balance: balance,
		Stack:   stack,
	})
}

func (ts *TableService) handleLeaveTable(conn *Connection, data json.RawMessage) {
	var leave LeaveTableData
	if err := json.Unmarshal(data, &leave); err != nil {
		conn.sendError("bad_request", "malformed leave_table")
		return
	}
	t, ok := ts.GetTable(leave.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+leave.TableID)
		return
	}

	ready, err := t.Leave(conn.GetPlayer())
	if err != nil {
		conn.sendError("leave_failed", err.Error())
		return
	}
	conn.SetTable("")
	ts.reply(conn, MessageTypeTableLeft, TableLeftData{TableID: t.ID(), Ready: ready})
}

func (ts *TableService) handleStartHand(conn *Connection, data json.RawMessage) {
	var start StartHandData
	if err := json.Unmarshal(data, &start); err != nil {
		conn.sendError("bad_request", "malformed start_hand")
		return
	}
	t, ok := ts.GetTable(start.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+start.TableID)
		return
	}

	hands, err := t.Start()
	if err != nil {
		conn.sendError("start_failed", err.Error())
		return
	}

	// Hole cards go to each player privately.
	for _, hand := range hands {
		msg, err := NewMessage(MessageTypeHandStart, HandStartData{
			TableID:   t.ID(),
			HoleCards: hand.Cards,
		})
		if err != nil {
			ts.logger.Error("Failed to build hand_start", "error", err)
			continue
		}
		if ts.srv != nil {
			ts.srv.SendToPlayer(hand.ID, msg)
		}
	}
}

func (ts *TableService) handleAddBot(conn *Connection, data json.RawMessage) {
	var add AddBotData
	if err := json.Unmarshal(data, &add); err != nil {
		conn.sendError("bad_request", "malformed add_bot")
		return
	}
	t, ok := ts.GetTable(add.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+add.TableID)
		return
	}

	strategy, err := bot.New(add.Strategy, time.Now().UnixNano())
	if err != nil {
		conn.sendError("bad_strategy", err.Error())
		return
	}
	if err := t.AddBot(strategy); err != nil {
		conn.sendError("add_bot_failed", err.Error())
		return
	}
	ts.reply(conn, MessageTypeBotAdded, BotAddedData{TableID: t.ID(), Strategy: add.Strategy})
}

func (ts *TableService) handleAction(conn *Connection, data json.RawMessage) {
	var action ActionData
	if err := json.Unmarshal(data, &action); err != nil {
		conn.sendError("bad_request", "malformed action")
		return
	}
	t, ok := ts.GetTable(action.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+action.TableID)
		return
	}

	player := conn.GetPlayer()
	var err error
	switch action.Action {
	case "check":
		err = t.Check(player)
	case "check_or_call":
		err = t.CheckOrCall(player)
	case "call":
		err = t.Call(player)
	case "fold":
		err = t.Fold(player)
	case "bet":
		err = t.Bet(player, action.Amount)
	case "allin":
		err = t.AllIn(player)
	default:
		conn.sendError("bad_action", "unknown action "+action.Action)
		return
	}
	if err != nil {
		conn.sendError("action_failed", err.Error())
	}
	// Success is silent: the next clock tick surfaces the state change.
}

func (ts *TableService) handleTableInfo(conn *Connection, data json.RawMessage) {
	var req TableInfoData
	if err := json.Unmarshal(data, &req); err != nil {
		conn.sendError("bad_request", "malformed table_info")
		return
	}
	t, ok := ts.GetTable(req.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+req.TableID)
		return
	}
	ts.reply(conn, MessageTypeTableInfoData, TableInfoResponseData{TableID: t.ID(), Info: t.GameInfo()})
}

func (ts *TableService) handleCloseTable(conn *Connection, data json.RawMessage) {
	var req TableInfoData
	if err := json.Unmarshal(data, &req); err != nil {
		conn.sendError("bad_request", "malformed close_table")
		return
	}
	t, ok := ts.GetTable(req.TableID)
	if !ok {
		conn.sendError("no_table", "unknown table "+req.TableID)
		return
	}
	if t.Owner() != conn.GetPlayer() {
		conn.sendError("not_owner", "only the table owner can close it")
		return
	}
	ts.CloseTable(t.ID())
	ts.reply(conn, MessageTypeTableClosed, TableClosedData{TableID: t.ID()})
}

func (ts *TableService) reply(conn *Connection, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		ts.logger.Error("Failed to build reply", "type", mt, "error", err)
		return
	}
	if err := conn.SendMessage(msg); err != nil && !errors.Is(err, ErrConnectionClosed) {
		ts.logger.Warn("Failed to send reply", "type", mt, "error", err)
	}
}
