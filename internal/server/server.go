package server

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// ErrServerStopped is returned when delivering through a stopped server.
var ErrServerStopped = errors.New("server stopped")

// Server is the WebSocket hub. It owns the connection set; table traffic is
// routed through BroadcastToTable and SendToPlayer.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	service     *TableService
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server.
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetTableService wires the table service handling client commands.
func (s *Server) SetTableService(service *TableService) {
	s.service = service
	service.srv = s
}

// Start runs the server until Stop is called or the listener fails.
func (s *Server) Start() error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down and closes all connections.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

// Stopped reports whether the server has been shut down.
func (s *Server) Stopped() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// run handles connection lifecycle.
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				// Drop the player's seat if they were in a table.
				playerID := conn.GetPlayer()
				tableID := conn.GetTable()
				if playerID != "" && tableID != "" && s.service != nil {
					s.logger.Info("Cleaning up disconnected player", "player", playerID, "table", tableID)
					s.service.LeaveTable(tableID, playerID)
				}
				_ = conn.Close()
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s)
	s.register <- conn
	conn.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// BroadcastToTable sends a message to every connection watching a table.
func (s *Server) BroadcastToTable(tableID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetTable() != tableID {
			continue
		}
		if err := conn.SendMessage(msg); err != nil && !errors.Is(err, ErrConnectionClosed) {
			s.logger.Warn("Failed to broadcast to connection", "error", err)
		}
	}
}

// SendToPlayer routes a message to the named player's connection, if any.
// Players without a live connection (bots, the recently disconnected) simply
// miss the message.
func (s *Server) SendToPlayer(playerID string, msg *Message) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() != playerID {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Warn("Failed to send to player", "player", playerID, "error", err)
			return false
		}
		return true
	}
	return false
}
