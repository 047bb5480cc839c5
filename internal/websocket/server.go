package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/adapters/mediator"
)

const (
	// Time allowed to write a reply to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The mediator protocol is deliberately unauthenticated; it is meant
		// for localhost and trusted networks only.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Server speaks the mediator triple protocol: each incoming frame is a
// msgpack [mode, param, value] envelope, answered with [value] for reads and
// a [param, value] echo for writes. It exists for demos and round-trip tests;
// no auth, persistence, or schema checks.
type Server struct {
	state  *State
	logger *zap.Logger
}

// NewServer creates a mediator server around an explicit state table.
func NewServer(state *State, logger *zap.Logger) *Server {
	return &Server{state: state, logger: logger}
}

// State exposes the parameter table for status endpoints.
func (s *Server) State() *State {
	return s.state
}

// Handle upgrades one connection and serves envelopes until the peer closes.
func (s *Server) Handle(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return err
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("connection closed", zap.Error(err))
			}
			return nil
		}
		reply := s.handleEnvelope(raw)
		if err := s.send(conn, reply); err != nil {
			s.logger.Warn("reply failed", zap.Error(err))
			return nil
		}
	}
}

// handleEnvelope applies one request frame to the state table and builds the
// reply payload.
func (s *Server) handleEnvelope(raw []byte) interface{} {
	var env mediator.Envelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		return []interface{}{"error", "expected triplet [rw,param,val]: " + err.Error()}
	}
	switch env.Mode {
	case mediator.ModeRead:
		return []interface{}{s.state.Read(env.Param)}
	case mediator.ModeWrite:
		s.state.Write(env.Param, env.Value)
		s.logger.Debug("param written",
			zap.String("param", env.Param),
			zap.Any("value", env.Value))
		return []interface{}{env.Param, env.Value}
	default:
		return []interface{}{"error", "unknown mode"}
	}
}

func (s *Server) send(conn *websocket.Conn, reply interface{}) error {
	payload, err := msgpack.Marshal(reply)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, payload)
}
