package mediator

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/domain"
)

const (
	// DefaultTimeout bounds one whole connect+send+receive exchange.
	DefaultTimeout = 10 * time.Second

	// ModeRead and ModeWrite select the mediator operation in an envelope.
	ModeRead  = 0
	ModeWrite = 1
)

// Envelope is the wire triple [mode, param, value]. Reads send value 0 as a
// placeholder. Encoded as a msgpack array, matching the mediator's framing.
type Envelope struct {
	_msgpack struct{} `msgpack:",as_array"`

	Mode  int
	Param string
	Value interface{}
}

// ClientConfig holds connection parameters for the mediator websocket.
// Required fields:
// - Host, Port: mediator endpoint
// Optional fields with defaults:
// - Timeout: per-exchange deadline (default: 10s)
type ClientConfig struct {
	Host    string
	Port    string
	Timeout time.Duration
}

// Client performs one request/response exchange per call. Every call dials a
// fresh connection, sends one envelope, reads one reply and closes, so a
// failed call can never corrupt shared connection state.
type Client struct {
	endpoint string
	url      string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewClient creates a mediator protocol client.
func NewClient(config ClientConfig, logger *zap.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	endpoint := config.Host + ":" + config.Port
	return &Client{
		endpoint: endpoint,
		url:      "ws://" + endpoint,
		timeout:  timeout,
		logger:   logger,
	}
}

// Read fetches one parameter value from the mediator.
func (c *Client) Read(ctx context.Context, param string) (domain.Reply, error) {
	return c.exchange(ctx, Envelope{Mode: ModeRead, Param: param, Value: 0})
}

// Write stores one parameter value on the mediator and returns its ack.
func (c *Client) Write(ctx context.Context, param string, value interface{}) (domain.Reply, error) {
	return c.exchange(ctx, Envelope{Mode: ModeWrite, Param: param, Value: value})
}

func (c *Client) exchange(ctx context.Context, env Envelope) (domain.Reply, error) {
	payload, err := msgpack.Marshal(env)
	if err != nil {
		return domain.Reply{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	dialer := websocket.Dialer{HandshakeTimeout: c.timeout}
	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return domain.Reply{}, domain.NewConnectionError(c.endpoint, "dial", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return domain.Reply{}, domain.NewConnectionError(c.endpoint, "send", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, payload); err != nil {
		return domain.Reply{}, domain.NewConnectionError(c.endpoint, "send", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return domain.Reply{}, domain.NewConnectionError(c.endpoint, "recv", err)
	}
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return domain.Reply{}, domain.NewConnectionError(c.endpoint, "recv", err)
	}
	reply := DecodeReply(raw)
	if !reply.Decoded() {
		c.logger.Warn("mediator reply did not decode, keeping raw payload",
			zap.String("param", env.Param),
			zap.Int("bytes", len(raw)))
	}
	return reply, nil
}

// DecodeReply interprets one mediator response frame. A single-element array
// unwraps to its element; anything undecodable is kept raw.
func DecodeReply(raw []byte) domain.Reply {
	var value interface{}
	if err := msgpack.Unmarshal(raw, &value); err != nil {
		return domain.Reply{Raw: raw}
	}
	if list, ok := value.([]interface{}); ok && len(list) == 1 {
		return domain.Reply{Value: list[0]}
	}
	return domain.Reply{Value: value}
}
