package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/janiluuk/defora/domain"
	"github.com/janiluuk/defora/usecase"
)

// reconnectDelay spaces out reconnect attempts after a broker failure.
const reconnectDelay = 2 * time.Second

// BridgeConfig holds the queue endpoint for the control bridge.
// Required fields:
// - URL: AMQP broker URL (e.g. "amqp://localhost")
// - Queue: queue name carrying control messages (e.g. "controls")
type BridgeConfig struct {
	URL   string
	Queue string
}

// Bridge consumes JSON control messages from a queue and feeds them through
// the control mapping into the mediator. Delivery is at-most-once: messages
// are auto-acked and a failed write is logged, not requeued.
type Bridge struct {
	config  BridgeConfig
	control *usecase.ControlService
	logger  *zap.Logger
}

// NewBridge creates a control bridge.
func NewBridge(config BridgeConfig, control *usecase.ControlService, logger *zap.Logger) *Bridge {
	return &Bridge{config: config, control: control, logger: logger}
}

// Run consumes the queue until the context is cancelled, reconnecting with a
// fixed backoff when the broker connection drops.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		err := b.consume(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.logger.Error("bridge connection lost", zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (b *Bridge) consume(ctx context.Context) error {
	conn, err := amqp.Dial(b.config.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	channel, err := conn.Channel()
	if err != nil {
		return err
	}
	defer channel.Close()

	if _, err := channel.QueueDeclare(b.config.Queue, false, false, false, false, nil); err != nil {
		return err
	}
	deliveries, err := channel.Consume(b.config.Queue, "", true, false, false, false, nil)
	if err != nil {
		return err
	}

	b.logger.Info("bridge listening",
		zap.String("queue", b.config.Queue),
		zap.String("url", b.config.URL))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			summary := b.HandleMessage(ctx, delivery.Body)
			b.logger.Info("control message handled",
				zap.String("delivery_id", uuid.NewString()),
				zap.String("result", summary))
		}
	}
}

// HandleMessage decodes one queue delivery and applies it via the control
// mapping. Malformed bodies are reported in the returned summary and never
// abort the consumer.
func (b *Bridge) HandleMessage(ctx context.Context, body []byte) string {
	var msg domain.ControlMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "invalid json: " + err.Error()
	}
	report := b.control.Apply(ctx, msg.ControlType, msg.Payload)
	return report.Summary()
}
