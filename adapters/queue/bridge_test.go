package queue

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/janiluuk/defora/adapters/mediator"
	"github.com/janiluuk/defora/usecase"
)

func newTestBridge() (*Bridge, *mediator.MockMediator) {
	mock := mediator.NewMockMediator()
	control := usecase.NewControlService(mock, zap.NewNop())
	bridge := NewBridge(BridgeConfig{URL: "amqp://localhost", Queue: "controls"}, control, zap.NewNop())
	return bridge, mock
}

func TestHandleMessageLiveParam(t *testing.T) {
	bridge, mock := newTestBridge()

	summary := bridge.HandleMessage(context.Background(),
		[]byte(`{"controlType":"liveParam","payload":{"strength":0.6}}`))

	if !mock.HasWrite("should_use_deforumation_strength", 1) {
		t.Errorf("activation flag not forwarded: %v", mock.Writes)
	}
	if !mock.HasWrite("strength", 0.6) {
		t.Errorf("value not forwarded: %v", mock.Writes)
	}
	if !strings.Contains(summary, "strength") {
		t.Errorf("summary %q does not list strength", summary)
	}
}

func TestHandleMessageInvalidJSON(t *testing.T) {
	bridge, mock := newTestBridge()

	summary := bridge.HandleMessage(context.Background(), []byte("{nope"))

	if !strings.HasPrefix(summary, "invalid json") {
		t.Errorf("summary = %q, want invalid json report", summary)
	}
	if len(mock.Writes) != 0 {
		t.Errorf("malformed message reached the mediator: %v", mock.Writes)
	}
}

func TestHandleMessagePayloadNotObject(t *testing.T) {
	bridge, mock := newTestBridge()

	summary := bridge.HandleMessage(context.Background(),
		[]byte(`{"controlType":"liveParam","payload":[1,2,3]}`))

	if !strings.HasPrefix(summary, "invalid json") {
		t.Errorf("summary = %q, want invalid json report", summary)
	}
	if len(mock.Writes) != 0 {
		t.Errorf("bad payload reached the mediator: %v", mock.Writes)
	}
}

func TestHandleMessageUnknownType(t *testing.T) {
	bridge, mock := newTestBridge()

	summary := bridge.HandleMessage(context.Background(),
		[]byte(`{"controlType":"somethingNew","payload":{"x":1}}`))

	if summary != "forwarded: none" {
		t.Errorf("summary = %q, want forwarded: none", summary)
	}
	if len(mock.Writes) != 0 {
		t.Errorf("unknown type reached the mediator: %v", mock.Writes)
	}
}
