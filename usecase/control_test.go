package usecase

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/janiluuk/defora/adapters/mediator"
)

func TestApplyLiveParamWritesFlagAndValue(t *testing.T) {
	mock := mediator.NewMockMediator()
	service := NewControlService(mock, zap.NewNop())

	report := service.Apply(context.Background(), "liveParam", map[string]interface{}{"strength": 0.6})

	if !mock.HasWrite("should_use_deforumation_strength", 1) {
		t.Errorf("activation flag not written: %v", mock.Writes)
	}
	if !mock.HasWrite("strength", 0.6) {
		t.Errorf("value not written: %v", mock.Writes)
	}
	if !strings.Contains(report.Summary(), "strength") {
		t.Errorf("summary %q does not list strength", report.Summary())
	}
}

func TestApplyTransportResume(t *testing.T) {
	mock := mediator.NewMockMediator()
	service := NewControlService(mock, zap.NewNop())

	service.Apply(context.Background(), "transport", map[string]interface{}{
		"action":      "resume",
		"start_frame": 12.0,
	})

	if !mock.HasWrite("start_frame", 12) {
		t.Errorf("missing start_frame write: %v", mock.Writes)
	}
	if !mock.HasWrite("should_resume", 1) {
		t.Errorf("missing should_resume write: %v", mock.Writes)
	}
	if len(mock.Writes) != 2 {
		t.Errorf("got %d writes, want exactly 2: %v", len(mock.Writes), mock.Writes)
	}
}

func TestApplyUnknownTypeNoWrites(t *testing.T) {
	mock := mediator.NewMockMediator()
	service := NewControlService(mock, zap.NewNop())

	report := service.Apply(context.Background(), "newFancyControl", map[string]interface{}{"x": 1})

	if len(mock.Writes) != 0 {
		t.Errorf("unknown type wrote to mediator: %v", mock.Writes)
	}
	if report.Detail != "unknown:newFancyControl" {
		t.Errorf("detail = %q", report.Detail)
	}
	if report.Summary() != "forwarded: none" {
		t.Errorf("summary = %q", report.Summary())
	}
}

func TestApplyPartialFailure(t *testing.T) {
	mock := mediator.NewMockMediator()
	mock.FailParams["cfg"] = true
	service := NewControlService(mock, zap.NewNop())

	report := service.Apply(context.Background(), "liveParam", map[string]interface{}{
		"cfg":      7.5,
		"strength": 0.6,
	})

	// The failed cfg write must not stop the strength pair.
	if !mock.HasWrite("strength", 0.6) || !mock.HasWrite("should_use_deforumation_strength", 1) {
		t.Errorf("later writes aborted after failure: %v", mock.Writes)
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0] != "cfg" {
		t.Errorf("Failed() = %v, want [cfg]", failed)
	}
	for _, param := range report.Written() {
		if param == "cfg" {
			t.Errorf("failed param listed as written: %v", report.Written())
		}
	}
	if len(report.Results) != 4 {
		t.Errorf("report has %d results, want all 4 attempts", len(report.Results))
	}
}
