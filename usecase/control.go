package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/janiluuk/defora/domain"
	"github.com/janiluuk/defora/domain/repositories"
)

// WriteResult is the outcome of one attempted parameter write.
type WriteResult struct {
	Param string
	Value interface{}
	Err   error
}

// ApplyReport aggregates the per-write outcomes of one control message.
// A control message can partially succeed; callers read the report instead of
// a single pass/fail.
type ApplyReport struct {
	Detail  string
	Results []WriteResult
}

// Written lists the parameters that were written successfully, in order.
func (r *ApplyReport) Written() []string {
	var written []string
	for _, res := range r.Results {
		if res.Err == nil {
			written = append(written, res.Param)
		}
	}
	return written
}

// Failed lists the parameters whose writes failed.
func (r *ApplyReport) Failed() []string {
	var failed []string
	for _, res := range r.Results {
		if res.Err != nil {
			failed = append(failed, res.Param)
		}
	}
	return failed
}

// Summary renders a short human-readable line of the forwarded keys.
func (r *ApplyReport) Summary() string {
	written := r.Written()
	if len(written) == 0 {
		return "forwarded: none"
	}
	return "forwarded: " + strings.Join(written, ", ")
}

// ControlService maps control messages to write plans and applies them to the
// mediator one write at a time.
type ControlService struct {
	mediator repositories.Mediator
	logger   *zap.Logger
}

// NewControlService creates a control service bound to one mediator.
func NewControlService(mediator repositories.Mediator, logger *zap.Logger) *ControlService {
	return &ControlService{mediator: mediator, logger: logger}
}

// Apply maps one control message and attempts every planned write. Each
// write is independent: a failure is recorded and the rest still run.
func (s *ControlService) Apply(ctx context.Context, controlType string, payload map[string]interface{}) *ApplyReport {
	result := domain.MapControl(controlType, payload)
	report := &ApplyReport{Detail: result.Detail}
	for _, w := range result.Writes {
		_, err := s.mediator.Write(ctx, w.Param, w.Value)
		if err != nil {
			s.logger.Warn("control write failed",
				zap.String("param", w.Param),
				zap.Error(err))
		}
		report.Results = append(report.Results, WriteResult{Param: w.Param, Value: w.Value, Err: err})
	}
	return report
}
