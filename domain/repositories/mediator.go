package repositories

import (
	"context"

	"github.com/janiluuk/defora/domain"
)

// Mediator is synchronous per-call access to the remote engine's parameter
// table. Each call is self-contained; implementations hold no session state.
type Mediator interface {
	Read(ctx context.Context, param string) (domain.Reply, error)
	Write(ctx context.Context, param string, value interface{}) (domain.Reply, error)
}
