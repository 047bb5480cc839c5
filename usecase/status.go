package usecase

import (
	"context"

	"github.com/janiluuk/defora/domain"
	"github.com/janiluuk/defora/domain/repositories"
)

// FetchState reads a set of mediator parameters one by one and returns them
// as a single map. Keys that fail to read map to nil so a partially
// reachable mediator still yields a usable snapshot.
func FetchState(ctx context.Context, mediator repositories.Mediator, keys []string) map[string]interface{} {
	if len(keys) == 0 {
		keys = domain.DefaultStateKeys
	}
	state := make(map[string]interface{}, len(keys))
	for _, key := range keys {
		reply, err := mediator.Read(ctx, key)
		if err != nil {
			state[key] = nil
			continue
		}
		if reply.Decoded() {
			state[key] = reply.Value
		} else {
			state[key] = reply.Raw
		}
	}
	return state
}
