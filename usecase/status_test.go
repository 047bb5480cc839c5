package usecase

import (
	"context"
	"testing"

	"github.com/janiluuk/defora/adapters/mediator"
	"github.com/janiluuk/defora/domain"
)

func TestFetchStateReadsRequestedKeys(t *testing.T) {
	mock := mediator.NewMockMediator()
	if _, err := mock.Write(context.Background(), "cfg", 7.5); err != nil {
		t.Fatal(err)
	}

	state := FetchState(context.Background(), mock, []string{"cfg", "never_written"})
	if state["cfg"] != 7.5 {
		t.Errorf("cfg = %v, want 7.5", state["cfg"])
	}
	if state["never_written"] != 0 {
		t.Errorf("unknown key = %v, want mediator default 0", state["never_written"])
	}
}

func TestFetchStateNilOnFailure(t *testing.T) {
	mock := mediator.NewMockMediator()
	mock.FailParams["seed"] = true

	state := FetchState(context.Background(), mock, []string{"seed", "cfg"})
	if state["seed"] != nil {
		t.Errorf("failed key = %v, want nil", state["seed"])
	}
	if _, ok := state["cfg"]; !ok {
		t.Error("healthy key missing from snapshot")
	}
}

func TestFetchStateDefaultKeys(t *testing.T) {
	mock := mediator.NewMockMediator()
	state := FetchState(context.Background(), mock, nil)
	if len(state) != len(domain.DefaultStateKeys) {
		t.Errorf("got %d keys, want the %d defaults", len(state), len(domain.DefaultStateKeys))
	}
}
