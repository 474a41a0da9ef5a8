package taskerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrappingPreservesKind(t *testing.T) {
	if !errors.Is(Validation("Task is required"), ErrValidation) {
		t.Error("Validation() should match ErrValidation")
	}
	if !errors.Is(Store(errors.New("connection refused")), ErrStore) {
		t.Error("Store() should match ErrStore")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unauthorized", err: ErrUnauthorized, want: "Unauthorized"},
		{name: "not found", err: ErrNotFoundOrForbidden, want: "Todo not found"},
		{name: "validation reason surfaces", err: Validation("Task is required"), want: "Task is required"},
		{name: "store message passes through", err: Store(errors.New("connection refused")), want: "connection refused"},
		{name: "wrapped kind still recognized", err: fmt.Errorf("handler: %w", ErrNotFoundOrForbidden), want: "Todo not found"},
		{name: "unknown collapses to generic", err: errors.New("pq: duplicate key"), want: "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
