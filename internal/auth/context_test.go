package auth

import (
	"context"
	"testing"
)

func TestUserIDFromContext(t *testing.T) {
	t.Parallel()

	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("empty context should be anonymous")
	}

	ctx := ContextWithUserID(context.Background(), 12)
	id, ok := UserIDFromContext(ctx)
	if !ok || id != 12 {
		t.Errorf("UserIDFromContext = %d, %v; want 12, true", id, ok)
	}

	if _, ok := UserIDFromContext(ContextWithUserID(context.Background(), 0)); ok {
		t.Error("zero user id should be anonymous")
	}
}

func TestSessionIDFromContext(t *testing.T) {
	t.Parallel()

	if got := SessionIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty session id, got %q", got)
	}

	ctx := ContextWithSessionID(context.Background(), "sid")
	if got := SessionIDFromContext(ctx); got != "sid" {
		t.Errorf("SessionIDFromContext = %q, want %q", got, "sid")
	}
}
