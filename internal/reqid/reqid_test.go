package reqid

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx, id := NewContext(context.Background())
	got, ok := FromContext(ctx)
	if !ok || got != id {
		t.Fatalf("expected %d from context, got %d ok=%v", id, got, ok)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("unexpected id in empty context")
	}
}

func TestEnsureKeepsExisting(t *testing.T) {
	ctx, id := NewContext(context.Background())
	same, got := Ensure(ctx)
	if got != id || same != ctx {
		t.Fatalf("expected existing id %d, got %d", id, got)
	}
	fresh, id2 := Ensure(context.Background())
	if got, ok := FromContext(fresh); !ok || got != id2 {
		t.Fatalf("expected new id %d in context, got %d ok=%v", id2, got, ok)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(255); got != "ff" {
		t.Fatalf("expected ff, got %q", got)
	}
}
