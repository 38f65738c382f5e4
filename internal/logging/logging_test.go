package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestEventContext(t *testing.T) {
	ctx, event := NewEventContext(context.Background())

	AddToEvent(ctx, slog.String("operation", "post.create"))
	AddToEvent(ctx, slog.Int64("post_id", 7))

	if EventFromContext(ctx) != event {
		t.Fatal("expected event from context")
	}
	if got := len(event.Attrs()); got != 2 {
		t.Errorf("expected 2 attrs, got %d", got)
	}
}

func TestAddToEvent_WithoutEvent(t *testing.T) {
	// Sem evento no contexto a chamada é ignorada.
	AddToEvent(context.Background(), slog.String("k", "v"))
}

func TestSetRoute(t *testing.T) {
	ctx, event := NewEventContext(context.Background())

	// O mux entrega uma cópia da requisição; o evento é o mesmo ponteiro.
	child := context.WithValue(ctx, contextKey("child"), true)
	SetRoute(child, "GET /post/{id}")
	SetRoute(child, "")

	if got := event.Route(); got != "GET /post/{id}" {
		t.Errorf("expected route from child context, got %q", got)
	}
	if got := len(event.Attrs()); got != 1 {
		t.Errorf("expected 1 route attr, got %d", got)
	}

	SetRoute(context.Background(), "GET /")
}
