package state

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
)

func TestMemoryManagerDefaultsToClosedSession(t *testing.T) {
	m := NewMemoryManager()
	s, err := m.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.Open() {
		t.Fatalf("expected closed session, got state %q", s.State)
	}
}

func TestMemoryManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager()

	sess := Session{State: State("awaiting_rate")}.With("currency", "USD")
	if err := m.Set(ctx, 42, sess); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := m.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != State("awaiting_rate") {
		t.Fatalf("state = %q", got.State)
	}
	if got.Field("currency") != "USD" {
		t.Fatalf("currency = %q", got.Field("currency"))
	}

	if err := m.Clear(ctx, 42); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = m.Get(ctx, 42)
	if got.Open() {
		t.Fatal("expected session cleared")
	}
}

func TestMemoryManagerClearAbsentIsNoop(t *testing.T) {
	m := NewMemoryManager()
	if err := m.Clear(context.Background(), 7); err != nil {
		t.Fatalf("clear absent: %v", err)
	}
}

func TestMemoryManagerWithDoesNotAliasBag(t *testing.T) {
	base := Session{State: State("a")}.With("k", "1")
	next := base.With("k", "2")
	if base.Field("k") != "1" {
		t.Fatalf("base mutated: %q", base.Field("k"))
	}
	if next.Field("k") != "2" {
		t.Fatalf("next = %q", next.Field("k"))
	}
}

func TestMemoryManagerIdleTimeout(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryManager(WithIdleTimeout(10 * time.Millisecond))

	if err := m.Set(ctx, 5, Session{State: State("awaiting_amount")}); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	got, err := m.Get(ctx, 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Open() {
		t.Fatal("expected idle session to expire")
	}
}

func TestRedisManagerRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	m := NewRedisManager(client, WithTTL(time.Minute))
	ctx := context.Background()

	sess := Session{State: State("awaiting_date")}.
		With("amount", "150.50").
		With("kind", "expense")
	if err := m.Set(ctx, 99, sess); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := m.Get(ctx, 99)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != sess.State {
		t.Fatalf("state = %q", got.State)
	}
	if got.Field("amount") != "150.50" || got.Field("kind") != "expense" {
		t.Fatalf("fields = %v", got.Fields)
	}

	if err := m.Clear(ctx, 99); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = m.Get(ctx, 99)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got.Open() {
		t.Fatal("expected cleared session")
	}
}

func TestRedisManagerExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	m := NewRedisManager(client, WithTTL(time.Second))
	ctx := context.Background()

	if err := m.Set(ctx, 3, Session{State: State("awaiting_username")}); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	got, err := m.Get(ctx, 3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Open() {
		t.Fatal("expected session to expire with TTL")
	}
}
