package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tg "github.com/olegsv/finkurs/core/telegram"
	"github.com/olegsv/finkurs/core/telegram/commands"
	"github.com/olegsv/finkurs/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// stubContext implements the slice of tele.Context the text router touches.
// The embedded interface stays nil, so an unexpected method call panics.
type stubContext struct {
	tele.Context
	text   string
	sender *tele.User
	chat   *tele.Chat
	store  map[string]any
}

func newStubContext(text string, userID int64) *stubContext {
	return &stubContext{
		text:   text,
		sender: &tele.User{ID: userID},
		chat:   &tele.Chat{ID: userID},
		store:  map[string]any{},
	}
}

func (s *stubContext) Text() string          { return s.text }
func (s *stubContext) Sender() *tele.User    { return s.sender }
func (s *stubContext) Chat() *tele.Chat      { return s.chat }
func (s *stubContext) Update() tele.Update   { return tele.Update{ID: 1} }
func (s *stubContext) Get(key string) any    { return s.store[key] }
func (s *stubContext) Set(key string, v any) { s.store[key] = v }

func textHandler(t *testing.T, reg *tg.Registry, admin middleware.AdminOptions) tele.HandlerFunc {
	t.Helper()
	routes := TextRoutes(nil, reg, TextOptions{Admin: admin})
	for _, r := range routes {
		if r.Endpoint == tele.OnText {
			return r.Handler
		}
	}
	t.Fatal("no OnText route")
	return nil
}

func TestTextDispatchGatesAdminCommands(t *testing.T) {
	reg := tg.NewRegistry()
	handled := 0
	reg.RegisterCommand("/save_currency", commands.Command{
		Handler:   func(c tele.Context) error { handled++; return nil },
		AdminOnly: true,
	})

	rejected := 0
	admin := middleware.AdminOptions{
		AdminID: 7,
		Resolve: func(ctx context.Context, userID int64) (bool, error) {
			return false, nil
		},
		OnReject: func(c tele.Context) error { rejected++; return nil },
	}
	handler := textHandler(t, reg, admin)

	require.NoError(t, handler(newStubContext("/save_currency", 42)))
	assert.Equal(t, 0, handled)
	assert.Equal(t, 1, rejected)

	require.NoError(t, handler(newStubContext("/save_currency", 7)))
	assert.Equal(t, 1, handled)
	assert.Equal(t, 1, rejected)
}

func TestTextDispatchRunsPlainCommandsUngated(t *testing.T) {
	reg := tg.NewRegistry()
	handled := 0
	reg.RegisterCommand("/start", commands.Command{
		Handler: func(c tele.Context) error { handled++; return nil },
	})

	admin := middleware.AdminOptions{
		Resolve: func(ctx context.Context, userID int64) (bool, error) {
			return false, nil
		},
	}
	handler := textHandler(t, reg, admin)

	require.NoError(t, handler(newStubContext("/start", 42)))
	assert.Equal(t, 1, handled)
}
