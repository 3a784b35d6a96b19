package client

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/duedesk/apiserver/config"
	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/server"
	"github.com/duedesk/apiserver/internal/view"
	"github.com/duedesk/apiserver/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	router, err := server.NewRouter(config.Config{
		SessionSecret:   "client-test",
		DefaultSubjects: []string{"English", "Math"},
	}, server.Dependencies{
		Log:      zaptest.NewLogger(t),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	return c
}

func TestClientSession(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.Whoami(ctx)
	assert.True(t, apperr.Is(err, apperr.AuthMissing))

	_, err = c.Login(ctx, "erin")
	assert.True(t, apperr.Is(err, apperr.AuthNoUser))
	assert.Equal(t, "Username not found. Please register first.", apperr.MessageOf(err))

	initial, err := c.Register(ctx, "erin")
	require.NoError(t, err)
	assert.Empty(t, initial)

	who, err := c.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "erin", who.Username)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Whoami(ctx)
	assert.True(t, apperr.Is(err, apperr.AuthMissing))
}

func TestClientAssignments(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	_, err := c.Register(ctx, "frank")
	require.NoError(t, err)

	subject := "Math"
	created, err := c.Create(ctx, types.AssignmentInput{Title: "Proofs", Subject: &subject, DueDate: "2030-01-10"})
	require.NoError(t, err)

	_, err = c.Create(ctx, types.AssignmentInput{Title: "Late", DueDate: "not-a-date"})
	assert.True(t, apperr.Is(err, apperr.InvalidDate))

	done := true
	patched, err := c.Patch(ctx, created.ID, types.AssignmentUpdate{Completed: &done})
	require.NoError(t, err)
	assert.True(t, patched.Completed)

	list, err := c.List(ctx, types.AssignmentFilter{Status: types.StatusCompleted, Subject: "Math"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.CompletionRate)

	subjects, err := c.Subjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"English", "Math"}, subjects)

	msg, err := c.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "assignment "+created.ID+" deleted", msg)

	_, err = c.Export(ctx)
	assert.True(t, apperr.Is(err, apperr.AuthInsufficient))
}

func TestClientNetworkError(t *testing.T) {
	c, err := New("http://127.0.0.1:1")
	require.NoError(t, err)

	_, err = c.Whoami(context.Background())
	assert.True(t, apperr.Is(err, view.NetworkError))
}
