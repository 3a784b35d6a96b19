package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/duedesk/apiserver/config"
	"github.com/duedesk/apiserver/internal/server"
	"github.com/duedesk/apiserver/internal/view"
	"github.com/duedesk/apiserver/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newWatchServer(t *testing.T) string {
	t.Helper()
	router, err := server.NewRouter(config.Config{
		SessionSecret: "watch-test",
		SeedExamples:  true,
	}, server.Dependencies{
		Log:      zaptest.NewLogger(t),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRunWatchOnce(t *testing.T) {
	url := newWatchServer(t)

	var out bytes.Buffer
	err := runWatch(context.Background(), &out, watchOptions{
		url:      url,
		username: "gina",
		register: true,
		once:     true,
		status:   view.StatusAll,
		sort:     types.SortTitle,
		page:     1,
		perPage:  3,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "DONE")
	assert.Contains(t, out.String(), "page 1/2")
}

func TestRunWatchRejectsAdmin(t *testing.T) {
	url := newWatchServer(t)

	var out bytes.Buffer
	err := runWatch(context.Background(), &out, watchOptions{
		url:      url,
		username: types.AdminUsername,
		once:     true,
		page:     1,
		perPage:  5,
	})
	assert.Error(t, err)
}

func TestRunWatchUnknownUser(t *testing.T) {
	url := newWatchServer(t)

	err := runWatch(context.Background(), &bytes.Buffer{}, watchOptions{
		url:      url,
		username: "nobody",
		once:     true,
	})
	require.Error(t, err)
	assert.Equal(t, "Username not found. Please register first", err.Error())
}
