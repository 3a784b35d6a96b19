package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "SERVER_PORT", "SEED_EXAMPLES", "DEFAULT_SUBJECTS", "MQ_BACKEND", "STORAGE_BACKEND"} {
		t.Setenv(key, "")
	}
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MQ_BACKEND", "Memory")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "memory", cfg.MQ.Backend)
	assert.Equal(t, "duedesk.events", cfg.MQ.Channel)
	assert.False(t, cfg.SeedExamples)
	assert.Equal(t, DefaultSubjects, cfg.DefaultSubjects)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("DUEDESK_FLAG", "yes")
	assert.True(t, getEnvBool("DUEDESK_FLAG", false))

	t.Setenv("DUEDESK_FLAG", "off")
	assert.False(t, getEnvBool("DUEDESK_FLAG", true))

	t.Setenv("DUEDESK_FLAG", "maybe")
	assert.True(t, getEnvBool("DUEDESK_FLAG", true))
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("DUEDESK_SUBJECTS", " Math, ,Art ,")
	got := getEnvList("DUEDESK_SUBJECTS", nil)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Math", "Art"}, got)

	defaults := []string{"A"}
	got = getEnvList("DUEDESK_UNSET_LIST", defaults)
	got[0] = "changed"
	assert.Equal(t, "A", defaults[0])
}
