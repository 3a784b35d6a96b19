package mq

import (
	"context"
	"testing"
	"time"

	"github.com/duedesk/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendRecordsPublished(t *testing.T) {
	b := NewMemoryBackend()
	q := New(b)

	id, err := q.Publish(context.Background(), "events", []byte(`{"a":1}`), map[string]string{"type": "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs := b.Published("events")
	require.Len(t, msgs, 1)
	assert.Equal(t, id, msgs[0].ID)
	assert.Equal(t, "x", msgs[0].Attributes["type"])
	assert.Empty(t, b.Published("other"))

	_, err = q.Publish(context.Background(), " ", nil, nil)
	assert.Error(t, err)
}

func TestMemoryBackendSubscribe(t *testing.T) {
	b := NewMemoryBackend()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- b.Subscribe(ctx, "events", func(_ context.Context, msg Message) error {
			received <- msg
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return len(b.subscribers["events"]) == 1
	}, time.Second, 5*time.Millisecond)

	_, err := b.Publish(ctx, "events", []byte("hello"), nil)
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "hello", string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestMemoryBackendClose(t *testing.T) {
	b := NewMemoryBackend()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err := b.Publish(context.Background(), "events", nil, nil)
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	q, err := Open(context.Background(), config.MQConfig{Backend: "none"})
	require.NoError(t, err)
	assert.Nil(t, q)

	q, err = Open(context.Background(), config.MQConfig{Backend: "memory"})
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, "memory", q.Name())
	require.NoError(t, q.Close())

	_, err = Open(context.Background(), config.MQConfig{Backend: "kafka"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.MQConfig{Backend: "rabbitmq"})
	assert.Error(t, err)
}

func TestMemoryBackendBoundsHistory(t *testing.T) {
	b := NewMemoryBackend()
	b.historyLimit = 3

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := b.Publish(context.Background(), "events", []byte{byte(i)}, nil)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	msgs := b.Published("events")
	require.Len(t, msgs, 3)
	assert.Equal(t, ids[2], msgs[0].ID)
	assert.Equal(t, ids[4], msgs[2].ID)
}
