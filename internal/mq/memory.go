package mq

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	memoryBufferSize   = 64
	memoryHistoryLimit = 256
)

// MemoryBackend is an in-process broker. The most recent messages of each
// channel are kept so they can be inspected, and every message is fanned out
// to live subscribers.
type MemoryBackend struct {
	mu           sync.Mutex
	closed       bool
	historyLimit int
	published    map[string][]Message
	subscribers  map[string][]chan Message
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		historyLimit: memoryHistoryLimit,
		published:    make(map[string][]Message),
		subscribers:  make(map[string][]chan Message),
	}
}

// Publish records the message and hands it to current subscribers. A
// subscriber whose buffer is full misses the message.
func (b *MemoryBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if strings.TrimSpace(channel) == "" {
		return "", errors.New("memory channel is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", errors.New("memory backend closed")
	}

	msg := Message{
		ID:         uuid.NewString(),
		Data:       append([]byte(nil), data...),
		Attributes: copyAttributes(attrs),
	}
	history := append(b.published[channel], msg)
	if len(history) > b.historyLimit {
		history = append([]Message(nil), history[len(history)-b.historyLimit:]...)
	}
	b.published[channel] = history
	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- msg:
		default:
		}
	}
	return msg.ID, nil
}

// Subscribe blocks, delivering messages published after the call, until ctx
// is done or the backend is closed.
func (b *MemoryBackend) Subscribe(ctx context.Context, channel string, handler Handler) error {
	if strings.TrimSpace(channel) == "" {
		return errors.New("memory channel is required")
	}

	ch := make(chan Message, memoryBufferSize)
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return errors.New("memory backend closed")
	}
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	b.mu.Unlock()
	defer b.unsubscribe(channel, ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("memory backend closed")
			}
			_ = handler(ctx, msg)
		}
	}
}

// Published returns the most recent messages sent to channel, oldest first.
func (b *MemoryBackend) Published(channel string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.published[channel]...)
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan Message)
	return nil
}

func (b *MemoryBackend) unsubscribe(channel string, target chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[channel]
	for i, ch := range subs {
		if ch == target {
			b.subscribers[channel] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

func copyAttributes(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
