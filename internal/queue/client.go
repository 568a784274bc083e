package queue

import (
	"context"
	"sync"
)

// Client sends messages to a queue backend.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// NopClient drops every message. It is used when no events driver is configured.
type NopClient struct{}

// Send implements Client.
func (NopClient) Send(context.Context, Message) error { return nil }

// MemoryClient records sent messages. Handy for tests and local runs.
type MemoryClient struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

// Send implements Client.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MemoryClient) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

var (
	_ Client = NopClient{}
	_ Client = (*MemoryClient)(nil)
)
