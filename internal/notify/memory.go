package notify

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Memory is the in-process Bus. It is the only delivery path observers need
// when a single process owns the substrate, and the local fanout half of the
// Redis relay otherwise.
type Memory struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

// NewMemory creates an in-process bus with no subscribers.
func NewMemory() *Memory {
	return &Memory{subs: make(map[int]chan Change)}
}

var _ Bus = (*Memory)(nil)

func (m *Memory) Publish(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	for _, ch := range m.subs {
		select {
		case ch <- Change{Key: key}:
		default:
			// Subscriber is behind; drop. The pending notification already
			// in its buffer forces the same re-fetch.
		}
	}
	return nil
}

func (m *Memory) Subscribe() (<-chan Change, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan Change, subscriberBuffer)
	if m.closed {
		close(ch)
		return ch, func() {}
	}
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
	return nil
}
