package events

import (
	"context"
	"sync"
)

// Message is one published event held by a Recorder.
type Message struct {
	Topic string
	Key   string
	Value any
}

// Recorder is an in-memory Publisher for tests.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *Recorder) Publish(_ context.Context, topic, key string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, Message{Topic: topic, Key: key, Value: value})
	return nil
}

// Topics returns the topics published so far, in order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Topic
	}
	return out
}

// Messages returns a copy of everything published.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.msgs...)
}
