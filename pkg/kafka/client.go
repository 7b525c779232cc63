package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Client wraps Kafka operations. One writer is shared by every publish.
type Client struct {
	brokers []string
	writer  *kafkago.Writer
	log     *zap.SugaredLogger
}

// NewClient returns a Client for the given brokers.
func NewClient(brokers []string, log *zap.SugaredLogger) *Client {
	return &Client{
		brokers: brokers,
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		log: log.Named("kafka"),
	}
}

// EnsureTopics creates topics if they don't already exist (with retry).
func (c *Client) EnsureTopics(ctx context.Context, topics ...string) error {
	for attempt := 1; attempt <= 20; attempt++ {
		conn, err := kafkago.DialContext(ctx, "tcp", c.brokers[0])
		if err != nil {
			c.log.Infow("kafka not ready, retrying", "attempt", attempt, "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		configs := make([]kafkago.TopicConfig, len(topics))
		for i, t := range topics {
			configs[i] = kafkago.TopicConfig{
				Topic:             t,
				NumPartitions:     3,
				ReplicationFactor: 1,
			}
		}

		err = conn.CreateTopics(configs...)
		conn.Close()
		if err != nil {
			c.log.Infow("topic creation returned (may already exist)", "err", err)
		}
		c.log.Infow("kafka topics ensured", "topics", topics)
		return nil
	}
	return fmt.Errorf("kafka: could not connect after 20 attempts")
}

// Publish sends a JSON-serialised message to a topic. Messages with the
// same key land on the same partition.
func (c *Client) Publish(ctx context.Context, topic, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
}

// Subscribe starts a background goroutine that reads topics as groupID
// until ctx is cancelled.
func (c *Client) Subscribe(ctx context.Context, groupID string, topics []string, handler func(topic string, value []byte) error) {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     c.brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
	})

	go func() {
		defer r.Close()
		for {
			msg, err := r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.log.Warnw("read error", "group", groupID, "err", err)
				time.Sleep(time.Second)
				continue
			}
			if err := handler(msg.Topic, msg.Value); err != nil {
				c.log.Warnw("handler error", "topic", msg.Topic, "err", err)
			}
		}
	}()
}

// Close flushes and closes the shared writer.
func (c *Client) Close() error { return c.writer.Close() }
