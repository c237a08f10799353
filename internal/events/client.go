// Package events is the NATS surface: processing can be triggered over the
// bus, and committed pipeline results are announced on it.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectProcessRequest triggers processing of a stored transcript.
	SubjectProcessRequest = "scribe.transcript.process"
	// SubjectTranscriptProcessed announces a committed pipeline run.
	SubjectTranscriptProcessed = "scribe.transcript.processed"
	// SubjectTaskCreated announces each task a pipeline run created.
	SubjectTaskCreated = "scribe.task.created"
)

// ProcessRequest asks the service to run the pipeline for one transcript.
type ProcessRequest struct {
	TranscriptID int64 `json:"transcript_id"`
}

// TranscriptProcessed is published once per committed run.
type TranscriptProcessed struct {
	RunID        string `json:"run_id"`
	TranscriptID int64  `json:"transcript_id"`
	Summary      string `json:"summary"`
	TasksCreated int    `json:"tasks_created"`
	TasksUpdated int    `json:"tasks_updated"`
}

// TaskCreated is published once per task a committed run created.
type TaskCreated struct {
	RunID        string `json:"run_id"`
	TranscriptID int64  `json:"transcript_id"`
	TaskID       int64  `json:"task_id"`
	Title        string `json:"title,omitempty"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
