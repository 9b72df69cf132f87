// Package jobs defines the background task types and the asynq client and
// server wrappers used to enqueue and process them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// TypeTranscriptEmail delivers a closed-conversation transcript.
	TypeTranscriptEmail = "chat:transcript_email"

	queueDefault = "default"
)

// TranscriptEmailPayload identifies the conversation to deliver.
type TranscriptEmailPayload struct {
	ConversationID uuid.UUID `json:"conversation_id"`
}

// Client enqueues background tasks backed by Redis.
type Client struct {
	client *asynq.Client
}

// NewClient builds a task client from a Redis URL.
func NewClient(redisURL string) (*Client, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("jobs: parse redis url: %w", err)
	}
	return &Client{client: asynq.NewClient(opt)}, nil
}

// EnqueueTranscriptEmail queues transcript delivery for a conversation.
// The task is unique per conversation for a short window so ending the
// same conversation twice does not send two emails.
func (c *Client) EnqueueTranscriptEmail(ctx context.Context, conversationID uuid.UUID) error {
	payload, err := json.Marshal(TranscriptEmailPayload{ConversationID: conversationID})
	if err != nil {
		return fmt.Errorf("jobs: marshal transcript payload: %w", err)
	}
	task := asynq.NewTask(TypeTranscriptEmail, payload)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(queueDefault),
		asynq.MaxRetry(5),
		asynq.Unique(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", TypeTranscriptEmail, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// TranscriptHandler processes a transcript delivery task.
type TranscriptHandler interface {
	DeliverTranscript(ctx context.Context, conversationID uuid.UUID) error
}

// Server runs the background worker alongside the HTTP server.
type Server struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewServer builds a worker server from a Redis URL.
func NewServer(redisURL string, h TranscriptHandler) (*Server, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("jobs: parse redis url: %w", err)
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{queueDefault: 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("[Jobs] ERROR: task %s failed: %v", task.Type(), err)
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTranscriptEmail, func(ctx context.Context, t *asynq.Task) error {
		var p TranscriptEmailPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("jobs: unmarshal %s payload: %w: %w", TypeTranscriptEmail, err, asynq.SkipRetry)
		}
		return h.DeliverTranscript(ctx, p.ConversationID)
	})

	return &Server{server: srv, mux: mux}, nil
}

// Start launches the worker in the background.
func (s *Server) Start() error {
	return s.server.Start(s.mux)
}

// Shutdown drains in-flight tasks and stops the worker.
func (s *Server) Shutdown() {
	s.server.Shutdown()
}
