package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskSend is the asynq task type of a queued mail
const TaskSend = "mail:send"

const (
	queueName    = "mail"
	maxRetry     = 3
	deliveryTime = 30 * time.Second
)

// NewSendTask wraps a message into an asynq task
func NewSendTask(msg Message) (*asynq.Task, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskSend,
		payload,
		asynq.MaxRetry(maxRetry),
		asynq.Queue(queueName),
		asynq.Timeout(deliveryTime),
	), nil
}

// enqueuer is the part of asynq.Client the queue needs
type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSender hands messages to redis. The Worker delivers them.
type QueueSender struct {
	client enqueuer
}

// NewQueueSender creates a sender enqueuing into the given redis
func NewQueueSender(redisAddr string) *QueueSender {
	return &QueueSender{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

// Send enqueues the message
func (q *QueueSender) Send(ctx context.Context, msg Message) error {
	task, err := NewSendTask(msg)
	if err != nil {
		return fmt.Errorf("failed to build mail task: %w", err)
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue mail: %w", err)
	}

	slog.DebugContext(ctx, "mail enqueued", slog.String("task_id", info.ID), slog.String("subject", msg.Subject))
	return nil
}

// Close releases the redis connection
func (q *QueueSender) Close() error {
	if c, ok := q.client.(*asynq.Client); ok {
		return c.Close()
	}
	return nil
}

// Worker consumes queued mails and delivers them through a Sender
type Worker struct {
	server *asynq.Server
	sender Sender
}

// NewWorker creates a worker reading from the given redis
func NewWorker(redisAddr string, sender Sender) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 2,
			Queues:      map[string]int{queueName: 1},
		},
	)

	return &Worker{server: server, sender: sender}
}

// Start registers the handler and starts processing in the background
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSend, w.handleSend)

	slog.Info("starting mail worker")
	return w.server.Start(mux)
}

// Stop waits for running deliveries and shuts the worker down
func (w *Worker) Stop() {
	slog.Info("stopping mail worker")
	w.server.Shutdown()
}

func (w *Worker) handleSend(ctx context.Context, t *asynq.Task) error {
	var msg Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		// Retrying a broken payload never helps
		return fmt.Errorf("failed to unmarshal mail payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.sender.Send(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to deliver mail",
			slog.Any("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
		return err
	}

	slog.InfoContext(ctx, "mail delivered", slog.Any("to", msg.To), slog.String("subject", msg.Subject))
	return nil
}
