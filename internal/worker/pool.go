package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"retailing/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotifications = "jobs:notifications"

	JobOrderNotification = "order_notification"

	// MaxAttempts is how many times a job is tried before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. A nil Dispatcher drops jobs,
// which keeps services usable without redis.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotification pushes an order notification job.
func (d *Dispatcher) EnqueueNotification(ctx context.Context, payload NotificationPayload) error {
	if d == nil || d.rdb == nil {
		return nil
	}
	return d.enqueue(ctx, QueueNotifications, JobOrderNotification, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	size     int
	queues   []string
	handlers map[string]Handler
	metrics  *infra.Metrics
}

func NewPool(rdb *redis.Client, size int, metrics *infra.Metrics) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		queues:   []string{QueueNotifications},
		handlers: make(map[string]Handler),
		metrics:  metrics,
	}
}

// Handle registers the handler for a job type.
func (p *Pool) Handle(jobType string, h Handler) { p.handlers[jobType] = h }

// Run blocks until ctx is cancelled and every worker has returned.
// Each goroutine blocks on BRPOP: zero CPU when idle.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", p.size)
	wg.Wait()
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		park(ctx, p.rdb, queue, job, "no handler registered")
		p.metrics.JobDone(job.Type, "dead")
		return
	}

	job.Attempts++
	err := h(ctx, job.Payload)
	if err == nil {
		log.Info().Str("type", job.Type).Int("attempt", job.Attempts).Msg("job processed")
		p.metrics.JobDone(job.Type, "ok")
		return
	}

	if job.Attempts >= MaxAttempts {
		park(ctx, p.rdb, queue, job, fmt.Sprintf("max attempts (%d) exceeded: %s", MaxAttempts, err))
		p.metrics.JobDone(job.Type, "dead")
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, requeueing")
	p.metrics.JobDone(job.Type, "retry")
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
	}
}
