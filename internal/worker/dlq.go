package worker

// dlq.go
// Notification jobs that keep failing are parked on dlq:<queue> together with
// the order and recipient they were for, so an operator can see which
// counterparties were never told and push the jobs back with
// `retailingctl dead-letters --requeue`.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DeadLetter is a parked job. OrderID and ToEmail are filled for order
// notifications.
type DeadLetter struct {
	Queue    string          `json:"queue"`
	Type     string          `json:"type"`
	OrderID  uint            `json:"order_id,omitempty"`
	ToEmail  string          `json:"to_email,omitempty"`
	Error    string          `json:"error"`
	Attempts int             `json:"attempts"`
	ParkedAt time.Time       `json:"parked_at"`
	Payload  json.RawMessage `json:"payload"`
}

func deadLetterKey(queue string) string { return "dlq:" + queue }

// park moves job to the dead letter list of queue. Failures are logged; the
// job is lost only if redis itself is gone.
func park(ctx context.Context, rdb *redis.Client, queue string, job Job, cause string) {
	dl := DeadLetter{
		Queue:    queue,
		Type:     job.Type,
		Error:    cause,
		Attempts: job.Attempts,
		ParkedAt: time.Now().UTC(),
		Payload:  job.Payload,
	}
	if job.Type == JobOrderNotification {
		var n NotificationPayload
		if json.Unmarshal(job.Payload, &n) == nil {
			dl.OrderID = n.Receipt.OrderID
			dl.ToEmail = n.ToEmail
		}
	}

	data, err := json.Marshal(dl)
	if err == nil {
		err = rdb.LPush(ctx, deadLetterKey(queue), data).Err()
	}
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Uint("order_id", dl.OrderID).Msg("dlq: job lost")
		return
	}
	log.Warn().
		Str("type", job.Type).
		Uint("order_id", dl.OrderID).
		Str("to", dl.ToEmail).
		Int("attempts", job.Attempts).
		Str("error", cause).
		Msg("dlq: job parked")
}

// DeadLetterCount returns how many jobs are parked for queue.
func DeadLetterCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, deadLetterKey(queue)).Result()
}

// DeadLetters returns up to limit parked jobs of queue, newest first.
func DeadLetters(ctx context.Context, rdb *redis.Client, queue string, limit int64) ([]DeadLetter, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := rdb.LRange(ctx, deadLetterKey(queue), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DeadLetter, 0, len(raw))
	for _, r := range raw {
		var dl DeadLetter
		if err := json.Unmarshal([]byte(r), &dl); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: unreadable entry skipped")
			continue
		}
		out = append(out, dl)
	}
	return out, nil
}

// Requeue moves every parked job of queue back onto it, oldest first, with a
// fresh attempt count. It returns how many jobs were moved.
func Requeue(ctx context.Context, rdb *redis.Client, queue string) (int, error) {
	moved := 0
	for {
		raw, err := rdb.RPop(ctx, deadLetterKey(queue)).Result()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		var dl DeadLetter
		if err := json.Unmarshal([]byte(raw), &dl); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dlq: unreadable entry dropped")
			continue
		}
		if err := push(ctx, rdb, queue, Job{Type: dl.Type, Payload: dl.Payload}); err != nil {
			_ = rdb.RPush(ctx, deadLetterKey(queue), raw).Err()
			return moved, err
		}
		moved++
	}
}
