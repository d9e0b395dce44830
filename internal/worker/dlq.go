package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs that exhaust MaxAttempts land in dlq:{queue}. Alert and email jobs
// are cheap to replay, so an operator can push them back once the cause
// (SMTP outage, bad address) is fixed.
const DLQPrefix = "dlq:"

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      time.Time       `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

// SendToDLQ records a dead job. Failures to record are logged only: the job
// is already lost to its queue either way.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	data, err := json.Marshal(DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal")
		return
	}

	key := DLQPrefix + queue
	if err := rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength reports the size of a queue's DLQ (exposed by /health).
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// reencolable is false for entries recorded from unreadable jobs.
func reencolable(e DLQEntry) bool {
	return e.JobType != "" && len(e.Payload) > 0 && string(e.Payload) != "null"
}

// Reencolar moves up to max dead jobs, oldest first, back to their queue
// with a fresh attempt budget. An entry that cannot be replayed stops the
// scan and stays in the DLQ.
func Reencolar(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	key := DLQPrefix + queue
	movidos := 0
	for movidos < max {
		raw, err := rdb.RPop(ctx, key).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return movidos, fmt.Errorf("dlq %s: %w", queue, err)
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || !reencolable(entry) {
			// Put it back at the tail and stop, or the loop would spin on it.
			if err := rdb.RPush(ctx, key, raw).Err(); err != nil {
				return movidos, fmt.Errorf("dlq %s: %w", queue, err)
			}
			break
		}
		if err := push(ctx, rdb, queue, Job{Type: entry.JobType, Payload: entry.Payload}); err != nil {
			return movidos, err
		}
		movidos++
	}
	if movidos > 0 {
		log.Info().Str("queue", queue).Int("jobs", movidos).Msg("dlq: jobs re-enqueued")
	}
	return movidos, nil
}
