package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlerta = "jobs:alerta"
	QueueEmail  = "jobs:email"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3

	// pausaError is how long a worker waits before polling again after Redis
	// fails.
	pausaError = time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job. A returned error re-queues it.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarAlerta pushes a threshold check for a committed operation.
func (d *Dispatcher) EncolarAlerta(ctx context.Context, operacionID uuid.UUID) error {
	return d.enqueue(ctx, QueueAlerta, "alerta", AlertaJobPayload{OperacionID: operacionID.String()})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
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

// Handlers maps each queue to its processor. Queues without a handler are
// not consumed.
type Handlers map[string]Handler

func (h Handlers) queues() []string {
	queues := make([]string, 0, len(h))
	for _, q := range []string{QueueAlerta, QueueEmail} {
		if _, ok := h[q]; ok {
			queues = append(queues, q)
		}
	}
	return queues
}

// StartWorkerPool launches numWorkers goroutines consuming the handled queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers Handlers) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers Handlers) {
	queues := handlers.queues()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if errors.Is(err, redis.Nil) {
				continue // timeout
			}
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("redis no disponible, reintentando")
				}
				if !esperar(ctx, pausaError) {
					log.Info().Msgf("worker %d shutting down", id)
					return
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

// esperar sleeps for d and reports false if ctx ends first.
func esperar(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, rdb, queue, "desconocido", json.RawMessage(`null`), "payload ilegible: "+err.Error(), 0)
		return
	}
	h, ok := handlers[queue]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no handler for queue")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Str("queue", queue).Int("attempts", job.Attempts).Msg("job failed, re-queued")
	if perr := push(ctx, rdb, queue, job); perr != nil {
		log.Error().Err(perr).Str("queue", queue).Msg("failed to re-queue job")
	}
}
