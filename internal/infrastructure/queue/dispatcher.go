package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/farmgate/livestock-market/internal/api/metrics"
	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher persists listing audit events asynchronously through a fixed set
// of workers. Events are sharded by animal id using consistent hashing,
// guaranteeing per-listing write ordering.
type Dispatcher struct {
	workers []chan domain.ListingEvent
	repo    ports.AnimalRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AnimalRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ListingEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ListingEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its animal id.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(ev domain.ListingEvent) {
	idx := d.shardIndex(ev.AnimalID)
	d.workers[idx] <- ev
	metrics.ListingEventQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps an animal id deterministically to a worker index.
func (d *Dispatcher) shardIndex(animalID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(animalID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ListingEvent) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			start := time.Now()
			result := "ok"
			if err := d.repo.InsertEvent(ctx, &ev); err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("animal_id", ev.AnimalID).
					Int("worker_id", id).
					Msg("listing event write failed")
			}
			metrics.ListingEventWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
			metrics.ListingEventQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}
