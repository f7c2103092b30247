package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Approver is the slice of the approval service the dispatcher drives.
type Approver interface {
	Approve(ctx context.Context, in ports.ApproveInput) (*domain.Submission, error)
}

type job struct {
	input ports.ApproveInput
	reply chan<- ports.BulkItemResult
}

// Dispatcher drives bulk approvals through a fixed set of workers sharded by
// submission id, so repeated ids in one batch are processed in order. Each
// item is its own approval call and its own transaction: one failing item
// never rolls back the others.
type Dispatcher struct {
	workers []chan job
	svc     Approver
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, svc Approver, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		svc:     svc,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// ApproveBatch fans the ids out to the workers and gathers one result per
// id, preserving the input order in the returned items.
func (d *Dispatcher) ApproveBatch(ctx context.Context, actor domain.Actor, submissionIDs []string) *ports.BulkResult {
	replies := make([]chan ports.BulkItemResult, len(submissionIDs))
	for i, id := range submissionIDs {
		reply := make(chan ports.BulkItemResult, 1)
		replies[i] = reply
		j := job{
			input: ports.ApproveInput{SubmissionID: id, Actor: actor},
			reply: reply,
		}
		// Workers are gone once ctx is cancelled, so a full shard buffer
		// must not block the enqueue. Fail the item instead.
		select {
		case d.workers[d.shardIndex(id)] <- j:
		case <-ctx.Done():
			reply <- ports.BulkItemResult{SubmissionID: id, Err: ctx.Err()}
		}
	}

	result := &ports.BulkResult{Items: make([]ports.BulkItemResult, 0, len(submissionIDs))}
	for i := range replies {
		select {
		case <-ctx.Done():
			result.Items = append(result.Items, ports.BulkItemResult{SubmissionID: submissionIDs[i], Err: ctx.Err()})
			result.Failed++
		case item := <-replies[i]:
			result.Items = append(result.Items, item)
			if item.Err != nil {
				result.Failed++
			} else {
				result.Succeeded++
			}
		}
	}
	return result
}

// shardIndex maps a submission id deterministically to a worker index.
func (d *Dispatcher) shardIndex(submissionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(submissionID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-ch:
			if !ok {
				return
			}
			_, err := d.svc.Approve(ctx, j.input)
			if err != nil {
				d.log.Warn().Err(err).
					Str("submission_id", j.input.SubmissionID).
					Int("worker_id", id).
					Msg("bulk approval item failed")
			}
			j.reply <- ports.BulkItemResult{SubmissionID: j.input.SubmissionID, Err: err}
		}
	}
}
