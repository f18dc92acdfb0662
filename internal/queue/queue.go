// Package queue owns the FIFO scan queue: one job per captured image,
// driven through the scan pipeline strictly one at a time. Single-flight
// processing trades throughput for predictable ordering, a meaningful
// progress counter, and bounded load on the remote model.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shelfsnap/shelfsnap/internal/scan"
)

// Status is the lifecycle of a scan job. Both terminal states remove the
// job from the queue; there is no automatic retry.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Progress counts sections processed within the current job.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Job is one queued scan. Jobs are owned exclusively by the Orchestrator;
// callers only ever see copies via Snapshot.
type Job struct {
	ID       string   `json:"id"`
	ImageRef string   `json:"image_ref"`
	Status   Status   `json:"status"`
	Progress Progress `json:"progress"`
}

// Snapshot is a read-only view of the queue for presentation layers.
type Snapshot struct {
	Jobs []Job `json:"jobs"`
}

// Pipeline runs one image through the scan stages. Satisfied by
// *scan.Pipeline.
type Pipeline interface {
	Scan(ctx context.Context, image []byte, sectionsX, sectionsY int, progress scan.ProgressFunc) []scan.BookCandidate
}

// Persister receives the final ranked candidates once a job completes;
// ownership of the records transfers to it.
type Persister interface {
	SaveScan(ctx context.Context, imageRef string, books []scan.BookCandidate) error
}

// Orchestrator drives the queue. All mutable state is confined to the
// orchestrator and guarded by one mutex; the worker goroutine is the only
// writer of job status.
type Orchestrator struct {
	mu      sync.Mutex
	cond    *sync.Cond
	jobs    []*Job
	running bool

	ctx       context.Context
	pipeline  Pipeline
	store     Persister
	loadImage func(string) ([]byte, error)
	cooldown  time.Duration
	gridX     int
	gridY     int

	subscribers []func(Snapshot)
}

// Options tune the orchestrator. Zero values select the defaults: a
// whole-image single-section pass and a one second cooldown between jobs.
type Options struct {
	// GridX, GridY select sectioned multi-pass scanning. The default
	// operating mode is one section for latency.
	GridX, GridY int
	// Cooldown is the pause between jobs, avoiding back-to-back bursts
	// against the remote service.
	Cooldown time.Duration
	// LoadImage resolves an image reference to its bytes. Defaults to
	// os.ReadFile.
	LoadImage func(string) ([]byte, error)
}

// New creates an orchestrator. The context bounds all remote calls made on
// behalf of queued jobs.
func New(ctx context.Context, pipeline Pipeline, store Persister, opts Options) *Orchestrator {
	if opts.GridX < 1 {
		opts.GridX = 1
	}
	if opts.GridY < 1 {
		opts.GridY = 1
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = time.Second
	}
	if opts.LoadImage == nil {
		opts.LoadImage = os.ReadFile
	}

	o := &Orchestrator{
		ctx:       ctx,
		pipeline:  pipeline,
		store:     store,
		loadImage: opts.LoadImage,
		cooldown:  opts.Cooldown,
		gridX:     opts.GridX,
		gridY:     opts.GridY,
	}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// Submit appends a new pending job and starts processing if the queue was
// idle. Returns the job ID.
func (o *Orchestrator) Submit(imageRef string) string {
	job := &Job{
		ID:       uuid.NewString(),
		ImageRef: imageRef,
		Status:   StatusPending,
	}

	o.mu.Lock()
	o.jobs = append(o.jobs, job)
	start := !o.running
	if start {
		o.running = true
	}
	o.mu.Unlock()

	slog.Info("Scan job queued", "job_id", job.ID, "image", imageRef)
	o.notify()

	if start {
		go o.run()
	}
	return job.ID
}

// Snapshot returns copies of all queued jobs in FIFO order.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	jobs := make([]Job, len(o.jobs))
	for i, job := range o.jobs {
		jobs[i] = *job
	}
	return Snapshot{Jobs: jobs}
}

// Job returns a copy of one queued job by ID.
func (o *Orchestrator) Job(id string) (Job, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, job := range o.jobs {
		if job.ID == id {
			return *job, true
		}
	}
	return Job{}, false
}

// Subscribe registers a callback invoked with a fresh snapshot on every
// queue change. Callbacks run outside the orchestrator's lock.
func (o *Orchestrator) Subscribe(fn func(Snapshot)) {
	o.mu.Lock()
	o.subscribers = append(o.subscribers, fn)
	o.mu.Unlock()
}

// Wait blocks until the queue is fully drained. Intended for CLI use and
// tests.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for o.running || len(o.jobs) > 0 {
		o.cond.Wait()
	}
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	snapshot := o.snapshotLocked()
	subscribers := make([]func(Snapshot), len(o.subscribers))
	copy(subscribers, o.subscribers)
	o.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// run is the single worker loop. At most one instance exists at a time,
// which is what makes the queue single-flight.
func (o *Orchestrator) run() {
	for {
		o.mu.Lock()
		if len(o.jobs) == 0 {
			o.running = false
			o.cond.Broadcast()
			o.mu.Unlock()
			o.notify()
			return
		}
		job := o.jobs[0]
		job.Status = StatusProcessing
		o.mu.Unlock()
		o.notify()

		err := o.process(job)

		o.mu.Lock()
		if err != nil {
			job.Status = StatusFailed
		} else {
			job.Status = StatusCompleted
		}
		o.mu.Unlock()

		// Let subscribers see the terminal status before the job leaves
		// the queue.
		o.notify()

		o.mu.Lock()
		// Terminal either way: remove from queue, no retry.
		o.jobs = o.jobs[1:]
		more := len(o.jobs) > 0
		o.cond.Broadcast()
		o.mu.Unlock()

		if err != nil {
			slog.Error("Scan job failed", "job_id", job.ID, "image", job.ImageRef, "error", err)
		} else {
			slog.Info("Scan job completed", "job_id", job.ID, "image", job.ImageRef)
		}
		o.notify()

		if more {
			select {
			case <-o.ctx.Done():
			case <-time.After(o.cooldown):
			}
		}
	}
}

// process runs one job to completion or failure. A panic anywhere in the
// pipeline is converted to a job failure so the queue always continues.
func (o *Orchestrator) process(job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan pipeline panicked: %v", r)
		}
	}()

	image, err := o.loadImage(job.ImageRef)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	books := o.pipeline.Scan(o.ctx, image, o.gridX, o.gridY, func(current, total int) {
		o.mu.Lock()
		job.Progress = Progress{Current: current, Total: total}
		o.mu.Unlock()
		o.notify()
	})

	if err := o.store.SaveScan(o.ctx, job.ImageRef, books); err != nil {
		return fmt.Errorf("failed to persist scan results: %w", err)
	}

	return nil
}
