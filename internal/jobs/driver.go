// Package jobs drives controller configuration jobs from creation to
// confirmed scheduling.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/redfish"
	"github.com/rackfish/rackfish/internal/util/retry"
)

// State is the driver's position in the job lifecycle.
type State string

const (
	StateIdle      State = "Idle"
	StateCreated   State = "Created"
	StatePolling   State = "Polling"
	StateScheduled State = "Scheduled"
	StateFailed    State = "Failed"
)

// Defaults for the scheduling confirmation loop.
const (
	DefaultAttempts = 10
	DefaultInterval = 10 * time.Second
)

// Driver creates configuration jobs and polls them to confirmed scheduling.
// Once a job reaches a terminal state the driver never mutates it again.
type Driver struct {
	client   redfish.Client
	log      logr.Logger
	attempts int
	interval time.Duration
	state    State
}

// Option adjusts driver polling parameters.
type Option func(*Driver)

// WithAttempts overrides the confirmation attempt budget.
func WithAttempts(n int) Option {
	return func(d *Driver) { d.attempts = n }
}

// WithInterval overrides the wait between confirmation attempts.
func WithInterval(i time.Duration) Option {
	return func(d *Driver) { d.interval = i }
}

// NewDriver returns a Driver using the default attempt budget and interval.
func NewDriver(client redfish.Client, log logr.Logger, opts ...Option) *Driver {
	d := &Driver{
		client:   client,
		log:      log,
		attempts: DefaultAttempts,
		interval: DefaultInterval,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Create posts a configuration job referencing the given settings URI and
// returns the controller-assigned identifier. Any failure is fatal to the
// invocation: the controller rejected the request outright, there is nothing
// to retry.
func (d *Driver) Create(ctx context.Context, targetURI string) (string, error) {
	id, err := d.client.CreateJob(ctx, targetURI)
	if err != nil {
		d.state = StateFailed
		return "", fmt.Errorf("creating configuration job for %s: %w", targetURI, err)
	}

	d.state = StateCreated
	d.log.Info("configuration job created", "job", id, "target", targetURI)
	return id, nil
}

// ConfirmScheduled polls the job until the controller reports it scheduled.
// A failed read is fatal immediately: a broken read endpoint will not
// self-heal. Any other status message is transient and retried after the
// configured interval, up to the attempt budget. Exhausting the budget is
// fatal; the caller must not proceed to reboot an unconfirmed job.
func (d *Driver) ConfirmScheduled(ctx context.Context, id string) error {
	d.state = StatePolling

	err := retry.Do(ctx, func() error {
		job, err := d.client.Job(ctx, id)
		if err != nil {
			return retry.Fatal(err)
		}
		if job.Message == redfish.ScheduledMessage {
			return nil
		}
		d.log.Info("job not yet scheduled", "job", id, "status", job.Message)
		return fmt.Errorf("job status %q", job.Message)
	}, retry.WithAttempts(d.attempts), retry.WithInterval(d.interval))
	if err != nil {
		d.state = StateFailed
		return fmt.Errorf("confirming job %s scheduled: %w", id, err)
	}

	d.state = StateScheduled
	d.log.Info("job scheduled", "job", id)
	return nil
}

// ClearQueue drains the controller's pending job queue so a fresh job cannot
// collide with leftovers. Individual delete failures are logged and the drain
// is verified with a re-read; a queue that stays non-empty is fatal.
func (d *Driver) ClearQueue(ctx context.Context) error {
	queue, err := d.client.JobQueue(ctx)
	if err != nil {
		return fmt.Errorf("reading job queue: %w", err)
	}
	if len(queue) == 0 {
		d.log.Info("job queue already clear")
		return nil
	}

	d.log.Info("clearing job queue", "jobs", strings.Join(queue, ", "))
	for _, id := range queue {
		if err := d.client.DeleteJob(ctx, id); err != nil {
			d.log.Error(err, "failed to delete job", "job", id)
		}
	}

	remaining, err := d.client.JobQueue(ctx)
	if err != nil {
		return fmt.Errorf("re-reading job queue: %w", err)
	}
	if len(remaining) > 0 {
		return fmt.Errorf("job queue not cleared, still contains: %s", strings.Join(remaining, ", "))
	}

	d.log.Info("job queue cleared")
	return nil
}
