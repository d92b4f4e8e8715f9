// Package power sequences graceful-to-forced power cycles so a scheduled
// configuration job takes effect deterministically.
package power

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/redfish"
	"github.com/rackfish/rackfish/internal/util/retry"
)

// Defaults for the shutdown poll loop and the settle pauses after accepted
// reset actions.
const (
	DefaultPolls         = 10
	DefaultPollInterval  = 1 * time.Second
	DefaultGracefulPause = 3 * time.Second
	DefaultForcedPause   = 10 * time.Second
)

// Orchestrator drives On→Off→On or Off→On transitions. Graceful shutdown is
// preferred to avoid abrupt loss of OS state, but forward progress is
// guaranteed: after the poll budget a single forced power-off is issued.
type Orchestrator struct {
	client        redfish.Client
	log           logr.Logger
	polls         int
	pollInterval  time.Duration
	gracefulPause time.Duration
	forcedPause   time.Duration
}

// Option adjusts orchestrator timing parameters.
type Option func(*Orchestrator)

// WithPolls overrides the shutdown poll budget.
func WithPolls(n int) Option {
	return func(o *Orchestrator) { o.polls = n }
}

// WithPollInterval overrides the wait between shutdown polls.
func WithPollInterval(i time.Duration) Option {
	return func(o *Orchestrator) { o.pollInterval = i }
}

// WithPauses overrides the settle pauses after accepted graceful and forced
// reset actions.
func WithPauses(graceful, forced time.Duration) Option {
	return func(o *Orchestrator) {
		o.gracefulPause = graceful
		o.forcedPause = forced
	}
}

// NewOrchestrator returns an Orchestrator with the default timings.
func NewOrchestrator(client redfish.Client, log logr.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:        client,
		log:           log,
		polls:         DefaultPolls,
		pollInterval:  DefaultPollInterval,
		gracefulPause: DefaultGracefulPause,
		forcedPause:   DefaultForcedPause,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Cycle reboots the target. From On it requests a graceful restart, waits for
// the system to reach Off within the poll budget, escalates exactly once to a
// forced power-off if it does not, then powers the system back on. From Off
// it powers on directly. Any other observed state is unrecoverable.
func (o *Orchestrator) Cycle(ctx context.Context) error {
	state, err := o.client.PowerState(ctx)
	if err != nil {
		return fmt.Errorf("reading power state: %w", err)
	}
	o.log.Info("current power state", "state", string(state))

	switch state {
	case redfish.PowerOn:
		return o.cycleFromOn(ctx)
	case redfish.PowerOff:
		return o.powerOn(ctx)
	default:
		return fmt.Errorf("power state %q supports neither reboot nor power on", string(state))
	}
}

func (o *Orchestrator) cycleFromOn(ctx context.Context) error {
	if err := o.client.Reset(ctx, redfish.ResetGracefulRestart); err != nil {
		return fmt.Errorf("graceful restart: %w", err)
	}
	o.log.Info("graceful restart requested")
	if err := o.pause(ctx, o.gracefulPause); err != nil {
		return err
	}

	if err := o.waitForOff(ctx); err != nil {
		if retry.IsFatal(err) || ctx.Err() != nil {
			return fmt.Errorf("waiting for power off: %w", err)
		}

		// The budget ran out with the system still up. This is the one
		// retry-exhausted condition that triggers a recovery action instead
		// of failing: escalate once to a forced power-off, with no further
		// polling afterwards.
		o.log.Info("graceful shutdown did not complete, forcing power off")
		if err := o.client.Reset(ctx, redfish.ResetForceOff); err != nil {
			return fmt.Errorf("forced power off: %w", err)
		}
		if err := o.pause(ctx, o.forcedPause); err != nil {
			return err
		}
	} else {
		o.log.Info("server reached Off state")
	}

	return o.powerOn(ctx)
}

// waitForOff polls the power state up to the budget. A read failure is fatal;
// "not yet Off" is transient, which covers transitional states the data model
// does not represent.
func (o *Orchestrator) waitForOff(ctx context.Context) error {
	return retry.Do(ctx, func() error {
		state, err := o.client.PowerState(ctx)
		if err != nil {
			return retry.Fatal(err)
		}
		if state == redfish.PowerOff {
			return nil
		}
		return fmt.Errorf("power state still %q", string(state))
	}, retry.WithAttempts(o.polls), retry.WithInterval(o.pollInterval))
}

func (o *Orchestrator) powerOn(ctx context.Context) error {
	if err := o.client.Reset(ctx, redfish.ResetOn); err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	o.log.Info("power on requested")
	return nil
}

func (o *Orchestrator) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
