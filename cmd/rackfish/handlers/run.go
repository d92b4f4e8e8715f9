// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by the command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"io"
	"os"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/config"
	"github.com/rackfish/rackfish/internal/jobs"
	"github.com/rackfish/rackfish/internal/power"
	"github.com/rackfish/rackfish/internal/redfish"
)

// Options carries the validated flag surface for a single invocation.
type Options struct {
	Host           string
	Username       string
	Password       string
	InterfacesPath string
	HostType       string
	PXE            bool
	BootTo         string
	RebootOnly     bool
	CheckBoot      bool
	// SkipTLSVerification is scoped to the one client this invocation
	// builds; nothing is disabled process-wide.
	SkipTLSVerification bool
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newClient builds the controller client for the target host.
	newClient = func(opts redfish.Options) (redfish.Client, error) {
		return redfish.New(opts)
	}

	// newDriver builds the job lifecycle driver.
	newDriver = func(client redfish.Client, log logr.Logger) *jobs.Driver {
		return jobs.NewDriver(client, log)
	}

	// newOrchestrator builds the power cycle orchestrator.
	newOrchestrator = func(client redfish.Client, log logr.Logger) *power.Orchestrator {
		return power.NewOrchestrator(client, log)
	}

	// loadInterfaces loads the interfaces document (for testing injection).
	loadInterfaces = config.LoadInterfaces

	// stdout is the destination for boot-order reports (for testing injection).
	stdout io.Writer = os.Stdout
)

// Run dispatches to the flow selected by the invocation's flags: reboot-only,
// one-shot boot target, read-only boot inspection, or the default boot-order
// reconciliation.
func Run(ctx context.Context, log logr.Logger, opts Options) error {
	switch {
	case opts.RebootOnly:
		return Reboot(ctx, log, opts)
	case opts.BootTo != "":
		return BootTo(ctx, log, opts)
	case opts.CheckBoot:
		return CheckBoot(ctx, log, opts)
	default:
		return ChangeBootOrder(ctx, log, opts)
	}
}

func clientOptions(opts Options) redfish.Options {
	return redfish.Options{
		Host:                opts.Host,
		Username:            opts.Username,
		Password:            opts.Password,
		SkipTLSVerification: opts.SkipTLSVerification,
	}
}

// scheduleAndReboot is the shared trailer of every mutating flow: drain the
// controller's job queue, create a configuration job against the settings URI
// that was just patched, confirm the controller scheduled it, then
// power-cycle the host so the job executes.
func scheduleAndReboot(ctx context.Context, log logr.Logger, client redfish.Client, targetURI string) error {
	driver := newDriver(client, log)

	if err := driver.ClearQueue(ctx); err != nil {
		return err
	}

	id, err := driver.Create(ctx, targetURI)
	if err != nil {
		return err
	}
	if err := driver.ConfirmScheduled(ctx, id); err != nil {
		return err
	}

	return newOrchestrator(client, log).Cycle(ctx)
}
