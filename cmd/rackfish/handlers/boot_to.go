package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/redfish"
)

// BootTo arms a one-shot boot to a specific device via the BIOS pending
// settings, then schedules the configuration job and power-cycles the host.
func BootTo(ctx context.Context, log logr.Logger, opts Options) error {
	client, err := newClient(clientOptions(opts))
	if err != nil {
		return err
	}

	if err := client.PatchOneTimeBoot(ctx, opts.BootTo); err != nil {
		return fmt.Errorf("setting one-time boot device %q: %w", opts.BootTo, err)
	}
	log.Info("one-time boot device set", "device", opts.BootTo)

	return scheduleAndReboot(ctx, log, client, redfish.BIOSSettingsPath)
}
