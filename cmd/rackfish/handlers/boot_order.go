package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/bootorder"
	"github.com/rackfish/rackfish/internal/config"
	"github.com/rackfish/rackfish/internal/redfish"
)

// ChangeBootOrder reconciles the controller's boot sequence against the
// desired interface ordering for this host's type and model.
//
// Input validation and the interfaces document load happen before the
// controller client is built, so malformed input never causes a network
// call. When the current order already matches, the flow reports the no-op
// and exits successfully without mutation; otherwise it patches the boot
// sequence, optionally arms a one-shot PXE boot, and hands off to the job
// and power machinery.
func ChangeBootOrder(ctx context.Context, log logr.Logger, opts Options) error {
	if !config.ValidHostType(opts.HostType) {
		return fmt.Errorf("host type %q not supported, expected %s", opts.HostType, strings.Join(config.HostTypes, " or "))
	}
	if opts.InterfacesPath == "" {
		return fmt.Errorf("changing the boot order requires a path to the interfaces yaml (-i)")
	}

	definitions, err := loadInterfaces(opts.InterfacesPath)
	if err != nil {
		return err
	}

	desired, err := config.InterfaceList(definitions, strings.ToLower(opts.HostType), config.HostModel(opts.Host))
	if err != nil {
		return err
	}

	client, err := newClient(clientOptions(opts))
	if err != nil {
		return err
	}

	mode, err := client.BIOSBootMode(ctx)
	if err != nil {
		return err
	}
	seqKey := bootorder.SequenceKey(mode)

	devices, err := client.BootDevices(ctx, seqKey)
	if err != nil {
		return err
	}

	patched, changed := bootorder.ComputePatch(desired, devices)
	if !changed {
		log.Info("boot order already matches the requested configuration, no changes made")
		return nil
	}

	if err := client.PatchBootOrder(ctx, seqKey, patched); err != nil {
		return fmt.Errorf("applying boot order patch: %w", err)
	}
	log.Info("boot order patch applied", "sequence", seqKey)

	if opts.PXE {
		if err := client.SetNextBootPXE(ctx); err != nil {
			return fmt.Errorf("setting one-shot PXE boot: %w", err)
		}
		log.Info("next boot set to one-shot PXE")
	}

	return scheduleAndReboot(ctx, log, client, redfish.BootSourcesSettingsPath)
}
