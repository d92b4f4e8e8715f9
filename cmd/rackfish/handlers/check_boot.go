package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/rackfish/rackfish/internal/bootorder"
	"github.com/rackfish/rackfish/internal/config"
)

// CheckBoot is the read-only inspection path: it fetches the current boot
// sequence and, when an interfaces file is given, classifies it against the
// known host-type profiles for this host model. Nothing is mutated.
func CheckBoot(ctx context.Context, log logr.Logger, opts Options) error {
	client, err := newClient(clientOptions(opts))
	if err != nil {
		return err
	}

	mode, err := client.BIOSBootMode(ctx)
	if err != nil {
		return err
	}

	devices, err := client.BootDevices(ctx, bootorder.SequenceKey(mode))
	if err != nil {
		return err
	}

	if opts.InterfacesPath == "" {
		fmt.Fprint(stdout, renderBootOrder("Current boot order", devices))
		return nil
	}

	definitions, err := loadInterfaces(opts.InterfacesPath)
	if err != nil {
		return err
	}

	model := config.HostModel(opts.Host)
	profiles := make([]bootorder.Profile, 0, len(config.HostTypes))
	for _, hostType := range config.HostTypes {
		interfaces, err := config.InterfaceList(definitions, hostType, model)
		if err != nil {
			return err
		}
		profiles = append(profiles, bootorder.Profile{
			Name:       hostType,
			Interfaces: interfaces,
		})
	}

	if name, ok := bootorder.Classify(devices, profiles); ok {
		log.Info(fmt.Sprintf("current boot order is set to %q", name))
		return nil
	}

	log.Info("current boot order does not match any of: " + strings.Join(config.HostTypes, ", "))
	fmt.Fprint(stdout, renderBootOrder("Current boot order", devices))
	return nil
}
