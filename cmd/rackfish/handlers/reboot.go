package handlers

import (
	"context"

	"github.com/go-logr/logr"
)

// Reboot power-cycles the target host without any configuration change.
func Reboot(ctx context.Context, log logr.Logger, opts Options) error {
	client, err := newClient(clientOptions(opts))
	if err != nil {
		return err
	}

	return newOrchestrator(client, log).Cycle(ctx)
}
