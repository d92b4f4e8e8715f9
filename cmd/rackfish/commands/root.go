// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and logger construction. Command execution is
// delegated to handler functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/rackfish/rackfish/cmd/rackfish/handlers"
)

// Root returns the root command for the rackfish CLI.
//
// The root invocation performs one of four flows against a single target
// host: change the persistent boot order from an interfaces file (default),
// set a one-shot boot device (--boot-to), reboot only (--reboot-only), or
// inspect the current boot order without mutation (--check-boot).
func Root() *cobra.Command {
	var (
		opts    handlers.Options
		logPath string
	)

	cmd := &cobra.Command{
		Use:   "rackfish",
		Short: "Change server boot order and drive firmware jobs via Redfish",
		Long: `Change server firmware boot order via the management controller's Redfish API.

The default flow loads the desired interface ordering for the host's type and
model from an interfaces YAML file, patches the controller's boot sequence,
schedules a configuration job and power-cycles the host so it takes effect.

Examples:
  # Reconcile boot order for a foreman host
  rackfish -H mgmt-r640.example.com -u root -p secret -i interfaces.yml -t foreman

  # Reconcile and PXE-boot once after the reboot
  rackfish -H mgmt-r640.example.com -u root -p secret -i interfaces.yml -t director --pxe

  # One-shot boot a specific device
  rackfish -H mgmt-r640.example.com -u root -p secret --boot-to NIC.Integrated.1-3-1

  # Inspect the current boot order
  rackfish -H mgmt-r640.example.com -u root -p secret -i interfaces.yml --check-boot`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, closeLogger, err := newLogger(logPath)
			if err != nil {
				return err
			}
			defer closeLogger()

			return handlers.Run(cmd.Context(), logger, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Host, "host", "H", "", "Management controller host address")
	cmd.Flags().StringVarP(&opts.Username, "user", "u", "", "Management controller username")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Management controller password")
	cmd.Flags().StringVarP(&opts.InterfacesPath, "interfaces", "i", "", "Path to the interfaces yaml")
	cmd.Flags().StringVarP(&opts.HostType, "host-type", "t", "", "Type of host. Accepts: foreman, director")
	cmd.Flags().BoolVar(&opts.PXE, "pxe", false, "Set next boot to one-shot boot PXE")
	cmd.Flags().StringVar(&opts.BootTo, "boot-to", "", "Set next boot to one-shot boot to a specific device")
	cmd.Flags().BoolVar(&opts.RebootOnly, "reboot-only", false, "Only reboot the host")
	cmd.Flags().BoolVar(&opts.CheckBoot, "check-boot", false, "Check the host boot order without changing it")
	cmd.Flags().BoolVar(&opts.SkipTLSVerification, "skip-tls-verify", true, "Skip TLS certificate verification (managed hardware usually has self-signed certificates)")
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "Also log results to a file")

	_ = cmd.MarkFlagRequired("host")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")

	cmd.AddCommand(Version())

	return cmd
}
