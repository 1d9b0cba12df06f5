package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/config"
	"github.com/tapo-chatter/tapo-chatter/internal/logging"
	"github.com/tapo-chatter/tapo-chatter/internal/tapo"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
	"github.com/tapo-chatter/tapo-chatter/internal/version"
)

// osLookupEnv reads the shell environment
var osLookupEnv = os.LookupEnv

// Global flags
var (
	logLevel   string
	driverName string
)

var rootCmd = &cobra.Command{
	Use:   "tapo-chatter",
	Short: "Manage, monitor, and discover TP-Link Tapo smart home devices",
	Long: `Tapo Chatter finds Tapo devices on your network and watches a Tapo hub.

Modes:
  discover  Sweep an address range for Tapo devices
  monitor   Poll a hub and show the state of its child devices

Credentials are read from TAPO_USERNAME, TAPO_PASSWORD and TAPO_IP_ADDRESS.
Shell variables win over ~/.config/tapo-chatter/config.yaml, which wins
over a .env file in the current directory.

Device access goes through a device-control driver that must be linked into
the binary and registered by name. Select it with --driver or TAPO_DRIVER;
when exactly one driver is linked in it is used by default. A build with no
driver stops discover and monitor with "no device-control driver selected".`,
	Version: version.Version,
	Example: `  # Find Tapo devices on the local /24
  tapo-chatter discover

  # Stop after the first device and print JSON
  tapo-chatter discover -n 1 --json

  # Watch the hub configured in TAPO_IP_ADDRESS
  tapo-chatter monitor`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Initialize(logLevel); err != nil {
			return apperr.NewUsageError("--log-level", err.Error(), "--log-level debug")
		}
		return nil
	},
	RunE: runNoMode,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("Tapo Chatter v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "", "Registered device-control driver to use (must be linked into the binary); defaults to $"+config.EnvDriver)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tapo-chatter %s\n", version.Full())
	},
}

// runNoMode prints guidance when no subcommand is given. It is not an error.
func runNoMode(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.WarningTitleStyle.Render("Error: No mode specified"))
	fmt.Fprintln(out, "Please specify a mode: 'monitor' or 'discover'")
	fmt.Fprintln(out, "Example: tapo-chatter monitor")
	fmt.Fprintln(out, "Example: tapo-chatter discover")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Use 'tapo-chatter --help' for more information")
	return nil
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	return ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// loadConfig resolves and validates the credentials. lookup overrides the
// shell environment when non-nil.
func loadConfig(p *ui.Printer, lookup func(string) (string, bool)) (*config.Config, error) {
	if lookup == nil {
		lookup = osLookupEnv
	}
	p.Status("Loading configuration...")
	cfg, err := config.Load(config.Options{LookupEnv: lookup})
	if err != nil {
		return nil, err
	}
	p.Status("Configuration loaded successfully")
	return cfg, nil
}

// openClient creates the device-control client from --driver or the config
func openClient(p *ui.Printer, cfg *config.Config) (tapo.Client, error) {
	name := driverName
	if name == "" {
		name = cfg.Driver
	}

	p.Status("Initializing Tapo API client...")
	client, err := tapo.Open(name)
	if err != nil {
		return nil, apperr.NewScanFatalError("failed to initialize the device-control client", err)
	}
	p.Status("API client initialized")
	return client, nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return apperr.NewUsageError("--port",
			fmt.Sprintf("port must be between 1 and 65535 (got %d)", port), "--port 80")
	}
	return nil
}

func credentials(cfg *config.Config) tapo.Credentials {
	return tapo.Credentials{Username: cfg.Username, Password: cfg.Password}
}
