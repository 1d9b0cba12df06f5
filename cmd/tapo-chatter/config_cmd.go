package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tapo-chatter/tapo-chatter/internal/config"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
)

// Config init flags
var (
	initUsername string
	initPassword string
	initIP       string
	initDriver   string
	initPath     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the tapo-chatter configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration and where each value came from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write credentials to the user config file",
	Long: `Write credentials to the user config file.

The file is created with owner-only permissions. Shell variables still take
precedence over the values stored in it. When --password is omitted on a
terminal, it is read without echo.`,
	Example: `  tapo-chatter config init --username you@example.com --ip 192.168.1.100`,
	Args:    cobra.NoArgs,
	RunE:    runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&initUsername, "username", "", "Tapo account email")
	configInitCmd.Flags().StringVar(&initPassword, "password", "", "Tapo account password")
	configInitCmd.Flags().StringVar(&initIP, "ip", "", "Hub IP address")
	configInitCmd.Flags().StringVar(&initDriver, "driver", "", "Device-control driver name")
	configInitCmd.Flags().StringVar(&initPath, "path", "", "Config file path (default: user config directory)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	cfg, err := config.Load(config.Options{LookupEnv: osLookupEnv})
	if err != nil {
		return err
	}
	masked := cfg.Masked()

	path, err := config.GetConfigPath()
	if err != nil {
		path = "unavailable"
	}

	driver := masked.Driver
	if driver == "" {
		driver = "default"
	}

	p.PrintResult(ui.NewSuccessResult("Configuration is valid",
		ui.Param{Key: config.EnvUsername, Value: withSource(masked.Username, cfg.Sources[config.EnvUsername])},
		ui.Param{Key: config.EnvPassword, Value: withSource(masked.Password, cfg.Sources[config.EnvPassword])},
		ui.Param{Key: config.EnvIPAddress, Value: withSource(masked.IPAddress, cfg.Sources[config.EnvIPAddress])},
		ui.Param{Key: config.EnvDriver, Value: withSource(driver, cfg.Sources[config.EnvDriver])},
		ui.Param{Key: "User config", Value: path},
	))
	return nil
}

func withSource(value string, src config.Source) string {
	return fmt.Sprintf("%s (%s)", value, src)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	if initPassword == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		initPassword = string(secret)
	}

	cfg := &config.Config{
		Username:  initUsername,
		Password:  initPassword,
		IPAddress: initIP,
		Driver:    initDriver,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := initPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := config.SaveUserConfig(path, cfg); err != nil {
		return err
	}

	p.PrintResult(ui.NewSuccessResult("Configuration saved",
		ui.Param{Key: "Path", Value: path},
		ui.Param{Key: config.EnvUsername, Value: cfg.Username},
		ui.Param{Key: config.EnvIPAddress, Value: cfg.IPAddress},
	))
	return nil
}
