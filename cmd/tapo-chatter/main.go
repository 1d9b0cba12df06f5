// Tapo-chatter discovers and monitors TP-Link Tapo smart-home devices on the
// local network.
//
// It sweeps an address range for Tapo devices and renders them as a table or
// JSON, and it polls a single hub on a fixed interval to show the state of its
// paired sensors and plugs.
//
// Usage:
//
//	tapo-chatter [command] [flags]
//
// Credentials come from TAPO_USERNAME, TAPO_PASSWORD and TAPO_IP_ADDRESS in the
// shell, the user config file or a project .env file.
// See 'tapo-chatter --help' for available commands.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/logging"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		reportError(ui.NewPrinter(os.Stdout, os.Stderr), err)
		os.Exit(apperr.ExitCode(err))
	}
}

// reportedError marks an error whose failure box was already printed by the
// command that returned it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// reportError prints err as a failure box unless it was already reported
func reportError(p *ui.Printer, err error) {
	var r *reportedError
	if errors.As(err, &r) {
		return
	}
	if apperr.IsInterrupt(err) {
		p.Status("Exiting application...")
		return
	}
	p.PrintError(errorTitle(err), err, apperr.Troubleshooting(err))
}

func errorTitle(err error) string {
	kind, ok := apperr.KindOf(err)
	if !ok {
		return "Command failed"
	}
	switch kind {
	case apperr.KindConfiguration:
		return "Configuration error"
	case apperr.KindUsage:
		return "Invalid arguments"
	case apperr.KindScanFatal:
		return "Fatal error"
	case apperr.KindProbe:
		return "Device unreachable"
	default:
		return "Command failed"
	}
}
