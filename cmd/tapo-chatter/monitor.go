package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/config"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/monitor"
	"github.com/tapo-chatter/tapo-chatter/internal/probe"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
)

// Monitor flags
var (
	monitorIP       string
	monitorInterval int
	monitorOnce     bool
	monitorPlain    bool
	monitorPort     int
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor a Tapo hub and its devices continuously",
	Long: `Poll a Tapo hub on a fixed interval and show its child devices.

Each update checks that the hub answers, fetches the child device list and
redraws the table. A failed update is reported and the next one is tried
on schedule. On a terminal the table is redrawn in place; use --plain to
print one table per update instead.`,
	Example: `  # Watch the hub configured in TAPO_IP_ADDRESS
  tapo-chatter monitor

  # Watch another hub every 30 seconds
  tapo-chatter monitor --ip 192.168.1.100 --interval 30

  # Print the child devices once and exit
  tapo-chatter monitor --once`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorIP, "ip", "", "IP address of the Tapo hub to monitor (overrides "+config.EnvIPAddress+")")
	monitorCmd.Flags().IntVar(&monitorInterval, "interval", int(monitor.DefaultInterval/time.Second), "Refresh interval in seconds")
	monitorCmd.Flags().BoolVar(&monitorOnce, "once", false, "Fetch the child devices once and exit")
	monitorCmd.Flags().BoolVar(&monitorPlain, "plain", false, "Print a table per update instead of redrawing in place")
	monitorCmd.Flags().IntVar(&monitorPort, "port", probe.DefaultPort, "TCP port used for the hub connectivity check")

	rootCmd.AddCommand(monitorCmd)
}

// monitorLookup makes --ip take the place of TAPO_IP_ADDRESS
func monitorLookup() (func(string) (string, bool), error) {
	if monitorIP == "" {
		return nil, nil
	}
	if !config.IsValidIPAddress(monitorIP) {
		return nil, apperr.NewUsageError("--ip",
			fmt.Sprintf("Invalid IP address format: %s", monitorIP), "--ip 192.168.1.100")
	}
	return lookupWith(map[string]string{config.EnvIPAddress: monitorIP}), nil
}

func runMonitor(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	if monitorInterval < 1 {
		return apperr.NewUsageError("--interval",
			fmt.Sprintf("interval must be at least 1 second (got %d)", monitorInterval), "--interval 10")
	}

	if err := validatePort(monitorPort); err != nil {
		return err
	}

	lookup, err := monitorLookup()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(p, lookup)
	if err != nil {
		return err
	}

	client, err := openClient(p, cfg)
	if err != nil {
		return err
	}

	interval := time.Duration(monitorInterval) * time.Second
	mon := monitor.New(client, credentials(cfg), monitor.Options{
		Host:     cfg.IPAddress,
		Interval: interval,
		Port:     monitorPort,
		Once:     monitorOnce,
	})

	if monitorOnce || monitorPlain || !ui.IsTerminal(p.Out()) {
		return runPlainMonitor(cmd.Context(), p, mon)
	}
	return runLiveMonitor(cmd.Context(), p, mon)
}

func runPlainMonitor(ctx context.Context, p *ui.Printer, mon *monitor.Monitor) error {
	p.PrintHeader(ui.NewHeader("Hub Monitor", "tapo-chatter monitor",
		ui.Param{Key: "Hub", Value: mon.Options.Host},
		ui.Param{Key: "Interval", Value: mon.Options.Interval.String()},
		ui.Param{Key: "Mode", Value: monitorMode(mon.Options.Once)},
	))

	mon.Sink = events.Multi(events.Log(), &plainMonitorSink{
		printer:        p,
		host:           mon.Options.Host,
		reportFailures: !mon.Options.Once,
	})

	if err := mon.Run(ctx); err != nil {
		return err
	}
	if ctx.Err() != nil {
		p.Status("Exiting application...")
	}
	return nil
}

func monitorMode(once bool) string {
	if once {
		return "single update"
	}
	return "continuous"
}

// runLiveMonitor runs the monitor loop next to a full-screen view. Quitting
// the view stops the loop and the loop ending quits the view.
func runLiveMonitor(ctx context.Context, p *ui.Printer, mon *monitor.Monitor) error {
	model := ui.NewLiveModel(mon.Options.Host, mon.Options.Interval)
	model.Width = p.Width()

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	defer stopLoop()

	prog := tea.NewProgram(model,
		tea.WithContext(gctx),
		tea.WithOutput(p.Out()),
		tea.WithAltScreen(),
	)

	mon.Sink = events.Multi(events.Log(), events.SinkFunc(func(e events.Event) {
		switch e.Kind {
		case events.Snapshot:
			prog.Send(ui.SnapshotMsg{Children: e.Children, Time: e.Time})
		case events.HubUnreachable, events.TickFailed:
			prog.Send(ui.FailureMsg{Err: e.Err, Time: e.Time})
		}
	}))

	g.Go(func() error {
		defer stopLoop()
		_, err := prog.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		err := mon.Run(loopCtx)
		prog.Quit()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	p.Status("Exiting application...")
	return nil
}

// lookupWith overlays values on the shell environment
func lookupWith(overrides map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		if v, ok := overrides[name]; ok {
			return v, true
		}
		return osLookupEnv(name)
	}
}
