package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tapo-chatter/tapo-chatter/internal/apperr"
	"github.com/tapo-chatter/tapo-chatter/internal/device"
	"github.com/tapo-chatter/tapo-chatter/internal/discovery"
	"github.com/tapo-chatter/tapo-chatter/internal/events"
	"github.com/tapo-chatter/tapo-chatter/internal/probe"
	"github.com/tapo-chatter/tapo-chatter/internal/ui"
)

// Discover flags
var (
	discoverSubnet     string
	discoverRange      string
	discoverLimit      int
	discoverTimeout    float64
	discoverNumDevices int
	discoverJSON       bool
	discoverVerbose    bool
	discoverNoChildren bool
	discoverPort       int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Tapo devices on your network",
	Long: `Sweep a /24 address range for Tapo devices.

Every address in the range is probed with a short TCP connect. Hosts that
answer are asked for their device information; hosts that are not Tapo
devices are skipped silently unless --verbose is set. Hubs also report
their child devices unless --no-children is set.

Devices are listed in the order their probes completed.`,
	Example: `  # Scan the local subnet
  tapo-chatter discover

  # Scan part of another subnet with more probes in flight
  tapo-chatter discover -s 10.0.0 -r 100-200 -l 50

  # Stop after two devices and print JSON
  tapo-chatter discover -n 2 --json`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().StringVarP(&discoverSubnet, "subnet", "s", "", "Network subnet to scan (e.g. 192.168.1)")
	discoverCmd.Flags().StringVarP(&discoverRange, "range", "r", "1-254", "Range of IP addresses to scan, format: start-end (e.g. 1-254)")
	discoverCmd.Flags().IntVarP(&discoverLimit, "limit", "l", discovery.DefaultConcurrency, "Maximum number of concurrent network probes")
	discoverCmd.Flags().Float64VarP(&discoverTimeout, "timeout", "t", discovery.DefaultTimeout.Seconds(), "Timeout for each probe in seconds")
	discoverCmd.Flags().IntVarP(&discoverNumDevices, "num-devices", "n", 0, "Stop after finding this many devices (default: scan entire range)")
	discoverCmd.Flags().BoolVarP(&discoverJSON, "json", "j", false, "Output results in JSON format")
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "Show verbose error output")
	discoverCmd.Flags().BoolVar(&discoverNoChildren, "no-children", false, "Skip fetching and displaying child devices from hubs")
	discoverCmd.Flags().IntVar(&discoverPort, "port", probe.DefaultPort, "TCP port probed on every host")

	rootCmd.AddCommand(discoverCmd)
}

// discoverOptions turns the flags into engine options
func discoverOptions(cmd *cobra.Command) (discovery.Options, error) {
	start, end, err := discovery.ParseRange(discoverRange)
	if err != nil {
		return discovery.Options{}, err
	}

	if cmd.Flags().Changed("num-devices") && discoverNumDevices < 1 {
		return discovery.Options{}, apperr.NewUsageError("--num-devices",
			fmt.Sprintf("must be at least 1 (got %d)", discoverNumDevices), "--num-devices 1")
	}
	if err := validatePort(discoverPort); err != nil {
		return discovery.Options{}, err
	}
	if discoverTimeout <= 0 {
		return discovery.Options{}, apperr.NewUsageError("--timeout",
			fmt.Sprintf("timeout must be positive (got %v)", discoverTimeout), "--timeout 0.5")
	}

	opts := discovery.Options{
		Subnet:       discoverSubnet,
		Start:        start,
		End:          end,
		RangeSet:     true,
		Concurrency:  discoverLimit,
		Timeout:      time.Duration(discoverTimeout * float64(time.Second)),
		StopAfter:    discoverNumDevices,
		Port:         discoverPort,
		WithChildren: !discoverNoChildren,
	}
	if err := opts.Validate(); err != nil {
		return discovery.Options{}, err
	}
	return opts, nil
}

func runDiscover(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	opts, err := discoverOptions(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(p, nil)
	if err != nil {
		return err
	}

	client, err := openClient(p, cfg)
	if err != nil {
		return err
	}

	failures := &failureCollector{}
	sinks := []events.Sink{events.Log()}
	if discoverVerbose {
		sinks = append(sinks, failures)
	}
	if !discoverJSON && ui.IsTerminal(p.Err()) {
		sinks = append(sinks, newProgressSink(p.Err()))
	}

	if !discoverJSON {
		subnet := opts.Subnet
		if subnet == "" {
			subnet = "auto-detect"
		}
		limit := "entire range"
		if opts.StopAfter > 0 {
			limit = strconv.Itoa(opts.StopAfter) + " devices"
		}
		p.PrintHeader(ui.NewHeader("Device Discovery", "tapo-chatter discover",
			ui.Param{Key: "Subnet", Value: subnet},
			ui.Param{Key: "Range", Value: fmt.Sprintf("%d-%d", opts.Start, opts.End)},
			ui.Param{Key: "Concurrency", Value: strconv.Itoa(opts.Concurrency)},
			ui.Param{Key: "Timeout", Value: opts.Timeout.String()},
			ui.Param{Key: "Stop after", Value: limit},
		))
	}

	engine := discovery.NewEngine(client, credentials(cfg), opts)
	engine.Sink = events.Multi(sinks...)

	result, err := engine.Run(cmd.Context())
	if err != nil {
		return discoverFailed(p, err)
	}

	if discoverVerbose {
		if lines := failures.Lines(); len(lines) > 0 {
			p.PrintTrace(ui.NewTrace("Per-host failures", lines...).SetMaxLines(50))
		}
	}

	if result.Interrupted {
		if discoverJSON {
			p.Status("Discovery stopped by user")
		} else {
			p.PrintResult(ui.NewWarningResult("Discovery stopped by user",
				ui.Param{Key: "Probed", Value: strconv.Itoa(result.Probed)},
				ui.Param{Key: "Found", Value: strconv.Itoa(len(result.Devices))},
			))
		}
		if len(result.Devices) == 0 {
			return nil
		}
	}

	if discoverJSON {
		devices := result.Devices
		if devices == nil {
			devices = []device.Record{}
		}
		return p.PrintJSON(devices)
	}

	printDevices(p, result)
	return nil
}

// discoverFailed prints a fatal error, with the full chain in verbose mode
func discoverFailed(p *ui.Printer, err error) error {
	if apperr.IsUsageError(err) {
		return err
	}
	p.PrintError("Error during discovery", err, apperr.Troubleshooting(err))
	if discoverVerbose {
		p.PrintTrace(ui.ErrorTrace(apperr.Chain(err)))
	}
	return reported(err)
}

func printDevices(p *ui.Printer, result *discovery.Result) {
	if len(result.Devices) == 0 {
		p.PrintResult(ui.NewWarningResult("No devices found",
			ui.Param{Key: "Subnet", Value: result.Subnet},
			ui.Param{Key: "Probed", Value: strconv.Itoa(result.Probed)},
			ui.Param{Key: "Reachable", Value: strconv.Itoa(result.Reachable)},
		))
		return
	}

	p.Println(ui.DeviceTable(result.Devices))

	if !discoverNoChildren {
		for _, rec := range result.Devices {
			if !rec.IsHub() || len(rec.Children) == 0 {
				continue
			}
			p.Println("")
			p.Println(ui.TableTitleStyle.Render(
				fmt.Sprintf("Children of %s (%s)", rec.DeviceInfo.Nickname, rec.IPAddress)))
			p.Println(ui.ChildTable(rec.Children))
			if discoverVerbose {
				for _, child := range rec.Children {
					p.Println(ui.ChildParamsTable(child))
				}
			}
		}
	}

	details := []ui.Param{
		{Key: "Subnet", Value: result.Subnet},
		{Key: "Probed", Value: strconv.Itoa(result.Probed)},
		{Key: "Reachable", Value: strconv.Itoa(result.Reachable)},
		{Key: "Elapsed", Value: result.Elapsed.Round(time.Millisecond).String()},
	}
	if result.StoppedEarly {
		details = append(details, ui.Param{Key: "Stopped", Value: "device limit reached"})
	}
	p.PrintResult(ui.NewSuccessResult(
		fmt.Sprintf("Found %d Tapo %s", len(result.Devices), plural(len(result.Devices), "device")),
		details...,
	))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
