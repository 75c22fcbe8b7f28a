package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kmansel/phonelink/internal/adb"
	"github.com/kmansel/phonelink/internal/cache"
	"github.com/kmansel/phonelink/internal/config"
	"github.com/kmansel/phonelink/internal/connector"
	"github.com/kmansel/phonelink/internal/logging"
	"github.com/kmansel/phonelink/internal/mirror"
	"github.com/kmansel/phonelink/internal/netscan"
	"github.com/kmansel/phonelink/internal/ui"
)

// Command flags
var (
	adbPath     string
	scrcpyPath  string
	cachePath   string
	logLevel    string
	noScreenOff bool
	scanTimeout int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&adbPath, "adb", "", "Path to the adb binary (default: config file or PATH)")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "Connection cache file (default: config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, silent)")

	rootCmd.Flags().StringVar(&scrcpyPath, "scrcpy", "", "Path to the scrcpy binary (default: config file or PATH)")
	rootCmd.Flags().BoolVar(&noScreenOff, "no-screen-off", false, "Leave the physical screen on while mirroring")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// setup wires the shared pieces every device command needs.
func setup() (*config.Settings, *adb.Runner, *cache.Store, *zap.Logger, error) {
	if err := logging.Initialize(logLevel); err != nil {
		return nil, nil, nil, nil, err
	}
	logger := logging.GetLogger()

	settings, err := config.LoadSettings()
	if err != nil {
		logger.Warn("Config unreadable, using defaults", zap.Error(err))
		settings = config.NewSettings()
	}
	if adbPath != "" {
		settings.ADBPath = adbPath
	}
	if scrcpyPath != "" {
		settings.ScrcpyPath = scrcpyPath
	}

	runner := adb.NewRunner(adb.Config{ADBPath: settings.ADBPath}, logger)
	if err := runner.Available(); err != nil {
		return nil, nil, nil, nil, err
	}

	var store *cache.Store
	if cachePath != "" {
		store = cache.NewStoreAt(cachePath)
	} else {
		store, err = cache.NewStore()
		if err != nil {
			return nil, nil, nil, nil, err
		}
	}

	return settings, runner, store, logger, nil
}

// openStore resolves the cache store without touching adb, so cache
// commands work on machines where adb is absent.
func openStore() (*cache.Store, error) {
	if cachePath != "" {
		return cache.NewStoreAt(cachePath), nil
	}
	return cache.NewStore()
}

// newConnector builds the orchestrator from settings.
func newConnector(settings *config.Settings, runner *adb.Runner, store *cache.Store, logger *zap.Logger) *connector.Connector {
	classifier := netscan.NewClassifier(nil, settings.PreferredVendorSet())
	conn := connector.New(runner, store, classifier, logger)
	if len(settings.CommonPorts) > 0 {
		conn.CommonPorts = settings.CommonPorts
	}

	scanner := netscan.NewPortScanner(runner, logger)
	scanner.RangeLow = settings.ScanRangeLow
	scanner.RangeHigh = settings.ScanRangeHigh
	if len(settings.CommonPorts) > 0 {
		scanner.CommonPorts = settings.CommonPorts
	}
	conn.PortScan = scanner.Scan

	if settings.MDNSTimeoutSeconds < 0 {
		conn.MDNS = nil
	} else if settings.MDNSTimeoutSeconds > 0 {
		browser := netscan.NewMDNSBrowser(logger)
		browser.Timeout = time.Duration(settings.MDNSTimeoutSeconds) * time.Second
		conn.MDNS = browser.Browse
	}
	return conn
}

// runLaunch is the default command: discover, connect, mirror.
func runLaunch(cmd *cobra.Command, args []string) error {
	settings, runner, store, logger, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	launcher := mirror.NewLauncher(mirror.Config{
		ScrcpyPath: settings.ScrcpyPath,
		ExtraArgs:  settings.MirrorArgs,
	}, logger)
	if err := launcher.Available(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn := newConnector(settings, runner, store, logger)
	result, err := conn.Connect(ctx)
	if err != nil {
		return err
	}

	fmt.Println(ui.Render(ui.SuccessStyle, ui.SuccessMarker+" Phone connected"))
	printResult(result)

	if err := launcher.Start(); err != nil {
		return err
	}

	keepOff := !noScreenOff && *settings.KeepScreenOff
	if keepOff {
		// Let the client attach before pressing power, or the device may
		// interpret the keyevent as a wake.
		time.Sleep(3 * time.Second)
		keeper := mirror.NewScreenKeeper(runner, logger)
		keeper.ScreenOff(ctx)
		go keeper.Run(ctx)
		fmt.Println(ui.Render(ui.MutedStyle, "Physical screen is off; control the phone from this machine."))
	}

	err = launcher.Wait()
	if ctx.Err() != nil {
		launcher.Stop()
		return nil
	}
	return err
}

// connectCmd runs discovery without mirroring.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Discover and connect to the phone without mirroring",
	Long: `Run the discovery sequence (USB, cached endpoint, network scan) and
establish an adb connection, then exit. Useful for scripting or for
checking connectivity before starting a session.`,
	Example: `  # Connect using defaults
  phonelink connect

  # Verbose discovery
  phonelink connect --log-level debug`,
	RunE: runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	settings, runner, store, logger, err := setup()
	if err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	conn := newConnector(settings, runner, store, logger)
	result, err := conn.Connect(ctx)
	if err != nil {
		return err
	}

	fmt.Println(ui.Render(ui.SuccessStyle, ui.SuccessMarker+" Phone connected"))
	printResult(result)
	return nil
}

// scanCmd reports what discovery can see without connecting.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Survey the local network for live hosts",
	Long: `Sweep each local subnet, read the neighbor table, and print the live
hosts with their MAC addresses and vendor classification. No connection
attempts are made; this is a diagnostic for discovery problems.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 30, "Overall scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	// The survey never talks to adb, so skip the binary check.
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	logger := logging.GetLogger()
	defer logging.Sync()

	settings, err := config.LoadSettings()
	if err != nil {
		logger.Warn("Config unreadable, using defaults", zap.Error(err))
		settings = config.NewSettings()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(scanTimeout)*time.Second)
	defer cancel()

	classifier := netscan.NewClassifier(nil, settings.PreferredVendorSet())

	subnets := netscan.Subnets(ctx, logger)
	if len(subnets) == 0 {
		fmt.Println("No local subnets found.")
		fmt.Println()
		fmt.Println("Troubleshooting:")
		fmt.Println("  - Check that a network interface is up and has an IPv4 address")
		fmt.Println("  - Run with --log-level debug for introspection details")
		return nil
	}

	for _, subnet := range subnets {
		fmt.Println(ui.Render(ui.HeaderStyle, fmt.Sprintf("Subnet %s.x", subnet)))
		netscan.Sweep(ctx, subnet, logger)
		neighbors := netscan.NeighborTable(ctx)

		count := 0
		for ip, n := range neighbors {
			if n.Freshness != netscan.FreshnessDynamic {
				continue
			}
			vendor := classifier.Vendor(n.MAC)
			marker := "  "
			if classifier.Preferred(vendor) {
				marker = ui.Render(ui.SuccessStyle, "* ")
			}
			fmt.Printf("%s%-16s %s  %s\n", marker, ip, n.MAC, vendor)
			count++
		}
		if count == 0 {
			fmt.Println(ui.Render(ui.MutedStyle, "  no live hosts"))
		}
		fmt.Println()
	}
	fmt.Println(ui.Render(ui.MutedStyle, "* likely Android handset (scanned first during discovery)"))
	return nil
}

// devicesCmd lists devices known to the adb server.
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices known to the adb server",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, runner, _, _, err := setup()
		if err != nil {
			return err
		}
		defer logging.Sync()

		devices, err := runner.Devices(context.Background())
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices attached.")
			return nil
		}
		for _, d := range devices {
			fmt.Println(d)
		}
		return nil
	},
}

// rebootCmd restarts the connected device. Wireless debugging ports
// change across reboots, so the next run will fall back to a scan.
var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the connected device",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, runner, _, _, err := setup()
		if err != nil {
			return err
		}
		defer logging.Sync()

		if err := runner.Reboot(context.Background()); err != nil {
			return err
		}
		fmt.Println("Reboot requested.")
		return nil
	},
}

// cacheCmd groups cache inspection commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the connection cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		rec, err := store.Load()
		if err != nil {
			return err
		}
		if !rec.HasEndpoint() {
			fmt.Println("Cache is empty.")
			return nil
		}
		printKV("Endpoint", fmt.Sprintf("%s:%d", rec.IP, rec.Port))
		printKV("MAC", rec.MAC)
		printKV("Device", rec.DeviceName)
		printKV("Model", rec.DeviceModel)
		printKV("Last used", rec.LastConn.Format(time.RFC3339))
		printKV("File", store.Path())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the cached connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

// configCmd groups configuration commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the phonelink configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			settings = config.NewSettings()
		}
		if err := settings.Save(); err != nil {
			return err
		}
		path, _ := config.GetConfigPath()
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func printResult(result *connector.Result) {
	printKV("Transport", result.Transport)
	if result.Transport == "tcp" {
		printKV("Endpoint", fmt.Sprintf("%s:%d", result.IP, result.Port))
	}
	if result.Info.Model != "" {
		printKV("Device", result.Info.String())
	}
}

func printKV(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s %s\n", ui.Render(ui.KeyStyle, key+":"), ui.Render(ui.ValueStyle, value))
}
