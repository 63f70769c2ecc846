package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/screenmachine/wakeup/internal/config"
	"github.com/screenmachine/wakeup/internal/models"
	"github.com/screenmachine/wakeup/internal/services/runner"
	"github.com/screenmachine/wakeup/internal/services/wol"
	"github.com/spf13/cobra"
)

var (
	wakeBroadcastIP   string
	wakePort          int
	wakeRetries       int
	wakeDelay         time.Duration
	wakeWaitURL       string
	wakeTimeout       time.Duration
	wakePollInterval  time.Duration
	wakeStabilizeWait time.Duration

	wakeDevices []string
	wakeAll     bool
)

var wakeCmd = &cobra.Command{
	Use:   "wake [MAC]",
	Short: "Send Wake-on-LAN packets",
	Long: `Send Wake-on-LAN magic packets to a machine.

Either pass the target MAC address directly:

  wakeup wake 00:11:22:33:44:55
  wakeup wake 00-11-22-33-44-55 --retries 5 --delay 2s

Or wake devices from the config file:

  wakeup wake --device mini-pc -c wakeup.yaml
  wakeup wake --all -c wakeup.yaml

Exits 0 when at least one packet per target reached the network,
non-zero otherwise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWake,
}

func init() {
	wakeCmd.Flags().StringVar(&wakeBroadcastIP, "broadcast", wol.DefaultBroadcastIP, "broadcast IP address")
	wakeCmd.Flags().IntVar(&wakePort, "port", wol.DefaultPort, "target UDP port")
	wakeCmd.Flags().IntVar(&wakeRetries, "retries", 3, "number of broadcast attempts")
	wakeCmd.Flags().DurationVar(&wakeDelay, "delay", time.Second, "delay between attempts")
	wakeCmd.Flags().StringVar(&wakeWaitURL, "wait-url", "", "URL to poll until the target answers")
	wakeCmd.Flags().DurationVar(&wakeTimeout, "timeout", 5*time.Minute, "max time to wait for the target")
	wakeCmd.Flags().DurationVar(&wakePollInterval, "poll-interval", 10*time.Second, "how often to poll the wait URL")
	wakeCmd.Flags().DurationVar(&wakeStabilizeWait, "stabilize-wait", 0, "extra wait after the target answers")

	wakeCmd.Flags().StringSliceVarP(&wakeDevices, "device", "d", nil, "configured device name (repeatable)")
	wakeCmd.Flags().BoolVar(&wakeAll, "all", false, "wake every configured device")
}

func runWake(cmd *cobra.Command, args []string) error {
	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	switch {
	case len(args) == 1:
		if wakeAll || len(wakeDevices) > 0 {
			return fmt.Errorf("a MAC address and --device/--all are mutually exclusive")
		}
		return wakeByMAC(ctx, args[0])
	case wakeAll || len(wakeDevices) > 0:
		return wakeFromConfig(ctx)
	default:
		log.Error().Msg("a MAC address, --device or --all is required")
		return cmd.Help()
	}
}

func wakeByMAC(ctx context.Context, mac string) error {
	req := models.WakeRequest{
		MACAddress:  mac,
		BroadcastIP: wakeBroadcastIP,
		Port:        wakePort,
		Retries:     wakeRetries,
		Delay:       wakeDelay,

		PollURL:       wakeWaitURL,
		Timeout:       wakeTimeout,
		PollInterval:  wakePollInterval,
		StabilizeWait: wakeStabilizeWait,
	}

	wolSvc := wol.New(log.Logger)
	result, err := wolSvc.Wake(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("wake failed")
		return err
	}

	fmt.Printf("Attempts: %d, sent: %d\n", result.Attempts, result.Successes)

	if !result.Sent() {
		log.Error().Int("attempts", result.Attempts).Msg("no packet reached the network")
		return fmt.Errorf("all %d attempts failed", result.Attempts)
	}

	if wakeWaitURL != "" && !result.TargetReady {
		log.Error().Err(result.Err).Msg("packets sent but target never answered")
		return fmt.Errorf("target at %s did not become ready", wakeWaitURL)
	}

	fmt.Println("Wake packets sent. Whether the target actually woke is up to its NIC.")
	return nil
}

func wakeFromConfig(ctx context.Context) error {
	if configFile == "" {
		return fmt.Errorf("--device and --all require a config file (-c)")
	}

	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	names := wakeDevices
	if wakeAll {
		names = nil // runner wakes every device
	}

	runnerSvc := runner.New(log.Logger)
	if err := runnerSvc.Run(ctx, *cfg, names); err != nil {
		log.Error().Err(err).Msg("wake failed")
		return err
	}

	log.Info().Msg("all requested devices woken")
	return nil
}
