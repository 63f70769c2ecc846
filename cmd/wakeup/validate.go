package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/screenmachine/wakeup/internal/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the device registry config file",
	Long:  `Validate the device registry config file without sending any packets.`,
	RunE:  validateConfig,
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Defaults:")
	fmt.Printf("  Broadcast IP: %s\n", cfg.Defaults.BroadcastIP)
	fmt.Printf("  Port: %d\n", cfg.Defaults.Port)
	fmt.Printf("  Retries: %d\n", cfg.Defaults.Retries)
	fmt.Printf("  Delay: %s\n", cfg.Defaults.Delay)
	fmt.Println()
	fmt.Printf("Devices: %d\n", len(cfg.Devices))

	for _, d := range cfg.Devices {
		fmt.Println()
		fmt.Printf("Device %q:\n", d.Name)
		fmt.Printf("  MAC Address: %s\n", d.MACAddress)
		if d.BroadcastIP != "" {
			fmt.Printf("  Broadcast IP: %s\n", d.BroadcastIP)
		}
		if d.Port != 0 {
			fmt.Printf("  Port: %d\n", d.Port)
		}
		if d.Retries != 0 {
			fmt.Printf("  Retries: %d\n", d.Retries)
		}
		if d.Delay != 0 {
			fmt.Printf("  Delay: %s\n", d.Delay)
		}
		if d.PollURL != "" {
			fmt.Printf("  Poll URL: %s\n", d.PollURL)
			fmt.Printf("  Timeout: %s\n", d.Timeout)
			fmt.Printf("  Poll Interval: %s\n", d.PollInterval)
			fmt.Printf("  Stabilize Wait: %s\n", d.StabilizeWait)
		}
	}

	return nil
}
