package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/screenmachine/wakeup/internal/config"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured devices",
	RunE:  listDevices,
}

func listDevices(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
		return err
	}

	if len(cfg.Devices) == 0 {
		fmt.Println("No devices configured.")
		return nil
	}

	for _, d := range cfg.Devices {
		fmt.Printf("%-20s %s\n", d.Name, d.MACAddress)
	}

	return nil
}
