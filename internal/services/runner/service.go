// Package runner orchestrates wake operations across configured devices.
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/screenmachine/wakeup/internal/models"
	"github.com/screenmachine/wakeup/internal/services/wol"
)

// Service defines the interface for the wake runner.
type Service interface {
	Run(ctx context.Context, cfg models.Config, names []string) error
}

// Impl implements the runner Service interface.
type Impl struct {
	wolSvc wol.Service
	logger zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		wolSvc: wol.New(logger),
		logger: logger,
	}
}

// NewWithServices creates a new runner service with a custom WOL service (for testing).
func NewWithServices(logger zerolog.Logger, wolSvc wol.Service) *Impl {
	return &Impl{
		wolSvc: wolSvc,
		logger: logger,
	}
}

// Run wakes the named devices sequentially. An empty name list selects
// every configured device. Devices are independent: one device failing
// to send does not stop the others. Run returns an error when a name is
// unknown or when any device ends with zero successful sends.
func (s *Impl) Run(ctx context.Context, cfg models.Config, names []string) error {
	devices, err := s.selectDevices(cfg, names)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		return fmt.Errorf("no devices configured")
	}

	var failed []string
	for _, d := range devices {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.Info().
			Str("device", d.Name).
			Str("mac", d.MACAddress).
			Msg("waking device")

		result, err := s.wolSvc.Wake(ctx, cfg.RequestFor(d))
		if err != nil {
			s.logger.Error().Err(err).Str("device", d.Name).Msg("wake failed")
			failed = append(failed, d.Name)
			continue
		}

		if !result.Sent() {
			s.logger.Error().
				Str("device", d.Name).
				Int("attempts", result.Attempts).
				Msg("no packet reached the network")
			failed = append(failed, d.Name)
			continue
		}

		s.logger.Info().
			Str("device", d.Name).
			Int("attempts", result.Attempts).
			Int("successes", result.Successes).
			Bool("target_ready", result.TargetReady).
			Msg("device woken")
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to wake: %s", strings.Join(failed, ", "))
	}

	return nil
}

func (s *Impl) selectDevices(cfg models.Config, names []string) ([]models.DeviceConfig, error) {
	if len(names) == 0 {
		return cfg.Devices, nil
	}

	devices := make([]models.DeviceConfig, 0, len(names))
	for _, name := range names {
		d, ok := cfg.Device(name)
		if !ok {
			return nil, fmt.Errorf("unknown device: %s", name)
		}
		devices = append(devices, d)
	}

	return devices, nil
}
