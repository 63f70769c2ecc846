// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/screenmachine/wakeup/internal/models"
	"github.com/screenmachine/wakeup/internal/services/wol"
	"github.com/spf13/viper"
)

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{}

	// Parse defaults, falling back to the standard WOL values.
	cfg.Defaults = models.WakeDefaults{
		BroadcastIP: p.v.GetString("defaults.broadcast_ip"),
		Port:        p.v.GetInt("defaults.port"),
		Retries:     p.v.GetInt("defaults.retries"),
		Delay:       p.v.GetDuration("defaults.delay"),
	}

	if cfg.Defaults.BroadcastIP == "" {
		cfg.Defaults.BroadcastIP = wol.DefaultBroadcastIP
	}
	if cfg.Defaults.Port == 0 {
		cfg.Defaults.Port = wol.DefaultPort
	}
	if cfg.Defaults.Retries == 0 {
		cfg.Defaults.Retries = 3
	}
	if !p.v.IsSet("defaults.delay") {
		cfg.Defaults.Delay = time.Second
	}

	if err := p.v.UnmarshalKey("devices", &cfg.Devices); err != nil {
		return nil, fmt.Errorf("parsing devices: %w", err)
	}

	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		d.MACAddress = p.expandEnv(d.MACAddress)
		d.PollURL = p.expandEnv(d.PollURL)

		// Polling defaults only apply when a poll URL is configured.
		if d.PollURL != "" {
			if d.Timeout == 0 {
				d.Timeout = 5 * time.Minute
			}
			if d.PollInterval == 0 {
				d.PollInterval = 10 * time.Second
			}
			if d.StabilizeWait == 0 {
				d.StabilizeWait = 10 * time.Second
			}
		}
	}

	return cfg, Validate(cfg)
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if cfg.Defaults.Retries <= 0 {
		return fmt.Errorf("defaults.retries must be at least 1")
	}
	if cfg.Defaults.Delay < 0 {
		return fmt.Errorf("defaults.delay must not be negative")
	}
	if cfg.Defaults.Port <= 0 || cfg.Defaults.Port > 65535 {
		return fmt.Errorf("defaults.port must be in range 1-65535")
	}

	seen := make(map[string]bool, len(cfg.Devices))
	for _, d := range cfg.Devices {
		if d.Name == "" {
			return fmt.Errorf("device name is required")
		}
		if seen[d.Name] {
			return fmt.Errorf("duplicate device name: %s", d.Name)
		}
		seen[d.Name] = true

		if d.MACAddress == "" {
			return fmt.Errorf("device %s: mac_address is required", d.Name)
		}
		if _, err := wol.ParseMAC(d.MACAddress); err != nil {
			return fmt.Errorf("device %s: %w", d.Name, err)
		}

		if d.Retries < 0 {
			return fmt.Errorf("device %s: retries must not be negative", d.Name)
		}
		if d.Delay < 0 {
			return fmt.Errorf("device %s: delay must not be negative", d.Name)
		}
		if d.Port < 0 || d.Port > 65535 {
			return fmt.Errorf("device %s: port must be in range 1-65535", d.Name)
		}
		if d.Timeout < 0 || d.PollInterval < 0 || d.StabilizeWait < 0 {
			return fmt.Errorf("device %s: polling durations must not be negative", d.Name)
		}
	}

	return nil
}
