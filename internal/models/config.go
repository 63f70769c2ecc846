package models

import "time"

// Config holds the device registry loaded from the configuration file.
type Config struct {
	Defaults WakeDefaults
	Devices  []DeviceConfig
}

// WakeDefaults are applied to devices that do not override them.
type WakeDefaults struct {
	BroadcastIP string
	Port        int
	Retries     int
	Delay       time.Duration
}

// DeviceConfig describes one wakeable machine.
type DeviceConfig struct {
	Name        string        `mapstructure:"name"`
	MACAddress  string        `mapstructure:"mac_address"`
	BroadcastIP string        `mapstructure:"broadcast_ip"`
	Port        int           `mapstructure:"port"`
	Retries     int           `mapstructure:"retries"`
	Delay       time.Duration `mapstructure:"delay"`

	PollURL       string        `mapstructure:"poll_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	StabilizeWait time.Duration `mapstructure:"stabilize_wait"`
}

// Device returns the device with the given name, or false.
func (c *Config) Device(name string) (DeviceConfig, bool) {
	for _, d := range c.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceConfig{}, false
}

// RequestFor builds a WakeRequest for a device, filling unset fields
// from the config defaults.
func (c *Config) RequestFor(d DeviceConfig) WakeRequest {
	req := WakeRequest{
		MACAddress:  d.MACAddress,
		BroadcastIP: d.BroadcastIP,
		Port:        d.Port,
		Retries:     d.Retries,
		Delay:       d.Delay,

		PollURL:       d.PollURL,
		Timeout:       d.Timeout,
		PollInterval:  d.PollInterval,
		StabilizeWait: d.StabilizeWait,
	}

	if req.BroadcastIP == "" {
		req.BroadcastIP = c.Defaults.BroadcastIP
	}
	if req.Port == 0 {
		req.Port = c.Defaults.Port
	}
	if req.Retries == 0 {
		req.Retries = c.Defaults.Retries
	}
	if req.Delay == 0 {
		req.Delay = c.Defaults.Delay
	}

	return req
}
