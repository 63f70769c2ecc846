// Package wol provides Wake-on-LAN operations.
package wol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
)

const (
	// MACLength is the number of octets in an Ethernet MAC address.
	MACLength = 6

	// macRepetitions is how often the MAC is repeated in a magic packet.
	macRepetitions = 16

	// MagicPacketSize is the size of a WOL magic packet: 6 bytes of
	// 0xFF followed by 16 repetitions of the 6-byte MAC (102 bytes).
	MagicPacketSize = MACLength + MACLength*macRepetitions
)

// Validation errors. Callers can match them with errors.Is.
var (
	ErrInvalidMACFormat  = errors.New("invalid MAC address format")
	ErrInvalidRetryCount = errors.New("retry count must be at least 1")
	ErrInvalidDelay      = errors.New("delay must not be negative")
)

// ParseMAC parses a MAC address in the form XX:XX:XX:XX:XX:XX or
// XX-XX-XX-XX-XX-XX, case-insensitive. The separator must be used
// consistently; unseparated 12-digit strings are rejected.
func ParseMAC(s string) (net.HardwareAddr, error) {
	if len(s) != MACLength*3-1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMACFormat, s)
	}

	sep := s[2]
	if sep != ':' && sep != '-' {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMACFormat, s)
	}

	groups := strings.Split(s, string(sep))
	if len(groups) != MACLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMACFormat, s)
	}

	mac := make(net.HardwareAddr, 0, MACLength)
	for _, g := range groups {
		if len(g) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMACFormat, s)
		}
		b, err := hex.DecodeString(g)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMACFormat, s)
		}
		mac = append(mac, b[0])
	}

	return mac, nil
}

// BuildMagicPacket builds the 102-byte magic packet for a 6-byte MAC:
// 6 bytes of 0xFF followed by the MAC repeated 16 times.
func BuildMagicPacket(mac net.HardwareAddr) []byte {
	packet := make([]byte, 0, MagicPacketSize)
	for i := 0; i < MACLength; i++ {
		packet = append(packet, 0xFF)
	}
	for i := 0; i < macRepetitions; i++ {
		packet = append(packet, mac...)
	}
	return packet
}
