// Package models contains the data structures used throughout wakeup.
package models

import "time"

// WakeRequest describes a single Wake-on-LAN send operation.
type WakeRequest struct {
	MACAddress  string
	BroadcastIP string        // defaults to 255.255.255.255
	Port        int           // defaults to 9
	Retries     int           // number of broadcast attempts
	Delay       time.Duration // wait between attempts

	// Optional readiness polling after the broadcast loop.
	PollURL       string        // URL to poll until the target answers
	Timeout       time.Duration // max time to wait for the target
	PollInterval  time.Duration // how often to poll the URL
	StabilizeWait time.Duration // extra wait after the target answers
}

// WakeResult summarizes a Wake-on-LAN send operation.
type WakeResult struct {
	Attempts     int  // broadcast attempts made
	Successes    int  // attempts that were handed to the network without error
	TargetReady  bool // target answered the poll URL (true when no URL is set)
	WaitDuration time.Duration
	Err          error // last per-attempt or polling error, nil when clean
}

// Sent reports whether at least one attempt reached the network layer.
// It says nothing about whether the target actually woke; Wake-on-LAN
// is fire-and-forget.
func (r *WakeResult) Sent() bool {
	return r.Successes > 0
}
