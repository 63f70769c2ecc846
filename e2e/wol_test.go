//go:build e2e

package e2e

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/screenmachine/wakeup/internal/models"
	"github.com/screenmachine/wakeup/internal/services/wol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// startUDPSink listens on loopback and reports every datagram it receives.
func startUDPSink(t *testing.T) (host string, port int, packets <-chan []byte) {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	ch := make(chan []byte, 16)
	go func() {
		buf := make([]byte, 1024)
		for {
			n, _, err := conn.ReadFrom(buf)
			if err != nil {
				close(ch)
				return
			}
			packet := make([]byte, n)
			copy(packet, buf[:n])
			ch <- packet
		}
	}()

	addr := conn.LocalAddr().(*net.UDPAddr)
	return addr.IP.String(), addr.Port, ch
}

func TestWOL_RealUDPTransport_E2E(t *testing.T) {
	host, port, packets := startUDPSink(t)

	svc := wol.New(testLogger())

	req := models.WakeRequest{
		MACAddress:  "00:11:22:33:44:55",
		BroadcastIP: host,
		Port:        port,
		Retries:     3,
		Delay:       10 * time.Millisecond,
	}

	result, err := svc.Wake(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 3, result.Successes)
	assert.True(t, result.Sent())

	mac, err := wol.ParseMAC(req.MACAddress)
	require.NoError(t, err)
	want := wol.BuildMagicPacket(mac)

	for i := 0; i < 3; i++ {
		select {
		case got := <-packets:
			require.Len(t, got, wol.MagicPacketSize)
			assert.Equal(t, want, got, "packet %d", i)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for packet %d", i)
		}
	}
}

func TestWOL_WithHTTPTarget_E2E(t *testing.T) {
	host, port, _ := startUDPSink(t)

	// Create a test HTTP server to act as the "target"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := wol.NewWithClients(testLogger(), &wol.DefaultClient{}, server.Client())

	req := models.WakeRequest{
		MACAddress:  "AA:BB:CC:DD:EE:FF",
		BroadcastIP: host,
		Port:        port,
		Retries:     1,

		PollURL:       server.URL,
		Timeout:       5 * time.Second,
		PollInterval:  100 * time.Millisecond,
		StabilizeWait: 100 * time.Millisecond,
	}

	result, err := svc.Wake(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Sent())
	assert.True(t, result.TargetReady)
	assert.Nil(t, result.Err)
	assert.Greater(t, result.WaitDuration, 100*time.Millisecond)
}

func TestWOL_TargetNeverReady_E2E(t *testing.T) {
	host, port, _ := startUDPSink(t)

	svc := wol.New(testLogger())

	req := models.WakeRequest{
		MACAddress:  "AA:BB:CC:DD:EE:FF",
		BroadcastIP: host,
		Port:        port,
		Retries:     1,

		// Nothing is listening on this port.
		PollURL:      "http://127.0.0.1:1",
		Timeout:      200 * time.Millisecond,
		PollInterval: 50 * time.Millisecond,
	}

	result, err := svc.Wake(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Sent())
	assert.False(t, result.TargetReady)
	require.NotNil(t, result.Err)
	assert.Contains(t, result.Err.Error(), "timeout")
}

// RealWOL tests - only run if explicitly configured
func TestRealWOL_E2E(t *testing.T) {
	mac := os.Getenv("TEST_WOL_MAC")
	if mac == "" {
		t.Skip("TEST_WOL_MAC not set")
	}

	svc := wol.New(testLogger())

	req := models.WakeRequest{
		MACAddress: mac,
		Retries:    3,
		Delay:      time.Second,
	}

	result, err := svc.Wake(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, result.Sent())
}
