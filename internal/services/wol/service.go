package wol

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/screenmachine/wakeup/internal/models"
)

// DefaultBroadcastIP is the limited broadcast address, reaching every
// host on the local segment.
const DefaultBroadcastIP = "255.255.255.255"

// DefaultPort is the standard Wake-on-LAN UDP port.
const DefaultPort = 9

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
}

// Client sends a single datagram. Wrapped in an interface for mocking.
type Client interface {
	Send(addr string, payload []byte) error
}

// HTTPClient allows mocking HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultClient sends UDP datagrams over a transient socket. Go enables
// SO_BROADCAST on UDP sockets, so broadcast destinations work directly.
type DefaultClient struct{}

// Send opens a UDP socket, writes the payload and closes the socket.
func (c *DefaultClient) Send(addr string, payload []byte) error {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return fmt.Errorf("opening UDP socket for %s: %w", addr, err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("sending packet to %s: %w", addr, err)
	}

	return nil
}

// Impl implements the WOL Service interface.
type Impl struct {
	client     Client
	httpClient HTTPClient
	logger     zerolog.Logger
}

// New creates a new WOL service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		client: &DefaultClient{},
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// NewWithClients creates a new WOL service with custom clients (for testing).
func NewWithClients(logger zerolog.Logger, client Client, httpClient HTTPClient) *Impl {
	return &Impl{
		client:     client,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Wake validates the request, then broadcasts the magic packet the
// configured number of times. Every attempt is made even after an early
// success; transport errors are recorded per attempt and never abort the
// loop. If a poll URL is configured, Wake then waits for the target to
// answer before returning.
func (s *Impl) Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	if req.Retries <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRetryCount, req.Retries)
	}
	if req.Delay < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDelay, req.Delay)
	}

	mac, err := ParseMAC(req.MACAddress)
	if err != nil {
		return nil, err
	}

	if req.BroadcastIP == "" {
		req.BroadcastIP = DefaultBroadcastIP
	}
	if req.Port == 0 {
		req.Port = DefaultPort
	}

	packet := BuildMagicPacket(mac)
	addr := net.JoinHostPort(req.BroadcastIP, strconv.Itoa(req.Port))
	result := &models.WakeResult{}
	start := time.Now()

	s.logger.Info().
		Str("mac", mac.String()).
		Str("addr", addr).
		Int("retries", req.Retries).
		Msg("sending WOL packets")

	for attempt := 1; attempt <= req.Retries; attempt++ {
		result.Attempts++

		if err := s.client.Send(addr, packet); err != nil {
			result.Err = err
			s.logger.Warn().Err(err).
				Int("attempt", attempt).
				Int("retries", req.Retries).
				Msg("failed to send WOL packet")
		} else {
			result.Successes++
			s.logger.Debug().
				Int("attempt", attempt).
				Int("retries", req.Retries).
				Msg("WOL packet sent")
		}

		if attempt < req.Retries {
			select {
			case <-ctx.Done():
				result.Err = ctx.Err()
				result.WaitDuration = time.Since(start)
				return result, ctx.Err()
			case <-time.After(req.Delay):
			}
		}
	}

	s.logger.Info().
		Int("attempts", result.Attempts).
		Int("successes", result.Successes).
		Msg("WOL broadcast finished")

	// If no poll URL is configured, we're done.
	if req.PollURL == "" {
		result.WaitDuration = time.Since(start)
		result.TargetReady = true
		return result, nil
	}

	s.logger.Info().
		Str("url", req.PollURL).
		Dur("timeout", req.Timeout).
		Msg("waiting for target to become available")

	if err := s.waitForTarget(ctx, req); err != nil {
		result.WaitDuration = time.Since(start)
		result.Err = err
		return result, nil //nolint:nilerr // error is stored in result struct by design
	}

	if req.StabilizeWait > 0 {
		s.logger.Debug().Str("wait", req.StabilizeWait.Round(time.Millisecond).String()).Msg("waiting for target to stabilize")
		select {
		case <-ctx.Done():
			result.WaitDuration = time.Since(start)
			result.Err = ctx.Err()
			return result, nil
		case <-time.After(req.StabilizeWait):
		}
	}

	result.TargetReady = true
	result.WaitDuration = time.Since(start)

	s.logger.Info().
		Dur("duration", result.WaitDuration).
		Msg("target is ready")

	return result, nil
}

func (s *Impl) waitForTarget(ctx context.Context, req models.WakeRequest) error {
	deadline := time.Now().Add(req.Timeout)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for target at %s", req.PollURL)
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.PollURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := s.httpClient.Do(httpReq)
		if err == nil {
			_ = resp.Body.Close()
			// Any response means the target is up.
			return nil
		}

		s.logger.Debug().Err(err).Msg("target not ready yet")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(req.PollInterval):
		}
	}
}
