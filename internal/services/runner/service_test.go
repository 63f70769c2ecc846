package runner

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/screenmachine/wakeup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations.
type mockWOLService struct {
	wakeFunc func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
	requests []models.WakeRequest
}

func (m *mockWOLService) Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	m.requests = append(m.requests, req)
	if m.wakeFunc != nil {
		return m.wakeFunc(ctx, req)
	}
	return &models.WakeResult{Attempts: 1, Successes: 1, TargetReady: true}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testConfig() models.Config {
	return models.Config{
		Defaults: models.WakeDefaults{
			BroadcastIP: "255.255.255.255",
			Port:        9,
			Retries:     3,
			Delay:       time.Second,
		},
		Devices: []models.DeviceConfig{
			{Name: "mini-pc", MACAddress: "00:11:22:33:44:55"},
			{Name: "nas", MACAddress: "AA:BB:CC:DD:EE:FF", Retries: 1, BroadcastIP: "10.0.0.255"},
		},
	}
}

func TestRun_AllDevices(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), nil)

	require.NoError(t, err)
	require.Len(t, wolSvc.requests, 2)
	assert.Equal(t, "00:11:22:33:44:55", wolSvc.requests[0].MACAddress)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", wolSvc.requests[1].MACAddress)
}

func TestRun_DefaultsMergedIntoRequests(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), nil)

	require.NoError(t, err)
	require.Len(t, wolSvc.requests, 2)

	// mini-pc inherits all defaults.
	assert.Equal(t, "255.255.255.255", wolSvc.requests[0].BroadcastIP)
	assert.Equal(t, 9, wolSvc.requests[0].Port)
	assert.Equal(t, 3, wolSvc.requests[0].Retries)
	assert.Equal(t, time.Second, wolSvc.requests[0].Delay)

	// nas keeps its overrides.
	assert.Equal(t, "10.0.0.255", wolSvc.requests[1].BroadcastIP)
	assert.Equal(t, 1, wolSvc.requests[1].Retries)
}

func TestRun_NamedDevice(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), []string{"nas"})

	require.NoError(t, err)
	require.Len(t, wolSvc.requests, 1)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", wolSvc.requests[0].MACAddress)
}

func TestRun_UnknownDevice(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), []string{"toaster"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown device: toaster")
	assert.Empty(t, wolSvc.requests)
}

func TestRun_NoDevicesConfigured(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), models.Config{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no devices configured")
}

// One failing device must not stop the others.
func TestRun_FailureIsolation(t *testing.T) {
	wolSvc := &mockWOLService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			if req.MACAddress == "00:11:22:33:44:55" {
				return &models.WakeResult{Attempts: 3, Successes: 0, Err: errors.New("network unreachable")}, nil
			}
			return &models.WakeResult{Attempts: 1, Successes: 1, TargetReady: true}, nil
		},
	}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to wake: mini-pc")
	assert.NotContains(t, err.Error(), "nas")
	require.Len(t, wolSvc.requests, 2)
}

func TestRun_WakeError(t *testing.T) {
	wolSvc := &mockWOLService{
		wakeFunc: func(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
			return nil, errors.New("boom")
		},
	}
	svc := NewWithServices(testLogger(), wolSvc)

	err := svc.Run(context.Background(), testConfig(), []string{"nas"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to wake: nas")
}

func TestRun_ContextCancelled(t *testing.T) {
	wolSvc := &mockWOLService{}
	svc := NewWithServices(testLogger(), wolSvc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Run(ctx, testConfig(), nil)

	require.Error(t, err)
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, wolSvc.requests)
}
