package responses

import (
	"testing"
	"time"

	"ScreenWatch/api/identity"
	"ScreenWatch/api/models"

	"github.com/stretchr/testify/assert"
)

func TestNewDeviceResolutionResponse(t *testing.T) {
	res := &identity.Resolution{
		DeviceID:   "dev-1",
		MatchType:  identity.MatchFingerprint,
		Confidence: identity.ConfidenceHigh,
		Device: &models.Device{
			DeviceID:            "dev-1",
			OS:                  "Win32",
			Platform:            "Win32",
			HardwareConcurrency: "8",
			ScreenResolution:    "1920x1080",
			Browsers:            []string{"chrome", "edge"},
		},
	}

	out := NewDeviceResolutionResponse(res)
	assert.Equal(t, "dev-1", out.DeviceID)
	assert.Equal(t, "device_fingerprint", out.Source)
	assert.Equal(t, "HIGH", out.Confidence)
	assert.True(t, out.IsExisting)
	assert.Equal(t, "8", out.DeviceSnapshot.HardwareCores)
	assert.Equal(t, "1920x1080", out.DeviceSnapshot.Screen)
	assert.Equal(t, []string{"chrome", "edge"}, out.DeviceSnapshot.Browsers)
}

func TestNewDeviceResolutionResponse_NewDevice(t *testing.T) {
	out := NewDeviceResolutionResponse(&identity.Resolution{
		DeviceID:    "fresh",
		MatchType:   identity.MatchNewDevice,
		Confidence:  identity.ConfidenceNone,
		IsNewDevice: true,
		Device:      &models.Device{DeviceID: "fresh"},
	})
	assert.False(t, out.IsExisting)
	assert.Equal(t, "new_device", out.Source)
	assert.NotNil(t, out.DeviceSnapshot.Browsers)
	assert.Empty(t, out.DeviceSnapshot.Browsers)
}

func TestNewDeviceResponse(t *testing.T) {
	seen := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := NewDeviceResponse(&models.Device{
		DeviceID: "dev",
		IP:       models.IPHistory{"1.2.3.4", "5.6.7.8"},
		LastSeen: seen,
	})
	assert.Equal(t, "1.2.3.4, 5.6.7.8", out.IP)
	assert.Equal(t, seen, out.LastSeen)
	assert.Equal(t, []string{}, out.Browsers)
}
