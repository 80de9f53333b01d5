package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimezone(t *testing.T) {
	assert.Equal(t, "Asia/Kolkata", NormalizeTimezone("Asia/Calcutta"))
	assert.Equal(t, "Asia/Kolkata", NormalizeTimezone("Asia/Kolkata"))
	assert.Equal(t, "Europe/Berlin", NormalizeTimezone("Europe/Berlin"))
	assert.Equal(t, "", NormalizeTimezone(""))
}

func TestNormalizeIP(t *testing.T) {
	cases := map[string]string{
		"::1":              "127.0.0.1",
		"127.0.0.1":        "127.0.0.1",
		"::ffff:10.0.0.7":  "10.0.0.7",
		"10.0.0.7":         "10.0.0.7",
		"2001:db8::1":      "2001:db8::1",
		"not-an-ip-at-all": "not-an-ip-at-all",
	}
	for in, want := range cases {
		got := NormalizeIP(in)
		assert.Equal(t, want, got, "NormalizeIP(%q)", in)
		assert.Equal(t, got, NormalizeIP(got), "NormalizeIP must be idempotent for %q", in)
	}
}

func TestNormalize_DefaultsToUnknown(t *testing.T) {
	c := Normalize(DeviceInfo{}, "")
	for i, part := range c.Ordered() {
		assert.Equal(t, Unknown, part, "component %d", i)
	}
	assert.Len(t, c.Ordered(), 13)
}

func TestNormalize_ObservedIPWins(t *testing.T) {
	info := DeviceInfo{IP: "192.168.1.10"}
	assert.Equal(t, "10.0.0.1", Normalize(info, "::ffff:10.0.0.1").IP)
	assert.Equal(t, "192.168.1.10", Normalize(info, "").IP)
}

func TestNormalize_OSFallsBackToPlatform(t *testing.T) {
	c := Normalize(DeviceInfo{Platform: "MacIntel"}, "")
	assert.Equal(t, "MacIntel", c.OS)
	assert.Equal(t, "MacIntel", c.Platform)
}

func TestHash_KnownDigest(t *testing.T) {
	info := DeviceInfo{
		HardwareConcurrency: "8",
		ScreenResolution:    &Screen{Width: "1920", Height: "1080"},
		OS:                  "Win32",
		Timezone:            "Asia/Kolkata",
		Language:            "en-US",
	}
	joined := strings.Join([]string{
		"8", "unknown", "unknown", "1920x1080", "unknown", "unknown",
		"Win32", "unknown", "127.0.0.1", "Asia/Kolkata", "en-US", "unknown", "unknown",
	}, "::")
	sum := sha256.Sum256([]byte(joined))

	assert.Equal(t, hex.EncodeToString(sum[:]), Hash(info, "127.0.0.1"))
}

func TestHash_Deterministic(t *testing.T) {
	info := DeviceInfo{
		HardwareConcurrency: "4",
		DeviceMemory:        "8",
		ScreenResolution:    &Screen{Width: "2560", Height: "1440"},
		OS:                  "Linux x86_64",
		Language:            "de-DE",
	}
	first := Hash(info, "10.1.1.1")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Hash(info, "10.1.1.1"))
	}
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, Hash(info, "10.1.1.2"))
}

func TestHash_LegacyAliasesCollapse(t *testing.T) {
	legacy, err := ParseDeviceInfo(`{
		"screenResolution": {"width": 1920, "height": 1080},
		"hardwareConcurrency": 8,
		"os": "Win32",
		"timezone": "Asia/Calcutta",
		"language": "en-US",
		"ip": "::1"
	}`)
	require.NoError(t, err)

	canonical, err := ParseDeviceInfo(`{
		"screenResolution": {"width": "1920", "height": "1080"},
		"hardwareConcurrency": "8",
		"os": "Win32",
		"timezone": "Asia/Kolkata",
		"language": "en-US",
		"ip": "127.0.0.1"
	}`)
	require.NoError(t, err)

	c := Normalize(legacy, "")
	assert.Equal(t, "Asia/Kolkata", c.Timezone)
	assert.Equal(t, "127.0.0.1", c.IP)
	assert.Equal(t, Hash(canonical, ""), Hash(legacy, ""))
}

func TestParseDeviceInfo(t *testing.T) {
	info, err := ParseDeviceInfo(`{
		"hardwareConcurrency": 12,
		"deviceMemory": 0.5,
		"devicePixelRatio": 1.25,
		"maxTouchPoints": null,
		"platform": "  MacIntel ",
		"colorDepth": {"nested": true},
		"language": ["en", "fr"],
		"cookieEnabled": true
	}`)
	require.NoError(t, err)

	assert.Equal(t, Value("12"), info.HardwareConcurrency)
	assert.Equal(t, Value("0.5"), info.DeviceMemory)
	assert.Equal(t, Value("1.25"), info.DevicePixelRatio)
	assert.True(t, info.MaxTouchPoints.IsZero())
	assert.Equal(t, Value("MacIntel"), info.Platform)
	assert.True(t, info.ColorDepth.IsZero())
	assert.True(t, info.Language.IsZero())
	assert.Equal(t, "", info.Resolution())
	assert.Equal(t, "12", info.Cores())
}

func TestParseDeviceInfo_EmptyAndMalformed(t *testing.T) {
	info, err := ParseDeviceInfo("   ")
	require.NoError(t, err)
	assert.Equal(t, DeviceInfo{}, info)

	_, err = ParseDeviceInfo("{not json")
	assert.Error(t, err)
}

func TestDeviceInfo_CoresFallsBackToThreads(t *testing.T) {
	assert.Equal(t, "16", DeviceInfo{CPUThreads: "16"}.Cores())
	assert.Equal(t, "", DeviceInfo{}.Cores())
	assert.Equal(t, "", DeviceInfo{ScreenResolution: &Screen{Width: "800"}}.Resolution())
}

func TestValue_Or(t *testing.T) {
	assert.Equal(t, "fallback", Value("").Or("fallback"))
	assert.Equal(t, "x", Value("x").Or("fallback"))
}
