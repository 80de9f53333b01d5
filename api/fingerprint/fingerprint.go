// Package fingerprint derives a browser independent device hash from the
// self-reported characteristics bundle.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// Unknown stands in for every absent component.
	Unknown = "unknown"
	// Delimiter joins components before hashing.
	Delimiter = "::"
)

var timezoneAliases = map[string]string{
	"Asia/Calcutta": "Asia/Kolkata",
}

// NormalizeTimezone maps legacy aliases onto their canonical zone names.
func NormalizeTimezone(tz string) string {
	if canonical, ok := timezoneAliases[tz]; ok {
		return canonical
	}
	return tz
}

// NormalizeIP collapses IPv6 loopback and IPv4-mapped forms. Anything else is
// returned unchanged.
func NormalizeIP(ip string) string {
	if ip == "::1" {
		return "127.0.0.1"
	}
	return strings.TrimPrefix(ip, "::ffff:")
}

// Components is the fixed-order tuple that feeds the hash. The field order is
// part of the hash identity and must never change.
type Components struct {
	HardwareConcurrency string
	DeviceMemory        string
	CPUThreads          string
	ScreenResolution    string
	ColorDepth          string
	PixelDepth          string
	OS                  string
	Platform            string
	IP                  string
	Timezone            string
	Language            string
	MaxTouchPoints      string
	DevicePixelRatio    string
}

// Normalize builds the component tuple. clientIP is the address observed by
// the server; the bundle's own ip is only used when clientIP is empty.
func Normalize(info DeviceInfo, clientIP string) Components {
	ip := strings.TrimSpace(clientIP)
	if ip == "" {
		ip = info.IP.String()
	}
	if ip != "" {
		ip = NormalizeIP(ip)
	}

	tz := info.Timezone.String()
	if tz != "" {
		tz = NormalizeTimezone(tz)
	}

	return Components{
		HardwareConcurrency: orUnknown(info.HardwareConcurrency.String()),
		DeviceMemory:        orUnknown(info.DeviceMemory.String()),
		CPUThreads:          orUnknown(info.CPUThreads.String()),
		ScreenResolution:    orUnknown(info.Resolution()),
		ColorDepth:          orUnknown(info.ColorDepth.String()),
		PixelDepth:          orUnknown(info.PixelDepth.String()),
		OS:                  orUnknown(info.OSOrPlatform()),
		Platform:            orUnknown(info.Platform.String()),
		IP:                  orUnknown(ip),
		Timezone:            orUnknown(tz),
		Language:            orUnknown(info.Language.String()),
		MaxTouchPoints:      orUnknown(info.MaxTouchPoints.String()),
		DevicePixelRatio:    orUnknown(info.DevicePixelRatio.String()),
	}
}

// Ordered returns the components in hashing order.
func (c Components) Ordered() []string {
	return []string{
		c.HardwareConcurrency,
		c.DeviceMemory,
		c.CPUThreads,
		c.ScreenResolution,
		c.ColorDepth,
		c.PixelDepth,
		c.OS,
		c.Platform,
		c.IP,
		c.Timezone,
		c.Language,
		c.MaxTouchPoints,
		c.DevicePixelRatio,
	}
}

// Sum returns the hex SHA-256 of the joined components.
func (c Components) Sum() string {
	sum := sha256.Sum256([]byte(strings.Join(c.Ordered(), Delimiter)))
	return hex.EncodeToString(sum[:])
}

// Hash normalizes info and returns its fingerprint.
func Hash(info DeviceInfo, clientIP string) string {
	return Normalize(info, clientIP).Sum()
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return Unknown
	}
	return s
}
