package fingerprint

import (
	"encoding/json"
	"strings"
)

// Screen is the reported screen size in CSS pixels.
type Screen struct {
	Width  Value `json:"width"`
	Height Value `json:"height"`
}

// DeviceInfo is the self-reported characteristics bundle sent with every
// upload. Every field is optional and is a hint, never ground truth.
type DeviceInfo struct {
	HardwareConcurrency Value   `json:"hardwareConcurrency"`
	DeviceMemory        Value   `json:"deviceMemory"`
	CPUThreads          Value   `json:"cpuThreads"`
	ScreenResolution    *Screen `json:"screenResolution,omitempty"`
	ColorDepth          Value   `json:"colorDepth"`
	PixelDepth          Value   `json:"pixelDepth"`
	OS                  Value   `json:"os"`
	Platform            Value   `json:"platform"`
	IP                  Value   `json:"ip"`
	Timezone            Value   `json:"timezone"`
	Language            Value   `json:"language"`
	MaxTouchPoints      Value   `json:"maxTouchPoints"`
	DevicePixelRatio    Value   `json:"devicePixelRatio"`
	UserAgent           Value   `json:"userAgent"`
}

// ParseDeviceInfo decodes the deviceInfo form field. An empty input yields an
// empty bundle.
func ParseDeviceInfo(raw string) (DeviceInfo, error) {
	var info DeviceInfo
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return info, nil
	}
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return DeviceInfo{}, err
	}
	return info, nil
}

// Resolution returns "{w}x{h}", or "" when either side is missing.
func (d DeviceInfo) Resolution() string {
	if d.ScreenResolution == nil || d.ScreenResolution.Width == "" || d.ScreenResolution.Height == "" {
		return ""
	}
	return d.ScreenResolution.Width.String() + "x" + d.ScreenResolution.Height.String()
}

// Cores returns hardwareConcurrency, falling back to cpuThreads.
func (d DeviceInfo) Cores() string {
	return d.HardwareConcurrency.Or(d.CPUThreads.String())
}

// OSOrPlatform returns os, falling back to platform.
func (d DeviceInfo) OSOrPlatform() string {
	return d.OS.Or(d.Platform.String())
}
