package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// MaxIdentifierLength bounds device_id and visitor_id.
const MaxIdentifierLength = 128

// Device is one inferred physical device. DeviceID never changes once the
// row exists; everything else is corroborated and merged on each resolution.
type Device struct {
	DeviceID            string                      `gorm:"primaryKey;size:128" json:"device_id"`
	VisitorID           string                      `gorm:"size:128;index" json:"visitor_id"`
	FingerprintHash     string                      `gorm:"size:64;index" json:"fingerprint_hash"`
	IP                  IPHistory                   `gorm:"column:ip" json:"ip"`
	UserAgent           string                      `gorm:"type:text" json:"user_agent"`
	ScreenResolution    string                      `gorm:"size:32;index" json:"screen_resolution"`
	Timezone            string                      `gorm:"size:64" json:"timezone"`
	Language            string                      `gorm:"size:32" json:"language"`
	HardwareConcurrency string                      `gorm:"size:16" json:"hardware_concurrency"`
	CPUThreads          string                      `gorm:"size:16;column:cpu_threads" json:"cpu_threads"`
	OS                  string                      `gorm:"size:128;column:os" json:"os"`
	Platform            string                      `gorm:"size:128" json:"platform"`
	ColorDepth          string                      `gorm:"size:16" json:"color_depth"`
	PixelDepth          string                      `gorm:"size:16" json:"pixel_depth"`
	MaxTouchPoints      string                      `gorm:"size:16" json:"max_touch_points"`
	DeviceMemory        string                      `gorm:"size:16" json:"device_memory"`
	Browsers            datatypes.JSONSlice[string] `json:"browsers"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	LastSeen            time.Time                   `json:"last_seen"`
}

// HasBrowser reports whether the family was already observed on this device.
func (d *Device) HasBrowser(family string) bool {
	for _, b := range d.Browsers {
		if b == family {
			return true
		}
	}
	return false
}

// AddBrowser appends family unless it is already present. It reports whether
// the list changed.
func (d *Device) AddBrowser(family string) bool {
	if family == "" || d.HasBrowser(family) {
		return false
	}
	d.Browsers = append(d.Browsers, family)
	return true
}

// IPHistory is every address a device has been seen from, oldest first. It is
// stored as the comma-joined string older rows already use.
type IPHistory []string

// ParseIPHistory splits a stored "a, b, c" history.
func ParseIPHistory(s string) IPHistory {
	var out IPHistory
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns the ", " joined history.
func (h IPHistory) String() string {
	return strings.Join(h, ", ")
}

// Contains reports whether ip already occurs in the joined history. The check
// is a substring match, so "10.0.0.1" is considered present in "10.0.0.10".
func (h IPHistory) Contains(ip string) bool {
	return strings.Contains(h.String(), ip)
}

// With returns the history with ip appended unless Contains already holds.
func (h IPHistory) With(ip string) IPHistory {
	ip = strings.TrimSpace(ip)
	if ip == "" || h.Contains(ip) {
		return h
	}
	out := make(IPHistory, 0, len(h)+1)
	out = append(out, h...)
	return append(out, ip)
}

// GormDataType stores the history as text.
func (IPHistory) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (h IPHistory) Value() (driver.Value, error) {
	return h.String(), nil
}

// Scan implements sql.Scanner.
func (h *IPHistory) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*h = nil
	case string:
		*h = ParseIPHistory(v)
	case []byte:
		*h = ParseIPHistory(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into IPHistory", src)
	}
	return nil
}
