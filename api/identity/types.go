// Package identity resolves upload requests onto durable device records.
package identity

import (
	"errors"
	"time"

	"ScreenWatch/api/fingerprint"
	"ScreenWatch/api/models"
)

var (
	// ErrDeviceNotFound is returned by Store lookups that match nothing.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrCreateDevice wraps a failed insert after the cascade found nothing.
	ErrCreateDevice = errors.New("create device")
)

// MatchType names the cascade step that produced a resolution.
type MatchType string

const (
	MatchVisitorID   MatchType = "visitor_id"
	MatchUUID        MatchType = "uuid"
	MatchFingerprint MatchType = "device_fingerprint"
	MatchHardware    MatchType = "hardware"
	MatchScreenOS    MatchType = "screen_os"
	MatchNewDevice   MatchType = "new_device"
)

// Confidence labels how strong the matching signal was. It is only reported,
// never used to branch.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceNone   Confidence = "NONE"
)

// Request carries the identity hints of one upload. VisitorID and
// FrontendUUID are untrusted and optional.
type Request struct {
	VisitorID    string
	FrontendUUID string
	ClientIP     string
	Info         fingerprint.DeviceInfo
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	DeviceID    string
	MatchType   MatchType
	Confidence  Confidence
	IsNewDevice bool
	Device      *models.Device
	ResolvedAt  time.Time
}

// IsExisting reports whether the device was already known.
func (r *Resolution) IsExisting() bool {
	return !r.IsNewDevice
}
