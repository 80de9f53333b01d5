package responses

import (
	"time"

	"ScreenWatch/api/identity"
	"ScreenWatch/api/models"
)

type DeviceSnapshot struct {
	OS            string   `json:"os"`
	Platform      string   `json:"platform"`
	HardwareCores string   `json:"hardwareCores"`
	Screen        string   `json:"screen"`
	Browsers      []string `json:"browsers"`
}

// DeviceResolutionResponse is what the upload endpoint reports about the
// device it attributed the screenshot to.
type DeviceResolutionResponse struct {
	DeviceID       string         `json:"deviceId"`
	Source         string         `json:"source"`
	Confidence     string         `json:"confidence"`
	IsExisting     bool           `json:"isExisting"`
	DeviceSnapshot DeviceSnapshot `json:"deviceSnapshot"`
}

type DeviceResponse struct {
	DeviceID         string    `json:"device_id"`
	VisitorID        string    `json:"visitor_id"`
	IP               string    `json:"ip"`
	UserAgent        string    `json:"user_agent"`
	ScreenResolution string    `json:"screen_resolution"`
	Timezone         string    `json:"timezone"`
	Language         string    `json:"language"`
	HardwareCores    string    `json:"hardware_concurrency"`
	OS               string    `json:"os"`
	Platform         string    `json:"platform"`
	Browsers         []string  `json:"browsers"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeen         time.Time `json:"last_seen"`
}

func NewDeviceResolutionResponse(res *identity.Resolution) DeviceResolutionResponse {
	out := DeviceResolutionResponse{
		DeviceID:   res.DeviceID,
		Source:     string(res.MatchType),
		Confidence: string(res.Confidence),
		IsExisting: res.IsExisting(),
	}
	if d := res.Device; d != nil {
		out.DeviceSnapshot = DeviceSnapshot{
			OS:            d.OS,
			Platform:      d.Platform,
			HardwareCores: d.HardwareConcurrency,
			Screen:        d.ScreenResolution,
			Browsers:      browsers(d),
		}
	} else {
		out.DeviceSnapshot.Browsers = []string{}
	}
	return out
}

func NewDeviceResponse(d *models.Device) DeviceResponse {
	return DeviceResponse{
		DeviceID:         d.DeviceID,
		VisitorID:        d.VisitorID,
		IP:               d.IP.String(),
		UserAgent:        d.UserAgent,
		ScreenResolution: d.ScreenResolution,
		Timezone:         d.Timezone,
		Language:         d.Language,
		HardwareCores:    d.HardwareConcurrency,
		OS:               d.OS,
		Platform:         d.Platform,
		Browsers:         browsers(d),
		CreatedAt:        d.CreatedAt,
		LastSeen:         d.LastSeen,
	}
}

func browsers(d *models.Device) []string {
	if len(d.Browsers) == 0 {
		return []string{}
	}
	return append([]string(nil), d.Browsers...)
}
