package identity

import (
	"context"

	"ScreenWatch/api/models"
)

// HardwareQuery matches devices seen from IP with the same core count and
// screen.
type HardwareQuery struct {
	IP     string
	Cores  string
	Screen string
}

// ScreenOSQuery matches devices with the same screen and either the same OS
// or the same platform. Empty OS or Platform is ignored.
type ScreenOSQuery struct {
	Screen   string
	OS       string
	Platform string
}

// Store is the device record store the cascade reads from. Every Find
// returns ErrDeviceNotFound when nothing matches; when several rows match,
// the oldest wins.
type Store interface {
	FindByVisitorID(ctx context.Context, visitorID string) (*models.Device, error)
	FindByDeviceID(ctx context.Context, deviceID string) (*models.Device, error)
	FindByFingerprint(ctx context.Context, hash string) (*models.Device, error)
	FindByHardware(ctx context.Context, q HardwareQuery) (*models.Device, error)
	FindByScreenOS(ctx context.Context, q ScreenOSQuery) (*models.Device, error)
	Create(ctx context.Context, d *models.Device) error
	Save(ctx context.Context, d *models.Device) error
}
