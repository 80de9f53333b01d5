package identity

import (
	"context"
	"errors"
	"strings"

	"ScreenWatch/api/models"

	"gorm.io/gorm"
)

// GormStore is the Store backed by the devices table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps db. The caller is responsible for migrating models.Device.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*models.Device, error) {
	var device models.Device
	err := scope(s.db.WithContext(ctx).Model(&models.Device{})).
		Order("created_at ASC").
		Take(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &device, nil
}

func (s *GormStore) FindByVisitorID(ctx context.Context, visitorID string) (*models.Device, error) {
	return s.first(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("visitor_id = ?", visitorID)
	})
}

func (s *GormStore) FindByDeviceID(ctx context.Context, deviceID string) (*models.Device, error) {
	return s.first(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("device_id = ?", deviceID)
	})
}

func (s *GormStore) FindByFingerprint(ctx context.Context, hash string) (*models.Device, error) {
	return s.first(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("fingerprint_hash = ?", hash)
	})
}

// FindByHardware uses a literal substring match on the stored IP history.
func (s *GormStore) FindByHardware(ctx context.Context, q HardwareQuery) (*models.Device, error) {
	return s.first(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(`ip LIKE ? ESCAPE '\'`, "%"+escapeLike(q.IP)+"%").
			Where("hardware_concurrency = ?", q.Cores).
			Where("screen_resolution = ?", q.Screen)
	})
}

func (s *GormStore) FindByScreenOS(ctx context.Context, q ScreenOSQuery) (*models.Device, error) {
	return s.first(ctx, func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("screen_resolution = ?", q.Screen)
		switch {
		case q.OS != "" && q.Platform != "":
			return tx.Where("(os = ? OR platform = ?)", q.OS, q.Platform)
		case q.OS != "":
			return tx.Where("os = ?", q.OS)
		default:
			return tx.Where("platform = ?", q.Platform)
		}
	})
}

func (s *GormStore) Create(ctx context.Context, d *models.Device) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *GormStore) Save(ctx context.Context, d *models.Device) error {
	return s.db.WithContext(ctx).Save(d).Error
}

// Get returns one device by id for the admin surface.
func (s *GormStore) Get(ctx context.Context, deviceID string) (*models.Device, error) {
	return s.FindByDeviceID(ctx, deviceID)
}

// ListRecent returns the most recently seen devices first.
func (s *GormStore) ListRecent(ctx context.Context, limit int) ([]models.Device, error) {
	if limit <= 0 {
		limit = 10
	}
	var devices []models.Device
	err := s.db.WithContext(ctx).
		Order("last_seen DESC").
		Limit(limit).
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// Count returns the number of known devices.
func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Device{}).Count(&total).Error
	return total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match itself literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
