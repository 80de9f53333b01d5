package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Screenshot is one uploaded capture. Only the label columns change after
// creation.
type Screenshot struct {
	ID             uint           `gorm:"primary_key;autoIncrement" json:"id"`
	FileName       string         `gorm:"size:255;not null" json:"file_name"`
	DriveFileID    string         `gorm:"size:255" json:"drive_file_id"`
	DriveURL       string         `gorm:"size:512;column:drive_url" json:"drive_url"`
	ServerMac      string         `gorm:"size:32;index" json:"server_mac"`
	DeviceUUID     string         `gorm:"size:128;index;column:device_uuid" json:"device_uuid"`
	DeviceInfo     datatypes.JSON `json:"device_info"`
	MacName        *string        `gorm:"size:255;column:macname" json:"macname"`
	DeviceUUIDName *string        `gorm:"size:255;column:device_uuid_name" json:"device_uuid_name"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// ScreenshotFilter narrows FindScreenshots. Empty fields do not filter.
type ScreenshotFilter struct {
	DeviceUUID string
	ServerMac  string
}

// RawDeviceInfo keeps the bundle verbatim when it is valid JSON and wraps it
// as a JSON string otherwise, so malformed bundles are still auditable.
func RawDeviceInfo(raw string) datatypes.JSON {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return datatypes.JSON("{}")
	}
	if json.Valid([]byte(raw)) {
		return datatypes.JSON(raw)
	}
	quoted, _ := json.Marshal(raw)
	return datatypes.JSON(quoted)
}

func (s *Screenshot) Validate() error {
	if strings.TrimSpace(s.FileName) == "" {
		return errors.New("Required File Name")
	}
	if strings.TrimSpace(s.DeviceUUID) == "" {
		return errors.New("Required Device")
	}
	return nil
}

func (s *Screenshot) SaveScreenshot(db *gorm.DB) (*Screenshot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if len(s.DeviceInfo) == 0 {
		s.DeviceInfo = datatypes.JSON("{}")
	}
	if err := db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// FindScreenshots returns one page, newest first, and the filtered total.
func FindScreenshots(db *gorm.DB, filter ScreenshotFilter, page, limit int) ([]Screenshot, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	q := db.Model(&Screenshot{})
	if filter.DeviceUUID != "" {
		q = q.Where("device_uuid = ?", filter.DeviceUUID)
	}
	if filter.ServerMac != "" {
		q = q.Where("server_mac = ?", filter.ServerMac)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shots []Screenshot
	err := q.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&shots).Error
	if err != nil {
		return nil, 0, err
	}
	return shots, total, nil
}

// SetMachineName labels every screenshot taken through the given server MAC.
// A nil name clears the label. It returns the number of rows touched.
func SetMachineName(db *gorm.DB, serverMac string, name *string) (int64, error) {
	result := db.Model(&Screenshot{}).
		Where("server_mac = ?", serverMac).
		Update("macname", name)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SetDeviceName labels every screenshot of the given device. A nil name
// clears the label. It returns the number of rows touched.
func SetDeviceName(db *gorm.DB, deviceUUID string, name *string) (int64, error) {
	result := db.Model(&Screenshot{}).
		Where("device_uuid = ?", deviceUUID).
		Update("device_uuid_name", name)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
