package seed

import (
	"errors"
	"strings"

	"ScreenWatch/api/config"
	"ScreenWatch/api/logx"
	"ScreenWatch/api/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var logger = logx.GetScope("seed")

// Admin makes sure the operator configured through ADMIN_EMAIL and
// ADMIN_PASSWORD exists and carries the admin flag. Nothing happens when
// either variable is unset.
func Admin(db *gorm.DB, cfg *config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Auth.AdminEmail))
	password := strings.TrimSpace(cfg.Auth.AdminPassword)

	if email == "" || password == "" {
		logger.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin creation")
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Info("creating initial admin", zap.String("email", email))

		admin := models.User{
			Email:    email,
			Password: password,
			IsAdmin:  true,
		}
		admin.Prepare()

		if msgs := admin.Validate(""); len(msgs) > 0 {
			logger.Warn("admin validation failed", zap.Any("errors", msgs))
			return nil
		}

		if _, err := admin.SaveUser(db); err != nil {
			return err
		}
		return nil
	}

	if err == nil && !existing.IsAdmin {
		logger.Info("ensuring admin flag", zap.String("email", email))
		return db.Model(&existing).Update("is_admin", true).Error
	}

	return err
}
