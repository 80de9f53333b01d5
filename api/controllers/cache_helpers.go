package controllers

import (
	"context"

	"ScreenWatch/api/cache"

	"go.uber.org/zap"
)

const (
	screenshotsCachePrefix = "screenshots:"
	deviceCachePrefix      = "device:"
)

func deviceCacheKey(deviceID string) string {
	return deviceCachePrefix + deviceID
}

// invalidateDeviceCache drops the cached admin view of one device. Every
// resolution touches last_seen so uploads call it unconditionally.
func invalidateDeviceCache(ctx context.Context, deviceID string) {
	if err := cache.Delete(ctx, deviceCacheKey(deviceID)); err != nil {
		logger.Warn("device cache invalidation failed", zap.String("device_id", deviceID), zap.Error(err))
	}
}

func screenshotsCacheKey(rawQuery string) string {
	return screenshotsCachePrefix + rawQuery
}

// invalidateScreenshotsCache drops every cached screenshot page. Label changes
// and uploads both alter what those pages show.
func invalidateScreenshotsCache(ctx context.Context) {
	if err := cache.DeleteByPrefix(ctx, screenshotsCachePrefix); err != nil {
		logger.Warn("screenshot cache invalidation failed", zap.Error(err))
	}
}
