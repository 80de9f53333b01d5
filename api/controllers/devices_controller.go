package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ScreenWatch/api/cache"
	"ScreenWatch/api/identity"
	"ScreenWatch/api/models"
	"ScreenWatch/api/responses"

	"github.com/gin-gonic/gin"
)

const deviceCacheTTL = 5 * time.Minute

// GetDevices lists the most recently seen devices plus the overall total.
func (server *Server) GetDevices(c *gin.Context) {
	limit := queryInt(c, "limit", 10, 100)
	ctx := c.Request.Context()

	devices, err := server.Devices.ListRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve devices",
		})
		return
	}
	total, err := server.Devices.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to count devices",
		})
		return
	}

	response := make([]responses.DeviceResponse, 0, len(devices))
	for i := range devices {
		response = append(response, responses.NewDeviceResponse(&devices[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": response,
		"total":    total,
	})
}

type deviceDetail struct {
	Device      responses.DeviceResponse `json:"device"`
	Screenshots int64                    `json:"screenshots"`
}

// GetDevice returns one device with its screenshot count. The result is
// cached until the device uploads again.
func (server *Server) GetDevice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	ctx := c.Request.Context()

	var cached deviceDetail
	if cache.GetJSON(ctx, deviceCacheKey(id), &cached) {
		c.JSON(http.StatusOK, gin.H{
			"status":   http.StatusOK,
			"response": cached,
		})
		return
	}

	device, err := server.Devices.Get(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrDeviceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status": http.StatusNotFound,
				"error":  "Device not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve device",
		})
		return
	}

	detail := deviceDetail{Device: responses.NewDeviceResponse(device)}
	server.DB.WithContext(ctx).
		Model(&models.Screenshot{}).
		Where("device_uuid = ?", device.DeviceID).
		Count(&detail.Screenshots)

	cache.SetJSON(ctx, deviceCacheKey(id), detail, deviceCacheTTL)

	c.JSON(http.StatusOK, gin.H{
		"status":   http.StatusOK,
		"response": detail,
	})
}
