package controllers

import (
	"net/http"
	"strings"

	"ScreenWatch/api/models"
	"ScreenWatch/api/utils/formaterror"
	"ScreenWatch/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type machineNameRequest struct {
	MacName string `json:"macname"`
}

type deviceNameRequest struct {
	Name string `json:"name"`
}

type labelFunc func(db *gorm.DB, key string, name *string) (int64, error)

func (server *Server) SetMachineName(c *gin.Context) {
	var req machineNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.MacName) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "macname is required",
		})
		return
	}
	name := strings.TrimSpace(req.MacName)
	server.applyLabel(c, "server_mac", c.Param("mac"), &name, models.SetMachineName)
}

func (server *Server) ClearMachineName(c *gin.Context) {
	server.applyLabel(c, "server_mac", c.Param("mac"), nil, models.SetMachineName)
}

func (server *Server) SetDeviceName(c *gin.Context) {
	var req deviceNameRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "name is required",
		})
		return
	}
	name := strings.TrimSpace(req.Name)
	server.applyLabel(c, "device_uuid", c.Param("id"), &name, models.SetDeviceName)
}

func (server *Server) ClearDeviceName(c *gin.Context) {
	server.applyLabel(c, "device_uuid", c.Param("id"), nil, models.SetDeviceName)
}

// applyLabel sets or clears a label on every screenshot matching key and
// answers 404 when nothing matched.
func (server *Server) applyLabel(c *gin.Context, field, key string, name *string, apply labelFunc) {
	key = strings.TrimSpace(key)
	ctx := c.Request.Context()

	updated, err := apply(server.DB.WithContext(ctx), key, name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}
	if updated == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status": http.StatusNotFound,
			"error":  "No screenshots found for " + field,
		})
		return
	}

	invalidateScreenshotsCache(ctx)
	operatorID, _ := httpctx.CurrentUserID(c)
	logger.Info("label updated",
		zap.Uint("operator_id", operatorID),
		zap.String("field", field),
		zap.String("key", key),
		zap.Bool("cleared", name == nil),
		zap.Int64("updated", updated),
	)

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"response": gin.H{
			field:     key,
			"name":    name,
			"updated": updated,
		},
	})
}
