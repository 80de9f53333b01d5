package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"ScreenWatch/api/archive"
	"ScreenWatch/api/cache"
	"ScreenWatch/api/fingerprint"
	"ScreenWatch/api/identity"
	"ScreenWatch/api/models"
	"ScreenWatch/api/responses"
	"ScreenWatch/api/utils/formaterror"
	"ScreenWatch/api/utils/httpctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const screenshotsCacheTTL = 30 * time.Second

// UploadScreenshot accepts one capture, attributes it to a device and
// archives it.
func (server *Server) UploadScreenshot(c *gin.Context) {
	cfg := server.Config

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "No image uploaded",
		})
		return
	}
	if fileHeader.Size > cfg.Upload.MaxBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Image too large",
		})
		return
	}

	data, err := readUpload(fileHeader, cfg.Upload.MaxBytes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Unable to read image",
		})
		return
	}
	if len(data) == 0 || !strings.HasPrefix(http.DetectContentType(data), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": http.StatusBadRequest,
			"error":  "Only image files are allowed",
		})
		return
	}

	rawInfo := c.PostForm("deviceInfo")
	info, err := fingerprint.ParseDeviceInfo(rawInfo)
	if err != nil {
		logger.Warn("malformed deviceInfo, continuing with an empty bundle", zap.Error(err))
	}
	if info.UserAgent.IsZero() {
		info.UserAgent = fingerprint.Value(c.Request.UserAgent())
	}

	visitorID := identityHint("visitorId", c.PostForm("visitorId"))
	frontendUUID := identityHint("deviceUUID", c.PostForm("deviceUUID"))
	if frontendUUID == "" {
		if cookie, err := c.Cookie(cfg.Device.CookieName); err == nil {
			frontendUUID = identityHint("deviceUUID", cookie)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	res, err := server.Resolver.Resolve(ctx, identity.Request{
		VisitorID:    visitorID,
		FrontendUUID: frontendUUID,
		ClientIP:     httpctx.ClientIP(c),
		Info:         info,
	})
	if err != nil {
		logger.Error("device resolution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "device resolution failed",
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.Device.CookieName, res.DeviceID, cfg.Device.CookieMaxAge, "/", "", cfg.IsProduction(), true)

	if server.Archiver == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  archive.UserMessage(archive.ErrNotConnected),
		})
		return
	}

	fileName := archive.FileName(res.DeviceID, time.Now())
	obj, err := server.Archiver.Upload(ctx, data, fileName)
	if err != nil {
		logger.Error("archive upload failed",
			zap.String("device_id", res.DeviceID),
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  archive.UserMessage(err),
		})
		return
	}

	shot := models.Screenshot{
		FileName:    fileName,
		DriveFileID: obj.ID,
		DriveURL:    obj.URL,
		ServerMac:   server.ServerMAC,
		DeviceUUID:  res.DeviceID,
		DeviceInfo:  models.RawDeviceInfo(rawInfo),
	}
	saved, err := shot.SaveScreenshot(server.DB.WithContext(ctx))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  formaterror.FormatError(err.Error()),
		})
		return
	}
	invalidateScreenshotsCache(ctx)
	invalidateDeviceCache(ctx, res.DeviceID)

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"response": gin.H{
			"message":    "Screenshot uploaded",
			"screenshot": saved,
			"viewLink":   obj.URL,
			"serverMac":  server.ServerMAC,
			"deviceUUID": res.DeviceID,
			"visitorId":  visitorID,
			"device":     responses.NewDeviceResolutionResponse(res),
		},
	})
}

// identityHint trims a client supplied identifier and drops it when it cannot
// be stored as a device key.
func identityHint(field, v string) string {
	v = strings.TrimSpace(v)
	if len(v) > models.MaxIdentifierLength {
		logger.Warn("ignoring oversized identity hint",
			zap.String("field", field),
			zap.Int("length", len(v)),
		)
		return ""
	}
	return v
}

func readUpload(fh *multipart.FileHeader, max int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, errors.New("image too large")
	}
	return data, nil
}

// GetScreenshots lists screenshots newest first. Pages are cached briefly in
// Redis keyed by the raw query string.
func (server *Server) GetScreenshots(c *gin.Context) {
	page := queryInt(c, "page", 1, maxPage)
	limit := queryInt(c, "limit", 50, 200)

	ctx := c.Request.Context()
	cacheKey := screenshotsCacheKey(c.Request.URL.RawQuery)

	if cached, err := cache.Get(ctx, cacheKey); err == nil && cached != "" {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	filter := models.ScreenshotFilter{
		DeviceUUID: strings.TrimSpace(c.Query("device_uuid")),
		ServerMac:  strings.TrimSpace(c.Query("server_mac")),
	}
	shots, total, err := models.FindScreenshots(server.DB.WithContext(ctx), filter, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": http.StatusInternalServerError,
			"error":  "Unable to retrieve screenshots",
		})
		return
	}
	if shots == nil {
		shots = []models.Screenshot{}
	}

	respBody := gin.H{
		"status":     http.StatusOK,
		"response":   shots,
		"pagination": buildPagination(page, limit, total),
	}

	if jsonBytes, err := json.Marshal(respBody); err == nil {
		_ = cache.Set(ctx, cacheKey, jsonBytes, screenshotsCacheTTL)
	}

	c.JSON(http.StatusOK, respBody)
}
