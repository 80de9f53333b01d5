package controllers

import (
	"ScreenWatch/api/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initializeRoutes() {
	s.Router.GET("/health", s.Health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.Router.POST("/upload-screenshot", s.UploadScreenshot)

	v1 := s.Router.Group("/api/v1")
	{
		v1.POST("/login", middlewares.LoginRateLimitMiddleware(), s.Login)
	}

	admin := s.Router.Group("/api/v1")
	admin.Use(middlewares.TokenAuthMiddleware(s.DB), middlewares.AdminOnlyMiddleware())
	{
		// Screenshot routes
		admin.GET("/screenshots", s.GetScreenshots)

		// Device routes
		admin.GET("/devices", s.GetDevices)
		admin.GET("/devices/:id", s.GetDevice)

		// Label routes
		admin.PUT("/devices/:id/name", s.SetDeviceName)
		admin.DELETE("/devices/:id/name", s.ClearDeviceName)
		admin.PUT("/machines/:mac/name", s.SetMachineName)
		admin.DELETE("/machines/:mac/name", s.ClearMachineName)
	}
}
