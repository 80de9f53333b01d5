package controllers

import (
	"context"
	"time"

	"ScreenWatch/api/archive"
	"ScreenWatch/api/cache"
	"ScreenWatch/api/config"
	"ScreenWatch/api/identity"
	"ScreenWatch/api/logx"
	"ScreenWatch/api/middlewares"
	"ScreenWatch/api/models"
	"ScreenWatch/api/notify"
	"ScreenWatch/api/seed"
	"ScreenWatch/api/utils/netinfo"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var logger = logx.GetScope("controllers")

type Server struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Config   *config.Config
	Devices  *identity.GormStore
	Resolver *identity.Resolver
	Archiver archive.Archiver
	Mailer   *notify.Mailer

	// ServerMAC is stamped on every stored screenshot.
	ServerMAC string
}

// Initialize connects to Postgres, migrates, seeds the admin and wires the
// collaborators before mounting the router.
func (server *Server) Initialize(cfg *config.Config) {
	server.Config = cfg

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("cannot connect to postgres", zap.Error(err))
	}
	server.DB = db

	if err := server.DB.AutoMigrate(
		&models.Device{},
		&models.Screenshot{},
		&models.User{},
	); err != nil {
		logger.Fatal("error migrating database", zap.Error(err))
	}

	if err := seed.Admin(server.DB, cfg); err != nil {
		logger.Error("error seeding admin user", zap.Error(err))
	}

	if err := cache.Init(cfg); err != nil {
		logger.Warn("could not connect to redis", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	archiver, err := archive.New(ctx, cfg)
	if err != nil {
		logger.Warn("archive backend unavailable, uploads will fail", zap.Error(err))
	} else {
		server.Archiver = archiver
	}

	server.Mailer = notify.NewMailer(cfg)
	server.Mount()
}

// Mount fills in defaults for anything not already set and builds the router.
// Tests call it directly with a sqlite DB and fake collaborators.
func (server *Server) Mount() {
	if server.Config == nil {
		server.Config = config.FromEnv()
	}
	if server.Devices == nil {
		server.Devices = identity.NewGormStore(server.DB)
	}
	if server.Resolver == nil {
		server.Resolver = identity.NewResolver(server.Devices,
			identity.WithNewDeviceHook(server.Mailer.NotifyNewDevice),
		)
	}
	if server.ServerMAC == "" {
		server.ServerMAC = netinfo.ServerMAC()
	}

	server.Router = gin.New()
	server.Router.Use(gin.Recovery())
	server.Router.Use(middlewares.RequestLogger())
	server.Router.Use(middlewares.CORSMiddleware(server.Config.Server.CORSOrigins))
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.initializeRoutes()
}
