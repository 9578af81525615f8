package main

import (
	"log"
	"net/http"

	_ "authcore/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"authcore/internal/auth"
	"authcore/internal/cache"
	"authcore/internal/config"
	"authcore/internal/db"
	"authcore/internal/handler"
	"authcore/internal/mailer"
	"authcore/internal/model"
	"authcore/internal/repository"
	"authcore/internal/router"
	"authcore/internal/service"
	"authcore/internal/storage"
)

// @title Auth Core API
// @version 1.0
// @description Authentication and role-based access control API with JWT access tokens and rotating refresh tokens.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.HideBanner = true

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.RolePermission{},
		&model.User{},
		&model.RefreshToken{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	permissionRepo := repository.NewPermissionRepository(gormDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	var mail mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPUser != "" {
		mail = mailer.NewSMTPMailer(cfg)
	}

	var store storage.Storage
	if cfg.StorageBucket != "" {
		s3Store, err := storage.NewS3Storage(cfg)
		if err != nil {
			log.Fatalf("storage init: %v", err)
		}
		store = s3Store
	} else {
		log.Println("object storage not configured, uploads disabled")
	}

	authService := service.NewAuthService(userRepo, roleRepo, refreshTokenRepo, jwtService, mail)
	authzService := service.NewAuthzService(roleRepo)
	userService := service.NewUserService(userRepo, roleRepo, store)
	roleService := service.NewRoleService(roleRepo, permissionRepo)
	permissionService := service.NewPermissionService(permissionRepo)

	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	uploadHandler := handler.NewUploadHandler(store)

	router.Register(
		e,
		cfg,
		cacheClient,
		jwtService,
		userRepo,
		authzService,
		authHandler,
		userHandler,
		roleHandler,
		permissionHandler,
		uploadHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
