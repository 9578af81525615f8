package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authcore/internal/auth"
	"authcore/internal/cache"
	"authcore/internal/config"
	"authcore/internal/errors"
	"authcore/internal/handler"
	"authcore/internal/middleware"
	"authcore/internal/repository"
	"authcore/internal/service"
)

// credential endpoints share one fixed window so a single IP cannot
// brute-force passwords or enumerate reset tokens
const (
	credentialRateLimit  = 10
	credentialRateWindow = time.Minute
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	store *cache.Client,
	jwtService *auth.JWTService,
	users repository.UserRepository,
	authz service.AuthzService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
	permissionHandler *handler.PermissionHandler,
	uploadHandler *handler.UploadHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.AppURL},
		AllowCredentials: true,
	}))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errors.HTTPErrorHandler(cfg.Production)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	limited := middleware.RateLimit(store, credentialRateLimit, credentialRateWindow)

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login, limited)
	api.POST("/auth/refresh-token", authHandler.Refresh)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword, limited)
	api.POST("/auth/reset-password", authHandler.ResetPassword, limited)

	// Secured routes (require a valid access token)
	secured := api.Group("", middleware.JWT(jwtService), middleware.LoadUser(users))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	secured.PUT("/users/profile", userHandler.UpdateProfile)
	secured.PUT("/users/change-password", userHandler.ChangePassword)

	secured.POST("/uploads/presigned-url", uploadHandler.Presign)
	secured.DELETE("/uploads", uploadHandler.Delete)

	// User administration
	secured.GET("/users", userHandler.List, middleware.RequirePermission(authz, "user:read"))
	secured.GET("/users/:id", userHandler.Get, middleware.RequirePermission(authz, "user:read"))
	secured.PUT("/users/:id", userHandler.Update, middleware.RequirePermission(authz, "user:write"))
	secured.DELETE("/users/:id", userHandler.Delete, middleware.RequirePermission(authz, "user:delete"))
	secured.PUT("/users/:id/role", userHandler.UpdateRole, middleware.RequireAdmin(authz))

	// Role administration
	secured.GET("/roles", roleHandler.List, middleware.RequirePermission(authz, "role:read"))
	secured.GET("/roles/:id", roleHandler.Get, middleware.RequirePermission(authz, "role:read"))
	secured.POST("/roles", roleHandler.Create, middleware.RequirePermission(authz, "role:write"))
	secured.PUT("/roles/:id", roleHandler.Update, middleware.RequirePermission(authz, "role:write"))
	secured.DELETE("/roles/:id", roleHandler.Delete, middleware.RequirePermission(authz, "role:delete"))
	secured.POST("/roles/:id/permissions", roleHandler.AssignPermission, middleware.RequirePermission(authz, "role:write"))
	secured.DELETE("/roles/:id/permissions/:permissionId", roleHandler.RemovePermission, middleware.RequirePermission(authz, "role:write"))

	// Permission administration
	secured.GET("/permissions", permissionHandler.List, middleware.RequirePermission(authz, "permission:read"))
	secured.GET("/permissions/:id", permissionHandler.Get, middleware.RequirePermission(authz, "permission:read"))
	secured.POST("/permissions", permissionHandler.Create, middleware.RequirePermission(authz, "permission:write"))
	secured.PUT("/permissions/:id", permissionHandler.Update, middleware.RequirePermission(authz, "permission:write"))
	secured.DELETE("/permissions/:id", permissionHandler.Delete, middleware.RequirePermission(authz, "permission:delete"))
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
