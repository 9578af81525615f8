package middleware

import (
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"authcore/internal/auth"
	"authcore/internal/errors"
	"authcore/internal/model"
	"authcore/internal/repository"
	"authcore/internal/service"
)

const (
	// subjectKey holds the verified token subject (user id string) set by the
	// JWT middleware; currentUserKey holds the loaded *model.User.
	subjectKey     = "subject"
	currentUserKey = "currentUser"
)

// JWT verifies the Authorization bearer token. Verification is delegated to
// the token codec so signature, structure, and expiry failures all collapse
// into one Unauthorized response.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  subjectKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			subject, err := jwtService.VerifyAccessToken(tokenString)
			if err != nil {
				return nil, err
			}
			return subject, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errors.Unauthorized("Not authorized, token failed")
		},
	})
}

// LoadUser resolves the verified subject to the persisted user and stores it
// in the request context. A subject whose user no longer exists is rejected;
// deleted accounts lose access as soon as their access token is next used.
func LoadUser(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			subject, ok := c.Get(subjectKey).(string)
			if !ok {
				return errors.Unauthorized("Not authorized")
			}
			id, err := uuid.Parse(subject)
			if err != nil {
				return errors.Unauthorized("Not authorized")
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil {
				return errors.Unauthorized("Not authorized, user not found")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user previously stored by LoadUser.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}

// RequirePermission gates a route on a named permission. The role's
// permission set is re-fetched on every request, never cached, so a
// revocation takes effect on the next call.
func RequirePermission(authz service.AuthzService, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return errors.Unauthorized("Not authorized")
			}

			allowed, err := authz.HasPermission(c.Request().Context(), user.RoleID, permission)
			if err != nil {
				return err
			}
			if !allowed {
				return errors.Forbidden("Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireAdmin gates a route on the reserved admin role.
func RequireAdmin(authz service.AuthzService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return errors.Unauthorized("Not authorized")
			}

			isAdmin, err := authz.IsAdmin(c.Request().Context(), user.RoleID)
			if err != nil {
				return err
			}
			if !isAdmin {
				return errors.Forbidden("Admin access required")
			}
			return next(c)
		}
	}
}
