package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/ojt-tracker/internal/config"
	"github.com/localnerve/ojt-tracker/internal/logger"
	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/types"
	"gorm.io/gorm"
)

// Cookie names
const (
	SessionCookie  = "ojt_session"
	RememberCookie = "remember_token"
)

const (
	sessionUserKey = "user"
	localsUserKey  = "user"
)

// Auth owns the session store and the remember-me cookie
type Auth struct {
	Store       *session.Store
	DB          *gorm.DB
	Secret      string
	RememberTTL time.Duration
	Secure      bool
}

// NewAuth builds the cookie session store from cfg
func NewAuth(cfg *config.Config, db *gorm.DB) *Auth {
	store := session.New(session.Config{
		Expiration:     cfg.SessionTTL,
		KeyLookup:      "cookie:" + SessionCookie,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.CookieSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		CookiePath:     "/",
	})
	store.RegisterType(services.SessionUser{})

	return &Auth{
		Store:       store,
		DB:          db,
		Secret:      cfg.SessionSecret,
		RememberTTL: cfg.RememberTTL,
		Secure:      cfg.CookieSecure,
	}
}

// CurrentUser returns the signed-in user, restoring the session from a valid
// remember cookie when needed. It returns nil when nobody is signed in.
func (a *Auth) CurrentUser(c *fiber.Ctx) (*services.SessionUser, error) {
	sess, err := a.Store.Get(c)
	if err != nil {
		return nil, err
	}
	if u, ok := sess.Get(sessionUserKey).(services.SessionUser); ok {
		return a.recheck(c, sess, u)
	}

	signed := c.Cookies(RememberCookie)
	if signed == "" {
		return nil, nil
	}
	user, err := services.ResolveRememberToken(a.DB.WithContext(c.UserContext()), a.Secret, signed)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			c.ClearCookie(RememberCookie)
			return nil, nil
		}
		return nil, err
	}

	su := services.NewSessionUser(user)
	sess.Set(sessionUserKey, su)
	if err := sess.Save(); err != nil {
		return nil, err
	}
	logger.Debug("session restored from remember cookie", "user_id", su.ID)
	return &su, nil
}

// SignIn starts a fresh session for user and, with a remember token, sets the remember cookie
func (a *Auth) SignIn(c *fiber.Ctx, user *models.User, rememberToken string) (services.SessionUser, error) {
	su := services.NewSessionUser(user)

	sess, err := a.Store.Get(c)
	if err != nil {
		return su, err
	}
	if err := sess.Regenerate(); err != nil {
		return su, err
	}
	sess.Set(sessionUserKey, su)
	if err := sess.Save(); err != nil {
		return su, err
	}

	if rememberToken != "" {
		signed, err := services.SignRememberToken(a.Secret, user.ID, rememberToken, a.RememberTTL)
		if err != nil {
			return su, err
		}
		c.Cookie(&fiber.Cookie{
			Name:     RememberCookie,
			Value:    signed,
			Path:     "/",
			Expires:  time.Now().Add(a.RememberTTL),
			HTTPOnly: true,
			Secure:   a.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return su, nil
}

// Refresh replaces the identity stored in the current session
func (a *Auth) Refresh(c *fiber.Ctx, user *models.User) error {
	sess, err := a.Store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(sessionUserKey, services.NewSessionUser(user))
	return sess.Save()
}

// SignOut destroys the session and clears the remember cookie. It returns the
// user that was signed in, if any.
func (a *Auth) SignOut(c *fiber.Ctx) (*services.SessionUser, error) {
	sess, err := a.Store.Get(c)
	if err != nil {
		return nil, err
	}
	var prev *services.SessionUser
	if u, ok := sess.Get(sessionUserKey).(services.SessionUser); ok {
		prev = &u
	}
	c.ClearCookie(RememberCookie)
	return prev, sess.Destroy()
}

// recheck reloads the session user so deactivation, deletion and role
// changes apply on the next request. A user that is gone or inactive is
// signed out.
func (a *Auth) recheck(c *fiber.Ctx, sess *session.Session, u services.SessionUser) (*services.SessionUser, error) {
	user, err := services.GetActiveUser(a.DB.WithContext(c.UserContext()), u.ID)
	if err != nil {
		if !errors.Is(err, services.ErrUnauthenticated) {
			return nil, err
		}
		logger.Info("signing out inactive or deleted user", "user_id", u.ID)
		c.ClearCookie(RememberCookie)
		return nil, sess.Destroy()
	}

	fresh := services.NewSessionUser(user)
	if fresh != u {
		sess.Set(sessionUserKey, fresh)
		if err := sess.Save(); err != nil {
			return nil, err
		}
	}
	return &fresh, nil
}

// AuthUser requires any signed-in user and exposes it through CurrentUserFrom
func (a *Auth) AuthUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := a.CurrentUser(c)
		if err != nil {
			return err
		}
		if u == nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authenticated",
				Type:    "auth.unauthenticated",
			}
		}
		c.Locals(localsUserKey, *u)
		return c.Next()
	}
}

// AuthAdmin requires a signed-in admin
func (a *Auth) AuthAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := a.CurrentUser(c)
		if err != nil {
			return err
		}
		if u == nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authenticated",
				Type:    "auth.unauthenticated",
			}
		}
		if !u.IsAdmin() {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Access denied. Admin only.",
				Type:    "auth.admin",
			}
		}
		c.Locals(localsUserKey, *u)
		return c.Next()
	}
}

// CurrentUserFrom returns the user stored by AuthUser or AuthAdmin
func CurrentUserFrom(c *fiber.Ctx) (services.SessionUser, bool) {
	u, ok := c.Locals(localsUserKey).(services.SessionUser)
	return u, ok
}
