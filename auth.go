package thinkme

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const sessionName = "thinkme_session"

// handleSignup answers POST /signup by registering a new user. The caller
// still has to log in afterwards; no cookie is set here.
func (a *App) handleSignup(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return apiError(http.StatusTooManyRequests, "Too many attempts. Try again later.")
	}
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "Invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apiError(http.StatusBadRequest, "Name, email and password are required")
	}
	user, err := a.Store.CreateUser(req.Name, req.Email, req.Password)
	if err == ErrEmailTaken {
		a.loginLimiter.Record(c.RealIP())
		return apiError(http.StatusBadRequest, "Email already registered")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// handleLogin answers POST /login, setting the session cookie on success.
func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return apiError(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "Invalid request body")
	}
	user, err := a.Store.Authenticate(req.Email, req.Password)
	if err == ErrInvalidCredentials {
		a.loginLimiter.Record(c.RealIP())
		return apiError(http.StatusBadRequest, "Invalid credentials")
	}
	if err != nil {
		return err
	}
	if err := setUserSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Login successful"})
}

// handleLogout answers POST /logout by expiring the session cookie.
func (a *App) handleLogout(c echo.Context) error {
	if err := clearUserSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out"})
}

// currentUserID extracts the authenticated user id from the session
// cookie. ok is false for anonymous requests.
func currentUserID(c echo.Context) (int, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values["user_id"].(int)
	return id, ok && id != 0
}

func setUserSession(c echo.Context, userID int) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values["user_id"] = userID
	return sess.Save(c.Request(), c.Response())
}

func clearUserSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}
