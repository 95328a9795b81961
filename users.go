package thinkme

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/namravamja/thinkme/views"
)

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned by Authenticate on a bad email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CreateUser registers a new user with a bcrypt-hashed password.
func (s *Store) CreateUser(name, email, password string) (views.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM users WHERE email = ?`, email).Scan(&n); err != nil {
		return views.User{}, err
	}
	if n > 0 {
		return views.User{}, ErrEmailTaken
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return views.User{}, err
	}
	res, err := s.db.Exec(`INSERT INTO users (email, hashed_password, name) VALUES (?, ?, ?)`,
		email, string(hashed), name)
	if err != nil {
		return views.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return views.User{}, err
	}
	return s.GetUser(int(id))
}

// Authenticate verifies the email/password pair and returns the user.
// A missing user and a wrong password are indistinguishable to callers.
func (s *Store) Authenticate(email, password string) (views.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var id int
	var hashed string
	err := s.db.QueryRow(`SELECT id, hashed_password FROM users WHERE email = ?`, email).
		Scan(&id, &hashed)
	if err == sql.ErrNoRows {
		return views.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return views.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) != nil {
		return views.User{}, ErrInvalidCredentials
	}
	return s.GetUser(id)
}

// GetUser returns a user by id.
func (s *Store) GetUser(id int) (views.User, error) {
	var u views.User
	err := s.db.QueryRow(`SELECT id, email, name, bio, website, twitter, github, linkedin, profile_image
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Bio, &u.Website, &u.Twitter, &u.Github, &u.Linkedin, &u.ProfileImage)
	if err != nil {
		return views.User{}, err
	}
	return u, nil
}

// ProfilePatch holds the optional profile fields of an update request.
// Nil pointers leave the stored value untouched.
type ProfilePatch struct {
	Name         *string
	Bio          *string
	Website      *string
	Twitter      *string
	Github       *string
	Linkedin     *string
	ProfileImage *string
}

// UpdateUser applies a partial profile update and returns the fresh record.
func (s *Store) UpdateUser(id int, p ProfilePatch) (views.User, error) {
	u, err := s.GetUser(id)
	if err != nil {
		return views.User{}, err
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Twitter != nil {
		u.Twitter = *p.Twitter
	}
	if p.Github != nil {
		u.Github = *p.Github
	}
	if p.Linkedin != nil {
		u.Linkedin = *p.Linkedin
	}
	if p.ProfileImage != nil {
		u.ProfileImage = *p.ProfileImage
	}
	_, err = s.db.Exec(`UPDATE users SET name = ?, bio = ?, website = ?, twitter = ?, github = ?, linkedin = ?, profile_image = ?
		WHERE id = ?`,
		u.Name, u.Bio, u.Website, u.Twitter, u.Github, u.Linkedin, u.ProfileImage, id)
	if err != nil {
		return views.User{}, err
	}
	return u, nil
}

// handleMe answers GET /me with the cookie-authenticated user.
func (a *App) handleMe(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	user, err := a.Store.GetUser(userID)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// handleProfileUpdate answers PUT /me/update. Multipart form; every field
// optional, absent fields are left untouched.
func (a *App) handleProfileUpdate(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}

	params, err := c.FormParams()
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid form body")
	}
	var patch ProfilePatch
	form := func(name string) *string {
		if v, present := params[name]; present && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}
	patch.Name = form("name")
	patch.Bio = form("bio")
	patch.Website = form("website")
	patch.Twitter = form("twitter")
	patch.Github = form("github")
	patch.Linkedin = form("linkedin")

	if file, err := c.FormFile("profile_image"); err == nil && file != nil {
		url, err := a.saveUpload(file)
		if err != nil {
			return err
		}
		patch.ProfileImage = &url
	}

	user, err := a.Store.UpdateUser(userID, patch)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "User not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
