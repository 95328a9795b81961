package thinkme

import "github.com/labstack/echo/v4"

// Wire types for the JSON API. Error bodies use the {"detail": ...}
// envelope the frontend expects.

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type commentRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type likeResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// apiError builds an HTTP error whose message the central error handler
// serializes as {"detail": msg} for API paths.
func apiError(code int, msg string) error {
	return echo.NewHTTPError(code, msg)
}
