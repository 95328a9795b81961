// Package thinkme is an embeddable blog platform built with Go, Echo, and
// templ. It provides session-based authentication, blog CRUD with image
// uploads, comments and likes, and a JSON API consumed by the client
// package, with page routes rendered through user-provided templates.
//
// Users provide their own templ components via the ViewFuncs struct (or
// start from DefaultViews), and thinkme handles the handler logic,
// middleware, and database operations.
package thinkme

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/namravamja/thinkme/listing"
	"github.com/namravamja/thinkme/views"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates. DefaultViews supplies
// minimal fallbacks.
type ViewFuncs struct {
	Home        func(featured listing.Page, categories []string, viewer *views.User) templ.Component
	BlogList    func(page listing.Page, params listing.Params, categories []string, viewer *views.User) templ.Component
	BlogDetail  func(blog views.Blog, comments []views.Comment, related []views.Blog, viewer *views.User) templ.Component
	CreateForm  func(viewer *views.User) templ.Component
	EditForm    func(blog views.Blog, viewer *views.User) templ.Component
	MyBlogs     func(page listing.Page, viewer *views.User) templ.Component
	Profile     func(viewer *views.User) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central thinkme application. It wires together the store,
// cache, handlers, middleware, and user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *BlogCache
	Views  ViewFuncs

	loginLimiter *loginLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new thinkme App with the given configuration and view
// functions.
func New(cfg SiteConfig, vf ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     vf,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Bootstrap initializes the database, cache, middleware, and routes
// without starting the listener. Start calls it; tests call it directly
// and serve a.Echo through httptest.
func (a *App) Bootstrap() error {
	if a.Config.SessionSecret == "" {
		return errors.New("thinkme: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("thinkme: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewBlogCache(a.Store, a.Config.BlogCacheTTL)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start bootstraps the app and runs the server until it shuts down.
func (a *App) Start() error {
	if err := a.Bootstrap(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Static assets and processed image uploads.
	e.Static("/public", a.staticDir)

	// Auth API.
	e.POST("/signup", a.handleSignup)
	e.POST("/login", a.handleLogin)
	e.POST("/logout", a.handleLogout)
	e.GET("/me", a.handleMe)
	e.PUT("/me/update", a.handleProfileUpdate)

	// Blog API. The full collection is served in one response; clients
	// filter and paginate locally.
	e.GET("/blogs/all", a.handleListBlogs)
	e.GET("/blogs/get/:id", a.handleGetBlog)
	e.GET("/blogs/my-blogs", a.handleMyBlogs)
	e.POST("/blogs/create", a.handleCreateBlog)
	e.PUT("/blogs/update/:id", a.handleUpdateBlog)
	e.DELETE("/blogs/delete/:id", a.handleDeleteBlog)

	// Comments and likes.
	e.GET("/blogs/:id/comments", a.handleListComments)
	e.POST("/blogs/:id/comments", a.handleAddComment)
	e.POST("/blogs/:id/like", a.handleBlogLike)
	e.POST("/comments/:id/like", a.handleCommentLike)

	// Pages.
	e.GET("/", a.handleHomePage)
	e.GET("/blogs", a.handleBlogsPage)
	e.GET("/blogs/:id", a.handleBlogDetailPage)
	e.GET("/create", a.handleCreatePage)
	e.GET("/edit/:id", a.handleEditPage)
	e.GET("/my-blogs", a.handleMyBlogsPage)
	e.GET("/my-blogs/:id", a.handleBlogDetailPage)
	e.GET("/profile", a.handleProfilePage)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("thinkme: required environment variable %s is not set", key)
	}
	return v
}
