package thinkme

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/namravamja/thinkme/listing"
	"github.com/namravamja/thinkme/views"
)

// viewer returns the session user for page rendering, or nil when
// anonymous. Pages never redirect on missing auth: they render with a
// nil viewer and the template shows a login prompt instead.
func (a *App) viewer(c echo.Context) *views.User {
	userID, ok := currentUserID(c)
	if !ok {
		return nil
	}
	user, err := a.Store.GetUser(userID)
	if err != nil {
		return nil
	}
	return &user
}

// listParams reads the shared list query parameters.
func listParams(c echo.Context) listing.Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	return listing.Params{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: listing.DefaultPageSize,
	}
}

func (a *App) handleHomePage(c echo.Context) error {
	blogs, err := a.Cache.ListBlogs()
	if err != nil {
		return err
	}
	featured := listing.Compute(blogs, listing.Params{Page: 1, PageSize: 3})
	return Render(c, a.Views.Home(featured, listing.Categories(blogs), a.viewer(c)))
}

func (a *App) handleBlogsPage(c echo.Context) error {
	blogs, err := a.Cache.ListBlogs()
	if err != nil {
		return err
	}
	params := listParams(c)
	page := listing.Compute(blogs, params)
	return Render(c, a.Views.BlogList(page, params, listing.Categories(blogs), a.viewer(c)))
}

func (a *App) handleBlogDetailPage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	blog, err := a.Cache.GetBlog(id)
	if err == sql.ErrNoRows {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	viewerID, _ := currentUserID(c)
	comments, err := a.Store.ListComments(id, viewerID)
	if err != nil {
		return err
	}
	all, err := a.Cache.ListBlogs()
	if err != nil {
		return err
	}
	related := views.FilterRelatedBlogs(blog, all)
	return Render(c, a.Views.BlogDetail(views.NormalizeBlog(blog), comments, related, a.viewer(c)))
}

func (a *App) handleCreatePage(c echo.Context) error {
	return Render(c, a.Views.CreateForm(a.viewer(c)))
}

func (a *App) handleEditPage(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	blog, err := a.Cache.GetBlog(id)
	if err == sql.ErrNoRows {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.EditForm(views.NormalizeBlog(blog), a.viewer(c)))
}

func (a *App) handleMyBlogsPage(c echo.Context) error {
	viewer := a.viewer(c)
	params := listParams(c)
	var page listing.Page
	if viewer != nil {
		blogs, err := a.Store.ListBlogsByUser(viewer.ID)
		if err != nil {
			return err
		}
		page = listing.Compute(blogs, params)
	}
	return Render(c, a.Views.MyBlogs(page, viewer))
}

func (a *App) handleProfilePage(c echo.Context) error {
	return Render(c, a.Views.Profile(a.viewer(c)))
}
