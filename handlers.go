package thinkme

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/namravamja/thinkme/views"
)

// handleListBlogs answers GET /blogs/all with the full collection. There
// is no server-side pagination; list views filter and paginate the
// collection client-side.
func (a *App) handleListBlogs(c echo.Context) error {
	blogs, err := a.Cache.ListBlogs()
	if err != nil {
		return err
	}
	if blogs == nil {
		blogs = []views.Blog{}
	}
	return c.JSON(http.StatusOK, blogs)
}

// handleGetBlog answers GET /blogs/get/:id.
func (a *App) handleGetBlog(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	blog, err := a.Cache.GetBlog(id)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Blog not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, blog)
}

// handleMyBlogs answers GET /blogs/my-blogs for the session user.
func (a *App) handleMyBlogs(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	blogs, err := a.Store.ListBlogsByUser(userID)
	if err != nil {
		return err
	}
	if blogs == nil {
		blogs = []views.Blog{}
	}
	return c.JSON(http.StatusOK, blogs)
}

// handleCreateBlog answers POST /blogs/create. Multipart form with
// title, content, excerpt, category, repeated tags fields, and a
// required image.
func (a *App) handleCreateBlog(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	content := strings.TrimSpace(c.FormValue("content"))
	excerpt := strings.TrimSpace(c.FormValue("excerpt"))
	category := strings.TrimSpace(c.FormValue("category"))
	tags := formTags(c)
	if title == "" || content == "" || excerpt == "" || category == "" {
		return apiError(http.StatusBadRequest, "Title, content, excerpt and category are required")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return apiError(http.StatusBadRequest, "Featured image is required")
	}
	imageURL, err := a.saveUpload(file)
	if err != nil {
		return err
	}

	blog, err := a.Store.CreateBlog(views.Blog{
		Title:    title,
		Content:  content,
		Excerpt:  excerpt,
		Category: category,
		Tags:     tags,
		Image:    imageURL,
		UserID:   userID,
	})
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, blog)
}

// handleUpdateBlog answers PUT /blogs/update/:id. Same multipart shape as
// create but every field optional; only the owner may update.
func (a *App) handleUpdateBlog(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	blog, err := a.Store.GetBlog(id)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Blog not found")
	}
	if err != nil {
		return err
	}
	if blog.UserID != userID {
		return apiError(http.StatusForbidden, "Not authorized to access this blog")
	}

	params, err := c.FormParams()
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid form body")
	}
	if v, ok := params["title"]; ok && len(v) > 0 {
		blog.Title = strings.TrimSpace(v[0])
	}
	if v, ok := params["content"]; ok && len(v) > 0 {
		blog.Content = strings.TrimSpace(v[0])
	}
	if v, ok := params["excerpt"]; ok && len(v) > 0 {
		blog.Excerpt = strings.TrimSpace(v[0])
	}
	if v, ok := params["category"]; ok && len(v) > 0 {
		blog.Category = strings.TrimSpace(v[0])
	}
	if v, ok := params["tags"]; ok {
		blog.Tags = filterEmpty(v)
	}
	if file, err := c.FormFile("image"); err == nil && file != nil {
		imageURL, err := a.saveUpload(file)
		if err != nil {
			return err
		}
		blog.Image = imageURL
	}

	updated, err := a.Store.UpdateBlog(blog)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, updated)
}

// handleDeleteBlog answers DELETE /blogs/delete/:id, owner-only.
func (a *App) handleDeleteBlog(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	blog, err := a.Store.GetBlog(id)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Blog not found")
	}
	if err != nil {
		return err
	}
	if blog.UserID != userID {
		return apiError(http.StatusForbidden, "Not authorized to access this blog")
	}
	if err := a.Store.DeleteBlog(id); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, messageResponse{Message: "Blog deleted successfully"})
}

// formTags collects repeated "tags" form values, dropping blanks.
func formTags(c echo.Context) []string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}
	return filterEmpty(params["tags"])
}

// filterEmpty removes empty/whitespace-only strings from a slice.
func filterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
