// Package client is a typed Go client for the thinkme JSON API. It keeps
// a cookie jar for the session, validates blog drafts before sending
// them, and maps server responses onto a small error taxonomy
// (NetworkError, AuthError, NotFoundError, ValidationError) so callers
// can branch on error kind instead of status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/namravamja/thinkme/views"
)

const maxImageSize = 10 << 20 // matches the server-side upload limit

// Client talks to a thinkme server. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the server at baseURL. The client carries its
// own cookie jar, so a Login call authenticates all later requests.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Jar: jar},
	}, nil
}

// Upload is an image attached to a blog draft or profile update.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BlogDraft is the input for creating a blog. All fields are required.
type BlogDraft struct {
	Title    string
	Excerpt  string
	Content  string
	Category string
	Tags     []string
	Image    *Upload
}

// BlogPatch is a partial blog update. Nil fields are left unchanged.
type BlogPatch struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Category *string
	Tags     []string
	Image    *Upload
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	Name         *string
	Bio          *string
	Website      *string
	Twitter      *string
	Github       *string
	Linkedin     *string
	ProfileImage *Upload
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// Validate checks a draft against the publishing rules. It returns the
// first failing field so forms can focus it.
func (d BlogDraft) Validate() error {
	if len(strings.TrimSpace(d.Title)) < 5 {
		return &ValidationError{Field: "title", Message: "Title must be at least 5 characters"}
	}
	if len(strings.TrimSpace(d.Excerpt)) < 10 {
		return &ValidationError{Field: "excerpt", Message: "Excerpt must be at least 10 characters"}
	}
	if len(strings.TrimSpace(d.Content)) < 50 {
		return &ValidationError{Field: "content", Message: "Content must be at least 50 characters"}
	}
	if strings.TrimSpace(d.Category) == "" {
		return &ValidationError{Field: "category", Message: "Category is required"}
	}
	if len(d.Tags) == 0 {
		return &ValidationError{Field: "tags", Message: "At least one tag is required"}
	}
	if d.Image == nil {
		return &ValidationError{Field: "image", Message: "Featured image is required"}
	}
	return validateUpload("image", d.Image)
}

func validateUpload(field string, up *Upload) error {
	switch up.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return &ValidationError{Field: field, Message: "Only JPEG, PNG or WEBP images are allowed"}
	}
	if len(up.Data) > maxImageSize {
		return &ValidationError{Field: field, Message: "File too large (max 10MB)"}
	}
	return nil
}

// Me returns the authenticated user, or an AuthError when no session is
// active.
func (c *Client) Me(ctx context.Context) (views.User, error) {
	var user views.User
	err := c.doJSON(ctx, http.MethodGet, "/me", nil, &user, false)
	return user, err
}

// Signup registers a new account. It does not start a session; call
// Login afterwards.
func (c *Client) Signup(ctx context.Context, name, email, password string) (views.User, error) {
	if strings.TrimSpace(name) == "" {
		return views.User{}, &ValidationError{Field: "name", Message: "Name is required"}
	}
	if !strings.Contains(email, "@") {
		return views.User{}, &ValidationError{Field: "email", Message: "A valid email is required"}
	}
	if password == "" {
		return views.User{}, &ValidationError{Field: "password", Message: "Password is required"}
	}
	body := map[string]string{"name": name, "email": email, "password": password}
	var user views.User
	err := c.doJSON(ctx, http.MethodPost, "/signup", body, &user, true)
	return user, err
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/login", body, nil, true)
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil, false)
}

// ListBlogs fetches the full blog collection. Filtering, search, and
// pagination happen locally via the listing package.
func (c *Client) ListBlogs(ctx context.Context) ([]views.Blog, error) {
	var blogs []views.Blog
	if err := c.doJSON(ctx, http.MethodGet, "/blogs/all", nil, &blogs, false); err != nil {
		return nil, err
	}
	return normalizeAll(blogs), nil
}

// GetBlog fetches a single blog by id.
func (c *Client) GetBlog(ctx context.Context, id int) (views.Blog, error) {
	var blog views.Blog
	if err := c.doJSON(ctx, http.MethodGet, "/blogs/get/"+strconv.Itoa(id), nil, &blog, false); err != nil {
		return views.Blog{}, err
	}
	return views.NormalizeBlog(blog), nil
}

// MyBlogs fetches the authenticated user's blogs.
func (c *Client) MyBlogs(ctx context.Context) ([]views.Blog, error) {
	var blogs []views.Blog
	if err := c.doJSON(ctx, http.MethodGet, "/blogs/my-blogs", nil, &blogs, false); err != nil {
		return nil, err
	}
	return normalizeAll(blogs), nil
}

// CreateBlog validates the draft and publishes it.
func (c *Client) CreateBlog(ctx context.Context, draft BlogDraft) (views.Blog, error) {
	if err := draft.Validate(); err != nil {
		return views.Blog{}, err
	}
	form := url.Values{
		"title":    {draft.Title},
		"excerpt":  {draft.Excerpt},
		"content":  {draft.Content},
		"category": {draft.Category},
		"tags":     draft.Tags,
	}
	var blog views.Blog
	if err := c.doMultipart(ctx, http.MethodPost, "/blogs/create", form, "image", draft.Image, &blog); err != nil {
		return views.Blog{}, err
	}
	return views.NormalizeBlog(blog), nil
}

// UpdateBlog applies a partial update to an owned blog.
func (c *Client) UpdateBlog(ctx context.Context, id int, patch BlogPatch) (views.Blog, error) {
	form := url.Values{}
	if patch.Title != nil {
		form.Set("title", *patch.Title)
	}
	if patch.Excerpt != nil {
		form.Set("excerpt", *patch.Excerpt)
	}
	if patch.Content != nil {
		form.Set("content", *patch.Content)
	}
	if patch.Category != nil {
		form.Set("category", *patch.Category)
	}
	if patch.Tags != nil {
		form["tags"] = patch.Tags
	}
	if patch.Image != nil {
		if err := validateUpload("image", patch.Image); err != nil {
			return views.Blog{}, err
		}
	}
	var blog views.Blog
	if err := c.doMultipart(ctx, http.MethodPut, "/blogs/update/"+strconv.Itoa(id), form, "image", patch.Image, &blog); err != nil {
		return views.Blog{}, err
	}
	return views.NormalizeBlog(blog), nil
}

// DeleteBlog removes an owned blog.
func (c *Client) DeleteBlog(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, "/blogs/delete/"+strconv.Itoa(id), nil, nil, false)
}

// UpdateProfile applies a partial update to the authenticated user's
// profile.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (views.User, error) {
	form := url.Values{}
	set := func(key string, v *string) {
		if v != nil {
			form.Set(key, *v)
		}
	}
	set("name", patch.Name)
	set("bio", patch.Bio)
	set("website", patch.Website)
	set("twitter", patch.Twitter)
	set("github", patch.Github)
	set("linkedin", patch.Linkedin)
	if patch.ProfileImage != nil {
		if err := validateUpload("profile_image", patch.ProfileImage); err != nil {
			return views.User{}, err
		}
	}
	var user views.User
	err := c.doMultipart(ctx, http.MethodPut, "/me/update", form, "profile_image", patch.ProfileImage, &user)
	return user, err
}

// Comments fetches the comments on a blog, oldest first.
func (c *Client) Comments(ctx context.Context, blogID int) ([]views.Comment, error) {
	var comments []views.Comment
	err := c.doJSON(ctx, http.MethodGet, "/blogs/"+strconv.Itoa(blogID)+"/comments", nil, &comments, false)
	return comments, err
}

// AddComment posts a comment on a blog.
func (c *Client) AddComment(ctx context.Context, blogID int, content string) (views.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return views.Comment{}, &ValidationError{Field: "content", Message: "Comment cannot be empty"}
	}
	body := map[string]string{"content": content}
	var comment views.Comment
	err := c.doJSON(ctx, http.MethodPost, "/blogs/"+strconv.Itoa(blogID)+"/comments", body, &comment, false)
	return comment, err
}

// ToggleBlogLike likes or unlikes a blog for the authenticated user.
func (c *Client) ToggleBlogLike(ctx context.Context, blogID int) (LikeResult, error) {
	var res LikeResult
	err := c.doJSON(ctx, http.MethodPost, "/blogs/"+strconv.Itoa(blogID)+"/like", nil, &res, false)
	return res, err
}

// ToggleCommentLike likes or unlikes a comment for the authenticated user.
func (c *Client) ToggleCommentLike(ctx context.Context, commentID string) (LikeResult, error) {
	var res LikeResult
	err := c.doJSON(ctx, http.MethodPost, "/comments/"+url.PathEscape(commentID)+"/like", nil, &res, false)
	return res, err
}

func normalizeAll(blogs []views.Blog) []views.Blog {
	out := make([]views.Blog, len(blogs))
	for i, b := range blogs {
		out[i] = views.NormalizeBlog(b)
	}
	return out
}

// doJSON performs a JSON round trip. authOp marks login/signup calls,
// whose 400 responses are credential rejections rather than malformed
// input.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any, authOp bool) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out, authOp)
}

func (c *Client) doMultipart(ctx context.Context, method, path string, form url.Values, fileField string, file *Upload, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, values := range form {
		for _, value := range values {
			if err := mw.WriteField(key, value); err != nil {
				return err
			}
		}
	}
	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, file.Filename))
		header.Set("Content-Type", file.ContentType)
		part, err := mw.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.Data); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, path, out, false)
}

func (c *Client) do(req *http.Request, op string, out any, authOp bool) error {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp, authOp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func decodeError(resp *http.Response, authOp bool) error {
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Detail
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &AuthError{Message: msg}
	case resp.StatusCode == http.StatusForbidden:
		return &AuthError{Message: msg}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: msg}
	case resp.StatusCode == http.StatusBadRequest && authOp:
		return &AuthError{Message: msg}
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{Message: msg}
	default:
		return fmt.Errorf("server error: %s (%d)", msg, resp.StatusCode)
	}
}
