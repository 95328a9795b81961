// Package views holds the domain types shared between the server, the API
// client, and user-provided templ templates, along with pure helpers used
// when rendering blog cards and detail pages.
package views

import "time"

// User is a registered author. JSON field names match the wire format of
// the HTTP API (snake_case where the API uses it).
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Bio          string `json:"bio,omitempty"`
	Website      string `json:"website,omitempty"`
	Twitter      string `json:"twitter,omitempty"`
	Github       string `json:"github,omitempty"`
	Linkedin     string `json:"linkedin,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Blog is a single post as served by the API and rendered by templates.
// Most fields are optional on the wire; NormalizeBlog substitutes defaults
// so rendering never fails on a partially-populated record.
type Blog struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Excerpt   string     `json:"excerpt"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	Image     string     `json:"image,omitempty"`
	UserID    int        `json:"user_id"`
	User      *User      `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Comment is a reader comment on a blog post. LikesCount and IsLiked are
// computed per viewer by the server.
type Comment struct {
	ID         string    `json:"id"`
	BlogID     int       `json:"blog_id"`
	Content    string    `json:"content"`
	Author     User      `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
	LikesCount int       `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

// Default values substituted for absent blog fields.
const (
	DefaultTitle    = "Untitled"
	DefaultExcerpt  = "No excerpt available"
	DefaultCategory = "Uncategorized"
	DefaultAuthor   = "Unknown Author"
)

// NormalizeBlog fills missing fields with display defaults. This is the
// single place partial API records are repaired; callers on both sides of
// the wire use it instead of repeating ad-hoc fallbacks.
func NormalizeBlog(b Blog) Blog {
	if b.Title == "" {
		b.Title = DefaultTitle
	}
	if b.Excerpt == "" {
		b.Excerpt = DefaultExcerpt
	}
	if b.Category == "" {
		b.Category = DefaultCategory
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.User == nil {
		b.User = &User{Name: DefaultAuthor}
	} else if b.User.Name == "" {
		u := *b.User
		u.Name = DefaultAuthor
		b.User = &u
	}
	return b
}

// AuthorName returns the display name of the blog's author.
func (b Blog) AuthorName() string {
	if b.User == nil || b.User.Name == "" {
		return DefaultAuthor
	}
	return b.User.Name
}
