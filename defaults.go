package thinkme

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/namravamja/thinkme/listing"
	"github.com/namravamja/thinkme/views"
)

// DefaultViews returns a plain HTML rendition of every page. It is meant
// as a starting point; real deployments replace individual fields with
// their own templ components.
func DefaultViews(cfg SiteConfig) ViewFuncs {
	return ViewFuncs{
		Home: func(featured listing.Page, categories []string, viewer *views.User) templ.Component {
			return page(cfg, "Home", func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1><p>%s</p>", html.EscapeString(cfg.Name), html.EscapeString(cfg.Description))
				writeNav(w, viewer)
				fmt.Fprint(w, "<h2>Featured</h2>")
				writeBlogList(w, featured.Items)
				fmt.Fprint(w, "<h2>Categories</h2><ul>")
				for _, cat := range categories {
					fmt.Fprintf(w, `<li><a href="/blogs?category=%s">%s</a></li>`,
						views.PathEscape(cat), html.EscapeString(cat))
				}
				fmt.Fprint(w, "</ul>")
			})
		},
		BlogList: func(pg listing.Page, params listing.Params, categories []string, viewer *views.User) templ.Component {
			return page(cfg, "Blogs", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Blogs</h1>")
				writeNav(w, viewer)
				fmt.Fprintf(w, `<form action="/blogs" method="get"><input type="search" name="search" value="%s" placeholder="Search blogs"><button>Search</button></form>`,
					html.EscapeString(params.Search))
				writeBlogList(w, pg.Items)
				writePager(w, pg, params)
			})
		},
		BlogDetail: func(blog views.Blog, comments []views.Comment, related []views.Blog, viewer *views.User) templ.Component {
			return page(cfg, blog.Title, func(w io.Writer) {
				writeNav(w, viewer)
				fmt.Fprintf(w, "<article><h1>%s</h1>", html.EscapeString(blog.Title))
				fmt.Fprintf(w, "<p>By %s on %s. %d min read.</p>",
					html.EscapeString(blog.AuthorName()),
					html.EscapeString(views.FormatDate(blog.CreatedAt)),
					views.ReadTime(blog.Content))
				if blog.Image != "" {
					fmt.Fprintf(w, `<img src="%s" alt="%s">`, html.EscapeString(blog.Image), html.EscapeString(blog.Title))
				}
				fmt.Fprintf(w, "<p>%s</p></article>", html.EscapeString(blog.Content))
				fmt.Fprintf(w, "<h2>Comments (%d)</h2><ul>", len(comments))
				for _, cm := range comments {
					fmt.Fprintf(w, "<li><strong>%s</strong>: %s (%d likes)</li>",
						html.EscapeString(cm.Author.Name), html.EscapeString(cm.Content), cm.LikesCount)
				}
				fmt.Fprint(w, "</ul><h2>Related</h2>")
				writeBlogList(w, related)
			})
		},
		CreateForm: func(viewer *views.User) templ.Component {
			return page(cfg, "Write a blog", func(w io.Writer) {
				writeNav(w, viewer)
				fmt.Fprint(w, "<h1>Write a blog</h1>")
				writeBlogForm(w, "/blogs/create", views.Blog{})
			})
		},
		EditForm: func(blog views.Blog, viewer *views.User) templ.Component {
			return page(cfg, "Edit blog", func(w io.Writer) {
				writeNav(w, viewer)
				fmt.Fprint(w, "<h1>Edit blog</h1>")
				writeBlogForm(w, "/blogs/update/"+strconv.Itoa(blog.ID), blog)
			})
		},
		MyBlogs: func(pg listing.Page, viewer *views.User) templ.Component {
			return page(cfg, "My blogs", func(w io.Writer) {
				writeNav(w, viewer)
				fmt.Fprintf(w, "<h1>My blogs (%d)</h1>", pg.Total)
				writeBlogList(w, pg.Items)
			})
		},
		Profile: func(viewer *views.User) templ.Component {
			return page(cfg, "Profile", func(w io.Writer) {
				writeNav(w, viewer)
				fmt.Fprint(w, "<h1>Profile</h1>")
				if viewer == nil {
					fmt.Fprint(w, "<p>Sign in to view your profile.</p>")
					return
				}
				fmt.Fprintf(w, "<p>%s &lt;%s&gt;</p>", html.EscapeString(viewer.Name), html.EscapeString(viewer.Email))
				if viewer.Bio != "" {
					fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(viewer.Bio))
				}
			})
		},
		NotFound: func() templ.Component {
			return page(cfg, "Not found", func(w io.Writer) {
				fmt.Fprint(w, `<h1>404</h1><p>Page not found.</p><a href="/">Home</a>`)
			})
		},
		ServerError: func() templ.Component {
			return page(cfg, "Something went wrong", func(w io.Writer) {
				fmt.Fprint(w, `<h1>500</h1><p>Something went wrong.</p><a href="/">Home</a>`)
			})
		},
	}
}

// page wraps body content in a minimal HTML shell.
func page(cfg SiteConfig, title string, body func(io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s | %s</title></head><body>`,
			html.EscapeString(title), html.EscapeString(cfg.Name))
		body(w)
		_, err := fmt.Fprint(w, "</body></html>")
		return err
	})
}

func writeNav(w io.Writer, viewer *views.User) {
	fmt.Fprint(w, `<nav><a href="/">Home</a> <a href="/blogs">Blogs</a>`)
	if viewer != nil {
		fmt.Fprintf(w, ` <a href="/create">Write</a> <a href="/my-blogs">My blogs</a> <a href="/profile">%s</a>`,
			html.EscapeString(viewer.Name))
	} else {
		fmt.Fprint(w, ` <a href="/profile">Sign in</a>`)
	}
	fmt.Fprint(w, "</nav>")
}

func writeBlogList(w io.Writer, blogs []views.Blog) {
	fmt.Fprint(w, "<ul>")
	for _, b := range blogs {
		fmt.Fprintf(w, `<li><a href="/blogs/%d">%s</a> <small>%s · %s</small><p>%s</p></li>`,
			b.ID,
			html.EscapeString(b.Title),
			html.EscapeString(b.Category),
			html.EscapeString(b.AuthorName()),
			html.EscapeString(b.Excerpt))
	}
	fmt.Fprint(w, "</ul>")
}

func writePager(w io.Writer, pg listing.Page, params listing.Params) {
	if pg.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(w, "<p>Page %d of %d.", pg.Page, pg.TotalPages)
	if pg.Page > 1 {
		fmt.Fprintf(w, ` <a href="%s">Previous</a>`, pageURL(params, pg.Page-1))
	}
	if pg.Page < pg.TotalPages {
		fmt.Fprintf(w, ` <a href="%s">Next</a>`, pageURL(params, pg.Page+1))
	}
	fmt.Fprint(w, "</p>")
}

func pageURL(params listing.Params, page int) string {
	u := "/blogs?page=" + strconv.Itoa(page)
	if params.Category != "" {
		u += "&category=" + views.PathEscape(params.Category)
	}
	if params.Search != "" {
		u += "&search=" + views.PathEscape(params.Search)
	}
	return u
}

func writeBlogForm(w io.Writer, action string, blog views.Blog) {
	fmt.Fprintf(w, `<form action="%s" method="post" enctype="multipart/form-data">`, action)
	fmt.Fprintf(w, `<label>Title <input name="title" value="%s" required minlength="5"></label>`, html.EscapeString(blog.Title))
	fmt.Fprintf(w, `<label>Excerpt <textarea name="excerpt" required minlength="10">%s</textarea></label>`, html.EscapeString(blog.Excerpt))
	fmt.Fprintf(w, `<label>Content <textarea name="content" required minlength="50">%s</textarea></label>`, html.EscapeString(blog.Content))
	fmt.Fprintf(w, `<label>Category <input name="category" value="%s" required></label>`, html.EscapeString(blog.Category))
	fmt.Fprintf(w, `<label>Tags <input name="tags" value="%s"></label>`, html.EscapeString(views.JoinTags(blog.Tags)))
	fmt.Fprint(w, `<label>Featured image <input type="file" name="image" accept="image/jpeg,image/png,image/webp"></label>`)
	fmt.Fprint(w, "<button>Publish</button></form>")
}
