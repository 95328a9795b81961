// Package listing filters, searches, and paginates an in-memory blog
// collection. The API returns the full collection in one response; every
// list view derives its page from that collection with Compute.
package listing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/namravamja/thinkme/views"
)

// DefaultPageSize matches the list views' page length.
const DefaultPageSize = 10

// Params selects a page of a blog collection. Zero values disable the
// corresponding filter; Page and PageSize fall back to 1 and
// DefaultPageSize.
type Params struct {
	Category string
	Search   string
	AuthorID string
	Page     int
	PageSize int
}

// Page is one page of filtered results.
type Page struct {
	Items      []views.Blog
	Total      int
	Page       int
	TotalPages int
}

// Compute applies category, search, and author filters in order, then
// paginates. Input order is preserved and the result is deterministic:
// the same collection and params always yield the same page. Records are
// normalized before filtering so searches see the same defaults the cards
// render. A page past the end yields empty items, not an error.
func Compute(blogs []views.Blog, p Params) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}

	filtered := make([]views.Blog, 0, len(blogs))
	search := strings.ToLower(p.Search)
	for _, b := range blogs {
		b = views.NormalizeBlog(b)
		if p.Category != "" && b.Category != p.Category {
			continue
		}
		if search != "" && !matchesSearch(b, search) {
			continue
		}
		if p.AuthorID != "" && !matchesAuthor(b, p.AuthorID) {
			continue
		}
		filtered = append(filtered, b)
	}

	total := len(filtered)
	totalPages := (total + p.PageSize - 1) / p.PageSize

	start := (p.Page - 1) * p.PageSize
	end := start + p.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      filtered[start:end],
		Total:      total,
		Page:       p.Page,
		TotalPages: totalPages,
	}
}

// matchesSearch reports whether the lowercased term is a substring of the
// title, excerpt, content, any tag, or the author display name.
func matchesSearch(b views.Blog, term string) bool {
	if strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.Excerpt), term) ||
		strings.Contains(strings.ToLower(b.Content), term) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(b.AuthorName()), term)
}

// matchesAuthor compares the blog's owning-user id against the given id
// as strings, checking both the flat user_id and the embedded user record.
func matchesAuthor(b views.Blog, authorID string) bool {
	if b.UserID != 0 && strconv.Itoa(b.UserID) == authorID {
		return true
	}
	return b.User != nil && b.User.ID != 0 && strconv.Itoa(b.User.ID) == authorID
}

// Categories returns the sorted, deduplicated categories present in the
// collection, for sidebar filters.
func Categories(blogs []views.Blog) []string {
	set := make(map[string]struct{})
	for _, b := range blogs {
		b = views.NormalizeBlog(b)
		set[b.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
