package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// readTimeWPM is the assumed reading speed used for the "N min read" badge.
const readTimeWPM = 200

// ReadTime estimates reading time in minutes for the given content,
// counting whitespace-delimited words. Always at least 1.
func ReadTime(content string) int {
	words := strings.Fields(strings.TrimSpace(content))
	if len(words) == 0 {
		return 1
	}
	minutes := (len(words) + readTimeWPM - 1) / readTimeWPM
	if minutes < 1 {
		return 1
	}
	return minutes
}

// FormatDate renders a timestamp for blog cards. Zero times become
// "Unknown date" rather than a bogus 0001 date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format("Jan 2, 2006")
}

// AvatarInitial returns the single uppercase letter shown when an author
// has no profile image.
func AvatarInitial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "U"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// FilterRelatedBlogs returns blogs that share the current blog's category
// or at least one tag, excluding the blog itself. Input order is preserved.
func FilterRelatedBlogs(current Blog, blogs []Blog) []Blog {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Blog
	for _, b := range blogs {
		if b.ID == current.ID {
			continue
		}
		if current.Category != "" && b.Category == current.Category {
			related = append(related, b)
			continue
		}
		for _, t := range b.Tags {
			tag := strings.ToLower(strings.TrimSpace(t))
			if _, ok := tagSet[tag]; ok {
				related = append(related, b)
				break
			}
		}
	}
	return related
}

// JoinTags formats a tag slice as a comma-separated string for form fields.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// buildURL joins path segments onto a base URL.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block for the site head.
func WebsiteJsonLD(siteName, siteURL, description string) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     siteName,
		"url":      buildURL(siteURL),
	}
	if description != "" {
		data["description"] = description
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a
// blog detail page.
func BlogPostingJsonLD(siteName, siteURL string, blog Blog) string {
	blog = NormalizeBlog(blog)
	postURL := buildURL(siteURL, "blogs", strconv.Itoa(blog.ID))
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "BlogPosting",
		"headline":    blog.Title,
		"description": blog.Excerpt,
		"url":         postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  blog.AuthorName(),
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  siteName,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if !blog.CreatedAt.IsZero() {
		data["datePublished"] = blog.CreatedAt.Format("2006-01-02")
	}
	if len(blog.Tags) > 0 {
		data["keywords"] = strings.Join(blog.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
