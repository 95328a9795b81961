package views

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, ReadTime(""))
	assert.Equal(t, 1, ReadTime("just a few words"))
	assert.Equal(t, 1, ReadTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 3, ReadTime(strings.Repeat("word ", 450)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Unknown date", FormatDate(time.Time{}))

	ts := time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "Mar 7, 2025", FormatDate(ts))
}

func TestAvatarInitial(t *testing.T) {
	assert.Equal(t, "U", AvatarInitial(""))
	assert.Equal(t, "U", AvatarInitial("   "))
	assert.Equal(t, "A", AvatarInitial("alice"))
	assert.Equal(t, "Z", AvatarInitial("Zoe Smith"))
}

func TestNormalizeBlogFillsDefaults(t *testing.T) {
	got := NormalizeBlog(Blog{ID: 42})

	assert.Equal(t, DefaultTitle, got.Title)
	assert.Equal(t, DefaultExcerpt, got.Excerpt)
	assert.Equal(t, DefaultCategory, got.Category)
	assert.NotNil(t, got.Tags)
	assert.Equal(t, DefaultAuthor, got.AuthorName())
}

func TestNormalizeBlogKeepsPopulatedFields(t *testing.T) {
	in := Blog{
		ID:       1,
		Title:    "Going concurrent",
		Excerpt:  "Channels and goroutines in practice",
		Category: "Go",
		Tags:     []string{"go", "concurrency"},
		User:     &User{ID: 7, Name: "Dana"},
	}
	got := NormalizeBlog(in)

	assert.Equal(t, in.Title, got.Title)
	assert.Equal(t, in.Excerpt, got.Excerpt)
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, "Dana", got.AuthorName())
}

func TestNormalizeBlogDoesNotMutateSharedUser(t *testing.T) {
	user := &User{ID: 7}
	_ = NormalizeBlog(Blog{User: user})

	assert.Empty(t, user.Name, "the caller's User must not be modified")
}

func TestFilterRelatedBlogs(t *testing.T) {
	current := Blog{ID: 1, Category: "Go", Tags: []string{"testing"}}
	blogs := []Blog{
		{ID: 1, Category: "Go"},                            // the blog itself
		{ID: 2, Category: "Go"},                            // same category
		{ID: 3, Category: "Rust", Tags: []string{"Testing"}}, // shared tag, case-insensitive
		{ID: 4, Category: "Rust", Tags: []string{"wasm"}},  // unrelated
	}

	related := FilterRelatedBlogs(current, blogs)

	ids := make([]int, 0, len(related))
	for _, b := range related {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int{2, 3}, ids)
}

func TestBlogPostingJsonLD(t *testing.T) {
	blog := Blog{
		ID:        12345678,
		Title:     "Testing in Go",
		Excerpt:   "How to test Go services",
		Tags:      []string{"go", "testing"},
		CreatedAt: time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
		User:      &User{Name: "Dana"},
	}

	got := BlogPostingJsonLD("thinkme", "https://thinkme.example", blog)

	assert.Contains(t, got, `"headline":"Testing in Go"`)
	assert.Contains(t, got, "/blogs/12345678")
	assert.Contains(t, got, `"datePublished":"2025-01-02"`)
	assert.Contains(t, got, `"name":"Dana"`)
}
