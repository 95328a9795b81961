package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namravamja/thinkme/views"
)

// sampleBlogs builds n blogs alternating between the Go and Rust
// categories, authored by two users.
func sampleBlogs(n int) []views.Blog {
	blogs := make([]views.Blog, 0, n)
	for i := 1; i <= n; i++ {
		category := "Go"
		if i%2 == 0 {
			category = "Rust"
		}
		author := &views.User{ID: 1, Name: "Dana"}
		if i%3 == 0 {
			author = &views.User{ID: 2, Name: "Miguel"}
		}
		blogs = append(blogs, views.Blog{
			ID:       i,
			Title:    fmt.Sprintf("Post number %d", i),
			Excerpt:  fmt.Sprintf("Excerpt for post %d", i),
			Content:  fmt.Sprintf("Body of post %d about programming", i),
			Category: category,
			Tags:     []string{"programming"},
			UserID:   author.ID,
			User:     author,
		})
	}
	return blogs
}

func TestComputeDefaults(t *testing.T) {
	blogs := sampleBlogs(3)

	page := Compute(blogs, Params{})

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.Len(t, page.Items, 3)
}

func TestComputeIsDeterministic(t *testing.T) {
	blogs := sampleBlogs(30)
	params := Params{Category: "Go", Page: 2, PageSize: 5}

	first := Compute(blogs, params)
	second := Compute(blogs, params)

	assert.Equal(t, first, second)
}

func TestComputePagination(t *testing.T) {
	blogs := sampleBlogs(25)

	// 25 items at the default page size of 10.
	page1 := Compute(blogs, Params{Page: 1})
	page2 := Compute(blogs, Params{Page: 2})
	page3 := Compute(blogs, Params{Page: 3})

	assert.Len(t, page1.Items, 10)
	assert.Len(t, page2.Items, 10)
	assert.Len(t, page3.Items, 5)
	assert.Equal(t, 3, page1.TotalPages)
	assert.Equal(t, 25, page1.Total)

	// Pages partition the collection: no overlap, nothing dropped.
	seen := make(map[int]bool)
	for _, pg := range []Page{page1, page2, page3} {
		for _, b := range pg.Items {
			assert.False(t, seen[b.ID], "blog %d appeared on two pages", b.ID)
			seen[b.ID] = true
		}
	}
	assert.Len(t, seen, 25)
}

func TestComputePastEndPageIsEmpty(t *testing.T) {
	blogs := sampleBlogs(5)

	page := Compute(blogs, Params{Page: 99})

	assert.Empty(t, page.Items)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 99, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestComputeCategoryFilterWithPagination(t *testing.T) {
	// 25 blogs alternate Go/Rust, so Rust has 12 members.
	blogs := sampleBlogs(25)

	page := Compute(blogs, Params{Category: "Rust", Page: 2, PageSize: 10})

	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 2)
	for _, b := range page.Items {
		assert.Equal(t, "Rust", b.Category)
	}
}

func TestComputeSearch(t *testing.T) {
	blogs := sampleBlogs(10)
	blogs = append(blogs, views.Blog{
		ID:      99,
		Title:   "Benchmarking SQLite",
		Content: "Measuring write throughput under WAL mode",
		Tags:    []string{"databases"},
	})

	for _, term := range []string{"benchmarking", "SQLITE", "throughput", "databases"} {
		page := Compute(blogs, Params{Search: term})
		require.Len(t, page.Items, 1, "term %q", term)
		assert.Equal(t, 99, page.Items[0].ID)
	}

	// Every result actually matches the term somewhere.
	page := Compute(blogs, Params{Search: "post number 1"})
	for _, b := range page.Items {
		assert.Contains(t, b.Title, "Post number 1")
	}

	// Author names are searchable too.
	page = Compute(blogs, Params{Search: "miguel"})
	assert.Equal(t, 3, page.Total)
}

func TestComputeEmptySearchMatchesAll(t *testing.T) {
	blogs := sampleBlogs(7)

	page := Compute(blogs, Params{Search: ""})

	assert.Equal(t, 7, page.Total)
}

func TestComputeAuthorFilter(t *testing.T) {
	blogs := sampleBlogs(9)

	page := Compute(blogs, Params{AuthorID: "2"})

	assert.Equal(t, 3, page.Total)
	for _, b := range page.Items {
		assert.Equal(t, 2, b.UserID)
	}

	// The embedded user record counts when the flat id is absent.
	orphan := []views.Blog{{ID: 1, User: &views.User{ID: 5, Name: "Kim"}}}
	page = Compute(orphan, Params{AuthorID: "5"})
	assert.Equal(t, 1, page.Total)
}

func TestComputeNormalizesRecords(t *testing.T) {
	blogs := []views.Blog{{ID: 1}}

	page := Compute(blogs, Params{})

	require.Len(t, page.Items, 1)
	assert.Equal(t, views.DefaultTitle, page.Items[0].Title)
	assert.Equal(t, views.DefaultCategory, page.Items[0].Category)

	// Search finds the substituted category the cards render.
	page = Compute(blogs, Params{Category: views.DefaultCategory})
	assert.Equal(t, 1, page.Total)
}

func TestCategories(t *testing.T) {
	blogs := []views.Blog{
		{ID: 1, Category: "Go"},
		{ID: 2, Category: "Rust"},
		{ID: 3, Category: "Go"},
		{ID: 4}, // normalized to Uncategorized
	}

	got := Categories(blogs)

	assert.Equal(t, []string{"Go", "Rust", views.DefaultCategory}, got)
}
