package thinkme

import (
	"database/sql"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/namravamja/thinkme/views"
)

// ErrNotFound is returned when a requested blog, user, or comment does
// not exist.
var ErrNotFound = sql.ErrNoRows

// Store wraps a SQLite database and provides CRUD operations for users,
// blogs, comments, and likes.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema setup.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write, busy timeout so writers wait instead
	// of failing with SQLITE_BUSY, synchronous=NORMAL is safe under WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    hashed_password TEXT NOT NULL,
    name TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    website TEXT NOT NULL DEFAULT '',
    twitter TEXT NOT NULL DEFAULT '',
    github TEXT NOT NULL DEFAULT '',
    linkedin TEXT NOT NULL DEFAULT '',
    profile_image TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS blogs (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    category TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT ',,',
    image TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT,
    user_id INTEGER NOT NULL REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    blog_id INTEGER NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
    user_id INTEGER NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS likes (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL REFERENCES users(id),
    blog_id INTEGER REFERENCES blogs(id) ON DELETE CASCADE,
    comment_id TEXT REFERENCES comments(id) ON DELETE CASCADE,
    created_at TEXT NOT NULL,
    UNIQUE(user_id, blog_id),
    UNIQUE(user_id, comment_id)
);

CREATE INDEX IF NOT EXISTS idx_blogs_user_id ON blogs(user_id);
CREATE INDEX IF NOT EXISTS idx_comments_blog_id ON comments(blog_id);
`)
	return err
}

const blogColumns = `b.id, b.title, b.content, b.excerpt, b.category, b.tags, b.image,
	b.created_at, b.updated_at, b.user_id,
	u.id, u.email, u.name, u.profile_image`

func scanBlog(row interface{ Scan(...any) error }) (views.Blog, error) {
	var b views.Blog
	var u views.User
	var tags, createdAt string
	var updatedAt sql.NullString
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Excerpt, &b.Category, &tags, &b.Image,
		&createdAt, &updatedAt, &b.UserID,
		&u.ID, &u.Email, &u.Name, &u.ProfileImage)
	if err != nil {
		return views.Blog{}, err
	}
	b.Tags = parseTags(tags)
	b.CreatedAt = parseTime(createdAt)
	if updatedAt.Valid {
		t := parseTime(updatedAt.String)
		b.UpdatedAt = &t
	}
	b.User = &u
	return b, nil
}

// ListBlogs returns every blog with its author, newest id first.
func (s *Store) ListBlogs() ([]views.Blog, error) {
	rows, err := s.db.Query(`SELECT ` + blogColumns + `
		FROM blogs b JOIN users u ON u.id = b.user_id ORDER BY b.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []views.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// ListBlogsByUser returns the given user's blogs, newest id first.
func (s *Store) ListBlogsByUser(userID int) ([]views.Blog, error) {
	rows, err := s.db.Query(`SELECT `+blogColumns+`
		FROM blogs b JOIN users u ON u.id = b.user_id
		WHERE b.user_id = ? ORDER BY b.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []views.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBlog returns a single blog by id with its author.
func (s *Store) GetBlog(id int) (views.Blog, error) {
	row := s.db.QueryRow(`SELECT `+blogColumns+`
		FROM blogs b JOIN users u ON u.id = b.user_id WHERE b.id = ?`, id)
	return scanBlog(row)
}

// CreateBlog inserts a blog under a fresh unique 8-digit id and returns
// the stored record.
func (s *Store) CreateBlog(b views.Blog) (views.Blog, error) {
	id, err := s.uniqueBlogID()
	if err != nil {
		return views.Blog{}, err
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(`INSERT INTO blogs (id, title, content, excerpt, category, tags, image, created_at, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, b.Title, b.Content, b.Excerpt, b.Category, joinTagsStored(b.Tags), b.Image,
		now.Format(time.RFC3339), b.UserID)
	if err != nil {
		return views.Blog{}, err
	}
	return s.GetBlog(id)
}

// UpdateBlog overwrites the mutable fields of an existing blog and stamps
// updated_at.
func (s *Store) UpdateBlog(b views.Blog) (views.Blog, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`UPDATE blogs SET title = ?, content = ?, excerpt = ?, category = ?, tags = ?, image = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.Content, b.Excerpt, b.Category, joinTagsStored(b.Tags), b.Image,
		now.Format(time.RFC3339), b.ID)
	if err != nil {
		return views.Blog{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return views.Blog{}, err
	}
	if n == 0 {
		return views.Blog{}, ErrNotFound
	}
	return s.GetBlog(b.ID)
}

// DeleteBlog removes a blog and, via cascades, its comments and likes.
func (s *Store) DeleteBlog(id int) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE id = ?`, id)
	return err
}

// uniqueBlogID picks a random 8-digit id not yet present in the blogs
// table. Ids are random rather than sequential so they are not guessable
// from each other.
func (s *Store) uniqueBlogID() (int, error) {
	for i := 0; i < 100; i++ {
		id := 10_000_000 + rand.Intn(90_000_000)
		var n int
		if err := s.db.QueryRow(`SELECT COUNT(1) FROM blogs WHERE id = ?`, id).Scan(&n); err != nil {
			return 0, err
		}
		if n == 0 {
			return id, nil
		}
	}
	return 0, errors.New("could not allocate a unique blog id")
}

// joinTagsStored normalizes tags to lowercase and stores them
// comma-wrapped (",go,web,") so membership checks can match ",tag,".
func joinTagsStored(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// parseTags splits a stored comma-wrapped tag string into a slice.
func parseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
