package thinkme

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/namravamja/thinkme/views"
)

// ListComments returns a blog's comments oldest first, with like counts
// and, when viewerID is non-zero, whether the viewer liked each one.
func (s *Store) ListComments(blogID, viewerID int) ([]views.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.blog_id, c.content, c.created_at,
		       u.id, u.email, u.name, u.profile_image,
		       (SELECT COUNT(1) FROM likes l WHERE l.comment_id = c.id),
		       (SELECT COUNT(1) FROM likes l WHERE l.comment_id = c.id AND l.user_id = ?)
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.blog_id = ?
		ORDER BY c.created_at ASC, c.rowid ASC`, viewerID, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []views.Comment
	for rows.Next() {
		var cm views.Comment
		var createdAt string
		var liked int
		if err := rows.Scan(&cm.ID, &cm.BlogID, &cm.Content, &createdAt,
			&cm.Author.ID, &cm.Author.Email, &cm.Author.Name, &cm.Author.ProfileImage,
			&cm.LikesCount, &liked); err != nil {
			return nil, err
		}
		cm.CreatedAt = parseTime(createdAt)
		cm.IsLiked = liked > 0
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

// AddComment stores a comment on a blog and returns it with its author.
func (s *Store) AddComment(blogID, userID int, content string) (views.Comment, error) {
	if _, err := s.GetBlog(blogID); err != nil {
		return views.Comment{}, err
	}
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.Exec(`INSERT INTO comments (id, blog_id, user_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)`, id, blogID, userID, content, now.Format(time.RFC3339))
	if err != nil {
		return views.Comment{}, err
	}
	author, err := s.GetUser(userID)
	if err != nil {
		return views.Comment{}, err
	}
	return views.Comment{
		ID:        id,
		BlogID:    blogID,
		Content:   content,
		Author:    author,
		CreatedAt: now,
	}, nil
}

// ToggleBlogLike flips the user's like on a blog. Returns the new liked
// state and total count.
func (s *Store) ToggleBlogLike(blogID, userID int) (bool, int, error) {
	if _, err := s.GetBlog(blogID); err != nil {
		return false, 0, err
	}
	res, err := s.db.Exec(`DELETE FROM likes WHERE user_id = ? AND blog_id = ?`, userID, blogID)
	if err != nil {
		return false, 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	liked := false
	if removed == 0 {
		_, err = s.db.Exec(`INSERT INTO likes (id, user_id, blog_id, created_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), userID, blogID, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return false, 0, err
		}
		liked = true
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM likes WHERE blog_id = ?`, blogID).Scan(&count); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// ToggleCommentLike flips the user's like on a comment.
func (s *Store) ToggleCommentLike(commentID string, userID int) (bool, int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM comments WHERE id = ?`, commentID).Scan(&n); err != nil {
		return false, 0, err
	}
	if n == 0 {
		return false, 0, ErrNotFound
	}
	res, err := s.db.Exec(`DELETE FROM likes WHERE user_id = ? AND comment_id = ?`, userID, commentID)
	if err != nil {
		return false, 0, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, 0, err
	}
	liked := false
	if removed == 0 {
		_, err = s.db.Exec(`INSERT INTO likes (id, user_id, comment_id, created_at) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), userID, commentID, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return false, 0, err
		}
		liked = true
	}
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM likes WHERE comment_id = ?`, commentID).Scan(&count); err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// BlogLikes returns the like count for a blog and whether viewerID liked it.
func (s *Store) BlogLikes(blogID, viewerID int) (int, bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM likes WHERE blog_id = ?`, blogID).Scan(&count); err != nil {
		return 0, false, err
	}
	var mine int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM likes WHERE blog_id = ? AND user_id = ?`, blogID, viewerID).Scan(&mine); err != nil {
		return 0, false, err
	}
	return count, mine > 0, nil
}

func (a *App) handleListComments(c echo.Context) error {
	blogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	viewerID, _ := currentUserID(c)
	comments, err := a.Store.ListComments(blogID, viewerID)
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []views.Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

func (a *App) handleAddComment(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	blogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return apiError(http.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return apiError(http.StatusBadRequest, "Comment content is required")
	}
	comment, err := a.Store.AddComment(blogID, userID, strings.TrimSpace(req.Content))
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Blog not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (a *App) handleBlogLike(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	blogID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apiError(http.StatusBadRequest, "Invalid blog id")
	}
	liked, count, err := a.Store.ToggleBlogLike(blogID, userID)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Blog not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: liked, LikesCount: count})
}

func (a *App) handleCommentLike(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(http.StatusUnauthorized, "Not authenticated")
	}
	liked, count, err := a.Store.ToggleCommentLike(c.Param("id"), userID)
	if err == sql.ErrNoRows {
		return apiError(http.StatusNotFound, "Comment not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: liked, LikesCount: count})
}
