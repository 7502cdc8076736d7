package posts

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"blog-app/database"
	"blog-app/internal/api/httpx"
	"blog-app/internal/domain/posts"
	"blog-app/internal/domain/users"
	"blog-app/internal/infra/storage"
	"blog-app/internal/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Multipart overhead allowed on top of the image itself.
const formOverhead = 1 << 20

// PostResponse is a post as listed on the home page.
type PostResponse struct {
	posts.Post
	AuthorIsPremium bool `json:"author_is_premium"`
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, posts.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, posts.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, posts.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger.Error(c, "Post operation failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// GET /posts
func ListPosts(c *gin.Context) {
	limit, offset := httpx.Page(c)

	list, err := posts.List(c, database.DB, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}

	emails := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, p := range list {
		if !seen[p.UserEmail] {
			seen[p.UserEmail] = true
			emails = append(emails, p.UserEmail)
		}
	}

	premium, err := httpx.Ledger().PremiumEmails(c, emails)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]PostResponse, 0, len(list))
	for _, p := range list {
		out = append(out, PostResponse{
			Post:            p,
			AuthorIsPremium: premium[users.NormalizeEmail(p.UserEmail)],
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": out, "limit": limit, "offset": offset})
}

// GET /posts/:id
func GetPost(c *gin.Context) {
	p, err := posts.Get(c, database.DB, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /me/posts
func ListMyPosts(c *gin.Context) {
	list, err := posts.ListByUser(c, database.DB, c.GetUint("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

// POST /posts (multipart: title, description, image)
func CreatePost(c *gin.Context) {
	userID := c.GetUint("user_id")
	email := users.NormalizeEmail(c.GetString("email"))
	if userID == 0 || email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if storage.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, posts.MaxImageBytes+formOverhead)
	if err := c.Request.ParseMultipartForm(posts.MaxImageBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, posts.ErrImageTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a multipart form"})
		return
	}

	content := posts.Content{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}.Normalize()
	if err := content.Validate(); err != nil {
		writeError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		writeError(c, posts.ErrImageRequired)
		return
	}
	defer file.Close()

	if header.Size > posts.MaxImageBytes {
		writeError(c, posts.ErrImageTooLarge)
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, posts.MaxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
		return
	}
	if len(data) == 0 {
		writeError(c, posts.ErrImageRequired)
		return
	}
	if len(data) > posts.MaxImageBytes {
		writeError(c, posts.ErrImageTooLarge)
		return
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		writeError(c, posts.ErrImageType)
		return
	}

	key := storage.ImageKey(header.Filename)
	url, err := storage.Images.Upload(c, key, mtype.String(), bytes.NewReader(data))
	if err != nil {
		logger.Error(c, "Image upload failed", err, zap.String("key", key))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to upload image"})
		return
	}

	post := posts.Post{
		Title:       content.Title,
		Description: content.Description,
		ImageURL:    &url,
		ImageKey:    &key,
		UserID:      userID,
		UserEmail:   email,
	}
	if err := posts.Create(c, database.DB, &post); err != nil {
		removeImage(c, key)
		writeError(c, err)
		return
	}

	logger.Info(c, "Post created", zap.String("post_id", post.ID), zap.Uint("user_id", userID))
	c.JSON(http.StatusCreated, post)
}

// PUT /posts/:id
func UpdatePost(c *gin.Context) {
	var input posts.Content
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	content := input.Normalize()
	if err := content.Validate(); err != nil {
		writeError(c, err)
		return
	}

	p, err := posts.UpdateContent(c, database.DB, c.Param("id"), c.GetUint("user_id"), content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /posts/:id
func DeletePost(c *gin.Context) {
	p, err := posts.Delete(c, database.DB, c.Param("id"), c.GetUint("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if p.ImageKey != nil {
		removeImage(c, *p.ImageKey)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// removeImage deletes a blob whose post row is gone. Failures only leave an
// orphaned object behind, so they are logged and swallowed.
func removeImage(c *gin.Context, key string) {
	if storage.Images == nil || key == "" {
		return
	}
	if err := storage.Images.Delete(c, key); err != nil {
		logger.Warn(c, "Failed to delete image", zap.String("key", key), zap.Error(err))
	}
}
