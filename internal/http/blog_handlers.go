package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/repo"
)

func (h *Handler) ListBlogs(c *gin.Context) {
	items, err := h.Store.ListBlogs(c.Request.Context(), repo.ListParams{
		Limit: intQuery(c, "limit", 50), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": items})
}

func (h *Handler) GetBlog(c *gin.Context) {
	b, err := h.Store.FindBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

type blogReq struct {
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Content string   `json:"content"`
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prevDash := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func (h *Handler) CreateBlog(c *gin.Context) {
	var in blogReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	slug := in.Slug
	if slug == "" {
		slug = slugify(in.Title)
	}
	b := &domain.Blog{
		Title:   strings.TrimSpace(in.Title),
		Slug:    slug,
		Author:  strings.TrimSpace(in.Author),
		Tags:    in.Tags,
		Content: in.Content,
	}
	if err := h.Store.CreateBlog(c.Request.Context(), b); err != nil {
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBlog(c *gin.Context) {
	b, err := h.Store.FindBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	var in blogReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	b.Title = strings.TrimSpace(in.Title)
	if in.Slug != "" {
		b.Slug = in.Slug
	}
	b.Author = strings.TrimSpace(in.Author)
	b.Tags = in.Tags
	b.Content = in.Content

	ok, err := h.Store.ReplaceBlog(c.Request.Context(), b)
	if err != nil {
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBlog(c *gin.Context) {
	ok, err := h.Store.DeleteBlog(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
