package handlers

import (
	"net/http"
	"time"

	"organicstore-be/internal/blog"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	svc blog.Service
}

func NewBlogHandler(svc blog.Service) *BlogHandler {
	return &BlogHandler{svc: svc}
}

type createBlogPostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type updateBlogPostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type blogPostResponse struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	AuthorID   uint   `json:"authorId"`
	AuthorName string `json:"authorName"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func toBlogPostResponse(p *blog.Post) blogPostResponse {
	return blogPostResponse{
		ID:         p.ID,
		Title:      p.Title,
		Slug:       p.Slug,
		Content:    p.Content,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

// POST /api/admin/blogs
func (h *BlogHandler) Create(c *gin.Context) {
	authorID, _ := currentUser(c)

	var req createBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), blog.CreatePostParams{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": toBlogPostResponse(p)})
}

// GET /api/blogs
func (h *BlogHandler) List(c *gin.Context) {
	opts := blog.ListOptions{
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	opts.Limit, opts.Page = queryPagination(c)

	posts, total, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]blogPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toBlogPostResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": out,
		"total": total,
	})
}

// GET /api/blogs/:id
func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toBlogPostResponse(p)})
}

// GET /api/blogs/slug/:slug
func (h *BlogHandler) GetBySlug(c *gin.Context) {
	p, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toBlogPostResponse(p)})
}

// PUT /api/admin/blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, blog.UpdatePostParams{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": toBlogPostResponse(p)})
}

// DELETE /api/admin/blogs/:id
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "blog post deleted"})
}
