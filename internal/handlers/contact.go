package handlers

import (
	"net/http"
	"time"

	"organicstore-be/internal/contact"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type createContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

type updateContactStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type contactResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toContactResponse(ct *contact.Contact) contactResponse {
	return contactResponse{
		ID:        ct.ID,
		Name:      ct.Name,
		Email:     ct.Email,
		Subject:   ct.Subject,
		Message:   ct.Message,
		Status:    string(ct.Status),
		CreatedAt: ct.CreatedAt.Format(time.RFC3339),
		UpdatedAt: ct.UpdatedAt.Format(time.RFC3339),
	}
}

// POST /api/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req createContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ct, err := h.svc.Create(c.Request.Context(), contact.CreateContactParams{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"contact": toContactResponse(ct)})
}

// GET /api/admin/contacts
func (h *ContactHandler) List(c *gin.Context) {
	limit, page := queryPagination(c)

	contacts, total, err := h.svc.List(c.Request.Context(), limit, page)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]contactResponse, 0, len(contacts))
	for _, ct := range contacts {
		out = append(out, toContactResponse(ct))
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": out,
		"total":    total,
	})
}

// GET /api/admin/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ct, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": toContactResponse(ct)})
}

// PATCH /api/admin/contacts/:id/status
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req updateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ct, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"contact": toContactResponse(ct)})
}

// DELETE /api/admin/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "contact deleted"})
}
