package handlers

import (
	"net/http"
	"time"

	"organicstore-be/internal/setting"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	svc setting.Service
}

func NewSettingHandler(svc setting.Service) *SettingHandler {
	return &SettingHandler{svc: svc}
}

type upsertSettingRequest struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type settingResponse struct {
	ID          uint   `json:"id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updatedAt"`
}

func toSettingResponse(s *setting.Setting) settingResponse {
	return settingResponse{
		ID:          s.ID,
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/configs
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]settingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, toSettingResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{"configs": out})
}

// GET /api/configs/:key
func (h *SettingHandler) Get(c *gin.Context) {
	s, err := h.svc.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": toSettingResponse(s)})
}

// POST /api/admin/configs
func (h *SettingHandler) Create(c *gin.Context) {
	var req upsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.svc.Create(c.Request.Context(), setting.UpsertSettingParams{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"config": toSettingResponse(s)})
}

// PUT /api/admin/configs/:id
func (h *SettingHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req upsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s, err := h.svc.Update(c.Request.Context(), id, setting.UpsertSettingParams{
		Key:         req.Key,
		Value:       req.Value,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": toSettingResponse(s)})
}

// DELETE /api/admin/configs/:id
func (h *SettingHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "config deleted"})
}
