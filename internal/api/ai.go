package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipeshare/backend/internal/service"
)

// maxPhotoBytes caps uploaded photo size at 10 MB.
const maxPhotoBytes = 10 << 20

// AIHandler exposes the recipe generation endpoints. Generated candidates
// are best-effort and defaulted here; when asked to save, the handler
// posts the candidate to the recipe API like any other client, so the
// store's validation stays authoritative.
type AIHandler struct {
	llm          *service.LLMService
	images       *service.ImageService
	recipeAPIURL string
	client       *http.Client
	logger       *zap.Logger
}

// NewAIHandler creates a new AIHandler instance. The image service is
// optional; without it photo archival is skipped.
func NewAIHandler(llm *service.LLMService, images *service.ImageService, recipeAPIURL string, logger *zap.Logger) *AIHandler {
	return &AIHandler{
		llm:          llm,
		images:       images,
		recipeAPIURL: recipeAPIURL,
		client:       &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
	}
}

// RegisterRoutes mounts the AI endpoints on the given group.
func (h *AIHandler) RegisterRoutes(router *gin.RouterGroup) {
	ai := router.Group("/ai")
	{
		ai.POST("/recipes", h.GenerateRecipe)
		ai.POST("/recipes/photo", h.GenerateRecipeFromPhoto)
		ai.GET("/drafts/:id", h.GetDraft)
		ai.DELETE("/drafts/:id", h.DeleteDraft)
	}
}

func (h *AIHandler) GenerateRecipe(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
		Save   bool   `json:"save"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Prompt is required"})
		return
	}

	candidate, err := h.llm.GenerateRecipe(c.Request.Context(), req.Prompt)
	if err != nil {
		h.logger.Error("recipe generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to generate recipe"})
		return
	}

	draftID := h.cacheDraft(c, candidate)

	if req.Save {
		h.saveCandidate(c, candidate, draftID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     candidate,
		"draft_id": draftID,
	})
}

func (h *AIHandler) GenerateRecipeFromPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Photo is required"})
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to read photo"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	// Archival failure must not break generation.
	if h.images != nil {
		if _, err := h.images.ArchivePhoto(c.Request.Context(), contentType, photo); err != nil {
			h.logger.Warn("photo archival failed", zap.Error(err))
		}
	}

	candidate, err := h.llm.GenerateRecipeFromPhoto(c.Request.Context(), contentType, photo)
	if err != nil {
		h.logger.Error("photo recipe generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to generate recipe from photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     candidate,
		"draft_id": h.cacheDraft(c, candidate),
	})
}

func (h *AIHandler) GetDraft(c *gin.Context) {
	draft, err := h.llm.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Draft not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": draft})
}

func (h *AIHandler) DeleteDraft(c *gin.Context) {
	if err := h.llm.DeleteDraft(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Draft not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}

// cacheDraft stores the candidate as a draft when the cache is available.
func (h *AIHandler) cacheDraft(c *gin.Context, candidate *service.RecipeCandidate) string {
	draft, err := h.llm.SaveDraft(c.Request.Context(), candidate)
	if err != nil {
		h.logger.Warn("draft caching failed", zap.Error(err))
		return ""
	}
	return draft.ID
}

// saveCandidate posts the candidate to the recipe API and relays the
// store's verdict, whatever it is.
func (h *AIHandler) saveCandidate(c *gin.Context, candidate *service.RecipeCandidate, draftID string) {
	body, err := json.Marshal(candidate)
	if err != nil {
		h.logger.Error("failed to marshal candidate", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodPost,
		h.recipeAPIURL+"/api/recipes", bytes.NewReader(body))
	if err != nil {
		h.logger.Error("failed to build save request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Error("failed to save generated recipe", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to save generated recipe"})
		return
	}
	defer resp.Body.Close()

	var verdict map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		h.logger.Error("unreadable save response", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to save generated recipe"})
		return
	}

	if draftID != "" {
		verdict["draft_id"] = draftID
	}
	c.JSON(resp.StatusCode, verdict)
}
