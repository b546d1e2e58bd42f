package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipeshare/backend/internal/models"
	"github.com/recipeshare/backend/internal/service"
)

// BookingHandler exposes the booking chat and the order list. Orders are
// persisted through the order store, not a process-global slice.
type BookingHandler struct {
	llm    *service.LLMService
	orders *service.OrderService
	logger *zap.Logger
}

// NewBookingHandler creates a new BookingHandler instance
func NewBookingHandler(llm *service.LLMService, orders *service.OrderService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		llm:    llm,
		orders: orders,
		logger: logger,
	}
}

// RegisterRoutes mounts the booking endpoints on the given group. The
// chat endpoints require the LLM service.
func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", h.ListOrders)
	router.POST("/orders", h.CreateOrder)

	if h.llm != nil {
		router.POST("/booking", h.AnalyzeBooking)
		router.POST("/booking-chat", h.BookingChat)
	}
}

// AnalyzeBooking extracts an order from a free-text message and persists
// it as pending.
func (h *BookingHandler) AnalyzeBooking(c *gin.Context) {
	var req struct {
		Restaurant string `json:"restaurant" binding:"required"`
		Message    string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Restaurant and message are required"})
		return
	}

	analysis, err := h.llm.AnalyzeBooking(c.Request.Context(), req.Restaurant, req.Message)
	if err != nil {
		h.logger.Error("booking analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to analyze order"})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &models.Order{
		Restaurant: analysis.Restaurant,
		Recipe:     analysis.Recipe,
		Date:       analysis.Date,
		Time:       analysis.Time,
		Quantity:   analysis.Quantity,
		Status:     analysis.Status,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ve.Messages})
			return
		}
		h.logger.Error("failed to store order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"analysis": analysis,
		"order":    order,
	})
}

// BookingChat produces one assistant turn of the booking conversation.
func (h *BookingHandler) BookingChat(c *gin.Context) {
	var req struct {
		Message     string               `json:"message" binding:"required"`
		BookingData service.BookingState `json:"bookingData"`
		Restaurants []string             `json:"restaurants"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message is required"})
		return
	}

	reply, state, err := h.llm.BookingChat(c.Request.Context(), req.Message, req.BookingData, req.Restaurants)
	if err != nil {
		h.logger.Error("booking chat failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     reply,
		"bookingData": state,
	})
}

func (h *BookingHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *BookingHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Restaurant string `json:"restaurant"`
		Recipe     string `json:"recipe"`
		Date       string `json:"date"`
		Time       string `json:"time"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), &models.Order{
		Restaurant: req.Restaurant,
		Recipe:     req.Recipe,
		Date:       req.Date,
		Time:       req.Time,
		Quantity:   req.Quantity,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": ve.Messages})
			return
		}
		h.logger.Error("failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server Error"})
		return
	}

	c.JSON(http.StatusCreated, order)
}
