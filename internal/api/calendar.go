package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/recipeshare/backend/internal/service"
)

// CalendarHandler exposes the Google OAuth flow and calendar event
// creation for confirmed bookings.
type CalendarHandler struct {
	calendar *service.CalendarService
	logger   *zap.Logger
}

// NewCalendarHandler creates a new CalendarHandler instance
func NewCalendarHandler(calendar *service.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendar: calendar,
		logger:   logger,
	}
}

// RegisterRoutes mounts the calendar endpoints on the given group.
func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth/google")
	{
		auth.GET("", h.AuthURL)
		auth.POST("", h.ExchangeCode)
	}
	router.POST("/calendar", h.CreateEvent)
}

func (h *CalendarHandler) AuthURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authUrl": h.calendar.AuthURL()})
}

func (h *CalendarHandler) ExchangeCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Authorization code is required"})
		return
	}

	token, err := h.calendar.Exchange(c.Request.Context(), req.Code)
	if err != nil {
		h.logger.Error("token exchange failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to exchange authorization code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
		"expiry_date":   token.Expiry.UnixMilli(),
	})
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req struct {
		Restaurant string `json:"restaurant" binding:"required"`
		Recipe     string `json:"recipe" binding:"required"`
		Date       string `json:"date" binding:"required"`
		Time       string `json:"time" binding:"required"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Booking details are required"})
		return
	}

	eventID, link, err := h.calendar.CreateBookingEvent(c.Request.Context(), service.BookingEvent{
		Restaurant: req.Restaurant,
		Recipe:     req.Recipe,
		Date:       req.Date,
		Time:       req.Time,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.logger.Error("calendar event creation failed", zap.Error(err))

		// Relay the upstream status when Google reported one.
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code != 0 {
			c.JSON(gerr.Code, gin.H{"success": false, "error": gerr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add event to calendar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"eventId":  eventID,
		"htmlLink": link,
	})
}
