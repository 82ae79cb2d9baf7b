package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vibework/backend/internal/calendar"
	"vibework/backend/internal/service"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

type createEventRequest struct {
	Tag      string `json:"tag"`
	Start    *int   `json:"start"`
	Duration int    `json:"duration"`
	Date     string `json:"date"`
}

type selectRequest struct {
	Selected    string `json:"selected"`
	VisibleWeek string `json:"visibleWeek"`
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
	day, apiErr := h.calendarService.Day(c.Query("date"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}
	if req.Start == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_event", "message": "start is required"},
		})
		return
	}

	event, apiErr := h.calendarService.Add(c.Request.Context(), req.Tag, *req.Start, req.Duration, req.Date)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": event})
}

func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"code": "invalid_id", "message": "id must be a positive integer"},
		})
		return
	}

	if apiErr := h.calendarService.Remove(c.Request.Context(), id); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CalendarHandler) Weeks(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > calendar.MaxWindowDays {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "invalid_days",
					"message": "days must be between 1 and " + strconv.Itoa(calendar.MaxWindowDays),
				},
			})
			return
		}
		days = parsed
	}
	c.JSON(http.StatusOK, h.calendarService.Weeks(days))
}

func (h *CalendarHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	selected, apiErr := h.calendarService.Select(req.Selected, req.VisibleWeek)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": selected})
}

func (h *CalendarHandler) Tags(c *gin.Context) {
	c.JSON(http.StatusOK, h.calendarService.Tags())
}
