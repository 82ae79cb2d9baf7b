package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibework/backend/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
}

func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.Get()})
}

// Update merges the body onto the current preferences; omitted fields keep their value.
func (h *SettingsHandler) Update(c *gin.Context) {
	prefs := h.settingsService.Get()
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeInvalidJSON(c)
		return
	}

	saved, apiErr := h.settingsService.Update(prefs)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": saved})
}
