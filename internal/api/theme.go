package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/pantrychef/backend/internal/service"
)

type ThemeHandler struct {
	themeService service.IThemeService
}

func NewThemeHandler(themeService service.IThemeService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService}
}

func (h *ThemeHandler) GetTheme(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": h.themeService.Current(c.Request.Context(), userID)})
}

func (h *ThemeHandler) NextTheme(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	theme, err := h.themeService.Next(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to change theme")
		return
	}

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
