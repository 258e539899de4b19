package handlers

import (
	"context"
	"errors"
	"net/http"

	"beautybook/middleware"
	"beautybook/services/booking"
	"beautybook/services/profile"
	"beautybook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileSharer builds share links for professional profiles.
type ProfileSharer interface {
	ShareProfile(ctx context.Context, professionalID, sharedBy string) (*profile.ShareLink, error)
}

type ProfileHandler struct {
	Sharer ProfileSharer
}

func NewProfileHandler(sharer ProfileSharer) *ProfileHandler {
	return &ProfileHandler{Sharer: sharer}
}

func (h *ProfileHandler) ShareProfile(c *gin.Context) {
	link, err := h.Sharer.ShareProfile(c.Request.Context(), c.Param("id"), middleware.Subject(c))
	if err != nil {
		if errors.Is(err, booking.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Professional not found"})
			return
		}
		getLogger(c).Error("Failed to share profile", zap.String("professionalID", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to share profile", err.Error())
		return
	}
	c.JSON(http.StatusOK, link)
}
