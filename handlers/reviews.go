package handlers

import (
	"errors"
	"net/http"

	"beautybook/middleware"
	"beautybook/services/review"
	"beautybook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

// ListReviews returns the professional's reviews in the ?sort= order.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	policy, err := review.ParseSortPolicy(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	reviews, err := h.Service.List(c.Request.Context(), c.Param("id"), policy)
	if err != nil {
		getLogger(c).Error("Failed to list reviews", zap.String("professionalID", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list reviews", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "sort": policy})
}

func (h *ReviewHandler) GetSummary(c *gin.Context) {
	summary, err := h.Service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		getLogger(c).Error("Failed to summarize reviews", zap.String("professionalID", c.Param("id")), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to summarize reviews", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

// SubmitReview records a review by the authenticated customer.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var input struct {
		BookingID string `json:"bookingId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Service.Submit(c.Request.Context(), review.SubmitRequest{
		BookingID:      input.BookingID,
		ProfessionalID: c.Param("id"),
		CustomerID:     middleware.Subject(c),
		Rating:         input.Rating,
		Comment:        input.Comment,
	})
	if err != nil {
		if errors.Is(err, review.ErrInvalidReview) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		getLogger(c).Error("Failed to submit review", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to submit review", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": created, "label": review.RatingLabel(created.Rating)})
}
