package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking wizard endpoints
	StartSession       gin.HandlerFunc
	GetSession         gin.HandlerFunc
	DiscardSession     gin.HandlerFunc
	GetSlots           gin.HandlerFunc
	SetDateTime        gin.HandlerFunc
	SetNotes           gin.HandlerFunc
	Advance            gin.HandlerFunc
	Retreat            gin.HandlerFunc
	Back               gin.HandlerFunc
	SetPaymentMethod   gin.HandlerFunc
	UpdatePaymentField gin.HandlerFunc
	SubmitPayment      gin.HandlerFunc

	// Review endpoints
	ListReviews   gin.HandlerFunc
	ReviewSummary gin.HandlerFunc
	SubmitReview  gin.HandlerFunc

	// Professional endpoints
	ShareProfile gin.HandlerFunc
	Dashboard    gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the per-area handlers.
func NewHandlerBundle(bh *BookingHandler, rh *ReviewHandler, dh *DashboardHandler, ph *ProfileHandler) *HandlerBundle {
	return &HandlerBundle{
		StartSession:       bh.StartSession,
		GetSession:         bh.GetSession,
		DiscardSession:     bh.DiscardSession,
		GetSlots:           bh.GetSlots,
		SetDateTime:        bh.SetDateTime,
		SetNotes:           bh.SetNotes,
		Advance:            bh.Advance,
		Retreat:            bh.Retreat,
		Back:               bh.Back,
		SetPaymentMethod:   bh.SetPaymentMethod,
		UpdatePaymentField: bh.UpdatePaymentField,
		SubmitPayment:      bh.SubmitPayment,

		ListReviews:   rh.ListReviews,
		ReviewSummary: rh.GetSummary,
		SubmitReview:  rh.SubmitReview,

		ShareProfile: ph.ShareProfile,
		Dashboard:    dh.GetOverview,
	}
}
