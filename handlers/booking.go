package handlers

import (
	"context"
	"errors"
	"net/http"

	"beautybook/middleware"
	"beautybook/models"
	"beautybook/services/booking"
	"beautybook/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking wizard over HTTP.
type BookingHandler struct {
	Service booking.BookingSessionService
}

func NewBookingHandler(svc booking.BookingSessionService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// StartSession opens a wizard for the requested service.
func (h *BookingHandler) StartSession(c *gin.Context) {
	var input struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	w, err := h.Service.StartBooking(c.Request.Context(), input.ServiceID, middleware.Subject(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w.View())
}

func (h *BookingHandler) GetSession(c *gin.Context) {
	w, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w.View())
}

func (h *BookingHandler) DiscardSession(c *gin.Context) {
	if err := h.Service.Discard(c.Request.Context(), c.Param("sessionID")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session discarded"})
}

// GetSlots lists the time slots open on the requested date.
func (h *BookingHandler) GetSlots(c *gin.Context) {
	w, err := h.Service.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	date := c.Query("date")
	slots, err := w.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// SetDateTime applies the date first so a time is checked against it.
func (h *BookingHandler) SetDateTime(c *gin.Context) {
	var input struct {
		Date *string `json:"date"`
		Time *string `json:"time"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || (input.Date == nil && input.Time == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date or time is required"})
		return
	}
	h.update(c, func(w *booking.Wizard) error {
		if input.Date != nil {
			if err := w.SelectDate(*input.Date); err != nil {
				return err
			}
		}
		if input.Time != nil {
			return w.SelectTime(c.Request.Context(), *input.Time)
		}
		return nil
	})
}

func (h *BookingHandler) SetNotes(c *gin.Context) {
	var input struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	h.update(c, func(w *booking.Wizard) error { return w.SetNotes(input.Notes) })
}

func (h *BookingHandler) Advance(c *gin.Context) {
	h.update(c, (*booking.Wizard).Advance)
}

func (h *BookingHandler) Retreat(c *gin.Context) {
	h.update(c, (*booking.Wizard).Retreat)
}

// Back reports left=true when the customer has left the flow; the session
// is gone in that case.
func (h *BookingHandler) Back(c *gin.Context) {
	var left bool
	w, err := h.Service.Update(c.Request.Context(), c.Param("sessionID"), func(w *booking.Wizard) error {
		var err error
		left, err = w.Back()
		return err
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if left {
		c.JSON(http.StatusOK, gin.H{"left": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"left": false, "view": w.View()})
}

func (h *BookingHandler) SetPaymentMethod(c *gin.Context) {
	var input struct {
		Method models.PaymentMethod `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	h.update(c, func(w *booking.Wizard) error { return w.SelectPaymentMethod(input.Method) })
}

// UpdatePaymentField takes one keystroke-level edit.
func (h *BookingHandler) UpdatePaymentField(c *gin.Context) {
	var input struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	h.update(c, func(w *booking.Wizard) error { return w.UpdatePaymentField(input.Field, input.Value) })
}

type paymentInput struct {
	Method         models.PaymentMethod `json:"method"`
	CardNumber     *string              `json:"cardNumber"`
	Expiry         *string              `json:"expiry"`
	CVV            *string              `json:"cvv"`
	CardholderName *string              `json:"cardholderName"`
	PostalCode     *string              `json:"postalCode"`
	PaymentToken   *string              `json:"paymentToken"`
}

func (in paymentInput) fields() map[string]*string {
	return map[string]*string{
		payment.FieldCardNumber:     in.CardNumber,
		payment.FieldExpiry:         in.Expiry,
		payment.FieldCVV:            in.CVV,
		payment.FieldCardholderName: in.CardholderName,
		payment.FieldPostalCode:     in.PostalCode,
		payment.FieldPaymentToken:   in.PaymentToken,
	}
}

// SubmitPayment applies any fields in the body, then charges. The charge
// outlives a dropped connection so a paid booking is never abandoned.
func (h *BookingHandler) SubmitPayment(c *gin.Context) {
	var input paymentInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
			return
		}
	}

	ctx := context.WithoutCancel(c.Request.Context())
	w, err := h.Service.Update(ctx, c.Param("sessionID"), func(w *booking.Wizard) error {
		if input.Method != "" {
			if err := w.SelectPaymentMethod(input.Method); err != nil {
				return err
			}
		}
		for field, value := range input.fields() {
			if value == nil {
				continue
			}
			if err := w.UpdatePaymentField(field, *value); err != nil {
				return err
			}
		}
		return w.SubmitPayment(ctx)
	})
	if err != nil {
		getLogger(c).Info("Payment not completed",
			zap.String("sessionID", c.Param("sessionID")),
			zap.Error(err),
		)
		h.failWithView(c, err, w)
		return
	}
	c.JSON(http.StatusOK, w.View())
}

func (h *BookingHandler) update(c *gin.Context, fn func(*booking.Wizard) error) {
	w, err := h.Service.Update(c.Request.Context(), c.Param("sessionID"), fn)
	if err != nil {
		h.failWithView(c, err, w)
		return
	}
	c.JSON(http.StatusOK, w.View())
}

func (h *BookingHandler) fail(c *gin.Context, err error) {
	h.failWithView(c, err, nil)
}

// failWithView maps a booking error to its status. The current view rides
// along when there is one so the client can re-render.
func (h *BookingHandler) failWithView(c *gin.Context, err error, w *booking.Wizard) {
	status, body := bookingErrorResponse(err)
	if status == http.StatusInternalServerError {
		getLogger(c).Error("Booking request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	if w != nil {
		body["view"] = w.View()
	}
	c.JSON(status, body)
}

func bookingErrorResponse(err error) (int, gin.H) {
	var fieldErrs payment.FieldErrors
	if errors.As(err, &fieldErrs) {
		return http.StatusUnprocessableEntity, gin.H{"error": "invalid payment details", "fieldErrors": fieldErrs}
	}
	if pe, ok := payment.AsPaymentError(err); ok {
		if pe.Kind == payment.KindInFlight {
			return http.StatusConflict, gin.H{"error": pe.Message, "kind": pe.Kind}
		}
		return http.StatusPaymentRequired, gin.H{"error": pe.Message, "kind": pe.Kind}
	}

	switch {
	case errors.Is(err, booking.ErrServiceNotFound):
		return http.StatusNotFound, gin.H{"error": "Service not found", "actions": []string{"back"}}
	case errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case errors.Is(err, booking.ErrPaymentInProgress):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, booking.ErrInvalidTransition):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, booking.ErrCannotProceed),
		errors.Is(err, booking.ErrDateUnavailable),
		errors.Is(err, booking.ErrSlotUnavailable):
		return http.StatusUnprocessableEntity, gin.H{"error": err.Error()}
	case errors.Is(err, booking.ErrUnsupportedMethod),
		errors.Is(err, payment.ErrUnknownField):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	}
	return http.StatusInternalServerError, gin.H{"error": "internal error"}
}
