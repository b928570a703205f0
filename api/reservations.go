package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/trainticket/internal/domain"
	"github.com/Domenick1991/trainticket/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

const sagaIDHeader = "X-Saga-Id"

type ReservationHandler struct {
	service        reservation.ReservationUseCase
	requestTimeout time.Duration
}

type attemptResponse struct {
	SagaID       string `json:"saga_id"`
	AccountID    string `json:"account_id,omitempty"`
	TripID       string `json:"trip_id,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	State        string `json:"state"`
	Finished     bool   `json:"finished"`
	Status       int    `json:"status"`
	Message      string `json:"message,omitempty"`
	Compensation string `json:"compensation"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

func NewReservationHandler(service reservation.ReservationUseCase, requestTimeout time.Duration) *ReservationHandler {
	return &ReservationHandler{service: service, requestTimeout: requestTimeout}
}

// Register mounts the public routes. Only preserve needs a token.
func (h *ReservationHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/welcome", h.welcome)
	router.POST("/preserve", auth, h.preserve)
	router.GET("/attempts/:sagaId", auth, h.attempt)
}

func (h *ReservationHandler) welcome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to [ Preserve Service ] !")
}

func (h *ReservationHandler) preserve(c *gin.Context) {
	var req domain.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Fail[domain.OrderSummary](err.Error()))
		return
	}
	// Only admins book for an account other than their own.
	if sub, admin := caller(c); sub != "" && (!admin || req.AccountID == "") {
		req.AccountID = sub
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	res, err := h.service.Reserve(ctx, req)
	if res != nil {
		c.Header(sagaIDHeader, res.SagaID)
	}
	if err != nil {
		body := domain.Fail[domain.OrderSummary](err.Error())
		if res != nil {
			body = res.Response
		}
		c.JSON(statusFor(ctx, err), body)
		return
	}

	c.JSON(http.StatusOK, res.Response)
}

func (h *ReservationHandler) attempt(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.service.Attempt(ctx, c.Param("sagaId"))
	if err != nil {
		c.JSON(statusFor(ctx, err), gin.H{"error": err.Error()})
		return
	}
	// Attempts of other accounts look missing. A saga still in flight is
	// only known by its state and carries no account.
	if sub, admin := caller(c); sub != "" && !admin && a.AccountID != "" && a.AccountID != sub {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrAttemptNotFound.Error()})
		return
	}

	resp := attemptResponse{
		SagaID:       a.SagaID,
		AccountID:    a.AccountID,
		TripID:       a.TripID,
		OrderID:      a.OrderID,
		State:        string(a.State),
		Finished:     a.Finished(),
		Status:       a.Status,
		Message:      a.Message,
		Compensation: string(a.Compensation),
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = a.UpdatedAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}
