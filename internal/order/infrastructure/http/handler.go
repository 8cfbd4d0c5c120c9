package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendora/backend/internal/order/application"
	"github.com/trendora/backend/internal/order/domain"
	"github.com/trendora/backend/pkg/auth"
	"github.com/trendora/backend/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

// UserRoutes are mounted behind the auth middleware.
func (h *Handler) UserRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/quote", h.quote)
	r.Post("/apply-coupon", h.applyCoupon)
	r.Post("/place", h.placeCOD)
	r.Post("/pay", h.initiateOnline)
	r.Post("/verify", h.verify)
	r.Get("/mine", h.listMine)
	return r
}

// AdminRoutes additionally require the admin claim.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/list", h.listAll)
	r.Post("/status", h.updateStatus)
	return r
}

type couponReq struct {
	Code string `json:"code"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req couponReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q, err := h.service.Quote(r.Context(), auth.UserID(r.Context()), req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"quote": q})
}

func (h *Handler) applyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	q, err := h.service.ApplyCoupon(r.Context(), auth.UserID(r.Context()), req.Code)
	if err != nil {
		if errors.Is(err, application.ErrCouponAlreadyApplied) {
			httpx.OK(w, http.StatusOK, map[string]any{"message": "coupon already applied"})
			return
		}
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"quote": q, "message": "coupon applied"})
}

type placeReq struct {
	Address    domain.Address `json:"address"`
	CouponCode string         `json:"couponCode"`
	PaidCents  int64          `json:"paidCents"`
	DueCents   *int64         `json:"dueCents"`
}

func (h *Handler) placeCOD(w http.ResponseWriter, r *http.Request) {
	var req placeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.service.PlaceCOD(r.Context(), auth.UserID(r.Context()), application.PlaceCODInput{
		Address:    req.Address,
		CouponCode: req.CouponCode,
		PaidCents:  req.PaidCents,
		DueCents:   req.DueCents,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"order": o, "message": "order placed"})
}

func (h *Handler) initiateOnline(w http.ResponseWriter, r *http.Request) {
	var req couponReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	gatewayOrderID, amount, err := h.service.InitiateOnline(r.Context(), auth.UserID(r.Context()), req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"gatewayOrderId": gatewayOrderID,
		"amountCents":    amount,
	})
}

type verifyReq struct {
	GatewayOrderID string         `json:"gatewayOrderId"`
	PaymentID      string         `json:"paymentId"`
	Signature      string         `json:"signature"`
	CouponCode     string         `json:"couponCode"`
	Address        domain.Address `json:"address"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.service.VerifyPayment(r.Context(), auth.UserID(r.Context()), application.VerifyInput{
		GatewayOrderID: req.GatewayOrderID,
		PaymentID:      req.PaymentID,
		Signature:      req.Signature,
		CouponCode:     req.CouponCode,
		Address:        req.Address,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"order": o, "message": "payment verified"})
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListMine(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAll(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"orders": orders})
}

type statusReq struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), req.OrderID, domain.Status(req.Status)); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "status updated"})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrBadSignature):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrEmptyCart),
		errors.Is(err, application.ErrInvalidCoupon),
		errors.Is(err, application.ErrBadTransition),
		errors.Is(err, application.ErrUnknownStatus):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrOrderNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("order handler error", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}
