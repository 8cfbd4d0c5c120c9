package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trendora/backend/internal/coupon/application"
	"github.com/trendora/backend/pkg/httpx"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/validate", h.validate)
	return r
}

func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/list", h.list)
	r.Post("/create", h.create)
	r.Post("/active", h.setActive)
	r.Post("/delete", h.delete)
	return r
}

type createReq struct {
	Code            string     `json:"code"`
	DiscountPercent int        `json:"discountPercent"`
	Active          bool       `json:"active"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id, err := h.service.Create(r.Context(), req.Code, req.DiscountPercent, req.Active, req.ExpiresAt)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"couponId": id, "message": "coupon created"})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"coupons": coupons})
}

type activeReq struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var req activeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.SetActive(r.Context(), req.ID, req.Active); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "coupon updated"})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	var req activeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.Delete(r.Context(), req.ID); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "coupon deleted"})
}

type validateReq struct {
	Code string `json:"code"`
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	percent, ok, err := h.service.Validate(r.Context(), req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "coupon is not valid")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"discountPercent": percent})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrDuplicateCode),
		errors.Is(err, application.ErrBadPercent),
		errors.Is(err, application.ErrEmptyCode):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("coupon handler error", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}
