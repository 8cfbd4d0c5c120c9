package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendora/backend/internal/user/application"
	usermongo "github.com/trendora/backend/internal/user/infrastructure/mongo"
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

func (h *Handler) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/send-otp", h.sendOTP)
	r.Post("/verify-otp", h.verifyOTP)
	return r
}

func (h *Handler) UserRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	return r
}

type emailReq struct {
	Email string `json:"email"`
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req emailReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.RequestOTP(r.Context(), req.Email); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "otp sent"})
}

type verifyReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, user, err := h.service.VerifyOTP(r.Context(), req.Email, req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrBadEmail),
		errors.Is(err, application.ErrInvalidOTP):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usermongo.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "user not found")
	default:
		h.log.Error("user handler error", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}
