package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/trendora/backend/internal/settings/application"
	"github.com/trendora/backend/internal/settings/domain"
	"github.com/trendora/backend/pkg/httpx"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	log     *slog.Logger
	service *application.Service
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/carousel", h.carousel)
	return r
}

func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/fees", h.fees)
	r.Post("/fees", h.setFees)
	r.Post("/carousel/add", h.addCarouselImage)
	r.Post("/carousel/remove", h.removeCarouselImage)
	return r
}

func (h *Handler) fees(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Fees(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"platformFeeCents": cfg.PlatformFeeCents,
		"shippingFeeCents": cfg.ShippingFeeCents,
	})
}

type feesReq struct {
	PlatformFeeCents int64 `json:"platformFeeCents"`
	ShippingFeeCents int64 `json:"shippingFeeCents"`
}

func (h *Handler) setFees(w http.ResponseWriter, r *http.Request) {
	var req feesReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cfg, err := h.service.SetFees(r.Context(), req.PlatformFeeCents, req.ShippingFeeCents)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{
		"platformFeeCents": cfg.PlatformFeeCents,
		"shippingFeeCents": cfg.ShippingFeeCents,
		"message":          "fees updated",
	})
}

func (h *Handler) carousel(w http.ResponseWriter, r *http.Request) {
	images, err := h.service.Carousel(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"images": images})
}

func (h *Handler) addCarouselImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "carousel-*")
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		h.fail(w, err)
		return
	}
	tmp.Close()

	url, err := h.service.AddCarouselImage(r.Context(), tmp.Name())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"url": url, "message": "carousel image added"})
}

type removeReq struct {
	URL string `json:"url"`
}

func (h *Handler) removeCarouselImage(w http.ResponseWriter, r *http.Request) {
	var req removeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.RemoveCarouselImage(r.Context(), req.URL); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "carousel image removed"})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCarouselMinimum),
		errors.Is(err, domain.ErrImageNotFound),
		errors.Is(err, application.ErrNegativeFee):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("settings handler error", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}
