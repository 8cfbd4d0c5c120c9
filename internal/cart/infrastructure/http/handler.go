package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trendora/backend/internal/cart/application"
	"github.com/trendora/backend/internal/cart/domain"
	cartmongo "github.com/trendora/backend/internal/cart/infrastructure/mongo"
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

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.get)
	r.Post("/add", h.add)
	r.Post("/update", h.update)
	r.Post("/merge", h.merge)
	return r
}

type itemReq struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	cart, removed, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	data := map[string]any{"cart": cart, "items": cart.Lines()}
	if len(removed) > 0 {
		data["removedProducts"] = removed
		data["message"] = "some items are no longer available and were removed from your cart"
	}
	httpx.OK(w, http.StatusOK, data)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req itemReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := h.service.AddItem(r.Context(), userID, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"cart": cart, "message": "added to cart"})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req itemReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := h.service.UpdateQuantity(r.Context(), userID, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"cart": cart, "message": "cart updated"})
}

type mergeReq struct {
	Cart domain.Cart `json:"cart"`
}

func (h *Handler) merge(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req mergeReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cart, err := h.service.MergeGuest(r.Context(), userID, req.Cart)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"cart": cart})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrBadQuantity),
		errors.Is(err, application.ErrSizeNotOffered),
		errors.Is(err, application.ErrProductNotFound):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cartmongo.ErrUserNotFound):
		httpx.Fail(w, http.StatusNotFound, "user not found")
	default:
		h.log.Error("cart handler error", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
	}
}
