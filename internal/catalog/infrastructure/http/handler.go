package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/trendora/backend/internal/catalog/application"
	"github.com/trendora/backend/internal/catalog/domain"
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

// PublicRoutes are mounted without authentication.
func (h *Handler) PublicRoutes() http.Handler {
	r := chi.NewRouter()
	r.Get("/list", h.list)
	r.Get("/{id}", h.get)
	return r
}

// AdminRoutes require the admin claim.
func (h *Handler) AdminRoutes() http.Handler {
	r := chi.NewRouter()
	r.Post("/add", h.add)
	r.Post("/remove", h.remove)
	r.Post("/bestseller", h.bestseller)
	return r
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("list products", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"products": products})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error("get product", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"product": p})
}

// add accepts a multipart form: text fields plus up to four image files
// (image1..image4) proxied to the CDN.
func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	priceCents, err := parsePriceCents(r.FormValue("price"))
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid price")
		return
	}

	in := application.AddProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		PriceCents:  priceCents,
		Category:    r.FormValue("category"),
		SubCategory: r.FormValue("subCategory"),
		Sizes:       splitCSV(r.FormValue("sizes")),
		Colors:      splitCSV(r.FormValue("colors")),
		Bestseller:  r.FormValue("bestseller") == "true",
	}
	if code := r.FormValue("couponCode"); code != "" {
		pct, err := parsePercent(r.FormValue("couponDiscount"))
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "invalid coupon discount")
			return
		}
		in.Coupon = &domain.ProductCoupon{Code: code, DiscountPercent: pct}
	}

	for i := 1; i <= 4; i++ {
		file, header, err := r.FormFile(fmt.Sprintf("image%d", i))
		if err != nil {
			continue
		}
		path, err := spool(file, header)
		file.Close()
		if err != nil {
			h.log.Error("spool upload", "err", err)
			httpx.Fail(w, http.StatusInternalServerError, "upload failed")
			return
		}
		in.ImagePaths = append(in.ImagePaths, path)
	}

	id, err := h.service.AddProduct(r.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMissingFields),
			errors.Is(err, application.ErrBadCouponRange):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("add product", "err", err)
			httpx.Fail(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "product added", "productId": id})
}

type idReq struct {
	ID         string `json:"id"`
	Bestseller bool   `json:"bestseller"`
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.Remove(r.Context(), req.ID); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error("remove product", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "product removed"})
}

func (h *Handler) bestseller(w http.ResponseWriter, r *http.Request) {
	var req idReq
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.SetBestseller(r.Context(), req.ID, req.Bestseller); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error("set bestseller", "err", err)
		httpx.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"message": "product updated"})
}

// spool copies an uploaded part to a temp file so the CDN client can stream
// it; the service removes the file after the upload attempt.
func spool(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+sanitizedExt(header.Filename))
	if err != nil {
		return "", err
	}
	defer tmp.Close()
	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func sanitizedExt(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 && !strings.ContainsAny(filename[i:], "/\\") {
		return filename[i:]
	}
	return ""
}

// parsePriceCents converts a decimal rupee amount ("499.50") to paise.
func parsePriceCents(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative price")
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

func parsePercent(raw string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
