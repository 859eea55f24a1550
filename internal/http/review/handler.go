// Package review serves the sketch review read endpoint.
package review

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkworks/dealgate/internal/config"
	"github.com/inkworks/dealgate/internal/http/respond"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
	"github.com/inkworks/dealgate/internal/view"
)

type Handler struct {
	cfg      *config.Config
	svc      *resolver.Service
	reporter *notify.Reporter
}

func NewHandler(cfg *config.Config, svc *resolver.Service, reporter *notify.Reporter) *Handler {
	return &Handler{cfg: cfg, svc: svc, reporter: reporter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	dealID := r.URL.Query().Get("dealId")
	if dealID == "" {
		respond.Error(w, http.StatusBadRequest, "dealId is required")
		return
	}

	if err := h.cfg.RequireCRM(); err != nil {
		respond.Error(w, http.StatusInternalServerError, "server is not configured")
		return
	}

	deal, err := h.svc.ResolveDeal(r.Context(), dealID)
	if err != nil {
		if errors.Is(err, resolver.ErrDealNotFound) {
			respond.Error(w, http.StatusNotFound, "deal not found")
			return
		}

		h.reporter.Report(r.Context(), "review", dealID, err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "failed to load review", err.Error())

		return
	}

	lineItems := h.svc.LineItems(r.Context(), deal.ID)

	respond.JSON(w, http.StatusOK, view.AssembleReview(deal, lineItems))
}
