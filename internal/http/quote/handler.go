// Package quote serves the token-gated purchase-order quote endpoint.
package quote

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkworks/dealgate/internal/config"
	"github.com/inkworks/dealgate/internal/http/respond"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
	"github.com/inkworks/dealgate/internal/token"
	"github.com/inkworks/dealgate/internal/view"
)

type Handler struct {
	cfg       *config.Config
	svc       *resolver.Service
	authority *token.Authority
	reporter  *notify.Reporter
}

func NewHandler(cfg *config.Config, svc *resolver.Service, authority *token.Authority, reporter *notify.Reporter) *Handler {
	return &Handler{cfg: cfg, svc: svc, authority: authority, reporter: reporter}
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

	if err := h.cfg.RequireSecret(); err != nil {
		respond.Error(w, http.StatusInternalServerError, "server is not configured")
		return
	}

	if !h.authority.Verify(dealID, r.URL.Query().Get("token")) {
		respond.Error(w, http.StatusForbidden, "invalid or expired access token")
		return
	}

	deal, err := h.svc.ResolveDeal(r.Context(), dealID)
	if err != nil {
		if errors.Is(err, resolver.ErrDealNotFound) {
			respond.Error(w, http.StatusNotFound, "deal not found")
			return
		}

		h.reporter.Report(r.Context(), "quote", dealID, err)
		respond.ErrorDetails(w, http.StatusInternalServerError, "failed to load quote", err.Error())

		return
	}

	ctx := r.Context()

	lineItems := h.svc.LineItems(ctx, deal.ID)
	primaryQuote := h.svc.PrimaryQuote(ctx, deal.ID)

	payerID, primaryID := resolver.SelectRecipients(h.svc.Contacts(ctx, deal.ID))

	// Both fetched independently even when the ids coincide.
	payer := h.svc.Contact(ctx, payerID)
	primary := h.svc.Contact(ctx, primaryID)

	respond.JSON(w, http.StatusOK,
		view.AssembleQuote(deal, lineItems, primaryQuote, payer, primary, time.Now()))
}
