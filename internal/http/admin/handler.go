// Package admin serves the maintenance endpoint that resets a deal's
// submission fields.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkworks/dealgate/internal/config"
	"github.com/inkworks/dealgate/internal/crm"
	"github.com/inkworks/dealgate/internal/http/respond"
)

type CRM interface {
	UpdateDeal(ctx context.Context, dealID string, props map[string]string) error
}

type Handler struct {
	cfg *config.Config
	crm CRM
}

func NewHandler(cfg *config.Config, c CRM) *Handler {
	return &Handler{cfg: cfg, crm: c}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reset-po", h.resetPO)
}

type resetRequest struct {
	DealID string `json:"dealId"`
}

type resetResponse struct {
	Success bool `json:"success"`
}

// resetPO clears the submission fields so the portal shows the upload
// form again for the deal.
func (h *Handler) resetPO(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.DealID == "" {
		respond.Error(w, http.StatusBadRequest, "dealId is required")
		return
	}

	if err := h.cfg.RequireCRM(); err != nil {
		respond.Error(w, http.StatusInternalServerError, "server is not configured")
		return
	}

	err := h.crm.UpdateDeal(r.Context(), req.DealID, map[string]string{
		"po_document_url":  "",
		"po_received_date": "",
	})
	if err != nil {
		// Propagate the collaborator's status and body verbatim.
		var statusErr *crm.StatusError
		if errors.As(err, &statusErr) {
			respond.ErrorDetails(w, statusErr.StatusCode, "failed to reset deal", statusErr.Body)
			return
		}

		if errors.Is(err, crm.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "deal not found")
			return
		}

		respond.ErrorDetails(w, http.StatusInternalServerError, "failed to reset deal", err.Error())

		return
	}

	respond.JSON(w, http.StatusOK, resetResponse{Success: true})
}
