// Package purchaseorder serves the purchase-order upload endpoint.
package purchaseorder

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkworks/dealgate/internal/config"
	"github.com/inkworks/dealgate/internal/http/respond"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
	"github.com/inkworks/dealgate/internal/submission"
)

type Handler struct {
	cfg      *config.Config
	pipeline *submission.Pipeline
	reporter *notify.Reporter
}

func NewHandler(cfg *config.Config, pipeline *submission.Pipeline, reporter *notify.Reporter) *Handler {
	return &Handler{cfg: cfg, pipeline: pipeline, reporter: reporter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.submit)
}

type submitRequest struct {
	DealID   string `json:"dealId"`
	Token    string `json:"token"`
	FileName string `json:"fileName"`
	FileData string `json:"fileData"`
	FileType string `json:"fileType"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
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

	if err := h.cfg.RequireSecret(); err != nil {
		respond.Error(w, http.StatusInternalServerError, "server is not configured")
		return
	}

	result, err := h.pipeline.Submit(r.Context(), submission.Request{
		DealID:   req.DealID,
		Token:    req.Token,
		FileName: req.FileName,
		FileData: req.FileData,
		FileType: req.FileType,
	})
	if err != nil {
		var clientErr *submission.ClientError
		if errors.As(err, &clientErr) {
			respond.Error(w, http.StatusBadRequest, clientErr.Error())
			return
		}

		if errors.Is(err, submission.ErrUnauthorized) {
			respond.Error(w, http.StatusForbidden, "invalid or expired access token")
			return
		}

		if errors.Is(err, resolver.ErrDealNotFound) {
			respond.Error(w, http.StatusNotFound, "deal not found")
			return
		}

		h.reporter.Report(r.Context(), "purchase-order", req.DealID, err)
		respond.ErrorDetails(w, http.StatusInternalServerError,
			"Something went wrong saving your file. Please try again, or email it to us instead.", err.Error())

		return
	}

	respond.JSON(w, http.StatusOK, submitResponse{Success: true, FileURL: result.FileURL})
}
