// Package submission runs the purchase-order write pipeline: validate
// the payload, authorize the caller, upload the file, then annotate,
// patch, and notify with per-step failure policies.
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inkworks/dealgate/internal/crm"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
)

// ErrUnauthorized rejects a submission whose access token does not
// verify. Maps to HTTP 403; no side effects have occurred.
var ErrUnauthorized = errors.New("invalid or expired access token")

type CRM interface {
	UploadFile(ctx context.Context, name, contentType string, data []byte) (*crm.File, error)
	CreateNote(ctx context.Context, dealID, fileID, body string) error
	UpdateDeal(ctx context.Context, dealID string, props map[string]string) error
}

type Resolver interface {
	ResolveDeal(ctx context.Context, dealID string) (*crm.Record, error)
	Contacts(ctx context.Context, dealID string) []resolver.ContactEdge
	Contact(ctx context.Context, contactID string) *crm.Record
}

type Verifier interface {
	Verify(dealID, supplied string) bool
}

type Webhook interface {
	SubmissionReceived(ctx context.Context, event notify.SubmissionEvent) error
}

type Pipeline struct {
	crm      CRM
	resolver Resolver
	verifier Verifier
	webhook  Webhook
}

func NewPipeline(c CRM, r Resolver, v Verifier, w Webhook) *Pipeline {
	return &Pipeline{crm: c, resolver: r, verifier: v, webhook: w}
}

type Request struct {
	DealID   string
	Token    string
	FileName string
	FileData string
	FileType string
}

type Result struct {
	FileURL string
}

// stepPolicy tags each post-upload step. A fatal step aborts the
// pipeline; a non-fatal step is logged and skipped past. There is no
// compensating rollback: a stored file with a missing note or patch is
// accepted as tolerable drift, logged for manual follow-up.
type stepPolicy int

const (
	fatal stepPolicy = iota
	nonFatal
)

type step struct {
	name   string
	policy stepPolicy
	run    func(ctx context.Context) error
}

// submitState accumulates what the steps share: the resolved deal, the
// recipients fetched before upload, and the stored file.
type submitState struct {
	deal       *crm.Record
	upload     *Upload
	storedName string
	recipient  *notify.Recipient
	cc         *notify.Recipient
	file       *crm.File
}

// Submit runs the full pipeline. Validation and authorization failures
// reject with no side effects; an upload failure is fatal and stops
// everything after it; note, patch, and notify failures never change
// the success result.
func (p *Pipeline) Submit(ctx context.Context, req Request) (*Result, error) {
	upload, err := ParseUpload(req.FileName, req.FileData, req.FileType)
	if err != nil {
		return nil, err
	}

	if !p.verifier.Verify(req.DealID, req.Token) {
		return nil, ErrUnauthorized
	}

	deal, err := p.resolver.ResolveDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}

	st := &submitState{deal: deal, upload: upload}

	// Recipients and the stored name are computed before the upload so
	// the stored file already carries the human-readable deal name.
	st.recipient, st.cc = p.recipients(ctx, deal.ID)
	st.storedName = storedFileName(deal.Prop("dealname"), upload.extension())

	steps := []step{
		{name: "upload", policy: fatal, run: func(ctx context.Context) error {
			file, err := p.crm.UploadFile(ctx, st.storedName, upload.DeclaredType, upload.Data)
			if err != nil {
				return err
			}

			st.file = file

			return nil
		}},
		{name: "annotate", policy: nonFatal, run: func(ctx context.Context) error {
			body := fmt.Sprintf("Purchase order received: %s", st.storedName)
			return p.crm.CreateNote(ctx, deal.ID, st.file.ID, body)
		}},
		{name: "patch", policy: nonFatal, run: func(ctx context.Context) error {
			return p.crm.UpdateDeal(ctx, deal.ID, map[string]string{
				"po_status":        "Received",
				"po_document_url":  st.file.URL,
				"po_received_date": time.Now().UTC().Format(time.DateOnly),
				"po_file_id":       st.file.ID,
			})
		}},
		{name: "notify", policy: nonFatal, run: func(ctx context.Context) error {
			return p.webhook.SubmissionReceived(ctx, notify.SubmissionEvent{
				DealID:     deal.ID,
				DealName:   deal.Prop("dealname"),
				QuoteTitle: deal.Prop("quote_title"),
				FileName:   st.storedName,
				FileURL:    st.file.URL,
				Recipient:  st.recipient,
				CC:         st.cc,
			})
		}},
	}

	for _, s := range steps {
		if err := s.run(ctx); err != nil {
			if s.policy == fatal {
				return nil, fmt.Errorf("%s: %w", s.name, err)
			}

			slog.Error("submission step failed", "step", s.name, "dealId", deal.ID, "error", err)
		}
	}

	return &Result{FileURL: st.file.URL}, nil
}

// recipients applies the dual-recipient strategy: the payer is the
// primary recipient with the primary contact CC'd when distinct; with
// no payer the primary contact stands alone. Payer and primary are
// fetched independently even when they name the same contact.
func (p *Pipeline) recipients(ctx context.Context, dealID string) (recipient, cc *notify.Recipient) {
	edges := p.resolver.Contacts(ctx, dealID)
	payerID, primaryID := resolver.SelectRecipients(edges)

	payer := toRecipient(p.resolver.Contact(ctx, payerID))
	primary := toRecipient(p.resolver.Contact(ctx, primaryID))

	if payer == nil {
		return primary, nil
	}

	if primary != nil && primaryID != payerID {
		return payer, primary
	}

	return payer, nil
}

func toRecipient(r *crm.Record) *notify.Recipient {
	if r == nil {
		return nil
	}

	return &notify.Recipient{
		Name:  strings.TrimSpace(r.Prop("firstname") + " " + r.Prop("lastname")),
		Email: r.Prop("email"),
	}
}

// storedFileName builds the human-readable stored name
// "{dealName}_PO.{ext}", mapping anything unsafe in the deal name to
// underscores.
func storedFileName(dealName, ext string) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, dealName)

	if safe == "" {
		safe = "deal"
	}

	return fmt.Sprintf("%s_PO.%s", safe, ext)
}
