// Package resolver walks association edges off a deal and applies the
// role-selection rules for its related records.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inkworks/dealgate/internal/crm"
)

// Association labels that assign a contact a role on a deal. Matching
// is exact; the CRM treats labels as free-form strings but these two
// are fixed by the portal's setup.
const (
	labelPayer          = "Payer"
	labelPrimaryContact = "Primary Contact"
)

// searchLimit bounds the name-search fallback when a direct deal
// lookup misses.
const searchLimit = 5

// ErrDealNotFound is returned when both the direct lookup and the name
// search fail to produce a single deal.
var ErrDealNotFound = errors.New("deal not found")

// Property sets requested from the CRM per object type.
var (
	DealProperties = []string{
		"dealname", "amount", "addressee", "quote_title", "sketch_notes",
		"team_size", "sketch_approved", "po_status", "po_document_url",
		"po_received_date", "po_file_id", "quote_verbiage",
	}
	LineItemProperties = []string{"name", "price", "quantity", "amount", "description"}
	QuoteProperties    = []string{"hs_title", "hs_status", "hs_expiration_date", "hs_quote_link"}
	ContactProperties  = []string{"firstname", "lastname", "email"}
)

//go:generate mockgen -source=service.go -destination=crm_mock.go -package=resolver
type CRM interface {
	GetDeal(ctx context.Context, id string, properties []string) (*crm.Record, error)
	SearchDealsByName(ctx context.Context, nameToken string, limit int) ([]crm.Record, error)
	ListAssociations(ctx context.Context, dealID, toObjectType string) ([]crm.Association, error)
	BatchRead(ctx context.Context, objectType string, ids, properties []string) ([]crm.Record, error)
}

type Service struct {
	crm CRM
}

func NewService(c CRM) *Service {
	return &Service{crm: c}
}

// ResolveDeal fetches the deal by id, falling back to a name search
// when the direct lookup misses. The search must return exactly one
// match; anything else is ErrDealNotFound. The returned record's ID is
// the effective deal id for all subsequent association calls.
func (s *Service) ResolveDeal(ctx context.Context, dealID string) (*crm.Record, error) {
	deal, err := s.crm.GetDeal(ctx, dealID, DealProperties)
	if err == nil {
		return deal, nil
	}

	if !errors.Is(err, crm.ErrNotFound) {
		return nil, fmt.Errorf("fetching deal %s: %w", dealID, err)
	}

	results, err := s.crm.SearchDealsByName(ctx, dealID, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching deals by name %q: %w", dealID, err)
	}

	if len(results) != 1 {
		return nil, ErrDealNotFound
	}

	deal, err = s.crm.GetDeal(ctx, results[0].ID, DealProperties)
	if err != nil {
		if errors.Is(err, crm.ErrNotFound) {
			return nil, ErrDealNotFound
		}

		return nil, fmt.Errorf("fetching deal %s: %w", results[0].ID, err)
	}

	return deal, nil
}

// LineItems resolves the deal's line items. A failed association or
// batch fetch degrades to an empty set; the batch call is skipped
// entirely when the deal has no line item edges.
func (s *Service) LineItems(ctx context.Context, dealID string) []crm.Record {
	assocs, err := s.crm.ListAssociations(ctx, dealID, crm.ObjectLineItems)
	if err != nil {
		slog.Warn("line item association fetch failed", "dealId", dealID, "error", err)
		return nil
	}

	if len(assocs) == 0 {
		return nil
	}

	ids := make([]string, len(assocs))
	for i, a := range assocs {
		ids[i] = a.ToObjectID
	}

	items, err := s.crm.BatchRead(ctx, crm.ObjectLineItems, ids, LineItemProperties)
	if err != nil {
		slog.Warn("line item batch fetch failed", "dealId", dealID, "error", err)
		return nil
	}

	return items
}

// PrimaryQuote resolves the deal's authoritative quote: the first id in
// the association list, ignoring the rest. Failures degrade to nil.
func (s *Service) PrimaryQuote(ctx context.Context, dealID string) *crm.Record {
	assocs, err := s.crm.ListAssociations(ctx, dealID, crm.ObjectQuotes)
	if err != nil {
		slog.Warn("quote association fetch failed", "dealId", dealID, "error", err)
		return nil
	}

	if len(assocs) == 0 {
		return nil
	}

	quotes, err := s.crm.BatchRead(ctx, crm.ObjectQuotes, []string{assocs[0].ToObjectID}, QuoteProperties)
	if err != nil || len(quotes) == 0 {
		slog.Warn("quote batch fetch failed", "dealId", dealID, "error", err)
		return nil
	}

	return &quotes[0]
}

// ContactEdge is a deal-to-contact association with its roles derived
// once from the edge's labels. An edge may carry both roles.
type ContactEdge struct {
	ID        string
	IsPayer   bool
	IsPrimary bool
}

// Contacts resolves the deal's contact edges in API order. Failures
// degrade to an empty set.
func (s *Service) Contacts(ctx context.Context, dealID string) []ContactEdge {
	assocs, err := s.crm.ListAssociations(ctx, dealID, crm.ObjectContacts)
	if err != nil {
		slog.Warn("contact association fetch failed", "dealId", dealID, "error", err)
		return nil
	}

	edges := make([]ContactEdge, len(assocs))
	for i, a := range assocs {
		edges[i] = ContactEdge{
			ID:        a.ToObjectID,
			IsPayer:   a.HasLabel(labelPayer),
			IsPrimary: a.HasLabel(labelPrimaryContact),
		}
	}

	return edges
}

// SelectRecipients picks the payer and primary contact ids from the
// edge list in a single scan: first payer-labeled edge wins Payer,
// first primary-labeled edge wins Primary, and when no edge carries
// the primary label the first edge of any kind becomes Primary. Either
// id may be empty; both may name the same contact.
func SelectRecipients(edges []ContactEdge) (payerID, primaryID string) {
	for _, e := range edges {
		if payerID == "" && e.IsPayer {
			payerID = e.ID
		}

		if primaryID == "" && e.IsPrimary {
			primaryID = e.ID
		}
	}

	if primaryID == "" && len(edges) > 0 {
		primaryID = edges[0].ID
	}

	return payerID, primaryID
}

// Contact fetches one contact's details. Failures degrade to nil; a
// missing contact never fails a request.
func (s *Service) Contact(ctx context.Context, contactID string) *crm.Record {
	if contactID == "" {
		return nil
	}

	contacts, err := s.crm.BatchRead(ctx, crm.ObjectContacts, []string{contactID}, ContactProperties)
	if err != nil || len(contacts) == 0 {
		slog.Warn("contact fetch failed", "contactId", contactID, "error", err)
		return nil
	}

	return &contacts[0]
}
