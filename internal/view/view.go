// Package view reshapes CRM records into the flat response models the
// portal front end consumes.
package view

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/inkworks/dealgate/internal/crm"
)

// proposedValidityDays is the window offered when a quote has no
// persisted expiration date. Derived at response-build time, never
// stored.
const proposedValidityDays = 120

type LineItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	// Amount is the effective line amount: the stored amount when
	// non-zero, otherwise price times quantity. The fallback is applied
	// per item, not once for the deal.
	Amount float64 `json:"amount"`
}

func NewLineItem(r *crm.Record) LineItem {
	price := r.FloatProp("price", 0)
	quantity := r.IntProp("quantity", 1)

	amount := r.FloatProp("amount", 0)
	if amount == 0 {
		amount = price * float64(quantity)
	}

	return LineItem{
		ID:          r.ID,
		Name:        r.Prop("name"),
		Description: r.Prop("description"),
		Price:       price,
		Quantity:    quantity,
		Amount:      amount,
	}
}

func NewLineItems(records []crm.Record) []LineItem {
	items := make([]LineItem, len(records))
	for i := range records {
		items[i] = NewLineItem(&records[i])
	}

	return items
}

// Total sums the effective line amounts. Order-independent.
func Total(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Amount
	}

	return total
}

type Quote struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	Link           string `json:"link,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

func NewQuote(r *crm.Record) *Quote {
	if r == nil {
		return nil
	}

	return &Quote{
		ID:             r.ID,
		Title:          r.Prop("hs_title"),
		Status:         r.Prop("hs_status"),
		Link:           r.Prop("hs_quote_link"),
		ExpirationDate: r.Prop("hs_expiration_date"),
	}
}

type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func NewContact(r *crm.Record) *Contact {
	if r == nil {
		return nil
	}

	return &Contact{
		ID:    r.ID,
		Name:  strings.TrimSpace(r.Prop("firstname") + " " + r.Prop("lastname")),
		Email: r.Prop("email"),
	}
}

// ParseVerbiage decodes the JSON-encoded verbiage custom field.
// Invalid or absent JSON yields an empty mapping rather than failing
// the request.
func ParseVerbiage(raw string) map[string]string {
	verbiage := map[string]string{}
	if raw == "" {
		return verbiage
	}

	if err := json.Unmarshal([]byte(raw), &verbiage); err != nil {
		return map[string]string{}
	}

	return verbiage
}

// ReviewView is the sketch review read model.
type ReviewView struct {
	DealID         string            `json:"dealId"`
	DealName       string            `json:"dealName"`
	Addressee      string            `json:"addressee,omitempty"`
	QuoteTitle     string            `json:"quoteTitle,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	TeamSize       int               `json:"teamSize,omitempty"`
	SketchApproved bool              `json:"sketchApproved"`
	DocumentURL    string            `json:"documentUrl,omitempty"`
	ReceivedDate   string            `json:"receivedDate,omitempty"`
	Verbiage       map[string]string `json:"verbiage"`
	LineItems      []LineItem        `json:"lineItems"`
	Total          float64           `json:"total"`
}

func AssembleReview(deal *crm.Record, lineItems []crm.Record) ReviewView {
	items := NewLineItems(lineItems)

	return ReviewView{
		DealID:         deal.ID,
		DealName:       deal.Prop("dealname"),
		Addressee:      deal.Prop("addressee"),
		QuoteTitle:     deal.Prop("quote_title"),
		Notes:          deal.Prop("sketch_notes"),
		TeamSize:       deal.IntProp("team_size", 0),
		SketchApproved: deal.BoolProp("sketch_approved"),
		DocumentURL:    deal.Prop("po_document_url"),
		ReceivedDate:   deal.Prop("po_received_date"),
		Verbiage:       ParseVerbiage(deal.Prop("quote_verbiage")),
		LineItems:      items,
		Total:          Total(items),
	}
}

// QuoteView is the token-gated purchase-order quote read model.
type QuoteView struct {
	DealID   string `json:"dealId"`
	DealName string `json:"dealName"`
	// Amount is the deal's own amount, falling back to the computed
	// line item total when unset or non-numeric.
	Amount         float64    `json:"amount"`
	Addressee      string     `json:"addressee,omitempty"`
	QuoteTitle     string     `json:"quoteTitle,omitempty"`
	Quote          *Quote     `json:"quote,omitempty"`
	LineItems      []LineItem `json:"lineItems"`
	Total          float64    `json:"total"`
	ExpirationDate string     `json:"expirationDate"`
	Payer          *Contact   `json:"payer,omitempty"`
	PrimaryContact *Contact   `json:"primaryContact,omitempty"`
}

func AssembleQuote(deal *crm.Record, lineItems []crm.Record, quote, payer, primary *crm.Record, now time.Time) QuoteView {
	items := NewLineItems(lineItems)
	total := Total(items)

	amount := total
	if s := deal.Prop("amount"); s != "" {
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			amount = parsed
		}
	}

	q := NewQuote(quote)

	expiration := ""
	if q != nil {
		expiration = q.ExpirationDate
	}

	if expiration == "" {
		expiration = now.AddDate(0, 0, proposedValidityDays).Format(time.DateOnly)
	}

	return QuoteView{
		DealID:         deal.ID,
		DealName:       deal.Prop("dealname"),
		Amount:         amount,
		Addressee:      deal.Prop("addressee"),
		QuoteTitle:     deal.Prop("quote_title"),
		Quote:          q,
		LineItems:      items,
		Total:          total,
		ExpirationDate: expiration,
		Payer:          NewContact(payer),
		PrimaryContact: NewContact(primary),
	}
}
