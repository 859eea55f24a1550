package crm

// Object types the client addresses. These are the path segments the
// external API expects, not display names.
const (
	ObjectDeals     = "deals"
	ObjectLineItems = "line_items"
	ObjectQuotes    = "quotes"
	ObjectContacts  = "contacts"
)

// Record is a generic CRM object: an opaque id plus a flat string
// property bag. The API represents every property value as a string,
// including numbers and booleans.
type Record struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// Association is one edge from a record to a related record, carrying
// zero or more typed labels.
type Association struct {
	ToObjectID       string            `json:"toObjectId"`
	AssociationTypes []AssociationType `json:"associationTypes"`
}

type AssociationType struct {
	Label  string `json:"label"`
	TypeID int    `json:"typeId"`
}

// Labels returns the non-empty labels on the edge.
func (a Association) Labels() []string {
	labels := make([]string, 0, len(a.AssociationTypes))

	for _, t := range a.AssociationTypes {
		if t.Label != "" {
			labels = append(labels, t.Label)
		}
	}

	return labels
}

// HasLabel reports whether the edge carries the exact label.
func (a Association) HasLabel(label string) bool {
	for _, t := range a.AssociationTypes {
		if t.Label == label {
			return true
		}
	}

	return false
}

// File is the result of an upload to the external file store.
type File struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
