package submission_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkworks/dealgate/internal/crm"
	"github.com/inkworks/dealgate/internal/notify"
	"github.com/inkworks/dealgate/internal/resolver"
	"github.com/inkworks/dealgate/internal/submission"
	"github.com/inkworks/dealgate/internal/token"
)

// Hand-rolled mocks in the export-service test style: func fields with
// call counters so tests can assert which steps ran.

type mockCRM struct {
	uploadFunc func(ctx context.Context, name, contentType string, data []byte) (*crm.File, error)
	noteFunc   func(ctx context.Context, dealID, fileID, body string) error
	updateFunc func(ctx context.Context, dealID string, props map[string]string) error

	uploads int
	notes   int
	updates int

	lastUploadName string
	lastProps      map[string]string
}

func (m *mockCRM) UploadFile(ctx context.Context, name, contentType string, data []byte) (*crm.File, error) {
	m.uploads++
	m.lastUploadName = name

	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, name, contentType, data)
	}

	return &crm.File{ID: "f1", URL: "https://files.example/f1"}, nil
}

func (m *mockCRM) CreateNote(ctx context.Context, dealID, fileID, body string) error {
	m.notes++

	if m.noteFunc != nil {
		return m.noteFunc(ctx, dealID, fileID, body)
	}

	return nil
}

func (m *mockCRM) UpdateDeal(ctx context.Context, dealID string, props map[string]string) error {
	m.updates++
	m.lastProps = props

	if m.updateFunc != nil {
		return m.updateFunc(ctx, dealID, props)
	}

	return nil
}

type mockResolver struct {
	deal     *crm.Record
	dealErr  error
	edges    []resolver.ContactEdge
	contacts map[string]*crm.Record
}

func (m *mockResolver) ResolveDeal(ctx context.Context, dealID string) (*crm.Record, error) {
	if m.dealErr != nil {
		return nil, m.dealErr
	}

	return m.deal, nil
}

func (m *mockResolver) Contacts(ctx context.Context, dealID string) []resolver.ContactEdge {
	return m.edges
}

func (m *mockResolver) Contact(ctx context.Context, contactID string) *crm.Record {
	return m.contacts[contactID]
}

type mockWebhook struct {
	events []notify.SubmissionEvent
	err    error
}

func (m *mockWebhook) SubmissionReceived(ctx context.Context, event notify.SubmissionEvent) error {
	m.events = append(m.events, event)
	return m.err
}

const (
	testSecret = "test-secret"
	testDealID = "123"
)

func validRequest(t *testing.T) submission.Request {
	t.Helper()

	return submission.Request{
		DealID:   testDealID,
		Token:    token.NewAuthority(testSecret).Issue(testDealID),
		FileName: "order.pdf",
		FileData: base64.StdEncoding.EncodeToString([]byte("%PDF-1.4")),
		FileType: "application/pdf",
	}
}

func newPipeline(c *mockCRM, r *mockResolver, w *mockWebhook) *submission.Pipeline {
	return submission.NewPipeline(c, r, token.NewAuthority(testSecret), w)
}

func acmeDeal() *crm.Record {
	return &crm.Record{ID: testDealID, Properties: map[string]string{
		"dealname":    "Acme Order",
		"quote_title": "Spring Banners",
	}}
}

func TestPipeline_Submit_Success(t *testing.T) {
	c := &mockCRM{}
	r := &mockResolver{
		deal: acmeDeal(),
		edges: []resolver.ContactEdge{
			{ID: "2", IsPrimary: true},
			{ID: "3", IsPayer: true},
		},
		contacts: map[string]*crm.Record{
			"2": {ID: "2", Properties: map[string]string{"firstname": "Riley", "email": "riley@example.com"}},
			"3": {ID: "3", Properties: map[string]string{"firstname": "Pat", "email": "pat@example.com"}},
		},
	}
	w := &mockWebhook{}

	result, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
	require.NoError(t, err)

	assert.Equal(t, "https://files.example/f1", result.FileURL)
	assert.Equal(t, 1, c.uploads)
	assert.Equal(t, 1, c.notes)
	assert.Equal(t, 1, c.updates)

	assert.Equal(t, "Acme_Order_PO.pdf", c.lastUploadName)
	assert.Equal(t, "Received", c.lastProps["po_status"])
	assert.Equal(t, "https://files.example/f1", c.lastProps["po_document_url"])
	assert.Equal(t, "f1", c.lastProps["po_file_id"])

	require.Len(t, w.events, 1)
	event := w.events[0]

	assert.Equal(t, testDealID, event.DealID)
	assert.Equal(t, "Spring Banners", event.QuoteTitle)

	// Payer is the recipient, primary contact the CC.
	require.NotNil(t, event.Recipient)
	assert.Equal(t, "pat@example.com", event.Recipient.Email)
	require.NotNil(t, event.CC)
	assert.Equal(t, "riley@example.com", event.CC.Email)
}

func TestPipeline_Submit_RecipientStrategies(t *testing.T) {
	tests := []struct {
		name          string
		edges         []resolver.ContactEdge
		contacts      map[string]*crm.Record
		wantRecipient string
		wantCC        string
	}{
		{
			name:  "NoPayerPrimaryStandsAlone",
			edges: []resolver.ContactEdge{{ID: "2", IsPrimary: true}},
			contacts: map[string]*crm.Record{
				"2": {ID: "2", Properties: map[string]string{"email": "riley@example.com"}},
			},
			wantRecipient: "riley@example.com",
		},
		{
			name:  "SameContactNoCC",
			edges: []resolver.ContactEdge{{ID: "9", IsPayer: true, IsPrimary: true}},
			contacts: map[string]*crm.Record{
				"9": {ID: "9", Properties: map[string]string{"email": "both@example.com"}},
			},
			wantRecipient: "both@example.com",
		},
		{
			name:  "UnlabeledFallback",
			edges: []resolver.ContactEdge{{ID: "5"}},
			contacts: map[string]*crm.Record{
				"5": {ID: "5", Properties: map[string]string{"email": "only@example.com"}},
			},
			wantRecipient: "only@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mockCRM{}
			r := &mockResolver{deal: acmeDeal(), edges: tt.edges, contacts: tt.contacts}
			w := &mockWebhook{}

			_, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
			require.NoError(t, err)
			require.Len(t, w.events, 1)

			event := w.events[0]
			require.NotNil(t, event.Recipient)
			assert.Equal(t, tt.wantRecipient, event.Recipient.Email)

			if tt.wantCC == "" {
				assert.Nil(t, event.CC)
			} else {
				require.NotNil(t, event.CC)
				assert.Equal(t, tt.wantCC, event.CC.Email)
			}
		})
	}
}

func TestPipeline_Submit_InvalidTokenHasNoSideEffects(t *testing.T) {
	c := &mockCRM{}
	r := &mockResolver{deal: acmeDeal()}
	w := &mockWebhook{}

	req := validRequest(t)
	req.Token = "deadbeefdeadbeef"

	_, err := newPipeline(c, r, w).Submit(context.Background(), req)
	assert.ErrorIs(t, err, submission.ErrUnauthorized)

	assert.Zero(t, c.uploads)
	assert.Zero(t, c.notes)
	assert.Zero(t, c.updates)
	assert.Empty(t, w.events)
}

func TestPipeline_Submit_ValidationRejectsBeforeAnything(t *testing.T) {
	c := &mockCRM{}
	r := &mockResolver{deal: acmeDeal()}
	w := &mockWebhook{}

	req := validRequest(t)
	req.FileType = "application/zip"

	_, err := newPipeline(c, r, w).Submit(context.Background(), req)

	var clientErr *submission.ClientError
	assert.ErrorAs(t, err, &clientErr)

	assert.Zero(t, c.uploads)
	assert.Empty(t, w.events)
}

func TestPipeline_Submit_UploadFailureIsFatal(t *testing.T) {
	c := &mockCRM{
		uploadFunc: func(ctx context.Context, name, contentType string, data []byte) (*crm.File, error) {
			return nil, errors.New("file store down")
		},
	}
	r := &mockResolver{deal: acmeDeal()}
	w := &mockWebhook{}

	_, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
	require.Error(t, err)

	// Nothing after the upload is attempted.
	assert.Zero(t, c.notes)
	assert.Zero(t, c.updates)
	assert.Empty(t, w.events)
}

func TestPipeline_Submit_NonFatalStepFailures(t *testing.T) {
	noteErr := errors.New("engagement api down")
	patchErr := errors.New("patch rejected")

	tests := []struct {
		name     string
		noteErr  error
		patchErr error
	}{
		{name: "NoteFails", noteErr: noteErr},
		{name: "PatchFails", patchErr: patchErr},
		{name: "BothFail", noteErr: noteErr, patchErr: patchErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &mockCRM{
				noteFunc: func(ctx context.Context, dealID, fileID, body string) error {
					return tt.noteErr
				},
				updateFunc: func(ctx context.Context, dealID string, props map[string]string) error {
					return tt.patchErr
				},
			}
			r := &mockResolver{deal: acmeDeal()}
			w := &mockWebhook{}

			result, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
			require.NoError(t, err)

			assert.Equal(t, "https://files.example/f1", result.FileURL)

			// Later steps still run after a swallowed failure.
			assert.Equal(t, 1, c.updates)
			assert.Len(t, w.events, 1)
		})
	}
}

func TestPipeline_Submit_NotifyFailureDoesNotChangeResult(t *testing.T) {
	c := &mockCRM{}
	r := &mockResolver{deal: acmeDeal()}
	w := &mockWebhook{err: errors.New("sink unreachable")}

	result, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "https://files.example/f1", result.FileURL)
}

func TestPipeline_Submit_DealNotFound(t *testing.T) {
	c := &mockCRM{}
	r := &mockResolver{dealErr: resolver.ErrDealNotFound}
	w := &mockWebhook{}

	_, err := newPipeline(c, r, w).Submit(context.Background(), validRequest(t))
	assert.ErrorIs(t, err, resolver.ErrDealNotFound)
	assert.Zero(t, c.uploads)
}
