package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when a direct record lookup yields a 404.
var ErrNotFound = errors.New("record not found")

// StatusError is an unexpected non-2xx reply from the CRM. It keeps the
// upstream status and body so callers that propagate the collaborator's
// error verbatim can do so.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the CRM object API. All calls carry the bearer token;
// none retry.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// GetDeal fetches one deal with the requested properties. A 404 maps to
// ErrNotFound so callers can fall back to a name search.
func (c *Client) GetDeal(ctx context.Context, id string, properties []string) (*Record, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/deals/%s?properties=%s",
		c.baseURL, url.PathEscape(id), url.QueryEscape(strings.Join(properties, ",")))

	var rec Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

type searchRequest struct {
	FilterGroups []filterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Limit        int           `json:"limit"`
}

type filterGroup struct {
	Filters []filter `json:"filters"`
}

type filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResponse struct {
	Results []Record `json:"results"`
}

// SearchDealsByName runs a token-contains search on the deal name
// property. Used only as a fallback when the direct id lookup fails.
func (c *Client) SearchDealsByName(ctx context.Context, nameToken string, limit int) ([]Record, error) {
	body := searchRequest{
		FilterGroups: []filterGroup{{
			Filters: []filter{{
				PropertyName: "dealname",
				Operator:     "CONTAINS_TOKEN",
				Value:        nameToken,
			}},
		}},
		Limit: limit,
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/crm/v3/objects/deals/search", body, &resp); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

type associationsResponse struct {
	Results []Association `json:"results"`
}

// ListAssociations walks one association edge type off a deal. The
// returned order is whatever the API returns; callers rely on it for
// first-match selection rules.
func (c *Client) ListAssociations(ctx context.Context, dealID, toObjectType string) ([]Association, error) {
	endpoint := fmt.Sprintf("%s/crm/v4/objects/deals/%s/associations/%s",
		c.baseURL, url.PathEscape(dealID), url.PathEscape(toObjectType))

	var resp associationsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

type batchReadRequest struct {
	Inputs     []batchInput `json:"inputs"`
	Properties []string     `json:"properties"`
}

type batchInput struct {
	ID string `json:"id"`
}

type batchReadResponse struct {
	Results []Record `json:"results"`
}

// BatchRead fetches record details for a set of ids in one call.
func (c *Client) BatchRead(ctx context.Context, objectType string, ids, properties []string) ([]Record, error) {
	body := batchReadRequest{
		Inputs:     make([]batchInput, len(ids)),
		Properties: properties,
	}
	for i, id := range ids {
		body.Inputs[i] = batchInput{ID: id}
	}

	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/batch/read", c.baseURL, url.PathEscape(objectType))

	var resp batchReadResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, err
	}

	return resp.Results, nil
}

// UploadFile stores a file in the external file store and returns its
// id and public URL.
func (c *Client) UploadFile(ctx context.Context, name, contentType string, data []byte) (*File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))

	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}

	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing form file: %w", err)
	}

	opts := map[string]string{"access": "PUBLIC_NOT_INDEXABLE"}

	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("encoding upload options: %w", err)
	}

	if err := mw.WriteField("options", string(optsJSON)); err != nil {
		return nil, fmt.Errorf("writing upload options: %w", err)
	}

	if err := mw.WriteField("folderPath", "/purchase-orders"); err != nil {
		return nil, fmt.Errorf("writing folder path: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/v3/files", &buf)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var f File
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}

	return &f, nil
}

type noteRequest struct {
	Engagement   noteEngagement   `json:"engagement"`
	Associations noteAssociations `json:"associations"`
	Attachments  []noteAttachment `json:"attachments,omitempty"`
	Metadata     noteMetadata     `json:"metadata"`
}

type noteEngagement struct {
	Active    bool   `json:"active"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

type noteAssociations struct {
	DealIDs []string `json:"dealIds"`
}

type noteAttachment struct {
	ID string `json:"id"`
}

type noteMetadata struct {
	Body string `json:"body"`
}

// CreateNote attaches a note engagement, optionally carrying a file
// reference, to a deal.
func (c *Client) CreateNote(ctx context.Context, dealID, fileID, body string) error {
	note := noteRequest{
		Engagement: noteEngagement{
			Active:    true,
			Type:      "NOTE",
			Timestamp: time.Now().UnixMilli(),
		},
		Associations: noteAssociations{DealIDs: []string{dealID}},
		Metadata:     noteMetadata{Body: body},
	}
	if fileID != "" {
		note.Attachments = []noteAttachment{{ID: fileID}}
	}

	return c.do(ctx, http.MethodPost, c.baseURL+"/engagements/v1/engagements", note, nil)
}

type updateRequest struct {
	Properties map[string]string `json:"properties"`
}

// UpdateDeal patches the given properties on a deal.
func (c *Client) UpdateDeal(ctx context.Context, dealID string, props map[string]string) error {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/deals/%s", c.baseURL, url.PathEscape(dealID))
	return c.do(ctx, http.MethodPatch, endpoint, updateRequest{Properties: props}, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
