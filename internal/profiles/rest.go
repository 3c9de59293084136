package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/profilku/profilku/internal/models"
)

// singleObject asks the table API for exactly one row; it answers 406 otherwise.
const singleObject = "application/vnd.pgrst.object+json"

// codeSingleRow is the table API's error code for a single-object request
// that matched zero or several rows.
const codeSingleRow = "PGRST116"

// APIError is an error response from the hosted table API.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap maps the single-row violation onto ErrNoRows / ErrMultipleRows.
func (e *APIError) Unwrap() error {
	if e.Code != codeSingleRow {
		return nil
	}
	if strings.Contains(e.Details, "0 rows") {
		return ErrNoRows
	}
	return ErrMultipleRows
}

// RESTClient is a minimal client of the hosted table API (`/rest/v1`).
type RESTClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewRESTClient creates a table API client. A nil http client gets a 15s timeout default.
func NewRESTClient(baseURL, apiKey string, hc *http.Client) *RESTClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &RESTClient{baseURL: strings.TrimRight(baseURL, "/") + "/rest/v1", apiKey: apiKey, http: hc}
}

// Table starts a query on one table.
func (c *RESTClient) Table(name string) *Query {
	return &Query{client: c, table: name, columns: "*", filters: url.Values{}}
}

// Query is a read built up with Select / Eq and executed with Single.
type Query struct {
	client  *RESTClient
	table   string
	columns string
	filters url.Values
	token   string
}

func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq adds a `column = value` filter.
func (q *Query) Eq(column, value string) *Query {
	q.filters.Add(column, "eq."+value)
	return q
}

// WithToken runs the query as the signed-in user so row-level security applies.
func (q *Query) WithToken(accessToken string) *Query {
	q.token = accessToken
	return q
}

// Single decodes exactly one row into dst.
func (q *Query) Single(ctx context.Context, dst interface{}) error {
	params := url.Values{}
	for k, v := range q.filters {
		params[k] = v
	}
	params.Set("select", q.columns)
	endpoint := q.client.baseURL + "/" + url.PathEscape(q.table) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	bearer := q.token
	if bearer == "" {
		bearer = q.client.apiKey
	}
	req.Header.Set("apikey", q.client.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", singleObject)

	resp, err := q.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.Unmarshal(b, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(b))
			if apiErr.Message == "" {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
		}
		return apiErr
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s row: %w", q.table, err)
	}
	return nil
}

// RESTSource reads profiles through the hosted table API.
type RESTSource struct {
	client *RESTClient
	table  string
}

func NewRESTSource(c *RESTClient) *RESTSource {
	return &RESTSource{client: c, table: "profiles"}
}

func (s *RESTSource) ByID(ctx context.Context, id, accessToken string) (*models.Profile, error) {
	var p models.Profile
	err := s.client.Table(s.table).Select("*").Eq("id", id).WithToken(accessToken).Single(ctx, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
