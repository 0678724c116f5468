// Package remote is a client for the optional hosted store, a PostgREST
// endpoint exposing the items, projects, project_items and indirect_costs
// tables under /rest/v1.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"powcost/internal/models"
)

// Table names.
const (
	TableItems         = "items"
	TableProjects      = "projects"
	TableProjectItems  = "project_items"
	TableIndirectCosts = "indirect_costs"
)

// ErrNotConfigured is returned by every call when the URL or key is missing.
var ErrNotConfigured = errors.New("remote: not configured")

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// Client talks to the hosted store.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the store at baseURL.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Configured reports whether both the URL and the key are set.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type request struct {
	op     string
	method string
	table  string
	query  url.Values
	body   any
	prefer []string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	endpoint := c.baseURL + "/rest/v1/" + r.table
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: marshaling body: %w", r.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(r.prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(r.prefer, ","))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", r.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: r.op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", r.op, err)
	}
	return nil
}

func eq(v string) string { return "eq." + v }

func first[T any](op string, rows []T) (*T, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty response", op)
	}
	return &rows[0], nil
}

// Ping checks that the store is reachable and the key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var rows []json.RawMessage
	return c.do(ctx, request{
		op:     "ping",
		method: http.MethodGet,
		table:  TableItems,
		query:  url.Values{"select": {"id"}, "limit": {"1"}},
	}, &rows)
}

// ListItems returns the remote catalog ordered by category then item number.
func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := c.do(ctx, request{
		op:     "listing items",
		method: http.MethodGet,
		table:  TableItems,
		query:  url.Values{"order": {"category.asc,item_no.asc"}},
	}, &items)
	return items, err
}

// CreateItem inserts a catalog item; the store assigns id and date_added.
func (c *Client) CreateItem(ctx context.Context, item models.NewItem) (*models.Item, error) {
	var rows []models.Item
	err := c.do(ctx, request{
		op:     "creating item",
		method: http.MethodPost,
		table:  TableItems,
		body:   item,
		prefer: []string{"return=representation"},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return first("creating item", rows)
}

// UpdateItem patches one catalog item.
func (c *Client) UpdateItem(ctx context.Context, id int, patch models.ItemPatch) (*models.Item, error) {
	var rows []models.Item
	err := c.do(ctx, request{
		op:     "updating item",
		method: http.MethodPatch,
		table:  TableItems,
		query:  url.Values{"id": {eq(strconv.Itoa(id))}},
		body:   patch,
		prefer: []string{"return=representation"},
	}, &rows)
	if err != nil {
		return nil, err
	}
	return first("updating item", rows)
}

// DeleteItem removes one catalog item.
func (c *Client) DeleteItem(ctx context.Context, id int) error {
	return c.do(ctx, request{
		op:     "deleting item",
		method: http.MethodDelete,
		table:  TableItems,
		query:  url.Values{"id": {eq(strconv.Itoa(id))}},
	}, nil)
}

// ListProjects returns projects, most recently updated first.
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := c.do(ctx, request{
		op:     "listing projects",
		method: http.MethodGet,
		table:  TableProjects,
		query:  url.Values{"order": {"updated_at.desc"}},
	}, &projects)
	return projects, err
}

// DeleteProject removes one project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     "deleting project",
		method: http.MethodDelete,
		table:  TableProjects,
		query:  url.Values{"id": {eq(id)}},
	}, nil)
}

// ListProjectItems returns the line items of one project.
func (c *Client) ListProjectItems(ctx context.Context, projectID string) ([]models.ProjectItem, error) {
	var items []models.ProjectItem
	err := c.do(ctx, request{
		op:     "listing project items",
		method: http.MethodGet,
		table:  TableProjectItems,
		query:  url.Values{"project_id": {eq(projectID)}},
	}, &items)
	return items, err
}

// DeleteProjectItem removes one line item.
func (c *Client) DeleteProjectItem(ctx context.Context, id int) error {
	return c.do(ctx, request{
		op:     "deleting project item",
		method: http.MethodDelete,
		table:  TableProjectItems,
		query:  url.Values{"id": {eq(strconv.Itoa(id))}},
	}, nil)
}

// GetIndirectCosts returns the markup record of one project, or nil.
func (c *Client) GetIndirectCosts(ctx context.Context, projectID string) (*models.IndirectCosts, error) {
	var rows []models.IndirectCosts
	err := c.do(ctx, request{
		op:     "getting indirect costs",
		method: http.MethodGet,
		table:  TableIndirectCosts,
		query:  url.Values{"project_id": {eq(projectID)}},
	}, &rows)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// upsert posts rows and merges them into existing rows with the same key.
func upsert[T any](ctx context.Context, c *Client, table string, rows []T, conflict string) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	op := "upserting " + table
	var q url.Values
	if conflict != "" {
		q = url.Values{"on_conflict": {conflict}}
	}
	var stored []json.RawMessage
	err := c.do(ctx, request{
		op:     op,
		method: http.MethodPost,
		table:  table,
		query:  q,
		body:   rows,
		prefer: []string{"resolution=merge-duplicates", "return=representation"},
	}, &stored)
	return len(stored), err
}

// UpsertItems inserts or replaces catalog items by id.
func (c *Client) UpsertItems(ctx context.Context, items []models.Item) (int, error) {
	return upsert(ctx, c, TableItems, items, "")
}

// UpsertProjects inserts or replaces projects by id.
func (c *Client) UpsertProjects(ctx context.Context, projects []models.Project) (int, error) {
	return upsert(ctx, c, TableProjects, projects, "")
}

// UpsertProjectItems inserts or replaces line items by id.
func (c *Client) UpsertProjectItems(ctx context.Context, items []models.ProjectItem) (int, error) {
	return upsert(ctx, c, TableProjectItems, items, "")
}

// UpsertIndirectCosts inserts or replaces markup records by project.
func (c *Client) UpsertIndirectCosts(ctx context.Context, records []models.IndirectCosts) (int, error) {
	return upsert(ctx, c, TableIndirectCosts, records, "project_id")
}
