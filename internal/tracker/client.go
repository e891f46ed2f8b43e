// Package tracker is the adapter over the upstream project service's
// GraphQL API: paginated item queries, field introspection and creation,
// and single-field date writes. Authentication is delegated to a
// TokenSource so the client itself stays stateless.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// pageSize is the maximum items requested per page.
	pageSize = 100
	// maxItems caps FetchAllItems to bound memory and API use.
	maxItems = 1000
	// callTimeout is the per-call deadline; a timed-out write is logged
	// and counted as skipped by the caller, never retried here.
	callTimeout = 10 * time.Second
)

// ProjectRef identifies one upstream project.
type ProjectRef struct {
	Owner     string
	OwnerKind domain.OwnerKind
	Number    int
}

// Page is one page of project items.
type Page struct {
	ProjectID   string
	Items       []*domain.Item
	EndCursor   string
	HasNextPage bool
}

// ItemSet is the result of draining a project's pagination.
type ItemSet struct {
	ProjectID string
	Items     []*domain.Item
	// Truncated is set when the hard item cap cut the listing short.
	Truncated bool
}

// Field is one upstream field definition.
type Field struct {
	ID       string
	Name     string
	DataType string
}

// Client is the upstream project service surface the engine uses.
type Client interface {
	// FetchProjectPage loads one page of at most 100 items.
	FetchProjectPage(ctx context.Context, installationID int64, ref ProjectRef, cursor string) (*Page, error)
	// FetchAllItems drains the pagination, capped at 1,000 items.
	FetchAllItems(ctx context.Context, installationID int64, ref ProjectRef) (*ItemSet, error)
	// ListFields returns the project's field definitions and its node id.
	ListFields(ctx context.Context, installationID int64, ref ProjectRef) (string, []Field, error)
	// CreateDateField creates a DATE field with the given display name.
	CreateDateField(ctx context.Context, installationID int64, projectID, name string) (string, error)
	// CreateSingleSelectField creates a SINGLE_SELECT field with options.
	CreateSingleSelectField(ctx context.Context, installationID int64, projectID, name string, options []SelectOption) (string, error)
	// WriteDateField sets one date field on one item. Errors propagate;
	// the engine records them but does not retry.
	WriteDateField(ctx context.Context, installationID int64, projectID, itemID, fieldID string, date time.Time) error
}

// SelectOption is one option of a single-select field.
type SelectOption struct {
	Name  string
	Color string
}

type graphClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient builds the GraphQL client. baseURL is the service root, e.g.
// "https://api.github.com".
func NewClient(baseURL string, tokens TokenSource) Client {
	return &graphClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: callTimeout},
		tokens:  tokens,
	}
}

type graphRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphError struct {
	Message string `json:"message"`
}

type graphResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

// do posts one GraphQL document and decodes the data envelope into out.
func (c *graphClient) do(ctx context.Context, installationID int64, op, query string, vars map[string]any, out any) error {
	token, err := c.tokens.Token(ctx, installationID)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("resolving token: %w", err)}
	}

	body, err := json.Marshal(graphRequest{Query: query, Variables: vars})
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var envelope graphResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		return &domain.UpstreamError{Op: op, Err: fmt.Errorf("api error: %s", envelope.Errors[0].Message)}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return &domain.UpstreamError{Op: op, Err: fmt.Errorf("decoding data: %w", err)}
		}
	}
	return nil
}

func (c *graphClient) FetchProjectPage(ctx context.Context, installationID int64, ref ProjectRef, cursor string) (*Page, error) {
	query := orgItemsQuery
	ownerField := "organization"
	if ref.OwnerKind == domain.OwnerUser {
		query = userItemsQuery
		ownerField = "user"
	}

	vars := map[string]any{
		"owner":  ref.Owner,
		"number": ref.Number,
		"first":  pageSize,
	}
	if cursor != "" {
		vars["after"] = cursor
	}

	var data map[string]ownerData
	if err := c.do(ctx, installationID, "fetchProjectPage", query, vars, &data); err != nil {
		return nil, err
	}

	project := data[ownerField].ProjectV2
	if project == nil {
		return nil, fmt.Errorf("project %s/%d: %w", ref.Owner, ref.Number, domain.ErrNotFound)
	}

	page := &Page{
		ProjectID:   project.ID,
		EndCursor:   project.Items.PageInfo.EndCursor,
		HasNextPage: project.Items.PageInfo.HasNextPage,
	}
	for _, node := range project.Items.Nodes {
		if it := mapItem(node); it != nil {
			page.Items = append(page.Items, it)
		}
	}
	return page, nil
}

func (c *graphClient) FetchAllItems(ctx context.Context, installationID int64, ref ProjectRef) (*ItemSet, error) {
	set := &ItemSet{}
	cursor := ""
	for {
		page, err := c.FetchProjectPage(ctx, installationID, ref, cursor)
		if err != nil {
			return nil, err
		}
		set.ProjectID = page.ProjectID
		set.Items = append(set.Items, page.Items...)

		if len(set.Items) >= maxItems {
			set.Items = set.Items[:maxItems]
			set.Truncated = true
			log.Warn().
				Str("owner", ref.Owner).
				Int("projectNumber", ref.Number).
				Int("cap", maxItems).
				Msg("project item cap reached, truncating listing")
			return set, nil
		}
		if !page.HasNextPage {
			return set, nil
		}
		cursor = page.EndCursor
	}
}

func (c *graphClient) ListFields(ctx context.Context, installationID int64, ref ProjectRef) (string, []Field, error) {
	query := orgFieldsQuery
	ownerField := "organization"
	if ref.OwnerKind == domain.OwnerUser {
		query = userFieldsQuery
		ownerField = "user"
	}

	var data map[string]ownerFieldsData
	vars := map[string]any{"owner": ref.Owner, "number": ref.Number}
	if err := c.do(ctx, installationID, "listFields", query, vars, &data); err != nil {
		return "", nil, err
	}

	project := data[ownerField].ProjectV2
	if project == nil {
		return "", nil, fmt.Errorf("project %s/%d: %w", ref.Owner, ref.Number, domain.ErrNotFound)
	}

	fields := make([]Field, 0, len(project.Fields.Nodes))
	for _, node := range project.Fields.Nodes {
		fields = append(fields, Field(node))
	}
	return project.ID, fields, nil
}

func (c *graphClient) CreateDateField(ctx context.Context, installationID int64, projectID, name string) (string, error) {
	var data createFieldData
	vars := map[string]any{"projectId": projectID, "name": name}
	if err := c.do(ctx, installationID, "createDateField", createDateFieldMutation, vars, &data); err != nil {
		return "", err
	}
	return data.CreateProjectV2Field.ProjectV2Field.ID, nil
}

func (c *graphClient) CreateSingleSelectField(ctx context.Context, installationID int64, projectID, name string, options []SelectOption) (string, error) {
	opts := make([]map[string]any, 0, len(options))
	for _, o := range options {
		opts = append(opts, map[string]any{"name": o.Name, "color": o.Color, "description": ""})
	}

	var data createFieldData
	vars := map[string]any{"projectId": projectID, "name": name, "options": opts}
	if err := c.do(ctx, installationID, "createSingleSelectField", createSelectFieldMutation, vars, &data); err != nil {
		return "", err
	}
	return data.CreateProjectV2Field.ProjectV2Field.ID, nil
}

func (c *graphClient) WriteDateField(ctx context.Context, installationID int64, projectID, itemID, fieldID string, date time.Time) error {
	vars := map[string]any{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"date":      date.UTC().Format("2006-01-02"),
	}
	return c.do(ctx, installationID, "writeDateField", updateDateFieldMutation, vars, nil)
}
