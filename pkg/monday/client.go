// Package monday is a client for the Monday.com GraphQL API. It covers the
// board, column, and item operations used by CRM sync.
package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/resilience"
)

const defaultAPIURL = "https://api.monday.com/v2"

// Column describes a board column. IDs are assigned remotely at creation
// time, so callers resolve columns by title at runtime.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// ColumnValue is the text rendering of one column on an item.
type ColumnValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Item is a board item with its column text values.
type Item struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ItemsPage is one page of a board's items. An empty Cursor means the last
// page has been reached.
type ItemsPage struct {
	Cursor string `json:"cursor"`
	Items  []Item `json:"items"`
}

// Client exposes the GraphQL operations used by CRM sync.
type Client interface {
	CreateBoard(ctx context.Context, name string) (string, error)
	CreateColumn(ctx context.Context, boardID, title, columnType string) error
	ListColumns(ctx context.Context, boardID string) ([]Column, error)
	ListItems(ctx context.Context, boardID string, limit int) (*ItemsPage, error)
	NextItems(ctx context.Context, cursor string, limit int) (*ItemsPage, error)
	CreateItem(ctx context.Context, boardID, itemName string, columnValues map[string]any) (string, error)
	ChangeColumnValues(ctx context.Context, boardID, itemID string, columnValues map[string]any) error
}

// Option configures the client.
type Option func(*httpClient)

// WithAPIURL overrides the default API endpoint.
func WithAPIURL(url string) Option {
	return func(c *httpClient) {
		c.apiURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey string
	apiURL string
	http   *http.Client
}

// NewClient creates a Monday.com API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute posts a GraphQL document and unmarshals the data payload into out.
func (c *httpClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return eris.Wrap(err, "monday: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "monday: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("API-Version", "2024-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "monday: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "monday: read response")
	}

	if resp.StatusCode != http.StatusOK {
		zap.L().Error("monday: API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody),
		)
		err := eris.Errorf("monday: unexpected status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(err, resp.StatusCode)
		}
		return err
	}

	var result graphqlResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return eris.Wrap(err, "monday: unmarshal response")
	}
	if len(result.Errors) > 0 {
		return eris.Errorf("monday: graphql error: %s", result.Errors[0].Message)
	}

	if out != nil {
		if err := json.Unmarshal(result.Data, out); err != nil {
			return eris.Wrap(err, "monday: unmarshal data")
		}
	}
	return nil
}

func (c *httpClient) CreateBoard(ctx context.Context, name string) (string, error) {
	const query = `
	mutation ($name: String!) {
		create_board(board_name: $name, board_kind: public) {
			id
		}
	}`

	var data struct {
		CreateBoard struct {
			ID string `json:"id"`
		} `json:"create_board"`
	}
	if err := c.execute(ctx, query, map[string]any{"name": name}, &data); err != nil {
		return "", err
	}
	return data.CreateBoard.ID, nil
}

func (c *httpClient) CreateColumn(ctx context.Context, boardID, title, columnType string) error {
	const query = `
	mutation ($board_id: ID!, $title: String!, $column_type: ColumnType!) {
		create_column(board_id: $board_id, title: $title, column_type: $column_type) {
			id
		}
	}`

	return c.execute(ctx, query, map[string]any{
		"board_id":    boardID,
		"title":       title,
		"column_type": columnType,
	}, nil)
}

func (c *httpClient) ListColumns(ctx context.Context, boardID string) ([]Column, error) {
	const query = `
	query ($board_id: ID!) {
		boards(ids: [$board_id]) {
			columns {
				id
				title
				type
			}
		}
	}`

	var data struct {
		Boards []struct {
			Columns []Column `json:"columns"`
		} `json:"boards"`
	}
	if err := c.execute(ctx, query, map[string]any{"board_id": boardID}, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return nil, eris.Errorf("monday: board %s not found", boardID)
	}
	return data.Boards[0].Columns, nil
}

func (c *httpClient) ListItems(ctx context.Context, boardID string, limit int) (*ItemsPage, error) {
	const query = `
	query ($board_id: ID!, $limit: Int!) {
		boards(ids: [$board_id]) {
			items_page(limit: $limit) {
				cursor
				items {
					id
					name
					column_values {
						id
						text
					}
				}
			}
		}
	}`

	var data struct {
		Boards []struct {
			ItemsPage ItemsPage `json:"items_page"`
		} `json:"boards"`
	}
	if err := c.execute(ctx, query, map[string]any{"board_id": boardID, "limit": limit}, &data); err != nil {
		return nil, err
	}
	if len(data.Boards) == 0 {
		return &ItemsPage{}, nil
	}
	return &data.Boards[0].ItemsPage, nil
}

func (c *httpClient) NextItems(ctx context.Context, cursor string, limit int) (*ItemsPage, error) {
	const query = `
	query ($cursor: String!, $limit: Int!) {
		next_items_page(cursor: $cursor, limit: $limit) {
			cursor
			items {
				id
				name
				column_values {
					id
					text
				}
			}
		}
	}`

	var data struct {
		NextItemsPage ItemsPage `json:"next_items_page"`
	}
	if err := c.execute(ctx, query, map[string]any{"cursor": cursor, "limit": limit}, &data); err != nil {
		return nil, err
	}
	return &data.NextItemsPage, nil
}

func (c *httpClient) CreateItem(ctx context.Context, boardID, itemName string, columnValues map[string]any) (string, error) {
	const query = `
	mutation ($board_id: ID!, $item_name: String!, $column_values: JSON!) {
		create_item(board_id: $board_id, item_name: $item_name, column_values: $column_values) {
			id
		}
	}`

	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return "", eris.Wrap(err, "monday: marshal column values")
	}

	var data struct {
		CreateItem struct {
			ID string `json:"id"`
		} `json:"create_item"`
	}
	err = c.execute(ctx, query, map[string]any{
		"board_id":      boardID,
		"item_name":     itemName,
		"column_values": string(encoded),
	}, &data)
	if err != nil {
		return "", err
	}
	return data.CreateItem.ID, nil
}

func (c *httpClient) ChangeColumnValues(ctx context.Context, boardID, itemID string, columnValues map[string]any) error {
	const query = `
	mutation ($board_id: ID!, $item_id: ID!, $column_values: JSON!) {
		change_multiple_column_values(board_id: $board_id, item_id: $item_id, column_values: $column_values) {
			id
		}
	}`

	encoded, err := json.Marshal(columnValues)
	if err != nil {
		return eris.Wrap(err, "monday: marshal column values")
	}

	return c.execute(ctx, query, map[string]any{
		"board_id":      boardID,
		"item_id":       itemID,
		"column_values": string(encoded),
	}, nil)
}
