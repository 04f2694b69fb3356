package client

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
	"time"

	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/book"
	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/simonvc/miniledger-balances/internal/store"
)

var _ book.Resolver = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the server at baseURL. A zero timeout means 30s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) UpsertBook(ctx context.Context, settings *ledger.BookSettings) (*ledger.BookSettings, error) {
	var result ledger.BookSettings
	if err := c.put(ctx, "/api/v1/books/"+url.PathEscape(settings.ID), settings, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*ledger.BookSettings, error) {
	var result ledger.BookSettings
	if err := c.get(ctx, "/api/v1/books/"+url.PathEscape(id), &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrBookNotFound, id)
	}
	return &result, nil
}

func (c *Client) ListBooks(ctx context.Context) ([]ledger.BookSettings, error) {
	var result []ledger.BookSettings
	if err := c.get(ctx, "/api/v1/books", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SeedChart loads the starter chart into a book.
func (c *Client) SeedChart(ctx context.Context, bookID string) (*store.ChartResult, error) {
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/v1/books/"+url.PathEscape(bookID)+"/chart", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	var result store.ChartResult
	if err := c.doRequest(req, &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrBookNotFound, bookID)
	}
	return &result, nil
}

func (c *Client) UpsertAccount(ctx context.Context, bookID string, acct *ledger.Account) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.put(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/accounts", acct, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAccount resolves account metadata by name. A missing account yields
// ledger.ErrAccountNotFound.
func (c *Client) GetAccount(ctx context.Context, bookID, name string) (*ledger.Account, error) {
	var result ledger.Account
	path := "/api/v1/books/" + url.PathEscape(bookID) + "/accounts/" + url.PathEscape(name)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrAccountNotFound, name)
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, bookID string) ([]ledger.Account, error) {
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/accounts", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpsertGroup(ctx context.Context, bookID string, grp *ledger.Group) (*ledger.Group, error) {
	var result ledger.Group
	if err := c.put(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/groups", grp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetGroup resolves group metadata by name. A missing group yields
// ledger.ErrGroupNotFound.
func (c *Client) GetGroup(ctx context.Context, bookID, name string) (*ledger.Group, error) {
	var result ledger.Group
	path := "/api/v1/books/" + url.PathEscape(bookID) + "/groups/" + url.PathEscape(name)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrGroupNotFound, name)
	}
	return &result, nil
}

func (c *Client) ListGroups(ctx context.Context, bookID string) ([]ledger.Group, error) {
	var result []ledger.Group
	if err := c.get(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/groups", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PushSnapshot uploads a raw balances payload for a book.
func (c *Client) PushSnapshot(ctx context.Context, bookID string, payload []byte) (*ledger.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/api/v1/books/"+url.PathEscape(bookID)+"/snapshots", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result ledger.Snapshot
	if err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListSnapshots(ctx context.Context, bookID string) ([]ledger.Snapshot, error) {
	var result []ledger.Snapshot
	if err := c.get(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/snapshots", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetSnapshot(ctx context.Context, id string) (*ledger.Snapshot, error) {
	var result ledger.Snapshot
	if err := c.get(ctx, "/api/v1/snapshots/"+url.PathEscape(id), &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrSnapshotNotFound, id)
	}
	return &result, nil
}

func (c *Client) DeleteSnapshot(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.baseURL+"/api/v1/snapshots/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if err := c.doRequest(req, nil); err != nil {
		return notFoundAs(err, ledger.ErrSnapshotNotFound, id)
	}
	return nil
}

func (c *Client) LatestSnapshot(ctx context.Context, bookID string) (*ledger.Snapshot, error) {
	var result ledger.Snapshot
	if err := c.get(ctx, "/api/v1/books/"+url.PathEscape(bookID)+"/snapshots/latest", &result); err != nil {
		return nil, notFoundAs(err, ledger.ErrSnapshotNotFound, bookID)
	}
	return &result, nil
}

// OpenReport downloads a snapshot and its book settings and decodes them
// into a local report. Properties resolve back through this client.
func (c *Client) OpenReport(ctx context.Context, snapshotID string) (*balances.Report, error) {
	snap, err := c.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	settings, err := c.GetBook(ctx, snap.BookID)
	if err != nil {
		return nil, err
	}
	return balances.ParseReport(snap.Payload, book.New(*settings, c))
}

func (c *Client) Container(ctx context.Context, snapshotID, name string) (*balances.ContainerSummary, error) {
	var result balances.ContainerSummary
	path := "/api/v1/snapshots/" + url.PathEscape(snapshotID) + "/containers/" + url.PathEscape(name)
	if err := c.get(ctx, path, &result); err != nil {
		return nil, notFoundAs(err, balances.ErrContainerNotFound, name)
	}
	return &result, nil
}

// Table builds a data table on the server. Amounts come back as
// json.Number, dates and formatted values as strings, missing cells as nil.
// An empty container means the whole report.
func (c *Client) Table(ctx context.Context, snapshotID, container string, opts balances.Options) ([][]any, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/v1/snapshots/"+url.PathEscape(snapshotID)+"/table?"+TableQuery(container, opts).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var result struct {
		Rows [][]any `json:"rows"`
	}
	if err := c.doRequest(req, &result); err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// TableQuery encodes table options as query parameters.
func TableQuery(container string, opts balances.Options) url.Values {
	q := url.Values{}
	if opts.Type != "" {
		q.Set("type", string(opts.Type))
	}
	if opts.Expanded != 0 {
		q.Set("expanded", balances.FormatExpansion(opts.Expanded))
	}
	if container != "" {
		q.Set("container", container)
	}
	flags := map[string]bool{
		"transposed":   opts.Transposed,
		"raw":          opts.Raw,
		"trial":        opts.Trial,
		"period":       opts.Period,
		"properties":   opts.Properties,
		"formatValues": opts.FormatValues,
		"formatDates":  opts.FormatDates,
		"hideDates":    opts.HideDates,
		"hideNames":    opts.HideNames,
	}
	for name, v := range flags {
		if v {
			q.Set(name, strconv.FormatBool(v))
		}
	}
	return q
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/books", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "PUT", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

type apiError struct {
	Error string `json:"error"`
}

// notFoundAs replaces a 404 with sentinel so callers can test for it.
func notFoundAs(err, sentinel error, name string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %q", sentinel, name)
	}
	return err
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
		}
		return &APIError{Status: resp.StatusCode, Message: string(bodyBytes)}
	}

	if result != nil {
		dec := json.NewDecoder(bytes.NewReader(bodyBytes))
		dec.UseNumber()
		if err := dec.Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
