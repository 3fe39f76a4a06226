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
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/common"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	headers HeaderSource
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UseHeaders sets where auth headers come from. The auth service needs a
// client to log in, so it is attached after construction.
func (c *HTTPClient) UseHeaders(h HeaderSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers = h
}

type projectRequest struct {
	ProjectName string `json:"projectName"`
}

type projectItemRequest struct {
	ProjectName string `json:"projectName"`
	models.CatalogItem
}

// projectItemEditRequest names the item by its current fields and carries
// the replacement in the new* fields.
type projectItemEditRequest struct {
	projectItemRequest
	NewItemType string `json:"newItemType"`
	NewItemName string `json:"newItemName"`
	NewPartNo   string `json:"newPartNo"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", nil, models.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// ValidateToken succeeds on any 2xx. The body is optional and a role is read
// from it only when one is present.
func (c *HTTPClient) ValidateToken(ctx context.Context) (*models.ValidateTokenResponse, error) {
	var raw bytes.Buffer
	if err := c.do(ctx, http.MethodGet, "/validate-token", nil, nil, &raw); err != nil {
		return nil, err
	}
	var resp models.ValidateTokenResponse
	if b := bytes.TrimSpace(raw.Bytes()); len(b) > 0 {
		_ = json.Unmarshal(b, &resp)
	}
	return &resp, nil
}

func (c *HTTPClient) GetPass(ctx context.Context, passNo string) (*models.PassRecord, error) {
	var rec models.PassRecord
	if err := c.do(ctx, http.MethodGet, "/items/"+url.PathEscape(passNo), nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *HTTPClient) CreatePass(ctx context.Context, req models.CreatePassRequest) error {
	return c.do(ctx, http.MethodPost, "/items/in", nil, req, nil)
}

func (c *HTTPClient) UpdatePass(ctx context.Context, passNo string, req models.UpdatePassRequest) error {
	return c.do(ctx, http.MethodPut, "/items/"+url.PathEscape(passNo), nil, req, nil)
}

func (c *HTTPClient) UpdateItemsOut(ctx context.Context, passNo string, req models.ItemOutRequest) error {
	return c.do(ctx, http.MethodPut, "/items/out/"+url.PathEscape(passNo), nil, req, nil)
}

func (c *HTTPClient) DeletePass(ctx context.Context, passNo string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(passNo), nil, nil, nil)
}

func (c *HTTPClient) Search(ctx context.Context, q models.SearchQuery) (*models.SearchResult, error) {
	var res models.SearchResult
	if err := c.do(ctx, http.MethodGet, "/search", q.Params(), nil, &res); err != nil {
		return nil, err
	}
	if res.Count == 0 && len(res.Data) > 0 {
		res.Count = len(res.Data)
	}
	return &res, nil
}

func (c *HTTPClient) DownloadSearch(ctx context.Context, q models.SearchQuery) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.do(ctx, http.MethodGet, "/search/download", q.Params(), nil, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, u models.NewUser) error {
	return c.do(ctx, http.MethodPost, "/admin/users", nil, u, nil)
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]string, error) {
	var resp models.ProjectList
	if err := c.do(ctx, http.MethodGet, "/admin/projects/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

func (c *HTTPClient) ProjectItems(ctx context.Context, project string) ([]models.CatalogItem, error) {
	var resp models.ProjectItems
	q := url.Values{"projectName": []string{project}}
	if err := c.do(ctx, http.MethodGet, "/admin/projects/items", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *HTTPClient) AddProject(ctx context.Context, project string) error {
	return c.do(ctx, http.MethodPost, "/admin/projects/add", nil, projectRequest{ProjectName: project}, nil)
}

func (c *HTTPClient) AddProjectItem(ctx context.Context, project string, item models.CatalogItem) error {
	return c.do(ctx, http.MethodPost, "/admin/projects/items/add", nil, projectItemRequest{ProjectName: project, CatalogItem: item}, nil)
}

func (c *HTTPClient) EditProjectItem(ctx context.Context, project string, from, to models.CatalogItem) error {
	req := projectItemEditRequest{
		projectItemRequest: projectItemRequest{ProjectName: project, CatalogItem: from},
		NewItemType:        to.ItemType,
		NewItemName:        to.ItemName,
		NewPartNo:          to.PartNo,
	}
	return c.do(ctx, http.MethodPut, "/admin/projects/items/edit", nil, req, nil)
}

func (c *HTTPClient) DeleteProjectItem(ctx context.Context, project string, item models.CatalogItem) error {
	return c.do(ctx, http.MethodDelete, "/admin/projects/items/delete", nil, projectItemRequest{ProjectName: project, CatalogItem: item}, nil)
}

// do sends one request. A nil out discards the body, a *bytes.Buffer
// receives it raw, anything else is decoded as JSON.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	for k, v := range c.authHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	switch dst := out.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	case *bytes.Buffer:
		if _, err := dst.ReadFrom(resp.Body); err != nil {
			return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
		}
		return nil
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
		return nil
	}
}

func (c *HTTPClient) authHeaders() map[string]string {
	c.mu.RLock()
	h := c.headers
	c.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h.AuthHeaders()
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		switch {
		case payload.Error != "":
			apiErr.Message = payload.Error
		case payload.Message != "":
			apiErr.Message = payload.Message
		case payload.Detail != "":
			apiErr.Message = payload.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return apiErr
}

// IsAPIError reports whether err is a server answer rather than a
// transport failure, and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
