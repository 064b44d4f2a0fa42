package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"curator/internal/config"
	"curator/internal/types"
)

// generateTimeout covers the long-running remote generation call; everything
// else uses the default client timeout.
const generateTimeout = 180 * time.Second

type Client struct {
	baseURL   string
	tokenPath string
	token     string
	http      *http.Client
}

func New() (*Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	tokenPath, err := cfg.ResolveTokenPath()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   cfg.HubBaseURL(),
		tokenPath: tokenPath,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	_ = c.loadToken()
	return c, nil
}

func NewWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SearchSimilar(ctx context.Context, text string, k int, minSimilarity float64) (*SearchResponse, error) {
	req := SearchRequest{Text: text, K: k, MinSimilarity: minSimilarity}
	var resp SearchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/prompts/search", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Analyze(ctx context.Context, target, locale string) (*AnalyzeResponse, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("target is required")
	}
	req := AnalyzeRequest{Target: target, Locale: strings.TrimSpace(locale)}
	var resp AnalyzeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/analyze", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) LoadTopicPrompts(ctx context.Context, topics []string) (map[string][]*types.Prompt, error) {
	if len(topics) == 0 {
		return map[string][]*types.Prompt{}, nil
	}
	var resp TopicPromptsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/topics/prompts", TopicPromptsRequest{Topics: topics}, true, &resp); err != nil {
		return nil, err
	}
	if resp.Prompts == nil {
		resp.Prompts = map[string][]*types.Prompt{}
	}
	return resp.Prompts, nil
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Target) == "" {
		return nil, errors.New("target is required")
	}
	if len(req.Topics) == 0 {
		return nil, errors.New("at least one topic is required")
	}
	var resp GenerateResponse
	if err := c.doJSONWithTimeout(ctx, http.MethodPost, "/v1/generate", req, true, &resp, generateTimeout); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreatePrompts(ctx context.Context, texts []string) (*CreatePromptsResponse, error) {
	if len(texts) == 0 {
		return &CreatePromptsResponse{}, nil
	}
	var resp CreatePromptsResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/prompts", CreatePromptsRequest{Texts: texts}, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListGroups(ctx context.Context) ([]*types.Group, error) {
	var resp GroupsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/groups", nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

func (c *Client) GetGroup(ctx context.Context, id int64) (*types.Group, error) {
	var group types.Group
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/v1/groups/%d", id), nil, true, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) CreateGroup(ctx context.Context, title string, brand *types.BrandInfo) (*types.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("group title is required")
	}
	var group types.Group
	if err := c.doJSON(ctx, http.MethodPost, "/v1/groups", CreateGroupRequest{Title: title, Brand: brand}, true, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) UpdateGroup(ctx context.Context, id int64, req UpdateGroupRequest) (*types.Group, error) {
	var group types.Group
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/v1/groups/%d", id), req, true, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/v1/groups/%d", id), nil, true, nil)
}

func (c *Client) AddBindings(ctx context.Context, groupID int64, promptIDs []int64) (*BindingChange, error) {
	if len(promptIDs) == 0 {
		return &BindingChange{}, nil
	}
	var resp BindingChange
	path := fmt.Sprintf("/v1/groups/%d/bindings", groupID)
	if err := c.doJSON(ctx, http.MethodPost, path, BindingsRequest{PromptIDs: promptIDs}, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveBindings(ctx context.Context, groupID int64, promptIDs []int64) error {
	if len(promptIDs) == 0 {
		return nil
	}
	path := fmt.Sprintf("/v1/groups/%d/bindings/remove", groupID)
	return c.doJSON(ctx, http.MethodPost, path, BindingsRequest{PromptIDs: promptIDs}, true, nil)
}

func (c *Client) GetBalance(ctx context.Context) (*types.Balance, error) {
	var balance types.Balance
	if err := c.doJSON(ctx, http.MethodGet, "/v1/billing/balance", nil, true, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (c *Client) GetGenerationPrice(ctx context.Context) (*types.GenerationPrice, error) {
	var price types.GenerationPrice
	if err := c.doJSON(ctx, http.MethodGet, "/v1/billing/generation-price", nil, true, &price); err != nil {
		return nil, err
	}
	return &price, nil
}

func (c *Client) GetReportPreview(ctx context.Context, groupID int64) (*ReportPreviewResponse, error) {
	var resp ReportPreviewResponse
	path := fmt.Sprintf("/v1/groups/%d/report-preview", groupID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, requireAuth bool, out any) error {
	return c.doJSONWithClient(ctx, method, path, body, requireAuth, out, c.http)
}

func (c *Client) doJSONWithTimeout(ctx context.Context, method, path string, body any, requireAuth bool, out any, timeout time.Duration) error {
	client := c.http
	if timeout > 0 {
		client = &http.Client{
			Timeout:   timeout,
			Transport: c.http.Transport,
		}
	}
	return c.doJSONWithClient(ctx, method, path, body, requireAuth, out, client)
}

func (c *Client) doJSONWithClient(ctx context.Context, method, path string, body any, requireAuth bool, out any, httpClient *http.Client) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requireAuth {
		if err := c.ensureToken(); err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) ensureToken() error {
	if strings.TrimSpace(c.token) == "" {
		if err := c.loadToken(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.token) == "" {
		return errors.New("hub token not found; set one with `curator help`")
	}
	return nil
}

func (c *Client) loadToken() error {
	if c.tokenPath == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.token = ""
			return nil
		}
		return err
	}
	c.token = strings.TrimSpace(string(data))
	return nil
}
