// Package client is the Go counterpart of the depot-sale front end's API
// layer: one HTTP client with bearer-token injection, a login redirect on
// 401/403 and one service per REST resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

// LoginPath is where the client sends the user when authentication is lost.
const LoginPath = "/login"

const errorBodyReadLimit int64 = 64 * 1024

// Client talks to the depot-sale REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenStore
	redirect   func(path string)

	Auth           *AuthService
	Sellers        *SellersService
	Buyers         *BuyersService
	Games          *GamesService
	Sessions       *SessionsService
	Deposits       *DepositsService
	Stocks         *StocksService
	Sales          *SalesService
	SaleDetails    *SaleDetailsService
	SaleOperations *SaleOperationsService
	Gestionnaires  *GestionnairesService
	Statistics     *StatisticsService
	Finance        *FinanceService
	CSVImport      *CSVImportService
	Invoices       *InvoicesService
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenStore sets where the bearer token is persisted.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

// WithRedirect registers the hook called with LoginPath after a 401/403.
func WithRedirect(fn func(path string)) Option {
	return func(c *Client) {
		c.redirect = fn
	}
}

// New builds a client for the API served at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    trimmed,
		tokens:     NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	c.Auth = &AuthService{c: c}
	c.Sellers = &SellersService{resource[types.Seller]{c: c, path: "/sellers", one: "du vendeur", many: "des vendeurs"}}
	c.Buyers = &BuyersService{resource[types.Buyer]{c: c, path: "/buyers", one: "de l'acheteur", many: "des acheteurs"}}
	c.Games = &GamesService{resource[types.Game]{c: c, path: "/games", one: "du jeu", many: "des jeux"}}
	c.Sessions = &SessionsService{resource[types.Session]{c: c, path: "/sessions", one: "de la session", many: "des sessions"}}
	c.Deposits = &DepositsService{resource[types.Deposit]{c: c, path: "/deposits", one: "du dépôt", many: "des dépôts"}}
	c.Stocks = &StocksService{resource[types.Stock]{c: c, path: "/stocks", one: "du stock", many: "des stocks"}}
	c.Sales = &SalesService{resource[types.Sale]{c: c, path: "/sales", one: "de la vente", many: "des ventes"}}
	c.SaleDetails = &SaleDetailsService{resource[types.SaleDetail]{c: c, path: "/saleDetails", one: "du détail de vente", many: "des détails de vente"}}
	c.SaleOperations = &SaleOperationsService{resource[types.SalesOperation]{c: c, path: "/saleOperations", one: "de l'opération", many: "des opérations"}}
	c.Gestionnaires = &GestionnairesService{resource[types.Gestionnaire]{c: c, path: "/gestionnaires", one: "du gestionnaire", many: "des gestionnaires"}}
	c.Statistics = &StatisticsService{c: c}
	c.Finance = &FinanceService{c: c}
	c.CSVImport = &CSVImportService{c: c}
	c.Invoices = &InvoicesService{c: c}
	return c, nil
}

// Tokens exposes the token store backing the client.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// File is a downloaded document.
type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

type request struct {
	action      string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	// public requests skip the login redirect: a 401 there is a plain error.
	public bool
}

// call sends a JSON request and decodes the "data" member of the envelope into out.
func (c *Client) call(ctx context.Context, action, method, path string, query url.Values, in, out any) error {
	return c.sendJSON(ctx, request{action: action, method: method, path: path, query: query}, in, out)
}

func (c *Client) sendJSON(ctx context.Context, req request, in, out any) error {
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &APIError{Action: req.action, Message: fallbackMessage(req.action), Err: err}
		}
		req.body = bytes.NewReader(payload)
		req.contentType = "application/json"
	}
	return c.send(ctx, req, func(resp *http.Response) error {
		return decodeData(resp, out)
	})
}

func (c *Client) download(ctx context.Context, action, path string) (*File, error) {
	var file *File
	err := c.send(ctx, request{action: action, method: http.MethodGet, path: path}, func(resp *http.Response) error {
		content, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		file = &File{
			Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
			ContentType: resp.Header.Get("Content-Type"),
			Content:     content,
		}
		return nil
	})
	return file, err
}

func (c *Client) upload(ctx context.Context, action, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return &APIError{Action: action, Message: fallbackMessage(action), Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &APIError{Action: action, Message: fallbackMessage(action), Err: err}
	}
	if err := form.Close(); err != nil {
		return &APIError{Action: action, Message: fallbackMessage(action), Err: err}
	}
	req := request{
		action:      action,
		method:      http.MethodPost,
		path:        path,
		body:        &buf,
		contentType: form.FormDataContentType(),
	}
	return c.send(ctx, req, func(resp *http.Response) error {
		return decodeData(resp, out)
	})
}

func (c *Client) send(ctx context.Context, r request, handle func(*http.Response) error) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return &APIError{Action: r.action, Message: fallbackMessage(r.action), Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if token, _ := c.tokens.Load(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &APIError{Action: r.action, Message: fallbackMessage(r.action), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if !r.public && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		return c.loginRequired(resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp, r.action)
	}
	if err := handle(resp); err != nil {
		return &APIError{Status: resp.StatusCode, Action: r.action, Message: fallbackMessage(r.action), Err: err}
	}
	return nil
}

// loginRequired drops the stored token and hands control to the redirect hook.
func (c *Client) loginRequired(status int) error {
	_ = c.tokens.Clear()
	if c.redirect != nil {
		c.redirect(LoginPath)
	}
	return &LoginRequiredError{Status: status, RedirectTo: LoginPath}
}

func decodeData(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response, action string) error {
	apiErr := &APIError{Status: resp.StatusCode, Action: action, Message: fallbackMessage(action)}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr.Code = envelope.Error.Code
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	}
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && strings.TrimSpace(flat.Message) != "" {
		apiErr.Message = strings.TrimSpace(flat.Message)
	}
	return apiErr
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
