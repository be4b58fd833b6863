// Package client is a Go client for the LoanPap REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const refreshPath = "/api/auth/refresh"

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }

// WithSession shares a session between clients.
func WithSession(s *Session) Option { return func(c *Client) { c.session = s } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		session:    &Session{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Session() *Session { return c.session }

type request struct {
	method  string
	path    string
	body    any
	idemKey string
}

// do sends r and decodes a 2xx body into out. A 401 triggers one refresh
// and retry when a refresh token is held. Otherwise the session is cleared.
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, body, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && r.path != refreshPath {
		if c.session.RefreshToken() == "" || c.refresh(ctx) != nil {
			c.session.Clear()
			return ErrUnauthorized
		}
		if resp, body, err = c.send(ctx, r); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.session.Clear()
			return ErrUnauthorized
		}
	}
	return decode(resp, body, out)
}

func (c *Client) send(ctx context.Context, r request) (*http.Response, []byte, error) {
	var rd io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, rd)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.session.AccessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if r.idemKey != "" {
		req.Header.Set("Idempotency-Key", r.idemKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s %s: %w", r.method, r.path, err)
	}
	return resp, body, nil
}

func decode(resp *http.Response, body []byte, out any) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		apiErr := &APIError{}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	var out refreshResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   map[string]string{"refreshToken": c.session.RefreshToken()},
	}, &out)
	if err != nil {
		return err
	}
	c.session.Set(out.Token, out.RefreshToken)
	return nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: in}, &out); err != nil {
		return nil, err
	}
	c.session.Set(out.Token, out.RefreshToken)
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	c.session.Set(out.Token, out.RefreshToken)
	return &out, nil
}

// Logout tells the server and drops the tokens even if the call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

// Me returns the raw profile document.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/users/me"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Quote(ctx context.Context, amount float64, termMonths int) (*Quote, error) {
	var out Quote
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/loans/quote",
		body:   map[string]any{"amount": amount, "termMonths": termMonths},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Apply submits a loan application. A non-empty idemKey makes retries safe.
func (c *Client) Apply(ctx context.Context, in ApplyRequest, idemKey string) (*Loan, error) {
	var out Loan
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/loans", body: in, idemKey: idemKey}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Loan(ctx context.Context, loanID string) (*Loan, error) {
	var out Loan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/loans/" + url.PathEscape(loanID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Loans(ctx context.Context, page, size int) (*Page[Loan], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	var out Page[Loan]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/loans?" + q.Encode()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Pay(ctx context.Context, repaymentID, method, idemKey string) (*Repayment, error) {
	var out Repayment
	err := c.do(ctx, request{
		method:  http.MethodPost,
		path:    "/api/repayments/" + url.PathEscape(repaymentID) + "/pay",
		body:    map[string]string{"paymentMethod": method},
		idemKey: idemKey,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Repayment(ctx context.Context, repaymentID string) (*Repayment, error) {
	var out Repayment
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/repayments/" + url.PathEscape(repaymentID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
