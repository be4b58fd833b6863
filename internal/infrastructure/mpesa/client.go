// Package mpesa talks to the Safaricom Daraja API: OAuth tokens and
// Lipa na M-Pesa Online (STK push).
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"loanpap/pkg/id"
)

const (
	DefaultBaseURL = "https://sandbox.safaricom.co.ke"

	tokenKey         = "access_token"
	tokenExpiryGuard = 60 * time.Second
	timestampLayout  = "20060102150405"
)

// TokenCache stores the OAuth token between calls. cache.TokenStore satisfies it.
type TokenCache interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string, ttl time.Duration) error
}

type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	PassKey        string
	CallbackURL    string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
	tokens     TokenCache
	log        *zap.Logger
	now        func() time.Time
}

func NewClient(cfg Config, tokens TokenCache, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
		tokens:     tokens,
		log:        log,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken returns a cached token when one is still valid, otherwise it
// requests a new one with client credentials.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.tokens != nil {
		if tok, ok, err := c.tokens.Get(ctx, tokenKey); err == nil && ok {
			return tok, nil
		} else if err != nil {
			c.log.Warn("mpesa token cache read failed", zap.Error(err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("unable to build token request: %w", err)
	}
	creds := strings.TrimSpace(c.cfg.ConsumerKey) + ":" + strings.TrimSpace(c.cfg.ConsumerSecret)
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
	req.Header.Set("Cache-Control", "no-cache")

	status, body, err := c.do(req)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		c.log.Error("mpesa auth failed", zap.Int("status", status), zap.ByteString("body", body))
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, status)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.AccessToken == "" {
		return "", ErrDecode
	}
	tok := strings.TrimSpace(tr.AccessToken)

	if c.tokens != nil {
		ttl := 3599 * time.Second
		if secs, err := strconv.Atoi(tr.ExpiresIn); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
		if ttl > tokenExpiryGuard {
			if err := c.tokens.Set(ctx, tokenKey, tok, ttl-tokenExpiryGuard); err != nil {
				c.log.Warn("mpesa token cache write failed", zap.Error(err))
			}
		}
	}
	return tok, nil
}

type stkRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkResponse struct {
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	CustomerMessage     string `json:"CustomerMessage"`
	ResponseDescription string `json:"ResponseDescription"`
	ErrorCode           string `json:"errorCode"`
	ErrorMessage        string `json:"errorMessage"`
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(shortCode) + strings.TrimSpace(passKey) + timestamp))
}

// AccountReference is "PAY" followed by the last 8 characters of ref.
func AccountReference(ref string) string {
	return "PAY" + id.Suffix(ref, 8)
}

// WholeAmount truncates to whole shillings with a floor of 1.
func WholeAmount(amount decimal.Decimal) int64 {
	n := amount.IntPart()
	if n <= 0 {
		return 1
	}
	return n
}

// STKPush asks the customer's handset to authorise a payment and returns the
// CheckoutRequestID that the asynchronous callback will carry.
func (c *Client) STKPush(ctx context.Context, phone string, amount decimal.Decimal, reference string) (string, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	ts := c.now().Format(timestampLayout)
	shortCode := strings.TrimSpace(c.cfg.ShortCode)
	payload := stkRequest{
		BusinessShortCode: shortCode,
		Password:          Password(shortCode, c.cfg.PassKey, ts),
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            WholeAmount(amount),
		PartyA:            phone,
		PartyB:            shortCode,
		PhoneNumber:       phone,
		CallBackURL:       strings.TrimSpace(c.cfg.CallbackURL),
		AccountReference:  AccountReference(reference),
		TransactionDesc:   "LoanPayment",
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("unable to build stk request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.log.Info("mpesa stk push", zap.String("phone", phone), zap.Int64("amount", payload.Amount), zap.String("reference", payload.AccountReference))
	status, body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var res stkResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", ErrDecode
	}
	if status >= 200 && status < 300 && res.ResponseCode == "0" {
		if res.CheckoutRequestID == "" {
			return "", ErrMissingCheckoutID
		}
		return res.CheckoutRequestID, nil
	}

	msg := res.ErrorMessage
	if msg == "" {
		msg = res.ResponseDescription
	}
	if msg == "" {
		msg = "unknown mpesa error"
	}
	code := res.ResponseCode
	if code == "" {
		code = res.ErrorCode
	}
	c.log.Error("mpesa rejected stk push", zap.String("code", code), zap.String("message", msg))
	return "", &RejectedError{Status: status, Code: code, Message: msg}
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("unable to execute daraja request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("unable to read daraja response: %w", err)
	}
	return resp.StatusCode, body, nil
}
