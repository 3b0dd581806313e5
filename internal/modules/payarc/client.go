package payarc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	apiTimeout    = 30 * time.Second
	refundTimeout = 45 * time.Second
)

// Client issues authenticated calls against the PayArc REST API.
// No call retries automatically; a failure is reported to the caller,
// which decides whether the multi-step workflow aborts.
type Client struct {
	cfg    Config
	api    *http.Client // customers/tokens/charges
	refund *http.Client // refunds (longer timeout)
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	var transport http.RoundTripper
	if cfg.Sandbox {
		// Sandbox certs are not always trusted. Never use this against live.
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		cfg:    cfg,
		api:    &http.Client{Timeout: apiTimeout, Transport: transport},
		refund: &http.Client{Timeout: refundTimeout, Transport: transport},
		logger: logger,
	}
}

type dataEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type customerData struct {
	CustomerID string `json:"customer_id"`
}

type tokenData struct {
	ID      string `json:"id"`
	TokenID string `json:"token_id"`
}

type chargeData struct {
	ID       string `json:"id"`
	ChargeID string `json:"charge_id"`
}

type refundData struct {
	ID string `json:"id"`
}

// FindCustomerByEmail returns the first gateway customer matching email.
// Lookup failures degrade to "not found" so the caller falls back to
// creating a new customer instead of aborting the charge.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (string, bool) {
	u := c.cfg.BaseURL() + "/customers?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false
	}
	c.setHeaders(req, "")

	res, err := c.api.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "payarc customer lookup failed", "err", err)
		return "", false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.WarnContext(ctx, "payarc customer lookup non-2xx", "status", res.StatusCode)
		return "", false
	}

	var body struct {
		Data []customerData `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		c.logger.WarnContext(ctx, "payarc customer lookup parse failed", "err", err)
		return "", false
	}
	if len(body.Data) == 0 || body.Data[0].CustomerID == "" {
		return "", false
	}
	return body.Data[0].CustomerID, true
}

func (c *Client) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	payload := map[string]string{"email": email}
	if name != "" {
		payload["name"] = name
	}

	raw, err := c.doJSON(ctx, c.api, http.MethodPost, "/customers", payload, "create_customer")
	if err != nil {
		return "", err
	}

	var data customerData
	if err := json.Unmarshal(raw, &data); err != nil || data.CustomerID == "" {
		return "", &GatewayError{Op: "create_customer", StatusCode: http.StatusOK, Message: "missing customer_id in response"}
	}

	c.logger.InfoContext(ctx, "payarc customer created", "customer_id", data.CustomerID)
	return data.CustomerID, nil
}

type CardDetails struct {
	Number     string
	ExpMonth   string
	ExpYear    string
	CVV        string
	HolderName string
}

// CreateToken exchanges card + billing data for a single-use token.
// The tokens endpoint takes form-encoded bodies, not JSON.
func (c *Client) CreateToken(ctx context.Context, card CardDetails, addr BillingAddress) (string, error) {
	number := strings.ReplaceAll(card.Number, " ", "")

	form := url.Values{}
	form.Set("card_source", "INTERNET")
	form.Set("card_number", number)
	form.Set("exp_month", card.ExpMonth)
	form.Set("exp_year", card.ExpYear)
	form.Set("cvv", card.CVV)
	form.Set("card_holder_name", card.HolderName)
	form.Set("country", addr.CountryCode)
	form.Set("city", addr.City)
	form.Set("address_line1", addr.Address1)
	form.Set("zip", addr.Zip)
	form.Set("state", addr.State)
	form.Set("state_code", addr.StateCode)
	form.Set("authorize_card", "0")

	// Card data never hits the logs; only the last four digits do.
	c.logger.InfoContext(ctx, "payarc tokenize",
		"card_last4", lastFour(number),
		"card_number", "[redacted]",
		"cvv", "[redacted]",
		"country", addr.CountryCode,
	)

	raw, err := c.doForm(ctx, c.api, http.MethodPost, "/tokens", form, "create_token")
	if err != nil {
		return "", err
	}

	var data tokenData
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", &GatewayError{Op: "create_token", StatusCode: http.StatusOK, Message: "malformed token response"}
	}
	tokenID := data.ID
	if tokenID == "" {
		tokenID = data.TokenID
	}
	if tokenID == "" {
		return "", &GatewayError{Op: "create_token", StatusCode: http.StatusOK, Message: "missing token id in response"}
	}
	return tokenID, nil
}

// AttachCardToCustomer links a token to a gateway customer. Best-effort:
// the charge can proceed on the bare token, so callers treat a failure
// here as a warning, not an abort.
func (c *Client) AttachCardToCustomer(ctx context.Context, customerID, tokenID string) error {
	payload := map[string]string{"token_id": tokenID}
	_, err := c.doJSON(ctx, c.api, http.MethodPatch, "/customers/"+url.PathEscape(customerID), payload, "attach_card")
	return err
}

type ChargeRequest struct {
	TokenID      string
	AmountMinor  int64 // smallest currency unit
	Currency     string
	Email        string
	Description  string
	CustomerName string
}

func (c *Client) CreateCharge(ctx context.Context, in ChargeRequest) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(in.AmountMinor, 10))
	form.Set("currency", in.Currency)
	form.Set("token_id", in.TokenID)
	form.Set("email", in.Email)
	form.Set("capture", "1")
	form.Set("description", in.Description)
	if in.CustomerName != "" {
		form.Set("customer_name", in.CustomerName)
	}
	if c.cfg.StatementDescriptor != "" {
		form.Set("statement_descriptor", c.cfg.StatementDescriptor)
	}

	raw, err := c.doForm(ctx, c.api, http.MethodPost, "/charges", form, "create_charge")
	if err != nil {
		return "", err
	}

	var data chargeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", &GatewayError{Op: "create_charge", StatusCode: http.StatusOK, Message: "malformed charge response"}
	}
	chargeID := data.ID
	if chargeID == "" {
		chargeID = data.ChargeID
	}
	if chargeID == "" {
		return "", &GatewayError{Op: "create_charge", StatusCode: http.StatusOK, Message: "missing charge id in response"}
	}

	c.logger.InfoContext(ctx, "payarc charge created", "charge_id", chargeID, "amount", in.AmountMinor, "currency", in.Currency)
	return chargeID, nil
}

func (c *Client) CreateRefund(ctx context.Context, chargeID, reason string) (string, error) {
	payload := map[string]string{"reason": reason}
	path := "/charges/" + url.PathEscape(chargeID) + "/refunds"

	raw, err := c.doJSON(ctx, c.refund, http.MethodPost, path, payload, "create_refund")
	if err != nil {
		return "", err
	}

	var data refundData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return "", &GatewayError{Op: "create_refund", StatusCode: http.StatusOK, Message: "missing refund id in response"}
	}

	c.logger.InfoContext(ctx, "payarc refund created", "charge_id", chargeID, "refund_id", data.ID)
	return data.ID, nil
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, payload any, op string) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL()+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, "application/json")

	return c.do(hc, req, op)
}

func (c *Client) doForm(ctx context.Context, hc *http.Client, method, path string, form url.Values, op string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL()+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, "application/x-www-form-urlencoded")

	return c.do(hc, req, op)
}

func (c *Client) do(hc *http.Client, req *http.Request, op string) (json.RawMessage, error) {
	res, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payarc %s: %w", op, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("payarc %s: read body: %w", op, err)
	}

	var env dataEnvelope
	parseErr := json.Unmarshal(raw, &env)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := ""
		if parseErr == nil {
			msg = env.Message
		}
		return nil, &GatewayError{Op: op, StatusCode: res.StatusCode, Message: msg}
	}
	if parseErr != nil {
		return nil, &GatewayError{Op: op, StatusCode: res.StatusCode, Message: "malformed JSON response"}
	}
	return env.Data, nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
}

func lastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
