package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/valepresente/backend/internal/domain/payment"
)

const (
	asaasDefaultBaseURL = "https://api.asaas.com/v3"

	asaasCustomersPath = "/customers"
	asaasPaymentsPath  = "/payments"
	asaasPixQRCodePath = "/payments/%s/pixQrCode"

	asaasBillingTypePix = "PIX"

	// error codes the provider returns when the customer already exists
	asaasCodeEmailExists   = "CUSTOMER_EMAIL_ALREADY_EXISTS"
	asaasCodeCPFCNPJExists = "CUSTOMER_CPF_CNPJ_ALREADY_EXISTS"
)

// charge statuses as reported by the provider
const (
	asaasStatusPending           = "PENDING"
	asaasStatusReceived          = "RECEIVED"
	asaasStatusReceivedInCash    = "RECEIVED_IN_CASH"
	asaasStatusConfirmed         = "CONFIRMED"
	asaasStatusOverdue           = "OVERDUE"
	asaasStatusRefunded          = "REFUNDED"
	asaasStatusRefundRequested   = "REFUND_REQUESTED"
	asaasStatusAwaitingRiskCheck = "AWAITING_RISK_ANALYSIS"
)

// AsaasAdapter implements payment.PixGateway against the Asaas REST API.
// Credentials are supplied per call, one Asaas account per store.
type AsaasAdapter struct {
	baseURL    string
	httpClient *http.Client
}

// NewAsaasAdapter creates a new Asaas adapter
func NewAsaasAdapter(baseURL string, timeout time.Duration) *AsaasAdapter {
	if baseURL == "" {
		baseURL = asaasDefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AsaasAdapter{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FindOrCreateCustomer creates the customer at the provider, falling back to a
// lookup by email when the provider reports the customer already exists.
func (a *AsaasAdapter) FindOrCreateCustomer(ctx context.Context, creds payment.Credentials, req payment.CustomerRequest) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	body, err := json.Marshal(asaasCustomerRequest{
		Name:    req.Name,
		Email:   req.Email,
		CPFCNPJ: req.CPFCNPJ,
	})
	if err != nil {
		return "", fmt.Errorf("asaas: failed to marshal customer: %w", err)
	}

	respBody, status, err := a.doRequest(ctx, creds, http.MethodPost, asaasCustomersPath, body)
	if err != nil {
		return "", err
	}

	if status < 400 {
		var customer asaasCustomer
		if err := json.Unmarshal(respBody, &customer); err != nil {
			return "", fmt.Errorf("asaas: failed to parse customer: %w", err)
		}
		return customer.ID, nil
	}

	var errResp asaasErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err != nil || len(errResp.Errors) == 0 {
		return "", fmt.Errorf("%w: status %d", payment.ErrGatewayRequestFailed, status)
	}
	if !errResp.hasCode(asaasCodeEmailExists) && !errResp.hasCode(asaasCodeCPFCNPJExists) {
		return "", fmt.Errorf("%w: %s - %s", payment.ErrCustomerRejected, errResp.Errors[0].Code, errResp.Errors[0].Description)
	}

	return a.findCustomerByEmail(ctx, creds, req.Email)
}

// findCustomerByEmail resolves an existing customer id by email
func (a *AsaasAdapter) findCustomerByEmail(ctx context.Context, creds payment.Credentials, email string) (string, error) {
	path := asaasCustomersPath + "?email=" + url.QueryEscape(email)

	respBody, status, err := a.doRequest(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", fmt.Errorf("%w: status %d", payment.ErrGatewayRequestFailed, status)
	}

	var list asaasCustomerList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return "", fmt.Errorf("asaas: failed to parse customer list: %w", err)
	}
	if len(list.Data) == 0 {
		return "", fmt.Errorf("%w: duplicate customer not found by email", payment.ErrCustomerRejected)
	}
	return list.Data[0].ID, nil
}

// CreateCharge opens a PIX charge and fetches its QR code
func (a *AsaasAdapter) CreateCharge(ctx context.Context, creds payment.Credentials, req payment.CreateChargeRequest) (*payment.CreateChargeResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(asaasChargeRequest{
		Customer:          req.CustomerID,
		BillingType:       asaasBillingTypePix,
		Value:             req.Amount.StringFixed(2),
		DueDate:           req.DueDate.Format("2006-01-02"),
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
	})
	if err != nil {
		return nil, fmt.Errorf("asaas: failed to marshal charge: %w", err)
	}

	respBody, status, err := a.doRequest(ctx, creds, http.MethodPost, asaasPaymentsPath, body)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, a.requestError(respBody, status)
	}

	var charge asaasCharge
	if err := json.Unmarshal(respBody, &charge); err != nil {
		return nil, fmt.Errorf("asaas: failed to parse charge: %w", err)
	}

	response := &payment.CreateChargeResponse{
		ChargeID: charge.ID,
		Status:   mapAsaasStatus(charge.Status),
	}

	qr, err := a.fetchPixQRCode(ctx, creds, charge.ID)
	if err != nil {
		return nil, err
	}
	response.QRPayload = qr.Payload
	response.QRImage = qr.EncodedImage

	// Some accounts take a moment to render the image. The payload alone is
	// enough to build one locally.
	if response.QRImage == "" && response.QRPayload != "" {
		if png, err := qrcode.Encode(response.QRPayload, qrcode.Medium, 256); err == nil {
			response.QRImage = base64.StdEncoding.EncodeToString(png)
		}
	}

	return response, nil
}

// fetchPixQRCode fetches the scannable PIX data of an open charge
func (a *AsaasAdapter) fetchPixQRCode(ctx context.Context, creds payment.Credentials, chargeID string) (*asaasPixQRCode, error) {
	path := fmt.Sprintf(asaasPixQRCodePath, url.PathEscape(chargeID))

	respBody, status, err := a.doRequest(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, a.requestError(respBody, status)
	}

	var qr asaasPixQRCode
	if err := json.Unmarshal(respBody, &qr); err != nil {
		return nil, fmt.Errorf("asaas: failed to parse qr code: %w", err)
	}
	return &qr, nil
}

// GetChargeStatus fetches the authoritative charge status from the provider
func (a *AsaasAdapter) GetChargeStatus(ctx context.Context, creds payment.Credentials, chargeID string) (payment.ChargeStatus, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}
	if chargeID == "" {
		return "", payment.ErrChargeNotFound
	}

	path := asaasPaymentsPath + "/" + url.PathEscape(chargeID)

	respBody, status, err := a.doRequest(ctx, creds, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound {
		return "", payment.ErrChargeNotFound
	}
	if status >= 400 {
		return "", a.requestError(respBody, status)
	}

	var charge asaasCharge
	if err := json.Unmarshal(respBody, &charge); err != nil {
		return "", fmt.Errorf("asaas: failed to parse charge: %w", err)
	}
	return mapAsaasStatus(charge.Status), nil
}

// doRequest performs an authenticated API call and returns the raw body
func (a *AsaasAdapter) doRequest(ctx context.Context, creds payment.Credentials, method, path string, body []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("asaas: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", creds.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", payment.ErrGatewayRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("asaas: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// requestError shapes a provider error into a wrapped gateway error
func (a *AsaasAdapter) requestError(respBody []byte, status int) error {
	var errResp asaasErrorResponse
	if err := json.Unmarshal(respBody, &errResp); err == nil && len(errResp.Errors) > 0 {
		return fmt.Errorf("%w: %s - %s", payment.ErrGatewayRequestFailed, errResp.Errors[0].Code, errResp.Errors[0].Description)
	}
	return fmt.Errorf("%w: status %d", payment.ErrGatewayRequestFailed, status)
}

// mapAsaasStatus translates a provider status into the domain charge status
func mapAsaasStatus(status string) payment.ChargeStatus {
	switch status {
	case asaasStatusPending, asaasStatusAwaitingRiskCheck:
		return payment.ChargeStatusPending
	case asaasStatusReceived, asaasStatusReceivedInCash:
		return payment.ChargeStatusReceived
	case asaasStatusConfirmed:
		return payment.ChargeStatusConfirmed
	case asaasStatusOverdue:
		return payment.ChargeStatusOverdue
	case asaasStatusRefunded, asaasStatusRefundRequested:
		return payment.ChargeStatusRefunded
	default:
		return payment.ChargeStatusFailed
	}
}

// Ensure AsaasAdapter implements payment.PixGateway
var _ payment.PixGateway = (*AsaasAdapter)(nil)
