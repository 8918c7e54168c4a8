package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentapp "github.com/valepresente/backend/internal/application/payment"
	"github.com/valepresente/backend/internal/domain/payment"
	"github.com/valepresente/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles the PIX payment session lifecycle
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// StartSessionRequest represents a request to open a payment session for a
// voucher purchase
type StartSessionRequest struct {
	StoreID      string          `json:"store_id" binding:"required,uuid"`
	BuyerName    string          `json:"buyer_name" binding:"required,min=1,max=200" example:"João da Silva"`
	BuyerEmail   string          `json:"buyer_email" binding:"required,email,max=200" example:"joao@example.com"`
	BuyerCPFCNPJ string          `json:"buyer_cpf_cnpj" binding:"required,min=11,max=18" example:"12345678909"`
	ReceiverName string          `json:"receiver_name" binding:"required,min=1,max=200" example:"Maria da Silva"`
	Message      string          `json:"message" binding:"max=500" example:"Feliz aniversário!"`
	Amount       decimal.Decimal `json:"amount" binding:"required" example:"50.00"`
}

// SessionResponse represents a payment session in API responses
type SessionResponse struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Amount    string    `json:"amount"`
	ChargeID  string    `json:"charge_id,omitempty"`
	QRPayload string    `json:"qr_payload,omitempty"`
	QRImage   string    `json:"qr_image,omitempty"`
	Status    string    `json:"status"`
	VoucherID *string   `json:"voucher_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ConfirmSessionResponse bundles the session with the voucher it issued.
// Voucher is absent while the charge is still pending at the provider.
type ConfirmSessionResponse struct {
	Session SessionResponse  `json:"session"`
	Voucher *VoucherResponse `json:"voucher,omitempty"`
}

func toSessionResponse(s *payment.Session) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID.String(),
		StoreID:   s.Draft.StoreID.String(),
		Amount:    s.Draft.Amount.StringFixed(2),
		ChargeID:  s.ChargeID,
		QRPayload: s.QRPayload,
		QRImage:   s.QRImage,
		Status:    s.Status.String(),
		ExpiresAt: s.ExpiresAt,
		CreatedAt: s.CreatedAt,
	}
	if s.VoucherID != nil {
		id := s.VoucherID.String()
		resp.VoucherID = &id
	}
	return resp
}

// StartSession opens a PIX charge for the authenticated buyer and returns
// the session holding the QR data
func (h *PaymentHandler) StartSession(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	session, err := h.paymentService.StartSession(c.Request.Context(), paymentapp.StartRequest{
		StoreID:      uuid.MustParse(req.StoreID),
		BuyerID:      buyerID,
		BuyerName:    req.BuyerName,
		BuyerEmail:   req.BuyerEmail,
		BuyerCPFCNPJ: req.BuyerCPFCNPJ,
		ReceiverName: req.ReceiverName,
		Message:      req.Message,
		Amount:       req.Amount,
	})
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	h.Created(c, toSessionResponse(session))
}

// GetSession returns a payment session by id
func (h *PaymentHandler) GetSession(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.paymentService.GetSession(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	h.Success(c, toSessionResponse(session))
}

// ConfirmSession verifies the charge with the provider and issues the
// voucher. A still-pending charge returns the session without a voucher so
// the client can poll again. Confirmation is idempotent: repeated calls
// after success return the same voucher.
func (h *PaymentHandler) ConfirmSession(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	result, err := h.paymentService.ConfirmSession(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.handlePaymentError(c, err)
		return
	}

	resp := ConfirmSessionResponse{Session: toSessionResponse(result.Session)}
	if !result.Pending() {
		v := toVoucherResponse(result.Voucher)
		resp.Voucher = &v
	}
	h.Success(c, resp)
}

// handlePaymentError maps provider transport failures to a gateway error
// before falling back to the shared domain error mapping.
func (h *PaymentHandler) handlePaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrGatewayRequestFailed),
		errors.Is(err, payment.ErrCustomerRejected):
		h.ErrorWithCode(c, dto.ErrCodeGateway, "Payment provider request failed")
	case errors.Is(err, payment.ErrChargeNotFound):
		h.ErrorWithCode(c, dto.ErrCodeGateway, "Charge not found at payment provider")
	default:
		h.HandleError(c, err)
	}
}
