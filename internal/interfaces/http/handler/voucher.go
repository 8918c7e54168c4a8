package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	storeapp "github.com/valepresente/backend/internal/application/store"
	voucherapp "github.com/valepresente/backend/internal/application/voucher"
	"github.com/valepresente/backend/internal/domain/voucher"
	"github.com/valepresente/backend/internal/interfaces/http/dto"
)

// VoucherHandler handles voucher lookup, listing and redemption
type VoucherHandler struct {
	BaseHandler
	voucherService *voucherapp.Service
	storeService   *storeapp.Service
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(voucherService *voucherapp.Service, storeService *storeapp.Service) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		storeService:   storeService,
	}
}

// errForbidden signals the response has already been written by an
// ownership check.
var errForbidden = errors.New("forbidden")

// VoucherCodeRequest binds the voucher code path parameter
type VoucherCodeRequest struct {
	Code string `uri:"code" binding:"required,min=1,max=32"`
}

// RedeemVoucherRequest represents a request to redeem a voucher at a store
type RedeemVoucherRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=32" example:"VP-A3F7K2M9PQ"`
	StoreID string `json:"store_id" binding:"required,uuid"`
}

// VoucherListRequest carries the voucher listing filters
type VoucherListRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE REDEEMED EXPIRED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (r *VoucherListRequest) toFilter() voucher.Filter {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = 20
	}
	f := voucher.Filter{
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	if r.Status != "" {
		status := voucher.VoucherStatus(r.Status)
		f.Status = &status
	}
	return f
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Token        string     `json:"token"`
	StoreID      string     `json:"store_id"`
	BuyerID      string     `json:"buyer_id"`
	ReceiverName string     `json:"receiver_name"`
	Message      string     `json:"message,omitempty"`
	Amount       string     `json:"amount"`
	Status       string     `json:"status"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	RedeemedAt   *time.Time `json:"redeemed_at,omitempty"`
}

func toVoucherResponse(v *voucher.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:           v.ID.String(),
		Code:         v.Code,
		Token:        v.Token,
		StoreID:      v.StoreID.String(),
		BuyerID:      v.BuyerID,
		ReceiverName: v.ReceiverName,
		Message:      v.Message,
		Amount:       v.Amount.StringFixed(2),
		Status:       v.Status.String(),
		IssuedAt:     v.IssuedAt,
		ExpiresAt:    v.ExpiresAt,
		RedeemedAt:   v.RedeemedAt,
	}
}

func toVoucherResponses(vouchers []voucher.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		out = append(out, toVoucherResponse(&vouchers[i]))
	}
	return out
}

// GetByCode returns a voucher by its public code
func (h *VoucherHandler) GetByCode(c *gin.Context) {
	var req VoucherCodeRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid voucher code")
		return
	}

	v, err := h.voucherService.GetByCode(c.Request.Context(), req.Code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// ListMine returns the vouchers bought by the authenticated user
func (h *VoucherHandler) ListMine(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req VoucherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	vouchers, total, err := h.voucherService.ListByBuyer(c.Request.Context(), buyerID, req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toVoucherResponses(vouchers), total, req.Page, req.PageSize)
}

// ListByStore returns the vouchers issued against a store. The caller must
// own the store.
func (h *VoucherHandler) ListByStore(c *gin.Context) {
	storeID, err := h.authorizedStoreID(c)
	if err != nil {
		return
	}

	var req VoucherListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	vouchers, total, err := h.voucherService.ListByStore(c.Request.Context(), storeID, req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toVoucherResponses(vouchers), total, req.Page, req.PageSize)
}

// Redeem settles a voucher at the caller's store. Exactly one of N
// concurrent attempts succeeds.
func (h *VoucherHandler) Redeem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	storeID := uuid.MustParse(req.StoreID)
	if !h.ownsStore(c, storeID, userID) {
		return
	}

	v, err := h.voucherService.Redeem(c.Request.Context(), req.Code, storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toVoucherResponse(v))
}

// authorizedStoreID binds the store id from the path and checks the caller
// owns that store. On failure it writes the error response and returns a
// non-nil error.
func (h *VoucherHandler) authorizedStoreID(c *gin.Context) (uuid.UUID, error) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, err
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid store ID")
		return uuid.Nil, err
	}

	storeID := uuid.MustParse(uri.ID)
	if !h.ownsStore(c, storeID, userID) {
		return uuid.Nil, errForbidden
	}
	return storeID, nil
}

func (h *VoucherHandler) ownsStore(c *gin.Context, storeID uuid.UUID, userID string) bool {
	st, err := h.storeService.Get(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if st.OwnerID != userID {
		h.Forbidden(c, "You do not own this store")
		return false
	}
	return true
}
