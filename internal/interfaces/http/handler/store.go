package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	storeapp "github.com/valepresente/backend/internal/application/store"
	"github.com/valepresente/backend/internal/domain/store"
	"github.com/valepresente/backend/internal/interfaces/http/dto"
)

// StoreHandler handles store registration, approval and payment configuration
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.Service
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.Service) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// RegisterStoreRequest represents a request to register a new store
type RegisterStoreRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200" example:"Floricultura Jardim"`
	Description string `json:"description" binding:"max=2000" example:"Flores e arranjos para todas as ocasiões"`
	Category    string `json:"category" binding:"max=100" example:"flowers"`
	City        string `json:"city" binding:"max=100" example:"Recife"`
	State       string `json:"state" binding:"max=2" example:"PE"`
}

// ConfigurePaymentRequest represents a request to set a store's PIX credentials
type ConfigurePaymentRequest struct {
	Provider string `json:"provider" binding:"required" example:"ASAAS"`
	APIKey   string `json:"api_key" binding:"required,min=1,max=500"`
}

// StoreListRequest carries the public store listing filters
type StoreListRequest struct {
	Category string `form:"category" binding:"max=100"`
	City     string `form:"city" binding:"max=100"`
	State    string `form:"state" binding:"max=2"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdminStoreListRequest carries the admin listing filters, including status
type AdminStoreListRequest struct {
	StoreListRequest
	Status string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

// StoreResponse represents a store in API responses. Payment credentials are
// never echoed back, only whether they are configured.
type StoreResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Category          string    `json:"category"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	Images            []string  `json:"images"`
	OwnerID           string    `json:"owner_id"`
	Status            string    `json:"status"`
	PaymentConfigured bool      `json:"payment_configured"`
	PaymentProvider   string    `json:"payment_provider,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toStoreResponse(s *store.Store) StoreResponse {
	resp := StoreResponse{
		ID:                s.ID.String(),
		Name:              s.Name,
		Description:       s.Description,
		Category:          s.Category,
		City:              s.City,
		State:             s.State,
		Images:            s.Images,
		OwnerID:           s.OwnerID,
		Status:            s.Status.String(),
		PaymentConfigured: s.PaymentConfig.IsConfigured(),
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if resp.PaymentConfigured {
		resp.PaymentProvider = string(s.PaymentConfig.Provider)
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	return resp
}

func toStoreResponses(stores []store.Store) []StoreResponse {
	out := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		out = append(out, toStoreResponse(&stores[i]))
	}
	return out
}

// Register files a new store application for the authenticated user.
// The store stays PENDING until an administrator decides.
func (h *StoreHandler) Register(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RegisterStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	st, err := h.storeService.Register(c.Request.Context(), storeapp.RegisterRequest{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		State:       req.State,
		OwnerID:     ownerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toStoreResponse(st))
}

// List returns approved stores for the public catalog
func (h *StoreHandler) List(c *gin.Context) {
	var req StoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	stores, total, err := h.storeService.ListApproved(c.Request.Context(), store.Filter{
		Category: req.Category,
		City:     req.City,
		State:    req.State,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toStoreResponses(stores), total, req.Page, req.PageSize)
}

// Get returns a single store by id
func (h *StoreHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	st, err := h.storeService.Get(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toStoreResponse(st))
}

// ListMine returns the stores owned by the authenticated user
func (h *StoreHandler) ListMine(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stores, err := h.storeService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toStoreResponses(stores))
}

// ConfigurePayment sets the store's PIX provider credentials. Only the owner
// of the store may call this.
func (h *StoreHandler) ConfigurePayment(c *gin.Context) {
	ownerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req ConfigurePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err = h.storeService.ConfigurePayment(
		c.Request.Context(),
		uuid.MustParse(uri.ID),
		ownerID,
		store.PaymentProvider(req.Provider),
		req.APIKey,
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"configured": true})
}

// Approve marks a pending store as approved
func (h *StoreHandler) Approve(c *gin.Context) {
	h.decide(c, h.storeService.Approve)
}

// Reject marks a pending store as rejected
func (h *StoreHandler) Reject(c *gin.Context) {
	h.decide(c, h.storeService.Reject)
}

func (h *StoreHandler) decide(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	id := uuid.MustParse(req.ID)
	if err := fn(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	st, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toStoreResponse(st))
}

// ListAll returns stores in any status, for administrators
func (h *StoreHandler) ListAll(c *gin.Context) {
	var req AdminStoreListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := store.Filter{
		Category: req.Category,
		City:     req.City,
		State:    req.State,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := store.StoreStatus(req.Status)
		filter.Status = &status
	}

	stores, total, err := h.storeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toStoreResponses(stores), total, req.Page, req.PageSize)
}

// Delete removes a store and its vouchers
func (h *StoreHandler) Delete(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	if err := h.storeService.Delete(c.Request.Context(), uuid.MustParse(req.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
