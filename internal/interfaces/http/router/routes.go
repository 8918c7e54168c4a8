package router

import (
	"github.com/gin-gonic/gin"

	"github.com/valepresente/backend/internal/interfaces/http/handler"
)

// StoreRoutes wires the store catalog, registration and admin endpoints
type StoreRoutes struct {
	handler   *handler.StoreHandler
	auth      gin.HandlerFunc
	adminOnly gin.HandlerFunc
}

// NewStoreRoutes creates the store route registrar
func NewStoreRoutes(h *handler.StoreHandler, auth, adminOnly gin.HandlerFunc) *StoreRoutes {
	return &StoreRoutes{handler: h, auth: auth, adminOnly: adminOnly}
}

// RegisterRoutes implements RouteRegistrar
func (r *StoreRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	stores.GET("", r.handler.List)
	stores.POST("", r.auth, r.handler.Register)
	stores.GET("/mine", r.auth, r.handler.ListMine)
	stores.GET("/:id", r.handler.Get)
	stores.PUT("/:id/payment-config", r.auth, r.handler.ConfigurePayment)

	admin := rg.Group("/admin/stores", r.auth, r.adminOnly)
	admin.GET("", r.handler.ListAll)
	admin.POST("/:id/approve", r.handler.Approve)
	admin.POST("/:id/reject", r.handler.Reject)
	admin.DELETE("/:id", r.handler.Delete)
}

// VoucherRoutes wires voucher lookup, listing and redemption endpoints
type VoucherRoutes struct {
	handler *handler.VoucherHandler
	auth    gin.HandlerFunc
}

// NewVoucherRoutes creates the voucher route registrar
func NewVoucherRoutes(h *handler.VoucherHandler, auth gin.HandlerFunc) *VoucherRoutes {
	return &VoucherRoutes{handler: h, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *VoucherRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/vouchers", r.auth)
	vouchers.GET("/mine", r.handler.ListMine)
	vouchers.POST("/redeem", r.handler.Redeem)
	vouchers.GET("/:code", r.handler.GetByCode)

	rg.GET("/stores/:id/vouchers", r.auth, r.handler.ListByStore)
}

// PaymentRoutes wires the payment session lifecycle endpoints
type PaymentRoutes struct {
	handler *handler.PaymentHandler
	auth    gin.HandlerFunc
}

// NewPaymentRoutes creates the payment route registrar
func NewPaymentRoutes(h *handler.PaymentHandler, auth gin.HandlerFunc) *PaymentRoutes {
	return &PaymentRoutes{handler: h, auth: auth}
}

// RegisterRoutes implements RouteRegistrar
func (r *PaymentRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/payment-sessions", r.auth)
	sessions.POST("", r.handler.StartSession)
	sessions.GET("/:id", r.handler.GetSession)
	sessions.POST("/:id/confirm", r.handler.ConfirmSession)
}

// HealthRoutes wires the liveness and readiness probes
type HealthRoutes struct {
	handler *handler.HealthHandler
}

// NewHealthRoutes creates the health route registrar
func NewHealthRoutes(h *handler.HealthHandler) *HealthRoutes {
	return &HealthRoutes{handler: h}
}

// RegisterRoutes implements RouteRegistrar
func (r *HealthRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", r.handler.Health)
	rg.GET("/ready", r.handler.Ready)
}
