package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	storeapp "github.com/valepresente/backend/internal/application/store"
	voucherapp "github.com/valepresente/backend/internal/application/voucher"
	"github.com/valepresente/backend/internal/domain/voucher"
)

func setupVoucherHandler(voucherRepo *MockVoucherRepository, storeRepo *MockStoreRepository) *VoucherHandler {
	voucherSvc := voucherapp.NewService(voucherRepo, storeRepo, &stubCodeGenerator{codes: []string{"VP-TEST-0001"}}, 90*24*time.Hour, zap.NewNop())
	storeSvc := storeapp.NewService(storeRepo, zap.NewNop())
	return NewVoucherHandler(voucherSvc, storeSvc)
}

func newActiveVoucher(t *testing.T, storeID uuid.UUID) *voucher.Voucher {
	t.Helper()
	v, err := voucher.NewVoucher("VP-TEST-0001", storeID, "buyer-1", "Maria", "Parabéns!", decimal.NewFromInt(50), 90*24*time.Hour)
	require.NoError(t, err)
	return v
}

func TestVoucherHandler_GetByCode_Success(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	v := newActiveVoucher(t, uuid.New())
	voucherRepo.On("FindByCode", mock.Anything, "VP-TEST-0001").Return(v, nil)

	router := setupTestRouter()
	router.GET("/vouchers/:code", handler.GetByCode)

	req := httptest.NewRequest(http.MethodGet, "/vouchers/VP-TEST-0001", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data VoucherResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "VP-TEST-0001", resp.Data.Code)
	assert.Equal(t, "50.00", resp.Data.Amount)
	assert.Equal(t, "ACTIVE", resp.Data.Status)
}

func TestVoucherHandler_GetByCode_NotFound(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	handler := setupVoucherHandler(voucherRepo, new(MockStoreRepository))

	voucherRepo.On("FindByCode", mock.Anything, "VP-GONE-0000").Return(nil, nil)

	router := setupTestRouter()
	router.GET("/vouchers/:code", handler.GetByCode)

	req := httptest.NewRequest(http.MethodGet, "/vouchers/VP-GONE-0000", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_VOUCHER_NOT_FOUND")
}

func TestVoucherHandler_ListMine(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	handler := setupVoucherHandler(voucherRepo, new(MockStoreRepository))

	v := newActiveVoucher(t, uuid.New())
	voucherRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f voucher.Filter) bool {
		return f.BuyerID == "buyer-1"
	})).Return([]voucher.Voucher{*v}, int64(1), nil)

	router := setupTestRouter()
	router.GET("/vouchers/mine", authAs("buyer-1"), handler.ListMine)

	req := httptest.NewRequest(http.MethodGet, "/vouchers/mine?status=ACTIVE", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []VoucherResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "buyer-1", resp.Data[0].BuyerID)
	voucherRepo.AssertExpectations(t)
}

func TestVoucherHandler_ListByStore_NotOwner(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)

	router := setupTestRouter()
	router.GET("/stores/:id/vouchers", authAs("intruder"), handler.ListByStore)

	req := httptest.NewRequest(http.MethodGet, "/stores/"+st.ID.String()+"/vouchers", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	voucherRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestVoucherHandler_ListByStore_Success(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	v := newActiveVoucher(t, st.ID)
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	voucherRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f voucher.Filter) bool {
		return f.StoreID != nil && *f.StoreID == st.ID
	})).Return([]voucher.Voucher{*v}, int64(1), nil)

	router := setupTestRouter()
	router.GET("/stores/:id/vouchers", authAs("owner-1"), handler.ListByStore)

	req := httptest.NewRequest(http.MethodGet, "/stores/"+st.ID.String()+"/vouchers", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	voucherRepo.AssertExpectations(t)
}

func TestVoucherHandler_Redeem_Success(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	v := newActiveVoucher(t, st.ID)
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	voucherRepo.On("FindByCode", mock.Anything, "VP-TEST-0001").Return(v, nil)
	voucherRepo.On("RedeemIfActive", mock.Anything, v.ID, mock.AnythingOfType("time.Time")).Return(true, nil)

	router := setupTestRouter()
	router.POST("/vouchers/redeem", authAs("owner-1"), handler.Redeem)

	body, _ := json.Marshal(RedeemVoucherRequest{Code: "VP-TEST-0001", StoreID: st.ID.String()})
	req := httptest.NewRequest(http.MethodPost, "/vouchers/redeem", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data VoucherResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "REDEEMED", resp.Data.Status)
	require.NotNil(t, resp.Data.RedeemedAt)
	voucherRepo.AssertExpectations(t)
}

func TestVoucherHandler_Redeem_WrongStore(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	v := newActiveVoucher(t, uuid.New())
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	voucherRepo.On("FindByCode", mock.Anything, "VP-TEST-0001").Return(v, nil)

	router := setupTestRouter()
	router.POST("/vouchers/redeem", authAs("owner-1"), handler.Redeem)

	body, _ := json.Marshal(RedeemVoucherRequest{Code: "VP-TEST-0001", StoreID: st.ID.String()})
	req := httptest.NewRequest(http.MethodPost, "/vouchers/redeem", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_WRONG_STORE")
}

func TestVoucherHandler_Redeem_LostRace(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	v := newActiveVoucher(t, st.ID)
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)
	voucherRepo.On("FindByCode", mock.Anything, "VP-TEST-0001").Return(v, nil)
	voucherRepo.On("RedeemIfActive", mock.Anything, v.ID, mock.AnythingOfType("time.Time")).Return(false, nil)

	router := setupTestRouter()
	router.POST("/vouchers/redeem", authAs("owner-1"), handler.Redeem)

	body, _ := json.Marshal(RedeemVoucherRequest{Code: "VP-TEST-0001", StoreID: st.ID.String()})
	req := httptest.NewRequest(http.MethodPost, "/vouchers/redeem", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_ALREADY_REDEEMED")
}

func TestVoucherHandler_Redeem_NotStoreOwner(t *testing.T) {
	voucherRepo := new(MockVoucherRepository)
	storeRepo := new(MockStoreRepository)
	handler := setupVoucherHandler(voucherRepo, storeRepo)

	st := newApprovedStore(t, "owner-1")
	storeRepo.On("FindByID", mock.Anything, st.ID).Return(st, nil)

	router := setupTestRouter()
	router.POST("/vouchers/redeem", authAs("intruder"), handler.Redeem)

	body, _ := json.Marshal(RedeemVoucherRequest{Code: "VP-TEST-0001", StoreID: st.ID.String()})
	req := httptest.NewRequest(http.MethodPost, "/vouchers/redeem", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	voucherRepo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
}
