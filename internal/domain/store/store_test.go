package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore("Doce Mineiro", "Artisan sweets", "food", "Belo Horizonte", "MG", "owner-1")
	require.NoError(t, err)
	return s
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name      string
		storeName string
		ownerID   string
		wantErr   error
	}{
		{name: "valid store", storeName: "Doce Mineiro", ownerID: "owner-1"},
		{name: "missing name", storeName: "  ", ownerID: "owner-1", wantErr: ErrNameRequired},
		{name: "missing owner", storeName: "Doce Mineiro", ownerID: "", wantErr: ErrOwnerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStore(tt.storeName, "", "food", "Belo Horizonte", "MG", tt.ownerID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StoreStatusPending, s.Status)
			assert.Equal(t, PaymentProviderAsaas, s.PaymentConfig.Provider)
			assert.Empty(t, s.PaymentConfig.APIKey)
			assert.False(t, s.PaymentConfig.IsConfigured())
			assert.Equal(t, 1, s.GetVersion())
			assert.Len(t, s.GetDomainEvents(), 1)
		})
	}
}

func TestStoreApprove(t *testing.T) {
	s := createTestStore(t)

	err := s.Approve()
	require.NoError(t, err)
	assert.Equal(t, StoreStatusApproved, s.Status)
	assert.True(t, s.CanSell())
	assert.Equal(t, 2, s.GetVersion())

	// decision is final
	assert.ErrorIs(t, s.Approve(), ErrAlreadyDecided)
	assert.ErrorIs(t, s.Reject(), ErrAlreadyDecided)
}

func TestStoreReject(t *testing.T) {
	s := createTestStore(t)

	err := s.Reject()
	require.NoError(t, err)
	assert.Equal(t, StoreStatusRejected, s.Status)
	assert.False(t, s.CanSell())

	assert.ErrorIs(t, s.Approve(), ErrAlreadyDecided)
}

func TestStoreStatusTransitions(t *testing.T) {
	tests := []struct {
		status    StoreStatus
		canDecide bool
		terminal  bool
	}{
		{StoreStatusPending, true, false},
		{StoreStatusApproved, false, true},
		{StoreStatusRejected, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.canDecide, tt.status.CanDecide())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}

	assert.False(t, StoreStatus("UNKNOWN").IsValid())
}

func TestStoreConfigurePayment(t *testing.T) {
	s := createTestStore(t)

	err := s.ConfigurePayment(PaymentProviderAsaas, "asaas-key-123")
	require.NoError(t, err)
	assert.True(t, s.PaymentConfig.IsConfigured())
	assert.Equal(t, "asaas-key-123", s.PaymentConfig.APIKey)

	assert.ErrorIs(t, s.ConfigurePayment(PaymentProvider("STRIPE"), "k"), ErrBadProvider)
	assert.ErrorIs(t, s.ConfigurePayment(PaymentProviderAsaas, "   "), ErrKeyRequired)
}

func TestStoreOwnership(t *testing.T) {
	s := createTestStore(t)
	assert.True(t, s.IsOwnedBy("owner-1"))
	assert.False(t, s.IsOwnedBy("owner-2"))
}
