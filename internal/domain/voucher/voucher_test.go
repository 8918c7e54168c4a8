package voucher

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 90 * 24 * time.Hour

func createTestVoucher(t *testing.T) *Voucher {
	t.Helper()
	v, err := NewVoucher("VP-8X29-KLM4", uuid.New(), "buyer-1", "Maria", "Feliz aniversário", decimal.NewFromInt(150), testTTL)
	require.NoError(t, err)
	return v
}

func TestNewVoucher(t *testing.T) {
	storeID := uuid.New()

	tests := []struct {
		name     string
		amount   decimal.Decimal
		receiver string
		wantErr  error
	}{
		{name: "valid", amount: decimal.NewFromInt(150), receiver: "Maria"},
		{name: "zero amount", amount: decimal.Zero, receiver: "Maria", wantErr: ErrAmountNotPositive},
		{name: "negative amount", amount: decimal.NewFromInt(-10), receiver: "Maria", wantErr: ErrAmountNotPositive},
		{name: "missing receiver", amount: decimal.NewFromInt(150), receiver: "", wantErr: ErrReceiverRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVoucher("VP-8X29-KLM4", storeID, "buyer-1", tt.receiver, "", tt.amount, testTTL)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, VoucherStatusActive, v.Status)
			assert.Equal(t, "VP-8X29-KLM4|"+storeID.String()+"|150.00", v.Token)
			assert.WithinDuration(t, v.IssuedAt.Add(testTTL), v.ExpiresAt, time.Second)
			assert.Nil(t, v.RedeemedAt)
			assert.Len(t, v.GetDomainEvents(), 1)
		})
	}
}

func TestVoucherRedeem(t *testing.T) {
	v := createTestVoucher(t)
	now := time.Now().UTC()

	err := v.Redeem(v.StoreID, now)
	require.NoError(t, err)
	assert.Equal(t, VoucherStatusRedeemed, v.Status)
	require.NotNil(t, v.RedeemedAt)
	assert.Equal(t, now, *v.RedeemedAt)
	assert.Equal(t, 2, v.GetVersion())

	// second attempt fails
	assert.ErrorIs(t, v.Redeem(v.StoreID, now), ErrAlreadyRedeemed)
}

func TestVoucherRedeemChecks(t *testing.T) {
	now := time.Now().UTC()

	t.Run("wrong store", func(t *testing.T) {
		v := createTestVoucher(t)
		err := v.CheckRedeemable(uuid.New(), now)
		assert.ErrorIs(t, err, ErrWrongStore)
		assert.Equal(t, VoucherStatusActive, v.Status)
	})

	t.Run("expired by clock", func(t *testing.T) {
		v := createTestVoucher(t)
		late := v.ExpiresAt.Add(time.Minute)
		assert.ErrorIs(t, v.CheckRedeemable(v.StoreID, late), ErrExpired)
	})

	t.Run("wrong store wins over expiry", func(t *testing.T) {
		v := createTestVoucher(t)
		late := v.ExpiresAt.Add(time.Minute)
		assert.ErrorIs(t, v.CheckRedeemable(uuid.New(), late), ErrWrongStore)
	})

	t.Run("redeemable", func(t *testing.T) {
		v := createTestVoucher(t)
		assert.NoError(t, v.CheckRedeemable(v.StoreID, now))
	})
}

func TestVoucherMarkExpired(t *testing.T) {
	v := createTestVoucher(t)

	assert.False(t, v.MarkExpired(time.Now().UTC()))
	assert.Equal(t, VoucherStatusActive, v.Status)

	late := v.ExpiresAt.Add(time.Minute)
	assert.True(t, v.MarkExpired(late))
	assert.Equal(t, VoucherStatusExpired, v.Status)

	// already expired, nothing to do
	assert.False(t, v.MarkExpired(late))
}

func TestVoucherStatus(t *testing.T) {
	tests := []struct {
		status   VoucherStatus
		terminal bool
	}{
		{VoucherStatusActive, false},
		{VoucherStatusRedeemed, true},
		{VoucherStatusExpired, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}

	assert.False(t, VoucherStatus("CANCELLED").IsValid())
}
