package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllStatuses(t *testing.T) {
	statuses := AllStatuses()
	require.Len(t, statuses, 6)
	assert.Equal(t, []Status{
		StatusPlaced,
		StatusConfirmed,
		StatusDelivering,
		StatusDelivered,
		StatusCancelled,
		StatusRefunded,
	}, statuses)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "exact", input: "PLACED", want: StatusPlaced},
		{name: "lowercase", input: "delivered", want: StatusDelivered},
		{name: "mixed case with spaces", input: "  Cancelled ", want: StatusCancelled},
		{name: "unknown", input: "SHIPPED", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{name: "forward one step", from: StatusPlaced, to: StatusConfirmed, allowed: true},
		{name: "forward skipping steps", from: StatusPlaced, to: StatusDelivered, allowed: true},
		{name: "confirmed to delivering", from: StatusConfirmed, to: StatusDelivering, allowed: true},
		{name: "delivered to refunded", from: StatusDelivered, to: StatusRefunded, allowed: true},
		{name: "cancelled to refunded", from: StatusCancelled, to: StatusRefunded, allowed: true},
		{name: "backward rejected", from: StatusDelivering, to: StatusConfirmed, allowed: false},
		{name: "self edge rejected", from: StatusConfirmed, to: StatusConfirmed, allowed: false},
		{name: "refunded is terminal", from: StatusRefunded, to: StatusDelivered, allowed: false},
		{name: "refunded cannot refund again", from: StatusRefunded, to: StatusRefunded, allowed: false},
		{name: "cancel from placed", from: StatusPlaced, to: StatusCancelled, allowed: true},
		{name: "cancel from delivered", from: StatusDelivered, to: StatusCancelled, allowed: true},
		{name: "cancel from refunded", from: StatusRefunded, to: StatusCancelled, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestWalletAdjustmentsFor(t *testing.T) {
	t.Run("no movement on forward steps", func(t *testing.T) {
		assert.Empty(t, WalletAdjustmentsFor(StatusPlaced))
		assert.Empty(t, WalletAdjustmentsFor(StatusConfirmed))
		assert.Empty(t, WalletAdjustmentsFor(StatusDelivering))
		assert.Empty(t, WalletAdjustmentsFor(StatusDelivered))
	})

	t.Run("cancel reverses the placement credit", func(t *testing.T) {
		adjs := WalletAdjustmentsFor(StatusCancelled)
		require.Len(t, adjs, 1)
		assert.Equal(t, WalletDebit, adjs[0].Direction)
		assert.Equal(t, int64(1), adjs[0].Multiplier)
	})

	t.Run("refund debits then compensates fivefold", func(t *testing.T) {
		adjs := WalletAdjustmentsFor(StatusRefunded)
		require.Len(t, adjs, 2)
		assert.Equal(t, WalletDebit, adjs[0].Direction)
		assert.Equal(t, int64(1), adjs[0].Multiplier)
		assert.Equal(t, WalletCredit, adjs[1].Direction)
		assert.Equal(t, int64(5), adjs[1].Multiplier)
	})
}
