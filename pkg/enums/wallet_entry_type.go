package enums

import "fmt"

// WalletEntryType classifies immutable wallet ledger entries.
type WalletEntryType string

const (
	WalletEntryDebit         WalletEntryType = "debit"
	WalletEntryCredit        WalletEntryType = "credit"
	WalletEntryTopUp         WalletEntryType = "topup"
	WalletEntryEscrowHold    WalletEntryType = "escrow_hold"
	WalletEntryEscrowRelease WalletEntryType = "escrow_release"
	WalletEntryEscrowRefund  WalletEntryType = "escrow_refund"
)

var validWalletEntryTypes = []WalletEntryType{
	WalletEntryDebit,
	WalletEntryCredit,
	WalletEntryTopUp,
	WalletEntryEscrowHold,
	WalletEntryEscrowRelease,
	WalletEntryEscrowRefund,
}

// String implements fmt.Stringer.
func (w WalletEntryType) String() string {
	return string(w)
}

// IsValid reports whether the value is a known WalletEntryType.
func (w WalletEntryType) IsValid() bool {
	for _, candidate := range validWalletEntryTypes {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWalletEntryType converts raw input into a WalletEntryType.
func ParseWalletEntryType(value string) (WalletEntryType, error) {
	for _, candidate := range validWalletEntryTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet entry type %q", value)
}
