package enums

import "fmt"

// TransactionRole is the perspective a user has on a transaction:
// Purchases for the buyer/borrower side, Sales for the seller/lender side.
type TransactionRole string

const (
	RolePurchases TransactionRole = "Purchases"
	RoleSales     TransactionRole = "Sales"
)

var validTransactionRoles = []TransactionRole{
	RolePurchases,
	RoleSales,
}

// String implements fmt.Stringer.
func (r TransactionRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known TransactionRole.
func (r TransactionRole) IsValid() bool {
	for _, candidate := range validTransactionRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseTransactionRole converts raw input into a TransactionRole.
func ParseTransactionRole(value string) (TransactionRole, error) {
	for _, candidate := range validTransactionRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction role %q", value)
}
