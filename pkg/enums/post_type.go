package enums

import "fmt"

// PostType classifies a marketplace listing.
type PostType string

const (
	PostTypeSale             PostType = "Sale"
	PostTypeRent             PostType = "Rent"
	PostTypeTrade            PostType = "Trade"
	PostTypeEmergencyLending PostType = "Emergency Lending"
	PostTypePasaBuy          PostType = "PasaBuy"
	PostTypeGiveaway         PostType = "Giveaway"
)

var validPostTypes = []PostType{
	PostTypeSale,
	PostTypeRent,
	PostTypeTrade,
	PostTypeEmergencyLending,
	PostTypePasaBuy,
	PostTypeGiveaway,
}

// String implements fmt.Stringer.
func (p PostType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PostType.
func (p PostType) IsValid() bool {
	for _, candidate := range validPostTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePostType converts raw input into a PostType.
func ParsePostType(value string) (PostType, error) {
	for _, candidate := range validPostTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post type %q", value)
}
