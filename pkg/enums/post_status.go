package enums

import "fmt"

// PostStatus is the listing's visibility state.
type PostStatus string

const (
	PostStatusListed   PostStatus = "Listed"
	PostStatusUnlisted PostStatus = "Unlisted"
	PostStatusSold     PostStatus = "Sold"
)

var validPostStatuses = []PostStatus{
	PostStatusListed,
	PostStatusUnlisted,
	PostStatusSold,
}

// String implements fmt.Stringer.
func (p PostStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PostStatus.
func (p PostStatus) IsValid() bool {
	for _, candidate := range validPostStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePostStatus converts raw input into a PostStatus.
func ParsePostStatus(value string) (PostStatus, error) {
	for _, candidate := range validPostStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post status %q", value)
}
