package enums

import "fmt"

// NotificationType classifies rows fanned out by the notification worker.
type NotificationType string

const (
	NotificationTransactionUpdate NotificationType = "transaction_update"
	NotificationPaymentReceived   NotificationType = "payment_received"
	NotificationNewMessage        NotificationType = "new_message"
	NotificationRequestReviewed   NotificationType = "request_reviewed"
)

var validNotificationTypes = []NotificationType{
	NotificationTransactionUpdate,
	NotificationPaymentReceived,
	NotificationNewMessage,
	NotificationRequestReviewed,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
