package event

const AdminPasswordResetRequestedDestination string = "admin_password_reset_requested"
const AdminPasswordResetRequestedConsumerNotification string = "admin_password_reset_requested_notification"

// HeaderCorrelationID carries the correlation id across the broker.
const HeaderCorrelationID string = "cID"

type AdminPasswordResetRequestedMessage struct {
	EventID    string `json:"event_id"`
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	LocaleCode string `json:"locale_code"`
	Token      string `json:"token"`
}
