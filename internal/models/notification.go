package models

// NotificationType is the severity-like class of an activity record.
type NotificationType string

const (
	NotifInfo    NotificationType = "INFO"
	NotifWarning NotificationType = "WARNING"
	NotifError   NotificationType = "ERROR"
	NotifSuccess NotificationType = "SUCCESS"
)

// AppNotification is an ephemeral activity record. The store keeps only
// the 50 most recent entries.
type AppNotification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	Timestamp int64            `json:"timestamp"` // epoch ms
}
