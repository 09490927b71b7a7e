package models

// Notification types.
const (
	NotifSuccess = "success"
	NotifInfo    = "info"
	NotifWarning = "warning"
)

// MaxNotifications bounds the log; the oldest entry is evicted beyond this.
const MaxNotifications = 20

// AppNotification is one entry in the most-recent-first event log.
type AppNotification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"` // epoch millis
	IsRead    bool   `json:"isRead"`
	Type      string `json:"type"`
}
