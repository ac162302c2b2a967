package model

// Notification tells Recipient that Sender acted on SnippetID.
// Read only ever moves from false to true.
type Notification struct {
	NotificationID string `json:"notificationId"`
	Recipient      string `json:"recipient"`
	Sender         string `json:"sender"`
	SnippetID      string `json:"snippetId"`
	Type           string `json:"type"`
	CreatedAt      string `json:"createdAt"`
	Read           bool   `json:"read"`
}
