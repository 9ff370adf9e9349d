// internal/models/recipient.go
package models

// Recipient is the contact record notifications are addressed to.
type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
