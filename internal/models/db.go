package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents an admin-panel operator.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	DisplayName    string    `db:"display_name"`
	Role           UserRole  `db:"role"`
	HashedPassword string    `db:"hashed_password"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// WebsiteContent is one editable section slot of the public site
// (e.g. "hero", "about", "portfolio"). Sections like portfolio may have
// multiple rows; Metadata carries section-specific extras as JSONB.
type WebsiteContent struct {
	ID        uuid.UUID       `db:"id"`
	Section   string          `db:"section"`
	Title     string          `db:"title"`
	Content   string          `db:"content"`
	Metadata  json.RawMessage `db:"metadata"`
	ImageURL  *string         `db:"image_url"`
	IsActive  bool            `db:"is_active"`
	UserID    *uuid.UUID      `db:"user_id"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Service is one entry of the agency's services section.
type Service struct {
	ID           uuid.UUID `db:"id"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Icon         string    `db:"icon"`
	DisplayOrder int       `db:"display_order"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Testimonial is a client quote shown on the public site.
type Testimonial struct {
	ID            uuid.UUID `db:"id"`
	ClientName    string    `db:"client_name"`
	ClientCompany string    `db:"client_company"`
	Quote         string    `db:"quote"`
	Rating        int       `db:"rating"`
	AvatarURL     *string   `db:"avatar_url"`
	IsActive      bool      `db:"is_active"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ClientLogo is one entry of the client-logos strip.
type ClientLogo struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	ImageURL     string    `db:"image_url"`
	WebsiteURL   *string   `db:"website_url"`
	DisplayOrder int       `db:"display_order"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// FormSubmission is a contact-form entry from the public site.
type FormSubmission struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     *string   `db:"phone"`
	Subject   *string   `db:"subject"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Conversation is a live-chat session between one customer and the
// support team. Never hard-deleted by the chat flow itself.
type Conversation struct {
	ID                 uuid.UUID          `db:"id"`
	CustomerName       string             `db:"customer_name"`
	CustomerPhone      string             `db:"customer_phone"`
	CustomerEmail      *string            `db:"customer_email"`
	CustomerCompany    *string            `db:"customer_company"`
	Platform           string             `db:"platform"`
	Status             ConversationStatus `db:"status"`
	LastMessageContent *string            `db:"last_message_content"`
	LastMessageAt      *time.Time         `db:"last_message_at"`
	UnreadCount        int                `db:"unread_count"`
	Rating             *int               `db:"rating"`
	Feedback           *string            `db:"feedback"`
	StartedAt          time.Time          `db:"started_at"`
	EndedAt            *time.Time         `db:"ended_at"`
	EmailSent          bool               `db:"email_sent"`
	CreatedAt          time.Time          `db:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at"`
}

// Message is one chat message. Append-only, ordered by CreatedAt.
type Message struct {
	ID             uuid.UUID  `db:"id"`
	ConversationID uuid.UUID  `db:"conversation_id"`
	SenderType     SenderType `db:"sender_type"`
	SenderName     string     `db:"sender_name"`
	Content        string     `db:"content"`
	MessageType    string     `db:"message_type"` // "text" in this scope
	CreatedAt      time.Time  `db:"created_at"`
}

// Lead is a CRM contact record for a prospective customer. A denormalized
// copy of customer contact info, created alongside the first conversation
// or a converted form submission; the chat flow never updates it afterward.
type Lead struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Phone     string    `db:"phone"`
	Email     *string   `db:"email"`
	Company   *string   `db:"company"`
	Source    string    `db:"source"` // "live_chat", "contact_form", "manual"
	Status    string    `db:"status"` // "new", "contacted", "qualified", "won", "lost"
	Owner     string    `db:"owner"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Quotation is a quote document sent to a prospect. Items are stored as a
// JSONB array of DocumentItem.
type Quotation struct {
	ID            uuid.UUID       `db:"id"`
	Number        string          `db:"number"`
	LeadID        *uuid.UUID      `db:"lead_id"`
	ClientName    string          `db:"client_name"`
	ClientEmail   *string         `db:"client_email"`
	ClientCompany *string         `db:"client_company"`
	Items         json.RawMessage `db:"items"`
	Subtotal      float64         `db:"subtotal"`
	TaxRate       float64         `db:"tax_rate"`
	Total         float64         `db:"total"`
	Status        string          `db:"status"` // "draft", "sent", "accepted", "rejected"
	ValidUntil    *time.Time      `db:"valid_until"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// Invoice is a billing document. Items are stored as a JSONB array of
// DocumentItem.
type Invoice struct {
	ID            uuid.UUID       `db:"id"`
	Number        string          `db:"number"`
	QuotationID   *uuid.UUID      `db:"quotation_id"`
	ClientName    string          `db:"client_name"`
	ClientEmail   *string         `db:"client_email"`
	ClientCompany *string         `db:"client_company"`
	Items         json.RawMessage `db:"items"`
	Subtotal      float64         `db:"subtotal"`
	TaxRate       float64         `db:"tax_rate"`
	Total         float64         `db:"total"`
	Status        string          `db:"status"` // "draft", "sent", "paid", "overdue"
	DueDate       *time.Time      `db:"due_date"`
	PaidAt        *time.Time      `db:"paid_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// DocumentItem is one line of a quotation or invoice.
type DocumentItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// SiteSetting is one key/value row of the settings table. Value is JSONB;
// secret settings hold an AES-GCM ciphertext envelope instead of the plain
// value.
type SiteSetting struct {
	Key       string          `db:"key"`
	Value     json.RawMessage `db:"value"`
	IsSecret  bool            `db:"is_secret"`
	UpdatedAt time.Time       `db:"updated_at"`
}
