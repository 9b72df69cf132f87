package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UserRole defines the access level of an admin-panel operator.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleAgent UserRole = "agent"
)

// --- Auth DTOs ---

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse defines the operator information returned by the API.
// Never includes the password hash.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        UserRole  `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

// CreateUserRequest defines the body for creating an operator account.
type CreateUserRequest struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
	Password    string   `json:"password"`
}

// UpdateUserRequest allows partial updates of an operator account.
type UpdateUserRequest struct {
	DisplayName *string   `json:"display_name"`
	Role        *UserRole `json:"role"`
	Password    *string   `json:"password"`
	IsActive    *bool     `json:"is_active"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Website content DTOs ---

// UpsertContentRequest defines the body for creating or updating a website
// content row.
type UpsertContentRequest struct {
	Section  string          `json:"section"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
	ImageURL *string         `json:"image_url,omitempty"`
	IsActive *bool           `json:"is_active,omitempty"`
}

// ContentResponse is the public representation of a content row.
type ContentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Section   string          `json:"section"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	ImageURL  *string         `json:"image_url,omitempty"`
	IsActive  bool            `json:"is_active"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// HeroResponse is the hero section plus the currently rotated headline.
type HeroResponse struct {
	ContentResponse
	Headline      string   `json:"headline"`
	HeadlineIndex int      `json:"headline_index"`
	Headlines     []string `json:"headlines"`
}

// UpsertServiceRequest defines the body for creating/updating a service.
type UpsertServiceRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// UpsertTestimonialRequest defines the body for creating/updating a
// testimonial.
type UpsertTestimonialRequest struct {
	ClientName    string  `json:"client_name"`
	ClientCompany string  `json:"client_company"`
	Quote         string  `json:"quote"`
	Rating        int     `json:"rating"`
	AvatarURL     *string `json:"avatar_url,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// UpsertClientLogoRequest defines the body for creating/updating a client
// logo.
type UpsertClientLogoRequest struct {
	Name         string  `json:"name"`
	ImageURL     string  `json:"image_url"`
	WebsiteURL   *string `json:"website_url,omitempty"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

// --- Contact form DTOs ---

// ContactRequest defines the public contact-form body.
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Message string  `json:"message"`
}

// SubmissionResponse is the admin representation of a form submission.
type SubmissionResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Chat DTOs ---

// StartConversationRequest defines the body of the customer chat-widget
// bootstrap form. Name and Phone are required.
type StartConversationRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
}

// SendMessageRequest defines the body for sending a chat message.
type SendMessageRequest struct {
	Content    string `json:"content"`
	SenderName string `json:"sender_name,omitempty"` // agent replies only
}

// FeedbackRequest defines the body of the end-of-chat feedback form.
type FeedbackRequest struct {
	Rating   int    `json:"rating"` // 1-5
	Feedback string `json:"feedback,omitempty"`
}

// MessageResponse is the wire representation of a chat message. It doubles
// as the realtime event payload.
type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderType     SenderType `json:"sender_type"`
	SenderName     string     `json:"sender_name"`
	Content        string     `json:"content"`
	MessageType    string     `json:"message_type"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ConversationResponse is the wire representation of a conversation.
type ConversationResponse struct {
	ID                 uuid.UUID          `json:"id"`
	CustomerName       string             `json:"customer_name"`
	CustomerPhone      string             `json:"customer_phone"`
	CustomerEmail      *string            `json:"customer_email,omitempty"`
	CustomerCompany    *string            `json:"customer_company,omitempty"`
	Platform           string             `json:"platform"`
	Status             ConversationStatus `json:"status"`
	LastMessageContent *string            `json:"last_message_content,omitempty"`
	LastMessageAt      *time.Time         `json:"last_message_at,omitempty"`
	UnreadCount        int                `json:"unread_count"`
	Rating             *int               `json:"rating,omitempty"`
	Feedback           *string            `json:"feedback,omitempty"`
	StartedAt          time.Time          `json:"started_at"`
	EndedAt            *time.Time         `json:"ended_at,omitempty"`
	EmailSent          bool               `json:"email_sent"`
}

// StartConversationResponse bundles the new conversation with its welcome
// message so the widget can render immediately.
type StartConversationResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Welcome      MessageResponse      `json:"welcome"`
}

// ListConversationsResponse defines the agent-console listing payload.
type ListConversationsResponse struct {
	Conversations []ConversationResponse `json:"conversations"`
}

// ListMessagesResponse defines the message history payload.
type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// PresenceResponse reports how many websocket subscribers a conversation
// currently has. The agent console polls it to show widget presence.
type PresenceResponse struct {
	Subscribers int `json:"subscribers"`
}

// --- CRM DTOs ---

// UpsertLeadRequest defines the body for creating/updating a lead.
type UpsertLeadRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Company *string `json:"company,omitempty"`
	Source  string  `json:"source,omitempty"`
	Status  string  `json:"status,omitempty"`
	Owner   string  `json:"owner,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// LeadResponse is the wire representation of a lead.
type LeadResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	Owner     string    `json:"owner"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Billing DTOs ---

// UpsertQuotationRequest defines the body for creating/updating a quotation.
type UpsertQuotationRequest struct {
	LeadID        *uuid.UUID     `json:"lead_id,omitempty"`
	ClientName    string         `json:"client_name"`
	ClientEmail   *string        `json:"client_email,omitempty"`
	ClientCompany *string        `json:"client_company,omitempty"`
	Items         []DocumentItem `json:"items"`
	TaxRate       float64        `json:"tax_rate"`
	ValidUntil    *time.Time     `json:"valid_until,omitempty"`
}

// UpsertInvoiceRequest defines the body for creating/updating an invoice.
type UpsertInvoiceRequest struct {
	QuotationID   *uuid.UUID     `json:"quotation_id,omitempty"`
	ClientName    string         `json:"client_name"`
	ClientEmail   *string        `json:"client_email,omitempty"`
	ClientCompany *string        `json:"client_company,omitempty"`
	Items         []DocumentItem `json:"items"`
	TaxRate       float64        `json:"tax_rate"`
	DueDate       *time.Time     `json:"due_date,omitempty"`
}

// UpdateDocumentStatusRequest changes a quotation/invoice status.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status"`
}

// --- Settings DTOs ---

// UpdateSettingRequest defines the body for writing a settings key.
type UpdateSettingRequest struct {
	Value    json.RawMessage `json:"value"`
	IsSecret bool            `json:"is_secret,omitempty"`
}

// SettingResponse is the wire representation of a settings row. Secret
// values are redacted.
type SettingResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value,omitempty"`
	IsSecret  bool            `json:"is_secret"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// --- WhatsApp DTOs ---

// WhatsAppLinkResponse carries a composed wa.me deep link.
type WhatsAppLinkResponse struct {
	Number string `json:"number"`
	Link   string `json:"link"`
}
