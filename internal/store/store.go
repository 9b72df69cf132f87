package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"agencydesk-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrConversationClosed is returned by AppendMessage when the conversation
// is closed at commit time. A send racing a close rolls back instead of
// landing a message or reverting the status.
var ErrConversationClosed = errors.New("conversation is closed")

// BootstrapConversationParams carries everything written atomically when a
// customer opens the chat widget: the conversation row, its welcome
// message, and the CRM lead copy.
type BootstrapConversationParams struct {
	ConversationID  uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	CustomerCompany *string
	Platform        string
	WelcomeID       uuid.UUID
	WelcomeContent  string
	LeadID          uuid.UUID
	LeadOwner       string
	LeadSource      string
}

// AppendMessageParams carries one message insert plus the conversation
// snapshot update performed in the same transaction.
type AppendMessageParams struct {
	MessageID      uuid.UUID
	ConversationID uuid.UUID
	SenderType     models.SenderType
	SenderName     string
	Content        string
	// Snapshot fields applied to the conversation row.
	UnreadCount int
	Status      models.ConversationStatus
}

// ListConversationsParams filters the agent-console conversation listing.
type ListConversationsParams struct {
	Status *models.ConversationStatus
	Limit  int
	Offset int
}

// UpsertContentParams covers create and update of a website content row.
type UpsertContentParams struct {
	ID       uuid.UUID
	Section  string
	Title    string
	Content  string
	Metadata json.RawMessage
	ImageURL *string
	IsActive bool
	UserID   *uuid.UUID
}

// CreateQuotationParams / CreateInvoiceParams carry computed totals so the
// store never re-derives money math.
type CreateQuotationParams struct {
	ID            uuid.UUID
	Number        string
	LeadID        *uuid.UUID
	ClientName    string
	ClientEmail   *string
	ClientCompany *string
	Items         json.RawMessage
	Subtotal      float64
	TaxRate       float64
	Total         float64
	ValidUntil    *time.Time
}

type CreateInvoiceParams struct {
	ID            uuid.UUID
	Number        string
	QuotationID   *uuid.UUID
	ClientName    string
	ClientEmail   *string
	ClientCompany *string
	Items         json.RawMessage
	Subtotal      float64
	TaxRate       float64
	Total         float64
	DueDate       *time.Time
}

// Store defines the interface for database operations. This allows for
// mocking in tests and potential DB backend switching.
type Store interface {
	// Operator accounts
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Website content
	GetContentBySection(ctx context.Context, section string, activeOnly bool) ([]models.WebsiteContent, error)
	GetContentByID(ctx context.Context, id uuid.UUID) (*models.WebsiteContent, error)
	ListContent(ctx context.Context) ([]models.WebsiteContent, error)
	CreateContent(ctx context.Context, arg UpsertContentParams) (*models.WebsiteContent, error)
	UpdateContent(ctx context.Context, arg UpsertContentParams) (*models.WebsiteContent, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error

	// Services section
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	CreateService(ctx context.Context, svc *models.Service) error
	UpdateService(ctx context.Context, svc *models.Service) error
	DeleteService(ctx context.Context, id uuid.UUID) error

	// Testimonials
	ListTestimonials(ctx context.Context, activeOnly bool) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id uuid.UUID) error

	// Client logos
	ListClientLogos(ctx context.Context, activeOnly bool) ([]models.ClientLogo, error)
	CreateClientLogo(ctx context.Context, l *models.ClientLogo) error
	UpdateClientLogo(ctx context.Context, l *models.ClientLogo) error
	DeleteClientLogo(ctx context.Context, id uuid.UUID) error

	// Contact form submissions
	CreateSubmission(ctx context.Context, s *models.FormSubmission) error
	ListSubmissions(ctx context.Context, limit, offset int) ([]models.FormSubmission, error)
	GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) error

	// Live chat. BootstrapConversation and AppendMessage are transactional:
	// either every row lands or none does.
	BootstrapConversation(ctx context.Context, arg BootstrapConversationParams) (*models.Conversation, *models.Message, *models.Lead, error)
	AppendMessage(ctx context.Context, arg AppendMessageParams) (*models.Message, error)
	GetConversationByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListConversations(ctx context.Context, arg ListConversationsParams) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	UpdateConversationStatus(ctx context.Context, id uuid.UUID, status models.ConversationStatus, endedAt *time.Time) error
	UpdateConversationFeedback(ctx context.Context, id uuid.UUID, rating int, feedback string) error
	MarkTranscriptSent(ctx context.Context, id uuid.UUID) error
	ResetUnreadCount(ctx context.Context, id uuid.UUID) error
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	// CRM leads
	CreateLead(ctx context.Context, l *models.Lead) error
	GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListLeads(ctx context.Context, limit, offset int) ([]models.Lead, error)
	UpdateLead(ctx context.Context, l *models.Lead) error
	DeleteLead(ctx context.Context, id uuid.UUID) error

	// Quotations
	CreateQuotation(ctx context.Context, arg CreateQuotationParams) (*models.Quotation, error)
	GetQuotationByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	ListQuotations(ctx context.Context, limit, offset int) ([]models.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status string) error
	DeleteQuotation(ctx context.Context, id uuid.UUID) error

	// Invoices
	CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (*models.Invoice, error)
	GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListInvoices(ctx context.Context, limit, offset int) ([]models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status string, paidAt *time.Time) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	// Site settings
	GetSetting(ctx context.Context, key string) (*models.SiteSetting, error)
	ListSettings(ctx context.Context) ([]models.SiteSetting, error)
	PutSetting(ctx context.Context, s *models.SiteSetting) error
	DeleteSetting(ctx context.Context, key string) error
}
