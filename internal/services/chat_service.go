package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"agencydesk-backend/internal/config"
	"agencydesk-backend/internal/integrations"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/realtime"
	"agencydesk-backend/internal/store"
	"agencydesk-backend/internal/transcript"
	"agencydesk-backend/internal/whatsapp"
)

// Custom errors for the chat service
var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationClosed   = errors.New("conversation is closed")
	ErrInvalidTransition    = errors.New("invalid conversation status transition")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
)

// TranscriptEnqueuer queues transcript delivery after feedback lands.
// Satisfied by jobs.Client; mocked in tests.
type TranscriptEnqueuer interface {
	EnqueueTranscriptEmail(ctx context.Context, conversationID uuid.UUID) error
}

type ChatService struct {
	store    store.Store
	cfg      *config.Config
	hub      *realtime.Hub
	enqueuer TranscriptEnqueuer
	sender   *transcript.Sender
	slack    *integrations.SlackNotifier
	notion   *integrations.NotionExporter
}

func NewChatService(s store.Store, cfg *config.Config, hub *realtime.Hub, enqueuer TranscriptEnqueuer, sender *transcript.Sender, slack *integrations.SlackNotifier, notion *integrations.NotionExporter) *ChatService {
	return &ChatService{
		store:    s,
		cfg:      cfg,
		hub:      hub,
		enqueuer: enqueuer,
		sender:   sender,
		slack:    slack,
		notion:   notion,
	}
}

// StartConversation handles the chat-widget bootstrap form. The
// conversation, its welcome message and the CRM lead are written in one
// transaction; a validation failure writes nothing.
func (s *ChatService) StartConversation(ctx context.Context, req models.StartConversationRequest) (*models.StartConversationResponse, error) {
	name := strings.TrimSpace(req.Name)
	phone, err := whatsapp.NormalizeNumber(req.Phone)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	conv, welcome, lead, err := s.store.BootstrapConversation(ctx, store.BootstrapConversationParams{
		ConversationID:  uuid.New(),
		CustomerName:    name,
		CustomerPhone:   phone,
		CustomerEmail:   req.Email,
		CustomerCompany: req.Company,
		Platform:        "website",
		WelcomeID:       uuid.New(),
		WelcomeContent:  s.cfg.WelcomeMessage,
		LeadID:          uuid.New(),
		LeadOwner:       s.cfg.LeadOwner,
		LeadSource:      "live_chat",
	})
	if err != nil {
		log.Printf("[Chat] Error bootstrapping conversation for %s: %v", name, err)
		return nil, fmt.Errorf("bootstrapping conversation failed: %w", err)
	}

	log.Printf("[Chat] Started conversation %s for %s (lead %s)", conv.ID, name, lead.ID)

	// Lead alerts are best effort and never block the widget.
	go s.notifyLead(lead)

	resp := &models.StartConversationResponse{
		Conversation: toConversationResponse(conv),
		Welcome:      toMessageResponse(welcome),
	}
	return resp, nil
}

func (s *ChatService) notifyLead(lead *models.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.slack.NotifyNewLead(ctx, lead); err != nil {
		log.Printf("[Chat] WARN: Slack lead alert failed for %s: %v", lead.ID, err)
	}
	if err := s.notion.ExportLead(ctx, lead); err != nil {
		log.Printf("[Chat] WARN: Notion lead export failed for %s: %v", lead.ID, err)
	}
}

// SendCustomerMessage appends a customer message. The message insert and
// the conversation snapshot update (last message, unread_count = 1,
// unassigned promoted to active) commit together; the persisted message is
// returned and published to the realtime room afterwards.
func (s *ChatService) SendCustomerMessage(ctx context.Context, conversationID uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return s.appendMessage(ctx, conv, models.SenderCustomer, conv.CustomerName, req.Content, 1)
}

// SendAgentReply appends an agent message, resetting unread_count to 0.
func (s *ChatService) SendAgentReply(ctx context.Context, conversationID uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	senderName := strings.TrimSpace(req.SenderName)
	if senderName == "" {
		return nil, fmt.Errorf("%w: sender_name is required for agent replies", ErrValidation)
	}
	return s.appendMessage(ctx, conv, models.SenderAgent, senderName, req.Content, 0)
}

func (s *ChatService) appendMessage(ctx context.Context, conv *models.Conversation, senderType models.SenderType, senderName, content string, unread int) (*models.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", ErrValidation)
	}
	if conv.Status == models.StatusClosed {
		return nil, ErrConversationClosed
	}

	// Any send promotes a fresh conversation to active; other states keep
	// their status. The conversation read above is a snapshot; the store
	// re-checks the closed guard inside the append transaction.
	status := conv.Status
	if conv.Status.CanTransition(models.StatusActive) {
		status = models.StatusActive
	}

	msg, err := s.store.AppendMessage(ctx, store.AppendMessageParams{
		MessageID:      uuid.New(),
		ConversationID: conv.ID,
		SenderType:     senderType,
		SenderName:     senderName,
		Content:        content,
		UnreadCount:    unread,
		Status:         status,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		if errors.Is(err, store.ErrConversationClosed) {
			return nil, ErrConversationClosed
		}
		log.Printf("[Chat] Error appending message to %s: %v", conv.ID, err)
		return nil, fmt.Errorf("appending message failed: %w", err)
	}

	event := toMessageResponse(msg)
	s.hub.Publish(event)
	return &event, nil
}

// GetConversation fetches a single conversation.
func (s *ChatService) GetConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toConversationResponse(conv)
	return &resp, nil
}

// ListConversations lists conversations for the agent console, optionally
// filtered by status, newest activity first.
func (s *ChatService) ListConversations(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]models.ConversationResponse, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *status)
	}
	convs, err := s.store.ListConversations(ctx, store.ListConversationsParams{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing conversations failed: %w", err)
	}
	out := make([]models.ConversationResponse, 0, len(convs))
	for i := range convs {
		out = append(out, toConversationResponse(&convs[i]))
	}
	return out, nil
}

// ListMessages returns the full history, oldest first. markRead resets the
// unread counter (agent console opens do this; the widget does not).
func (s *ChatService) ListMessages(ctx context.Context, conversationID uuid.UUID, markRead bool) ([]models.MessageResponse, error) {
	if _, err := s.getConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("listing messages failed: %w", err)
	}
	if markRead {
		if err := s.store.ResetUnreadCount(ctx, conversationID); err != nil {
			log.Printf("[Chat] WARN: failed to reset unread count for %s: %v", conversationID, err)
		}
	}
	out := make([]models.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageResponse(&msgs[i]))
	}
	return out, nil
}

// EndConversation closes a conversation. Idempotent: ending an already
// closed conversation keeps its original ended_at.
func (s *ChatService) EndConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Status != models.StatusClosed {
		now := time.Now().UTC()
		if err := s.store.UpdateConversationStatus(ctx, id, models.StatusClosed, &now); err != nil {
			return nil, fmt.Errorf("closing conversation failed: %w", err)
		}
		conv.Status = models.StatusClosed
		conv.EndedAt = &now
		log.Printf("[Chat] Closed conversation %s", id)
	}
	resp := toConversationResponse(conv)
	return &resp, nil
}

// ReopenConversation moves a closed conversation back to active. This is
// the only backward status transition and it is agent-console only.
func (s *ChatService) ReopenConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	conv, err := s.getConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv.Status != models.StatusClosed {
		return nil, fmt.Errorf("%w: only closed conversations can be reopened", ErrInvalidTransition)
	}
	if err := s.store.UpdateConversationStatus(ctx, id, models.StatusActive, nil); err != nil {
		return nil, fmt.Errorf("reopening conversation failed: %w", err)
	}
	conv.Status = models.StatusActive
	log.Printf("[Chat] Reopened conversation %s", id)
	resp := toConversationResponse(conv)
	return &resp, nil
}

// SubmitFeedback stores the end-of-chat rating and enqueues transcript
// delivery. The enqueue failure is logged, not surfaced: the feedback
// itself has already landed.
func (s *ChatService) SubmitFeedback(ctx context.Context, id uuid.UUID, req models.FeedbackRequest) error {
	if req.Rating < 1 || req.Rating > 5 {
		return ErrInvalidRating
	}
	if _, err := s.getConversation(ctx, id); err != nil {
		return err
	}
	if err := s.store.UpdateConversationFeedback(ctx, id, req.Rating, strings.TrimSpace(req.Feedback)); err != nil {
		return fmt.Errorf("storing feedback failed: %w", err)
	}
	log.Printf("[Chat] Stored feedback for conversation %s (rating %d)", id, req.Rating)

	if err := s.enqueuer.EnqueueTranscriptEmail(ctx, id); err != nil {
		log.Printf("[Chat] WARN: failed to enqueue transcript for %s: %v", id, err)
	}
	return nil
}

// DeleteConversation removes a conversation and its messages. Admin
// console only; the chat flow itself never deletes.
func (s *ChatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteConversation(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("deleting conversation failed: %w", err)
	}
	return nil
}

// DeliverTranscript is the background-job handler: it loads the
// conversation and its history, posts them to the external transcript
// function and marks email_sent. Skips silently when already sent so asynq
// retries stay idempotent.
func (s *ChatService) DeliverTranscript(ctx context.Context, conversationID uuid.UUID) error {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv.EmailSent {
		log.Printf("[Chat] Transcript for %s already sent, skipping", conversationID)
		return nil
	}

	msgs, err := s.store.ListMessages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("loading transcript messages failed: %w", err)
	}
	history := make([]models.MessageResponse, 0, len(msgs))
	for i := range msgs {
		history = append(history, toMessageResponse(&msgs[i]))
	}

	err = s.sender.Send(ctx, transcript.Payload{
		ConversationID: conv.ID.String(),
		CustomerName:   conv.CustomerName,
		CustomerEmail:  conv.CustomerEmail,
		Rating:         conv.Rating,
		Feedback:       conv.Feedback,
		StartedAt:      conv.StartedAt,
		EndedAt:        conv.EndedAt,
		Messages:       history,
	})
	if err != nil {
		if errors.Is(err, transcript.ErrNotConfigured) {
			log.Printf("[Chat] WARN: transcript function not configured, dropping transcript for %s", conversationID)
			return nil
		}
		return err
	}

	if err := s.store.MarkTranscriptSent(ctx, conversationID); err != nil {
		return fmt.Errorf("marking transcript sent failed: %w", err)
	}
	log.Printf("[Chat] Delivered transcript for conversation %s", conversationID)
	return nil
}

func (s *ChatService) getConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv, err := s.store.GetConversationByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("failed to retrieve conversation: %w", err)
	}
	return conv, nil
}

func toConversationResponse(c *models.Conversation) models.ConversationResponse {
	return models.ConversationResponse{
		ID:                 c.ID,
		CustomerName:       c.CustomerName,
		CustomerPhone:      c.CustomerPhone,
		CustomerEmail:      c.CustomerEmail,
		CustomerCompany:    c.CustomerCompany,
		Platform:           c.Platform,
		Status:             c.Status,
		LastMessageContent: c.LastMessageContent,
		LastMessageAt:      c.LastMessageAt,
		UnreadCount:        c.UnreadCount,
		Rating:             c.Rating,
		Feedback:           c.Feedback,
		StartedAt:          c.StartedAt,
		EndedAt:            c.EndedAt,
		EmailSent:          c.EmailSent,
	}
}

func toMessageResponse(m *models.Message) models.MessageResponse {
	return models.MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderType:     m.SenderType,
		SenderName:     m.SenderName,
		Content:        m.Content,
		MessageType:    m.MessageType,
		CreatedAt:      m.CreatedAt,
	}
}
