package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/realtime"
	"agencydesk-backend/internal/services"
)

// mockChatService implements ChatService with per-test function fields.
type mockChatService struct {
	startFn    func(ctx context.Context, req models.StartConversationRequest) (*models.StartConversationResponse, error)
	sendFn     func(ctx context.Context, id uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error)
	replyFn    func(ctx context.Context, id uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	listFn     func(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]models.ConversationResponse, error)
	messagesFn func(ctx context.Context, id uuid.UUID, markRead bool) ([]models.MessageResponse, error)
	endFn      func(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	reopenFn   func(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	feedbackFn func(ctx context.Context, id uuid.UUID, req models.FeedbackRequest) error
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockChatService) StartConversation(ctx context.Context, req models.StartConversationRequest) (*models.StartConversationResponse, error) {
	return m.startFn(ctx, req)
}

func (m *mockChatService) SendCustomerMessage(ctx context.Context, id uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error) {
	return m.sendFn(ctx, id, req)
}

func (m *mockChatService) SendAgentReply(ctx context.Context, id uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error) {
	return m.replyFn(ctx, id, req)
}

func (m *mockChatService) GetConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	return m.getFn(ctx, id)
}

func (m *mockChatService) ListConversations(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]models.ConversationResponse, error) {
	return m.listFn(ctx, status, limit, offset)
}

func (m *mockChatService) ListMessages(ctx context.Context, id uuid.UUID, markRead bool) ([]models.MessageResponse, error) {
	return m.messagesFn(ctx, id, markRead)
}

func (m *mockChatService) EndConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	return m.endFn(ctx, id)
}

func (m *mockChatService) ReopenConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
	return m.reopenFn(ctx, id)
}

func (m *mockChatService) SubmitFeedback(ctx context.Context, id uuid.UUID, req models.FeedbackRequest) error {
	return m.feedbackFn(ctx, id, req)
}

func (m *mockChatService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func chatTestRouter(svc ChatService) *chi.Mux {
	h := NewChatHandler(svc, realtime.NewHub(), "test-secret")
	r := chi.NewRouter()
	r.Route("/v1/chat/conversations", func(r chi.Router) {
		r.Post("/", h.HandleStartConversation)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Post("/messages", h.HandleSendMessage)
			r.Get("/messages", h.HandleGetMessages)
			r.Post("/end", h.HandleEndConversation)
			r.Post("/feedback", h.HandleFeedback)
		})
	})
	r.Route("/v1/admin/chat/conversations", func(r chi.Router) {
		r.Get("/", h.HandleListConversations)
		r.Route("/{conversationID}", func(r chi.Router) {
			r.Get("/presence", h.HandlePresence)
			r.Get("/messages", h.HandleAgentMessages)
			r.Post("/messages", h.HandleAgentReply)
		})
	})
	return r
}

func TestHandleStartConversation(t *testing.T) {
	svc := &mockChatService{
		startFn: func(_ context.Context, req models.StartConversationRequest) (*models.StartConversationResponse, error) {
			return &models.StartConversationResponse{
				Conversation: models.ConversationResponse{ID: uuid.New(), CustomerName: req.Name, Status: models.StatusUnassigned},
				Welcome:      models.MessageResponse{SenderName: models.SystemSenderName},
			}, nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/conversations", strings.NewReader(`{"name":"Budi","phone":"0812345678"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var resp models.StartConversationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Conversation.CustomerName != "Budi" {
		t.Errorf("customer name = %q, want Budi", resp.Conversation.CustomerName)
	}
	if resp.Welcome.SenderName != models.SystemSenderName {
		t.Errorf("welcome sender = %q, want System", resp.Welcome.SenderName)
	}
}

func TestHandleStartConversationValidation(t *testing.T) {
	svc := &mockChatService{
		startFn: func(_ context.Context, _ models.StartConversationRequest) (*models.StartConversationResponse, error) {
			return nil, services.ErrValidation
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/conversations", strings.NewReader(`{"name":""}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleSendMessageClosedConversation(t *testing.T) {
	svc := &mockChatService{
		sendFn: func(_ context.Context, _ uuid.UUID, _ models.SendMessageRequest) (*models.MessageResponse, error) {
			return nil, services.ErrConversationClosed
		},
	}
	router := chatTestRouter(svc)

	url := "/v1/chat/conversations/" + uuid.NewString() + "/messages"
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(`{"content":"hi"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
}

func TestHandleSendMessageBadID(t *testing.T) {
	router := chatTestRouter(&mockChatService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/conversations/not-a-uuid/messages", strings.NewReader(`{"content":"hi"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleGetMessagesDoesNotMarkRead(t *testing.T) {
	var gotMarkRead bool
	svc := &mockChatService{
		messagesFn: func(_ context.Context, _ uuid.UUID, markRead bool) ([]models.MessageResponse, error) {
			gotMarkRead = markRead
			return []models.MessageResponse{}, nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/chat/conversations/"+uuid.NewString()+"/messages", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotMarkRead {
		t.Error("widget history read must not reset the unread counter")
	}
}

func TestHandleAgentMessagesMarksRead(t *testing.T) {
	var gotMarkRead bool
	svc := &mockChatService{
		messagesFn: func(_ context.Context, _ uuid.UUID, markRead bool) ([]models.MessageResponse, error) {
			gotMarkRead = markRead
			return []models.MessageResponse{}, nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/chat/conversations/"+uuid.NewString()+"/messages", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if !gotMarkRead {
		t.Error("agent console open must reset the unread counter")
	}
}

func TestHandleFeedback(t *testing.T) {
	convID := uuid.New()
	var gotRating int
	svc := &mockChatService{
		feedbackFn: func(_ context.Context, id uuid.UUID, req models.FeedbackRequest) error {
			if id != convID {
				t.Errorf("id = %s, want %s", id, convID)
			}
			gotRating = req.Rating
			return nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/conversations/"+convID.String()+"/feedback", strings.NewReader(`{"rating":5,"feedback":"mantap"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204: %s", rr.Code, rr.Body.String())
	}
	if gotRating != 5 {
		t.Errorf("rating = %d, want 5", gotRating)
	}
}

func TestHandleFeedbackInvalidRating(t *testing.T) {
	svc := &mockChatService{
		feedbackFn: func(_ context.Context, _ uuid.UUID, _ models.FeedbackRequest) error {
			return services.ErrInvalidRating
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/conversations/"+uuid.NewString()+"/feedback", strings.NewReader(`{"rating":9}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleListConversationsStatusFilter(t *testing.T) {
	var gotStatus *models.ConversationStatus
	svc := &mockChatService{
		listFn: func(_ context.Context, status *models.ConversationStatus, limit, offset int) ([]models.ConversationResponse, error) {
			gotStatus = status
			return []models.ConversationResponse{}, nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/chat/conversations?status=unassigned", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if gotStatus == nil || *gotStatus != models.StatusUnassigned {
		t.Errorf("status filter = %v, want unassigned", gotStatus)
	}
}

func TestHandlePresence(t *testing.T) {
	convID := uuid.New()
	svc := &mockChatService{
		getFn: func(_ context.Context, id uuid.UUID) (*models.ConversationResponse, error) {
			if id != convID {
				return nil, services.ErrConversationNotFound
			}
			return &models.ConversationResponse{ID: id, Status: models.StatusActive}, nil
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/chat/conversations/"+convID.String()+"/presence", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var resp models.PresenceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Subscribers != 0 {
		t.Errorf("subscribers = %d, want 0 (no websocket attached)", resp.Subscribers)
	}
}

func TestHandlePresenceUnknownConversation(t *testing.T) {
	svc := &mockChatService{
		getFn: func(_ context.Context, _ uuid.UUID) (*models.ConversationResponse, error) {
			return nil, services.ErrConversationNotFound
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/chat/conversations/"+uuid.NewString()+"/presence", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestHandleAgentReplyUnknownConversation(t *testing.T) {
	svc := &mockChatService{
		replyFn: func(_ context.Context, _ uuid.UUID, _ models.SendMessageRequest) (*models.MessageResponse, error) {
			return nil, services.ErrConversationNotFound
		},
	}
	router := chatTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/chat/conversations/"+uuid.NewString()+"/messages", strings.NewReader(`{"content":"hi","sender_name":"Sari"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
