package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"agencydesk-backend/internal/auth"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/realtime"
	"agencydesk-backend/pkg/httputil"
)

// ChatService defines the interface expected from the chat service.
type ChatService interface {
	StartConversation(ctx context.Context, req models.StartConversationRequest) (*models.StartConversationResponse, error)
	SendCustomerMessage(ctx context.Context, conversationID uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error)
	SendAgentReply(ctx context.Context, conversationID uuid.UUID, req models.SendMessageRequest) (*models.MessageResponse, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	ListConversations(ctx context.Context, status *models.ConversationStatus, limit, offset int) ([]models.ConversationResponse, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID, markRead bool) ([]models.MessageResponse, error)
	EndConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	ReopenConversation(ctx context.Context, id uuid.UUID) (*models.ConversationResponse, error)
	SubmitFeedback(ctx context.Context, id uuid.UUID, req models.FeedbackRequest) error
	DeleteConversation(ctx context.Context, id uuid.UUID) error
}

type ChatHandler struct {
	chatService ChatService
	hub         *realtime.Hub
	jwtSecret   string
	upgrader    websocket.Upgrader
}

func NewChatHandler(chatSvc ChatService, hub *realtime.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		chatService: chatSvc,
		hub:         hub,
		jwtSecret:   jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens at the CORS layer; widgets embed
			// on arbitrary customer domains.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleStartConversation handles POST /v1/chat/conversations (widget).
func (h *ChatHandler) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req models.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	resp, err := h.chatService.StartConversation(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, resp)
}

// HandleSendMessage handles POST /v1/chat/conversations/{conversationID}/messages
// (widget, customer side).
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	msg, err := h.chatService.SendCustomerMessage(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// HandleGetMessages handles GET /v1/chat/conversations/{conversationID}/messages
// (widget, does not touch the unread counter).
func (h *ChatHandler) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	msgs, err := h.chatService.ListMessages(r.Context(), id, false)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListMessagesResponse{Messages: msgs})
}

// HandleEndConversation handles POST /v1/chat/conversations/{conversationID}/end.
func (h *ChatHandler) HandleEndConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	conv, err := h.chatService.EndConversation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, conv)
}

// HandleFeedback handles POST /v1/chat/conversations/{conversationID}/feedback.
func (h *ChatHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.chatService.SubmitFeedback(r.Context(), id, req); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Agent console (authenticated) ---

// HandleListConversations handles GET /v1/admin/chat/conversations.
func (h *ChatHandler) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	var status *models.ConversationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ConversationStatus(raw)
		status = &s
	}
	limit, offset := pagination(r)

	convs, err := h.chatService.ListConversations(r.Context(), status, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListConversationsResponse{Conversations: convs})
}

// HandleGetConversation handles GET /v1/admin/chat/conversations/{conversationID}.
func (h *ChatHandler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	conv, err := h.chatService.GetConversation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, conv)
}

// HandlePresence handles GET .../presence on the console, reporting the
// conversation's live websocket subscriber count.
func (h *ChatHandler) HandlePresence(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	if _, err := h.chatService.GetConversation(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.PresenceResponse{Subscribers: h.hub.SubscriberCount(id)})
}

// HandleAgentMessages handles GET .../messages on the console: fetching
// the history marks the conversation read.
func (h *ChatHandler) HandleAgentMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	msgs, err := h.chatService.ListMessages(r.Context(), id, true)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, models.ListMessagesResponse{Messages: msgs})
}

// HandleAgentReply handles POST .../messages on the console.
func (h *ChatHandler) HandleAgentReply(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	msg, err := h.chatService.SendAgentReply(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusCreated, msg)
}

// HandleReopenConversation handles POST .../reopen, the only backward
// status transition.
func (h *ChatHandler) HandleReopenConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	conv, err := h.chatService.ReopenConversation(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, conv)
}

// HandleDeleteConversation handles DELETE .../conversations/{conversationID}.
func (h *ChatHandler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	if err := h.chatService.DeleteConversation(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Realtime ---

// HandleWebsocket handles GET /v1/chat/conversations/{conversationID}/ws.
// The audience is chosen by token: a valid operator JWT (Authorization
// header or token query param, since browsers cannot set headers on
// websocket dials) subscribes as agent, everything else as customer.
func (h *ChatHandler) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "conversationID")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}
	if _, err := h.chatService.GetConversation(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	audience := h.audienceFor(r)

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Chat] Websocket upgrade failed for %s: %v", id, err)
		return
	}

	conn := realtime.NewConnection(id, audience, ws)
	h.hub.Attach(conn)
	log.Printf("[Chat] Subscribed %s (%s) to conversation %s", conn.ID, audience, id)

	// Read loop: the client never sends data frames (messages go over
	// HTTP), but reads drive pong handling and close detection.
	go h.readLoop(conn, ws)
}

const pongWait = 60 * time.Second

func (h *ChatHandler) readLoop(conn *realtime.Connection, ws *websocket.Conn) {
	defer h.hub.Detach(conn)

	ws.SetReadLimit(1024)
	deadline := func() { _ = ws.SetReadDeadline(time.Now().Add(pongWait)) }
	deadline()
	ws.SetPongHandler(func(string) error {
		deadline()
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *ChatHandler) audienceFor(r *http.Request) realtime.Audience {
	token := r.URL.Query().Get("token")
	if token == "" {
		header := r.Header.Get("Authorization")
		if len(header) > 7 && header[:7] == "Bearer " {
			token = header[7:]
		}
	}
	if token == "" {
		return realtime.AudienceCustomer
	}
	if _, err := auth.ParseAccessToken(token, h.jwtSecret); err != nil {
		return realtime.AudienceCustomer
	}
	return realtime.AudienceAgent
}
