package models

// ConversationStatus is the lifecycle state of a live-chat conversation.
type ConversationStatus string

const (
	StatusUnassigned ConversationStatus = "unassigned"
	StatusActive     ConversationStatus = "active"
	StatusClosed     ConversationStatus = "closed"
)

// SenderType identifies which side of the conversation authored a message.
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
)

// SystemSenderName is the synthetic author of the welcome message inserted
// at conversation bootstrap. It is tagged SenderAgent but widgets must not
// treat it as a live agent reply.
const SystemSenderName = "System"

// MessageTypeText is the only message type in scope.
const MessageTypeText = "text"

// Valid reports whether s is a known conversation status.
func (s ConversationStatus) Valid() bool {
	switch s {
	case StatusUnassigned, StatusActive, StatusClosed:
		return true
	}
	return false
}

// CanTransition reports whether a conversation may move from s to next
// within the chat flow. Status only moves forward
// (unassigned -> active -> closed); closed -> active is excluded here and
// requires the explicit reopen operation.
func (s ConversationStatus) CanTransition(next ConversationStatus) bool {
	switch s {
	case StatusUnassigned:
		return next == StatusActive || next == StatusClosed
	case StatusActive:
		return next == StatusClosed
	default:
		return false
	}
}
