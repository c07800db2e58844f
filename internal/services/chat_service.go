package services

import (
	"errors"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/logger"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"
)

type ChatService interface {
	StartConversation(tenantID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, error)
	ListConversations(userID string) ([]dto.ConversationResponse, error)
	SendMessage(senderID, conversationID string, body string) (*dto.MessageResponseDTO, error)
	GetMessages(userID, conversationID string, page, pageSize int) ([]dto.MessageResponseDTO, int64, error)
	MarkRead(userID, conversationID string) error
}

type chatService struct {
	chatRepo        repositories.ChatRepository
	userRepo        repositories.UserRepository
	notificationSvc NotificationService
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	notificationSvc NotificationService,
) ChatService {
	return &chatService{
		chatRepo:        chatRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

func (s *chatService) StartConversation(tenantID string, req *dto.StartConversationRequest) (*dto.ConversationResponse, error) {
	if req.LandlordID == tenantID {
		return nil, apperrors.ErrInvalidOperation("chat", "You cannot message yourself")
	}

	landlord, err := s.userRepo.FindByID(req.LandlordID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if landlord.Role != models.UserRoleLandlord {
		return nil, apperrors.ErrInvalidOperation("chat", "Recipient is not a landlord")
	}

	var propertyID *string
	if req.PropertyID != "" {
		propertyID = &req.PropertyID
	}

	// Reuse the thread if one already exists for this pair and property.
	conversation, err := s.chatRepo.FindConversation(tenantID, req.LandlordID, propertyID)
	if err != nil {
		if !errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.InternalError(err)
		}
		conversation = &models.Conversation{
			PropertyID: propertyID,
			TenantID:   tenantID,
			LandlordID: req.LandlordID,
		}
		if err := s.chatRepo.CreateConversation(conversation); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if _, err := s.SendMessage(tenantID, conversation.ID, req.Body); err != nil {
		return nil, err
	}

	unread, err := s.chatRepo.CountUnreadMessages(conversation.ID, tenantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewConversationResponse(conversation, unread)
	resp.LastMessage = req.Body
	return &resp, nil
}

func (s *chatService) ListConversations(userID string) ([]dto.ConversationResponse, error) {
	conversations, err := s.chatRepo.FindUserConversations(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		unread, err := s.chatRepo.CountUnreadMessages(conversations[i].ID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		out = append(out, dto.NewConversationResponse(&conversations[i], unread))
	}
	return out, nil
}

func (s *chatService) SendMessage(senderID, conversationID string, body string) (*dto.MessageResponseDTO, error) {
	conversation, err := s.findParticipantConversation(senderID, conversationID)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.chatRepo.CreateMessage(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err == nil {
		recipient := conversation.OtherParticipant(senderID)
		if err := s.notificationSvc.NotifyNewMessage(recipient, sender.Name, conversationID); err != nil {
			logger.WithError(err).Warn("message notification failed", "conversation_id", conversationID)
		}
	}

	resp := dto.NewMessageResponse(message)
	return &resp, nil
}

func (s *chatService) GetMessages(userID, conversationID string, page, pageSize int) ([]dto.MessageResponseDTO, int64, error) {
	if _, err := s.findParticipantConversation(userID, conversationID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.chatRepo.FindMessages(conversationID, page, pageSize)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.MessageResponseDTO, 0, len(messages))
	for i := range messages {
		out = append(out, dto.NewMessageResponse(&messages[i]))
	}
	return out, total, nil
}

func (s *chatService) MarkRead(userID, conversationID string) error {
	if _, err := s.findParticipantConversation(userID, conversationID); err != nil {
		return err
	}
	if err := s.chatRepo.MarkMessagesRead(conversationID, userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *chatService) findParticipantConversation(userID, conversationID string) (*models.Conversation, error) {
	conversation, err := s.chatRepo.FindConversationByID(conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !conversation.HasParticipant(userID) {
		return nil, apperrors.NewForbiddenError("Not your conversation")
	}
	return conversation, nil
}
