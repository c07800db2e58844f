package repositories

import (
	"errors"
	"time"

	"rent4u_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrMessageNotFound      = errors.New("message not found")
)

type ChatRepository interface {
	CreateConversation(conversation *models.Conversation) error
	FindConversationByID(id string) (*models.Conversation, error)
	FindConversation(tenantID, landlordID string, propertyID *string) (*models.Conversation, error)
	FindUserConversations(userID string) ([]models.Conversation, error)

	CreateMessage(message *models.Message) error
	FindMessages(conversationID string, page, pageSize int) ([]models.Message, int64, error)
	MarkMessagesRead(conversationID, readerID string) error
	CountUnreadMessages(conversationID, userID string) (int64, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

// Conversation operations

func (r *ChatRepositoryImpl) CreateConversation(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

func (r *ChatRepositoryImpl) FindConversationByID(id string) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.First(&conversation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindConversation(tenantID, landlordID string, propertyID *string) (*models.Conversation, error) {
	var conversation models.Conversation
	query := r.db.Where("tenant_id = ? AND landlord_id = ?", tenantID, landlordID)
	if propertyID != nil {
		query = query.Where("property_id = ?", *propertyID)
	} else {
		query = query.Where("property_id IS NULL")
	}

	err := query.First(&conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *ChatRepositoryImpl) FindUserConversations(userID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.
		Where("tenant_id = ? OR landlord_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Message operations

func (r *ChatRepositoryImpl) CreateMessage(message *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Updates(map[string]interface{}{
				"last_message":    message.Body,
				"last_message_at": now,
			}).Error
	})
}

func (r *ChatRepositoryImpl) FindMessages(conversationID string, page, pageSize int) ([]models.Message, int64, error) {
	var messages []models.Message
	query := r.db.Where("conversation_id = ?", conversationID)

	var total int64
	if err := query.Model(&models.Message{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&messages).Error

	return messages, total, err
}

func (r *ChatRepositoryImpl) MarkMessagesRead(conversationID, readerID string) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?",
			conversationID, readerID, false).
		Update("is_read", true).Error
}

func (r *ChatRepositoryImpl) CountUnreadMessages(conversationID, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?",
			conversationID, userID, false).
		Count(&count).Error
	return count, err
}
