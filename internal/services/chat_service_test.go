package services

import (
	"testing"

	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatFixture(t *testing.T) (ChatService, *gorm.DB) {
	t.Helper()
	db := setupServiceDB(t)
	svc := NewChatService(
		repositories.NewChatRepository(db),
		repositories.NewUserRepository(db),
		newTestNotificationService(db),
	)
	return svc, db
}

func TestStartConversation(t *testing.T) {
	svc, db := newChatFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	otherTenant := createTestUser(t, db, models.UserRoleTenant)

	// Self-messaging and non-landlord recipients are rejected.
	_, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: tenant.ID, Body: "hi",
	})
	require.Error(t, err)

	_, err = svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: otherTenant.ID, Body: "hi",
	})
	require.Error(t, err)

	resp, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, Body: "Is the flat still available?",
	})
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, resp.TenantID)
	assert.Equal(t, landlord.ID, resp.LandlordID)
	assert.Equal(t, "Is the flat still available?", resp.LastMessage)

	// Starting the same conversation again reuses the thread.
	again, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, Body: "Hello again",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, again.ID)

	messages, total, err := svc.GetMessages(tenant.ID, resp.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, messages, 2)
}

func TestStartConversation_PropertyScopedThreadsAreSeparate(t *testing.T) {
	svc, db := newChatFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	property := createTestProperty(t, db, landlord.ID, 100)

	general, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, Body: "hi",
	})
	require.NoError(t, err)

	scoped, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, PropertyID: property.ID, Body: "about the loft",
	})
	require.NoError(t, err)
	assert.NotEqual(t, general.ID, scoped.ID)
	require.NotNil(t, scoped.PropertyID)
	assert.Equal(t, property.ID, *scoped.PropertyID)
}

func TestSendMessage_ParticipantsOnly(t *testing.T) {
	svc, db := newChatFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)
	stranger := createTestUser(t, db, models.UserRoleTenant)

	conv, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, Body: "hi",
	})
	require.NoError(t, err)

	_, err = svc.SendMessage(stranger.ID, conv.ID, "let me in")
	require.Error(t, err)

	msg, err := svc.SendMessage(landlord.ID, conv.ID, "Yes, it is available")
	require.NoError(t, err)
	assert.Equal(t, landlord.ID, msg.SenderID)
	assert.False(t, msg.IsRead)

	// The reply landed in the tenant's notifications.
	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ? AND type = ?", tenant.ID, models.NotificationTypeMessage).
		Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestMarkRead_CountsOnlyMessagesFromOthers(t *testing.T) {
	svc, db := newChatFixture(t)

	landlord := createTestUser(t, db, models.UserRoleLandlord)
	tenant := createTestUser(t, db, models.UserRoleTenant)

	conv, err := svc.StartConversation(tenant.ID, &dto.StartConversationRequest{
		LandlordID: landlord.ID, Body: "hi",
	})
	require.NoError(t, err)

	_, err = svc.SendMessage(landlord.ID, conv.ID, "reply one")
	require.NoError(t, err)
	_, err = svc.SendMessage(landlord.ID, conv.ID, "reply two")
	require.NoError(t, err)

	// Tenant sees two unread; the landlord sees one (the opener).
	tenantView, err := svc.ListConversations(tenant.ID)
	require.NoError(t, err)
	require.Len(t, tenantView, 1)
	assert.EqualValues(t, 2, tenantView[0].UnreadCount)

	landlordView, err := svc.ListConversations(landlord.ID)
	require.NoError(t, err)
	require.Len(t, landlordView, 1)
	assert.EqualValues(t, 1, landlordView[0].UnreadCount)

	require.NoError(t, svc.MarkRead(tenant.ID, conv.ID))

	tenantView, err = svc.ListConversations(tenant.ID)
	require.NoError(t, err)
	assert.Zero(t, tenantView[0].UnreadCount)

	// The tenant's own message stays unread for the landlord.
	landlordView, err = svc.ListConversations(landlord.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, landlordView[0].UnreadCount)
}
