package services

import (
	"testing"

	"github.com/mooehassan23-rgb/Loopin/db"
	"github.com/mooehassan23-rgb/Loopin/models"

	"github.com/stretchr/testify/require"
)

func TestPairKeyCommutative(t *testing.T) {
	require.Equal(t, models.PairKeyFor(1, 2), models.PairKeyFor(2, 1))
	require.NotEqual(t, models.PairKeyFor(1, 2), models.PairKeyFor(1, 3))
	// Лексикографическая сортировка строк здесь не годится: 10 < 2 как
	// числа, ключ обязан сортировать участников численно
	require.Equal(t, "2:10", models.PairKeyFor(10, 2))
}

func TestResolveConversation(t *testing.T) {
	setupTestDB(t)
	userA := createTestUser(t)
	userB := createTestUser(t)
	cs := NewConversationService()

	convID, err := cs.Resolve(testCtx(), userA, userB)
	require.NoError(t, err)
	require.NotZero(t, convID)

	participants, err := cs.Participants(testCtx(), convID)
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{userA, userB}, participants)

	// Повторный resolve в любом порядке аргументов возвращает тот же диалог
	again, err := cs.Resolve(testCtx(), userA, userB)
	require.NoError(t, err)
	require.Equal(t, convID, again)

	reversed, err := cs.Resolve(testCtx(), userB, userA)
	require.NoError(t, err)
	require.Equal(t, convID, reversed)

	var count int64
	db.ORM.Model(&models.Conversation{}).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestResolveConversationSelf(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)

	_, err := NewConversationService().Resolve(testCtx(), userID, userID)
	require.Error(t, err)
}

func TestListConversationsOrder(t *testing.T) {
	setupTestDB(t)
	userID := createTestUser(t)
	friendA := createTestUser(t)
	friendB := createTestUser(t)
	cs := NewConversationService()
	ms := NewMessageService()

	convA, err := cs.Resolve(testCtx(), userID, friendA)
	require.NoError(t, err)
	convB, err := cs.Resolve(testCtx(), userID, friendB)
	require.NoError(t, err)

	// Сообщение поднимает диалог наверх списка
	_, err = ms.Send(testCtx(), convA, friendA, "hello")
	require.NoError(t, err)

	conversations, err := cs.List(testCtx(), userID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	require.Equal(t, convA, conversations[0].ID)
	require.Equal(t, convB, conversations[1].ID)
	require.Equal(t, friendA, conversations[0].OtherUserID)
	require.NotEmpty(t, conversations[0].OtherUsername)
}
