package repository

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/pkg/database"
	"classifieds_service/pkg/logger"
	testtool "classifieds_service/pkg/test_tool"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// **啟動 MongoDB**
func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	host, port := testtool.StartContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})

	ctx := context.Background()
	db, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", host, port),
		RetryCount:    5,
		RetryInterval: time.Second,
	}, "test_chat_db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	require.NoError(t, NewMongoConversationRepository(db.Database).EnsureIndexes(ctx))
	return db.Database
}

func newConversation(listingID, buyerID, sellerID string, at time.Time) *domain.Conversation {
	return &domain.Conversation{
		ID:             uuid.New().String(),
		ListingID:      listingID,
		BuyerID:        buyerID,
		SellerID:       sellerID,
		CreatedAt:      at,
		LastActivityAt: at,
	}
}

func TestMongoRepositories(t *testing.T) {
	db := setupMongo(t)
	convRepo := NewMongoConversationRepository(db)
	msgRepo := NewMongoMessageRepository(db)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	conv := newConversation("listing-1", "buyer-1", "seller-1", base)
	require.NoError(t, convRepo.Create(ctx, conv))

	t.Run("duplicate triple is rejected", func(t *testing.T) {
		dup := newConversation("listing-1", "buyer-1", "seller-1", base)
		assert.ErrorIs(t, convRepo.Create(ctx, dup), domain.ErrDuplicateConversation)
	})

	t.Run("find by participants", func(t *testing.T) {
		found, err := convRepo.FindByParticipants(ctx, "listing-1", "buyer-1", "seller-1")
		require.NoError(t, err)
		assert.Equal(t, conv.ID, found.ID)
		assert.Empty(t, found.Messages)

		missing, err := convRepo.FindByParticipants(ctx, "listing-1", "buyer-2", "seller-1")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	var firstID string
	t.Run("append keeps timestamps monotonic", func(t *testing.T) {
		firstID = uuid.New().String()
		updated, err := msgRepo.Append(ctx, conv.ID, "buyer-1", firstID, "$where is it?", base.Add(time.Second))
		require.NoError(t, err)
		require.Len(t, updated.Messages, 1)
		assert.Equal(t, "$where is it?", updated.Messages[0].Content)
		assert.True(t, updated.Messages[0].Timestamp.Equal(base.Add(time.Second)))

		// 時鐘倒退仍使用上一次的時間
		updated, err = msgRepo.Append(ctx, conv.ID, "seller-1", uuid.New().String(), "here", base)
		require.NoError(t, err)
		require.Len(t, updated.Messages, 2)
		assert.True(t, updated.Messages[1].Timestamp.Equal(base.Add(time.Second)))
		assert.True(t, updated.LastActivityAt.Equal(base.Add(time.Second)))
	})

	t.Run("append by a non participant matches nothing", func(t *testing.T) {
		updated, err := msgRepo.Append(ctx, conv.ID, "stranger", uuid.New().String(), "hi", base)
		assert.NoError(t, err)
		assert.Nil(t, updated)
	})

	t.Run("unread counts and flags", func(t *testing.T) {
		infos, err := msgRepo.CountUnread(ctx, "seller-1")
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, conv.ID, infos[0].ConversationID)
		assert.Equal(t, 1, infos[0].UnreadCount)

		found, err := msgRepo.FindByMessageID(ctx, firstID)
		require.NoError(t, err)
		require.Len(t, found.Messages, 1)
		assert.Equal(t, firstID, found.Messages[0].ID)
		assert.Equal(t, "seller-1", found.SellerID)

		yes := true
		ok, err := msgRepo.SetFlags(ctx, firstID, "stranger", domain.MessageFlags{Read: &yes})
		assert.NoError(t, err)
		assert.False(t, ok)

		ok, err = msgRepo.SetFlags(ctx, firstID, "seller-1", domain.MessageFlags{Read: &yes})
		assert.NoError(t, err)
		assert.True(t, ok)
		ok, err = msgRepo.SetFlags(ctx, firstID, "seller-1", domain.MessageFlags{Read: &yes})
		assert.NoError(t, err)
		assert.True(t, ok)

		infos, err = msgRepo.CountUnread(ctx, "seller-1")
		require.NoError(t, err)
		assert.Empty(t, infos)

		ok, err = msgRepo.SetFlags(ctx, firstID, "buyer-1", domain.MessageFlags{Deleted: &yes})
		assert.NoError(t, err)
		assert.True(t, ok)
		found, err = msgRepo.FindByMessageID(ctx, firstID)
		require.NoError(t, err)
		assert.True(t, found.Messages[0].Deleted)
		assert.True(t, found.Messages[0].Read)
		assert.Equal(t, "$where is it?", found.Messages[0].Content)
	})

	t.Run("list newest activity first with last message only", func(t *testing.T) {
		older := newConversation("listing-2", "buyer-1", "seller-2", base.Add(-time.Hour))
		require.NoError(t, convRepo.Create(ctx, older))

		list, err := convRepo.ListByUser(ctx, "buyer-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, conv.ID, list[0].ID)
		assert.Len(t, list[0].Messages, 1)
		assert.Equal(t, "here", list[0].Messages[0].Content)
		assert.Equal(t, older.ID, list[1].ID)
		assert.Empty(t, list[1].Messages)

		none, err := convRepo.ListByUser(ctx, "nobody")
		assert.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		c := newConversation("listing-3", "buyer-3", "seller-3", base)
		require.NoError(t, convRepo.Create(ctx, c))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sender := "buyer-3"
				if i%2 == 1 {
					sender = "seller-3"
				}
				_, err := msgRepo.Append(ctx, c.ID, sender, uuid.New().String(), fmt.Sprintf("m%d", i), time.Now().UTC().Truncate(time.Millisecond))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		stored, err := convRepo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, stored.Messages, 20)
		for i := 1; i < len(stored.Messages); i++ {
			assert.False(t, stored.Messages[i].Timestamp.Before(stored.Messages[i-1].Timestamp))
		}
	})
}

// **啟動 Redis**
func TestRedisPubSub(t *testing.T) {
	host, port := testtool.StartContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	client, err := database.NewRedisClient("", nil, host+":"+port, 0)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := NewRedisPubSub(client)
	received := make(chan string, 1)
	require.NoError(t, pubsub.PSubscribe(ctx, ConversationChannelPrefix+"*", func(channel string, payload []byte) {
		received <- channel + "|" + string(payload)
	}))

	require.NoError(t, pubsub.Publish(ctx, ConversationChannelPrefix+"conv-1", map[string]string{"content": "hi"}))

	select {
	case got := <-received:
		assert.Equal(t, ConversationChannelPrefix+`conv-1|{"content":"hi"}`, got)
	case <-time.After(3 * time.Second):
		t.Fatal("no message from redis")
	}
}

func TestNopEventPublisher(t *testing.T) {
	p := NewNopEventPublisher()
	assert.NoError(t, p.Publish(context.Background(), domain.ActivityEvent{Type: domain.EventMessageAppended}))
	assert.NoError(t, p.Close())
}
