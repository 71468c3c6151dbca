package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition the message log embedded in each conversation
type MessageRepository interface {
	// Append 原子寫入一則訊息, timestamp = max(now, last activity); nil when senderID is not a participant
	Append(ctx context.Context, conversationID, senderID, messageID, content string, now time.Time) (*domain.Conversation, error)
	// FindByMessageID conversation header plus only the matched message; nil when absent
	FindByMessageID(ctx context.Context, messageID string) (*domain.Conversation, error)
	// SetFlags set the requested flags to true; false when no message of a conversation of userID matched
	SetFlags(ctx context.Context, messageID, userID string, flags domain.MessageFlags) (bool, error)
	// CountUnread 每個對話中別人發給 userID 的未讀訊息數
	CountUnread(ctx context.Context, userID string) ([]domain.UnreadInfo, error)
}

type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository on the conversations collection
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		coll: db.Collection(domain.ConversationCollection),
	}
}

func participantFilter(userID string) bson.A {
	return bson.A{
		bson.M{"buyer_id": userID},
		bson.M{"seller_id": userID},
	}
}

// literal keep user text from being read as a field path or operator
func literal(v interface{}) bson.D {
	return bson.D{{Key: "$literal", Value: v}}
}

func (r *mongoMessageRepository) Append(ctx context.Context, conversationID, senderID, messageID, content string, now time.Time) (*domain.Conversation, error) {
	defer metrics.ObserveStore("message_append")()

	filter := bson.M{
		"_id": conversationID,
		"$or": participantFilter(senderID),
	}

	// 1. last_activity_at 只會往後移, 新訊息時間 = 該值
	// 2. 把新訊息接到 messages 最後
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "last_activity_at", Value: bson.D{{Key: "$max", Value: bson.A{now, "$last_activity_at"}}}},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "messages", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.D{{Key: "$ifNull", Value: bson.A{"$messages", bson.A{}}}},
				bson.A{bson.D{
					{Key: "id", Value: literal(messageID)},
					{Key: "sender_id", Value: literal(senderID)},
					{Key: "content", Value: literal(content)},
					{Key: "timestamp", Value: "$last_activity_at"},
					{Key: "read", Value: false},
					{Key: "deleted", Value: false},
				}},
			}}}},
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var conv domain.Conversation
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *mongoMessageRepository) FindByMessageID(ctx context.Context, messageID string) (*domain.Conversation, error) {
	defer metrics.ObserveStore("message_find")()

	opts := options.FindOne().SetProjection(bson.M{
		"listing_id":       1,
		"buyer_id":         1,
		"seller_id":        1,
		"created_at":       1,
		"last_activity_at": 1,
		"messages.$":       1,
	})

	var conv domain.Conversation
	err := r.coll.FindOne(ctx, bson.M{"messages.id": messageID}, opts).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *mongoMessageRepository) SetFlags(ctx context.Context, messageID, userID string, flags domain.MessageFlags) (bool, error) {
	defer metrics.ObserveStore("message_set_flags")()

	set := bson.M{}
	if flags.Read != nil && *flags.Read {
		set["messages.$.read"] = true
	}
	if flags.Deleted != nil && *flags.Deleted {
		set["messages.$.deleted"] = true
	}
	if len(set) == 0 {
		return false, fmt.Errorf("no flag to set")
	}

	filter := bson.M{
		"messages.id": messageID,
		"$or":         participantFilter(userID),
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *mongoMessageRepository) CountUnread(ctx context.Context, userID string) ([]domain.UnreadInfo, error) {
	defer metrics.ObserveStore("message_count_unread")()

	pipeline := mongo.Pipeline{
		// 1. 只看 userID 參與的對話
		bson.D{{Key: "$match", Value: bson.D{{Key: "$or", Value: participantFilter(userID)}}}},
		// 2. 展開 messages 陣列
		bson.D{{Key: "$unwind", Value: "$messages"}},
		// 3. 別人發的, 未讀且未刪除
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "messages.sender_id", Value: bson.D{{Key: "$ne", Value: userID}}},
			{Key: "messages.read", Value: false},
			{Key: "messages.deleted", Value: false},
		}}},
		// 4. 按對話分組
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id"},
			{Key: "unread_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "last_unread_at", Value: bson.D{{Key: "$max", Value: "$messages.timestamp"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "last_unread_at", Value: -1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate error: %w", err)
	}
	defer cur.Close(ctx)

	results := []domain.UnreadInfo{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}
	return results, nil
}
