package repository

import (
	"context"
	"errors"
	"fmt"

	"classifieds_service/internal/conversation/domain"
	"classifieds_service/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository definition conversation identity and lookup
// lookups return nil, nil when nothing matches
type ConversationRepository interface {
	EnsureIndexes(ctx context.Context) error
	Create(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error)
}

type mongoConversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository create new mongo conversation repository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &mongoConversationRepository{
		coll: db.Collection(domain.ConversationCollection),
	}
}

// EnsureIndexes unique (listing, buyer, seller) plus the list and message lookups
func (r *mongoConversationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "listing_id", Value: 1},
				{Key: "buyer_id", Value: 1},
				{Key: "seller_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_listing_buyer_seller"),
		},
		{
			Keys:    bson.D{{Key: "buyer_id", Value: 1}, {Key: "last_activity_at", Value: -1}},
			Options: options.Index().SetName("buyer_activity"),
		},
		{
			Keys:    bson.D{{Key: "seller_id", Value: 1}, {Key: "last_activity_at", Value: -1}},
			Options: options.Index().SetName("seller_activity"),
		},
		{
			Keys:    bson.D{{Key: "messages.id", Value: 1}},
			Options: options.Index().SetName("message_id"),
		},
	})
	return err
}

// Create insert conv, duplicate triple becomes domain.ErrDuplicateConversation
func (r *mongoConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	defer metrics.ObserveStore("conversation_create")()

	if conv.Messages == nil {
		conv.Messages = []domain.Message{}
	}
	_, err := r.coll.InsertOne(ctx, conv)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateConversation
	}
	return err
}

// FindByID find conversation with all messages
func (r *mongoConversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	defer metrics.ObserveStore("conversation_find")()
	return r.findOne(ctx, bson.M{"_id": conversationID})
}

// FindByParticipants find the conversation of the triple
func (r *mongoConversationRepository) FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) (*domain.Conversation, error) {
	defer metrics.ObserveStore("conversation_find_participants")()
	return r.findOne(ctx, bson.M{
		"listing_id": listingID,
		"buyer_id":   buyerID,
		"seller_id":  sellerID,
	})
}

// ListByUser conversations where userID is buyer or seller, newest activity first
// only the last message of each conversation is loaded
func (r *mongoConversationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	defer metrics.ObserveStore("conversation_list")()

	filter := bson.M{"$or": bson.A{
		bson.M{"buyer_id": userID},
		bson.M{"seller_id": userID},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "last_activity_at", Value: -1}, {Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"messages": bson.M{"$slice": -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	conversations := []domain.Conversation{}
	if err := cur.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}
	return conversations, nil
}

func (r *mongoConversationRepository) findOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}
