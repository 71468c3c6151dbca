package app

import (
	"context"
	"errors"
	"time"

	catalog "classifieds_service/internal/catalog/domain"
	"classifieds_service/internal/catalog/repository"
	conv "classifieds_service/internal/conversation/domain"
	"classifieds_service/pkg/database"
	"classifieds_service/pkg/logger"

	"go.uber.org/zap"
)

// UserCachePrefix redis key prefix of cached display names
const UserCachePrefix = "chat:user:"

// Directory users from postgres (pgx), listings from postgres (gorm)
// display names are cached in redis when a cache is given
type Directory struct {
	users     repository.UserRepository
	listings  repository.ListingRepo
	userCache database.RedisRepository[conv.User]
	cacheTTL  time.Duration
}

// NewDirectory userCache may be nil
func NewDirectory(
	users repository.UserRepository,
	listings repository.ListingRepo,
	userCache database.RedisRepository[conv.User],
	cacheTTL time.Duration,
) *Directory {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Directory{
		users:     users,
		listings:  listings,
		userCache: userCache,
		cacheTTL:  cacheTTL,
	}
}

// GetListing nil, nil when absent
func (d *Directory) GetListing(ctx context.Context, listingID string) (*conv.Listing, error) {
	l, err := d.listings.GetByID(ctx, listingID)
	if err != nil || l == nil {
		return nil, err
	}
	listing := toListing(*l)
	return &listing, nil
}

// GetListings keyed by id, unknown ids are missing
func (d *Directory) GetListings(ctx context.Context, listingIDs []string) (map[string]conv.Listing, error) {
	rows, err := d.listings.FindByIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	result := make(map[string]conv.Listing, len(rows))
	for _, l := range rows {
		result[l.ID] = toListing(l)
	}
	return result, nil
}

// GetUsers keyed by id, unknown ids are missing
func (d *Directory) GetUsers(ctx context.Context, userIDs []string) (map[string]conv.User, error) {
	result := make(map[string]conv.User, len(userIDs))
	missing := make([]string, 0, len(userIDs))

	for _, id := range userIDs {
		if d.userCache == nil {
			missing = append(missing, id)
			continue
		}
		u, err := d.userCache.Get(ctx, id)
		if err == nil {
			result[id] = u
			continue
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			logger.Log.Debug("user cache get failed", zap.String("user_id", id), zap.Error(err))
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return result, nil
	}

	rows, err := d.users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		u := toUser(row)
		result[u.ID] = u
		if d.userCache != nil {
			if err := d.userCache.Set(ctx, u.ID, u, d.cacheTTL); err != nil {
				logger.Log.Debug("user cache set failed", zap.String("user_id", u.ID), zap.Error(err))
			}
		}
	}
	return result, nil
}

func toUser(u catalog.User) conv.User {
	return conv.User{ID: u.ID, Name: u.DisplayName()}
}

func toListing(l catalog.Listing) conv.Listing {
	return conv.Listing{
		ID:       l.ID,
		SellerID: l.UserID,
		Title:    l.Title,
		Price:    l.Price,
		Images:   l.Images,
	}
}
