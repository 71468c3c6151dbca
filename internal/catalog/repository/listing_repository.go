package repository

import (
	"context"
	"errors"

	"classifieds_service/internal/catalog/domain"

	"gorm.io/gorm"
)

// ListingRepo definition get listing info
type ListingRepo interface {
	AutoMigrate() error
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error)
}

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepo create ListingRepo
func NewListingRepo(db *gorm.DB) ListingRepo {
	return &listingRepo{db: db}
}

// AutoMigrate create the listings table, only for local runs and tests
func (r *listingRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Listing{})
}

// GetByID nil, nil when the listing does not exist
func (r *listingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// FindByIDs unknown ids are skipped
func (r *listingRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Listing, error) {
	listings := []domain.Listing{}
	if len(ids) == 0 {
		return listings, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}
