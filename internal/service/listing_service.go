package service

import (
	"context"
	"fmt"

	"travel-service/internal/models"
	"travel-service/internal/util"

	"go.uber.org/zap"
)

// ListingStore is the persistence surface the listing service needs.
// store.Store satisfies it; tests substitute a stub.
type ListingStore interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	GetListings(ctx context.Context) ([]models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) (int64, error)
	DeleteListing(ctx context.Context, id int64) (int64, error)
}

// ListingCache is the read cache surface. redisclient.Client
// satisfies it.
type ListingCache interface {
	GetCachedListing(ctx context.Context, id int64) (*models.Listing, error)
	CacheListing(ctx context.Context, listing *models.Listing) error
	InvalidateListing(ctx context.Context, id int64) error
}

// ListingService handles listing catalog logic
type ListingService struct {
	store  ListingStore
	cache  ListingCache
	logger *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(store ListingStore, cache ListingCache) *ListingService {
	return &ListingService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListingRequest represents a request to create or update a listing
type ListingRequest struct {
	Title         string `json:"title" binding:"required"`
	Description   string `json:"description"`
	Location      string `json:"location" binding:"required"`
	PricePerNight int64  `json:"price_per_night" binding:"required,min=1"`
}

// CreateListing creates a new listing
func (s *ListingService) CreateListing(ctx context.Context, req *ListingRequest) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.CreateListing")
	defer span.End()

	listing := &models.Listing{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	s.logger.Info("Listing created", zap.Int64("listing_id", listing.ID))
	return listing, nil
}

// GetListing retrieves a listing, reading through the cache. Only a
// genuine lookup miss maps to ErrNotFound; infrastructure errors are
// passed through.
func (s *ListingService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.GetListing")
	defer span.End()

	if cached, err := s.cache.GetCachedListing(ctx, id); err != nil {
		s.logger.Warn("Listing cache read failed", zap.Int64("listing_id", id), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listing, err := s.store.GetListingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	if listing == nil {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	if err := s.cache.CacheListing(ctx, listing); err != nil {
		s.logger.Warn("Listing cache write failed", zap.Int64("listing_id", id), zap.Error(err))
	}

	return listing, nil
}

// ListListings retrieves all listings, newest first
func (s *ListingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.store.GetListings(ctx)
}

// UpdateListing updates a listing and invalidates its cache entry
func (s *ListingService) UpdateListing(ctx context.Context, id int64, req *ListingRequest) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.UpdateListing")
	defer span.End()

	listing := &models.Listing{
		ID:            id,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
	}

	affected, err := s.store.UpdateListing(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Int64("listing_id", id), zap.Error(err))
	}

	updated, err := s.store.GetListingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload listing: %w", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return updated, nil
}

// DeleteListing deletes a listing and invalidates its cache entry
func (s *ListingService) DeleteListing(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "ListingService.DeleteListing")
	defer span.End()

	affected, err := s.store.DeleteListing(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}

	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Int64("listing_id", id), zap.Error(err))
	}

	return nil
}
