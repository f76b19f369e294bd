package store

import (
	"context"
	"database/sql"

	"travel-service/internal/models"
)

// CreateListing creates a new listing
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (title, description, location, price_per_night)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, listing, query,
		listing.Title, listing.Description, listing.Location, listing.PricePerNight)
}

// GetListingByID retrieves a listing by ID. Returns nil without
// error on a miss so callers can map it to their own not-found
// handling.
func (s *Store) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, "SELECT * FROM listings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListings retrieves all listings, newest first
func (s *Store) GetListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings,
		"SELECT * FROM listings ORDER BY created_at DESC")
	return listings, err
}

// UpdateListing updates listing attributes. Returns the number of
// affected rows so callers can distinguish a miss from a no-op.
func (s *Store) UpdateListing(ctx context.Context, listing *models.Listing) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE listings
		 SET title = $1, description = $2, location = $3, price_per_night = $4, updated_at = NOW()
		 WHERE id = $5`,
		listing.Title, listing.Description, listing.Location, listing.PricePerNight, listing.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteListing deletes a listing by ID
func (s *Store) DeleteListing(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
