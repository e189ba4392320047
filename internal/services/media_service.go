package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/repositories"
)

// MediaService is the single implementation behind every ordered media
// collection (sliders, testimonials, add-on services, setups, props, makeup
// artists, sets). The handlers only differ in the collection key they pass.
type MediaService struct {
	DB    *sql.DB
	Media repositories.MediaRepo
}

func (s MediaService) List(ctx context.Context, collection string) ([]models.MediaItem, error) {
	items, err := s.Media.List(ctx, s.DB, collection)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return items, nil
}

// Create appends an item at the end of the collection's display order.
func (s MediaService) Create(ctx context.Context, collection, title, imageURL string) (models.MediaItem, error) {
	if strings.TrimSpace(imageURL) == "" {
		return models.MediaItem{}, domain.ValidationError{Field: "imageUrl", Msg: "is required"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.MediaItem{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	next, err := s.Media.NextOrder(ctx, tx, collection)
	if err != nil {
		return models.MediaItem{}, domain.InternalError{Err: err}
	}
	item := models.MediaItem{
		Collection:   collection,
		Title:        strings.TrimSpace(title),
		ImageURL:     strings.TrimSpace(imageURL),
		DisplayOrder: next,
	}
	if err := s.Media.Insert(ctx, tx, &item); err != nil {
		return models.MediaItem{}, domain.InternalError{Err: err}
	}
	if err := tx.Commit(); err != nil {
		return models.MediaItem{}, domain.InternalError{Err: err}
	}
	return item, nil
}

func (s MediaService) Delete(ctx context.Context, collection string, id int64) error {
	rows, err := s.Media.Delete(ctx, s.DB, collection, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if rows == 0 {
		return domain.NotFoundError{Resource: "media item"}
	}
	return nil
}

// Reorder applies the submitted display orders in one transaction so a partial
// reorder is never visible.
func (s MediaService) Reorder(ctx context.Context, collection string, items []models.MediaReorderItem) error {
	if len(items) == 0 {
		return domain.ValidationError{Field: "items", Msg: "must be a non-empty array"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	for _, it := range items {
		// MySQL reports zero rows when the order is unchanged, so rows
		// affected cannot distinguish a missing id here.
		if _, err := s.Media.UpdateOrder(ctx, tx, collection, it.ID, it.DisplayOrder); err != nil {
			return domain.InternalError{Err: err}
		}
	}
	return tx.Commit()
}
