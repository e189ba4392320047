package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/techsrow/locationhubapi/internal/domain/models"
)

// MediaRepo backs every ordered media collection with one table; the
// collection column selects the resource (slider, testimonial, ...).
type MediaRepo struct {
	DB *sql.DB
}

func (r MediaRepo) List(ctx context.Context, q DBTX, collection string) ([]models.MediaItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, collection, title, image_url, display_order
		FROM media_items
		WHERE collection=?
		ORDER BY display_order, id
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.MediaItem{}
	for rows.Next() {
		var m models.MediaItem
		if err := rows.Scan(&m.ID, &m.Collection, &m.Title, &m.ImageURL, &m.DisplayOrder); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// NextOrder returns the display order for an item appended to the collection.
func (r MediaRepo) NextOrder(ctx context.Context, q DBTX, collection string) (int, error) {
	var next int
	err := q.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(display_order), 0) + 1 FROM media_items WHERE collection=?
	`, collection).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r MediaRepo) Insert(ctx context.Context, q DBTX, m *models.MediaItem) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO media_items (collection, title, image_url, display_order, created_at)
		VALUES (?, ?, ?, ?, NOW())
	`, m.Collection, strings.TrimSpace(m.Title), strings.TrimSpace(m.ImageURL), m.DisplayOrder)
	if err != nil {
		return err
	}
	m.ID, _ = res.LastInsertId()
	return nil
}

func (r MediaRepo) Delete(ctx context.Context, q DBTX, collection string, id int64) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM media_items WHERE collection=? AND id=?`, collection, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r MediaRepo) UpdateOrder(ctx context.Context, q DBTX, collection string, id int64, order int) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE media_items SET display_order=? WHERE collection=? AND id=?
	`, order, collection, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
