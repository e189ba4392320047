package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
)

type ProductRepo struct {
	DB *sql.DB
}

func (r ProductRepo) GetByID(ctx context.Context, q DBTX, id int64) (models.Product, error) {
	var p models.Product
	err := q.QueryRowContext(ctx, `SELECT id, name, price FROM products WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, domain.NotFoundError{Resource: "product"}
	}
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r ProductRepo) List(ctx context.Context, q DBTX) ([]models.Product, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, price FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r ProductRepo) Insert(ctx context.Context, q DBTX, p *models.Product) error {
	res, err := q.ExecContext(ctx, `INSERT INTO products (name, price, created_at) VALUES (?, ?, NOW())`,
		strings.TrimSpace(p.Name), p.Price)
	if err != nil {
		return err
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// GetSlotsByIDs returns only the requested slots that actually belong to the
// product; the lock transaction compares lengths to reject foreign slot ids.
func (r ProductRepo) GetSlotsByIDs(ctx context.Context, q DBTX, productID int64, slotIDs []int64) ([]models.Slot, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	ph := strings.TrimSuffix(strings.Repeat("?,", len(slotIDs)), ",")
	args := []any{productID}
	for _, id := range slotIDs {
		args = append(args, id)
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, label, start_time, end_time
		FROM slots
		WHERE product_id=? AND id IN (`+ph+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Slot{}
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Label, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ProductRepo) ListSlots(ctx context.Context, q DBTX, productID int64) ([]models.Slot, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, product_id, label, start_time, end_time
		FROM slots
		WHERE product_id=?
		ORDER BY start_time, id
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Slot{}
	for rows.Next() {
		var s models.Slot
		if err := rows.Scan(&s.ID, &s.ProductID, &s.Label, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ProductRepo) InsertSlot(ctx context.Context, q DBTX, s *models.Slot) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO slots (product_id, label, start_time, end_time) VALUES (?, ?, ?, ?)
	`, s.ProductID, strings.TrimSpace(s.Label), strings.TrimSpace(s.StartTime), strings.TrimSpace(s.EndTime))
	if err != nil {
		return err
	}
	s.ID, _ = res.LastInsertId()
	return nil
}
