package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/repositories"
)

// CatalogService manages bookable products and their fixed time slots. The
// booking core only reads this catalog; price changes never touch amounts
// already frozen into bookings.
type CatalogService struct {
	DB       *sql.DB
	Products repositories.ProductRepo
}

type SlotInput struct {
	Label     string `json:"label" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

func (s CatalogService) CreateProduct(ctx context.Context, name string, price float64, slots []SlotInput) (models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Product{}, domain.ValidationError{Field: "name", Msg: "is required"}
	}
	if price <= 0 {
		return models.Product{}, domain.ValidationError{Field: "price", Msg: "must be greater than zero"}
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Product{}, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	product := models.Product{Name: name, Price: price}
	if err := s.Products.Insert(ctx, tx, &product); err != nil {
		return models.Product{}, domain.InternalError{Err: err}
	}

	for _, in := range slots {
		slot := models.Slot{
			ProductID: product.ID,
			Label:     in.Label,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		if err := s.Products.InsertSlot(ctx, tx, &slot); err != nil {
			return models.Product{}, domain.InternalError{Err: err}
		}
		product.Slots = append(product.Slots, slot)
	}

	if err := tx.Commit(); err != nil {
		return models.Product{}, domain.InternalError{Err: err}
	}
	return product, nil
}

func (s CatalogService) CreateSlot(ctx context.Context, productID int64, in SlotInput) (models.Slot, error) {
	if _, err := s.Products.GetByID(ctx, s.DB, productID); err != nil {
		return models.Slot{}, err
	}
	slot := models.Slot{
		ProductID: productID,
		Label:     in.Label,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
	if err := s.Products.InsertSlot(ctx, s.DB, &slot); err != nil {
		return models.Slot{}, domain.InternalError{Err: err}
	}
	return slot, nil
}

// GetProduct returns the product with its slots.
func (s CatalogService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	product, err := s.Products.GetByID(ctx, s.DB, id)
	if err != nil {
		return models.Product{}, err
	}
	slots, err := s.Products.ListSlots(ctx, s.DB, id)
	if err != nil {
		return models.Product{}, domain.InternalError{Err: err}
	}
	product.Slots = slots
	return product, nil
}

func (s CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.Products.List(ctx, s.DB)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	return products, nil
}
