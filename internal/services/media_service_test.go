package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/techsrow/locationhubapi/internal/domain"
	"github.com/techsrow/locationhubapi/internal/domain/models"
	"github.com/techsrow/locationhubapi/internal/repositories"
)

func newMediaService(t *testing.T) (MediaService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return MediaService{DB: db, Media: repositories.MediaRepo{DB: db}}, mock, func() { db.Close() }
}

func TestMediaCreateAppendsAtEnd(t *testing.T) {
	svc, mock, closeDB := newMediaService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("COALESCE\\(MAX\\(display_order\\), 0\\)").WithArgs("sliders").
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(4))
	mock.ExpectExec("INSERT INTO media_items").
		WithArgs("sliders", "Hero", "https://cdn.example.com/hero.jpg", 4).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectCommit()

	item, err := svc.Create(context.Background(), "sliders", "Hero", "https://cdn.example.com/hero.jpg")
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if item.ID != 9 || item.DisplayOrder != 4 {
		t.Fatalf("unexpected item: %+v", item)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMediaCreateRequiresImageURL(t *testing.T) {
	svc, _, closeDB := newMediaService(t)
	defer closeDB()

	_, err := svc.Create(context.Background(), "sliders", "Hero", "  ")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMediaDeleteMissingIsNotFound(t *testing.T) {
	svc, mock, closeDB := newMediaService(t)
	defer closeDB()

	mock.ExpectExec("DELETE FROM media_items").WithArgs("props", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.Delete(context.Background(), "props", 99); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMediaReorderAtomic(t *testing.T) {
	svc, mock, closeDB := newMediaService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE media_items SET display_order").WithArgs(1, "sets", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE media_items SET display_order").WithArgs(2, "sets", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := svc.Reorder(context.Background(), "sets", []models.MediaReorderItem{
		{ID: 5, DisplayOrder: 1},
		{ID: 4, DisplayOrder: 2},
	})
	if err != nil {
		t.Fatalf("reorder error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
