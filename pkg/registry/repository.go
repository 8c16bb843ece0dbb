package registry

import (
	"context"
	"errors"
	"time"

	"github.com/amrwatch/surveillance/pkg/common/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("isolate not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&IsolateRecord{})
}

func (r *Repository) Create(ctx context.Context, iso models.Isolate) error {
	rec := fromModel(iso)
	rec.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *Repository) Get(ctx context.Context, id string) (models.Isolate, error) {
	var rec IsolateRecord
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.Isolate{}, ErrNotFound
	}
	if result.Error != nil {
		return models.Isolate{}, result.Error
	}
	return rec.toModel(), nil
}

// Snapshot loads the full cleaned record set in insertion order. The
// analysis engine always works on this in-memory slice; it never touches
// the database directly.
func (r *Repository) Snapshot(ctx context.Context) ([]models.Isolate, error) {
	var recs []IsolateRecord
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	isolates := make([]models.Isolate, 0, len(recs))
	for _, rec := range recs {
		isolates = append(isolates, rec.toModel())
	}
	return isolates, nil
}

// CountsByYear reports isolate volume per year for operational checks.
func (r *Repository) CountsByYear(ctx context.Context) (map[int]int, error) {
	var rows []struct {
		Year  *int `gorm:"column:year"`
		Count int  `gorm:"column:count"`
	}
	err := r.db.WithContext(ctx).
		Model(&IsolateRecord{}).
		Select("year, count(*) as count").
		Group("year").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int, len(rows))
	for _, row := range rows {
		if row.Year != nil {
			counts[*row.Year] = row.Count
		}
	}
	return counts, nil
}
