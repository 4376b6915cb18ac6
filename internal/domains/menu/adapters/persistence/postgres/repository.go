package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dineflow/internal/domains/menu/adapters/codec"
	"github.com/Apurer/dineflow/internal/domains/menu/domain"
	"github.com/Apurer/dineflow/internal/domains/menu/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository stores the catalog snapshot in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns every item ordered by catalog position.
func (r *Repository) Load(ctx context.Context) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []codec.Record
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return codec.ToDomainList(records)
}

// Save replaces the stored catalog with items inside one transaction.
func (r *Repository) Save(ctx context.Context, items []*domain.Item) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	records := codec.FromDomainList(items)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		stale := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			stale = tx.Where("id NOT IN ?", ids)
		}
		if err := stale.Delete(&codec.Record{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"position", "kind", "name", "base_price", "available", "popularity",
				"dietary", "cuisine", "prep_minutes", "spicy", "serving_size", "alcoholic", "temperature", "updated_at",
			}),
		}).Create(&records).Error
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres menu repository not configured")
	}
	return nil
}
