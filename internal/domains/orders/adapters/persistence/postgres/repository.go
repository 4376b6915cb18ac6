package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dineflow/internal/domains/orders/adapters/codec"
	"github.com/Apurer/dineflow/internal/domains/orders/domain"
	"github.com/Apurer/dineflow/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the order history in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderRecord maps a ticket to a relational row. ItemIDs mirrors the line
// references so orders can be queried by item without decoding Lines.
type OrderRecord struct {
	ID              int64              `gorm:"primaryKey;autoIncrement:false;column:id"`
	TableNumber     int                `gorm:"column:table_number;index"`
	CustomerName    string             `gorm:"column:customer_name"`
	ItemIDs         pq.StringArray     `gorm:"column:item_ids;type:text[]"`
	Lines           []codec.LineRecord `gorm:"column:lines;serializer:json"`
	Status          string             `gorm:"column:status;type:varchar(16);index"`
	Instructions    string             `gorm:"column:instructions"`
	DiscountPercent decimal.Decimal    `gorm:"column:discount_percent;type:numeric"`
	CreatedAt       time.Time          `gorm:"column:created_at;index"`
	UpdatedAt       time.Time          `gorm:"column:updated_at"`
}

func (OrderRecord) TableName() string { return "orders" }

// Load returns every ticket ordered by ID.
func (r *Repository) Load(ctx context.Context) ([]*domain.Ticket, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []OrderRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	tickets := make([]*domain.Ticket, 0, len(records))
	for i := range records {
		t, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// Save upserts every ticket. Orders are never deleted.
func (r *Repository) Save(ctx context.Context, tickets []*domain.Ticket) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if len(tickets) == 0 {
		return nil
	}
	records := make([]OrderRecord, 0, len(tickets))
	for _, t := range tickets {
		if t != nil {
			records = append(records, toRecord(t))
		}
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"table_number", "customer_name", "item_ids", "lines", "status", "instructions", "discount_percent", "updated_at",
		}),
	}).Create(&records).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(t *domain.Ticket) OrderRecord {
	rec := codec.FromDomain(t)
	return OrderRecord{
		ID:              rec.ID,
		TableNumber:     rec.TableNumber,
		CustomerName:    rec.CustomerName,
		ItemIDs:         pq.StringArray(t.ItemIDs()),
		Lines:           rec.Lines,
		Status:          rec.Status,
		Instructions:    rec.Instructions,
		DiscountPercent: rec.DiscountPercent,
		CreatedAt:       rec.CreatedAt,
	}
}

func (r OrderRecord) toDomain() (*domain.Ticket, error) {
	return codec.TicketRecord{
		ID:              r.ID,
		TableNumber:     r.TableNumber,
		CustomerName:    r.CustomerName,
		Lines:           r.Lines,
		CreatedAt:       r.CreatedAt,
		Status:          r.Status,
		Instructions:    r.Instructions,
		DiscountPercent: r.DiscountPercent,
	}.ToDomain()
}
