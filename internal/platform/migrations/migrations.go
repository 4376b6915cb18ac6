package migrations

import (
	"gorm.io/gorm"

	menucodec "github.com/Apurer/dineflow/internal/domains/menu/adapters/codec"
	orderspostgres "github.com/Apurer/dineflow/internal/domains/orders/adapters/persistence/postgres"
)

// Run applies the catalog and order history schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&menucodec.Record{},
		&orderspostgres.OrderRecord{},
	)
}
