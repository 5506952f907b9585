package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// TierDatabase names the primary persistence tier.
const TierDatabase = "database"

// DBWriter is the primary tier: direct relational inserts.
type DBWriter struct {
	db *gorm.DB
}

func NewDBWriter(db *gorm.DB) *DBWriter {
	return &DBWriter{db: db}
}

func (w *DBWriter) Name() string {
	return TierDatabase
}

// WriteOrder inserts the order header only; lines are written individually so
// a line failure cannot take the header down with it.
func (w *DBWriter) WriteOrder(ctx context.Context, order *models.Order) error {
	return w.db.WithContext(ctx).Omit("Lines").Create(order).Error
}

func (w *DBWriter) WriteLine(ctx context.Context, line *models.OrderLine) error {
	return w.db.WithContext(ctx).Create(line).Error
}
