package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andresvelez/golmarket-backend/internal/identity"
	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

// StoreRepository persists account carts in the relational store. One cart
// row per user, created lazily on the first mutation.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *StoreRepository) WithTx(tx *gorm.DB) *StoreRepository {
	if tx == nil {
		return r
	}
	return &StoreRepository{db: tx}
}

func (r *StoreRepository) findCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *StoreRepository) ensureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	existing, err := r.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	record := &models.Cart{ID: uuid.New(), UserID: userID}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func requireAccount(owner identity.Identity) error {
	if !owner.IsAccount() || owner.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account identity required")
	}
	return nil
}

// GetLines returns the user's cart lines. No cart means an empty cart.
func (r *StoreRepository) GetLines(ctx context.Context, owner identity.Identity) ([]Line, error) {
	if err := requireAccount(owner); err != nil {
		return nil, err
	}

	record, err := r.findCart(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	var rows []models.CartLine
	err = r.db.WithContext(ctx).
		Where("cart_id = ?", record.ID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, lineFromModel(row))
	}
	return lines, nil
}

// SetLineQuantity upserts the line keyed by (product, variant).
func (r *StoreRepository) SetLineQuantity(ctx context.Context, owner identity.Identity, line Line) (*Line, error) {
	if err := requireAccount(owner); err != nil {
		return nil, err
	}
	if line.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	record, err := r.ensureCart(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", record.ID, line.ProductID)
	if line.SizeVariant == nil {
		query = query.Where("size_variant IS NULL")
	} else {
		query = query.Where("size_variant = ?", *line.SizeVariant)
	}

	var existing models.CartLine
	err = query.First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.CartLine{
			ID:           uuid.New(),
			CartID:       record.ID,
			ProductID:    line.ProductID,
			SizeVariant:  line.SizeVariant,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
		}
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
		stored := lineFromModel(row)
		return &stored, nil
	case err != nil:
		return nil, err
	}

	existing.Quantity = line.Quantity
	if err := r.db.WithContext(ctx).Model(&existing).Update("quantity", line.Quantity).Error; err != nil {
		return nil, err
	}
	stored := lineFromModel(existing)
	return &stored, nil
}

// RemoveLine deletes a line by id; absent lines are a no-op.
func (r *StoreRepository) RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error {
	if err := requireAccount(owner); err != nil {
		return err
	}

	id, err := uuid.Parse(lineID)
	if err != nil {
		return nil
	}

	record, err := r.findCart(ctx, owner.UserID)
	if err != nil || record == nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", id, record.ID).
		Delete(&models.CartLine{}).Error
}

// Clear removes every line while keeping the cart row itself.
func (r *StoreRepository) Clear(ctx context.Context, owner identity.Identity) error {
	if err := requireAccount(owner); err != nil {
		return err
	}

	record, err := r.findCart(ctx, owner.UserID)
	if err != nil || record == nil {
		return err
	}

	return r.db.WithContext(ctx).
		Where("cart_id = ?", record.ID).
		Delete(&models.CartLine{}).Error
}
