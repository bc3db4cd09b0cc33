package repository

import (
	"context"

	"gorm.io/gorm"

	"favtrack/internal/model"
)

// FavoriteRepository defines favorite persistence operations. Every method
// takes the owner id and routes through ownedBy, so a query that is not
// scoped to its owner cannot be expressed here.
type FavoriteRepository interface {
	Create(ctx context.Context, fav *model.Favorite) error
	FindOwned(ctx context.Context, ownerID, id uint) (*model.Favorite, error)
	ListOwned(ctx context.Context, ownerID uint, limit, offset int) ([]model.Favorite, error)
	CountOwned(ctx context.Context, ownerID uint) (int64, error)
	UpdateOwned(ctx context.Context, fav *model.Favorite, updates map[string]interface{}) error
	DeleteOwned(ctx context.Context, ownerID, id uint) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// ownedBy is the single owner-scoping predicate all queries go through.
func ownedBy(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", ownerID)
	}
}

func (r *favoriteRepository) Create(ctx context.Context, fav *model.Favorite) error {
	return r.db.WithContext(ctx).Create(fav).Error
}

func (r *favoriteRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Favorite, error) {
	var fav model.Favorite
	err := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) ListOwned(ctx context.Context, ownerID uint, limit, offset int) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}

func (r *favoriteRepository) CountOwned(ctx context.Context, ownerID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).Scopes(ownedBy(ownerID)).Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateOwned applies a partial update to an already owner-checked record.
func (r *favoriteRepository) UpdateOwned(ctx context.Context, fav *model.Favorite, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(fav).Scopes(ownedBy(fav.UserID)).Updates(updates).Error
}

// DeleteOwned removes a record if owned and returns the affected row count.
// Zero rows means the record never existed or belongs to someone else.
func (r *favoriteRepository) DeleteOwned(ctx context.Context, ownerID, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Scopes(ownedBy(ownerID)).Where("id = ?", id).Delete(&model.Favorite{})
	return res.RowsAffected, res.Error
}
