package position

import (
	"context"
	"database/sql"

	"hr-lite/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=position_repo.go -destination=mock/position_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, pos *Position) error
	FindAll(ctx context.Context) ([]Position, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Position, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.conn(ctx).Create(pos).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Position, error) {
	var positions []Position
	err := r.conn(ctx).
		Order("title ASC").
		Find(&positions).Error
	return positions, err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Position, error) {
	var pos Position
	err := r.conn(ctx).
		Where("id = ?", id).
		First(&pos).Error
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *repository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Position{}).
		Where("title = ?", title).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	return r.conn(ctx).Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).
		Where("id = ?", id).
		Delete(&Position{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
