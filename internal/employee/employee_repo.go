package employee

import (
	"context"
	"database/sql"
	"strings"

	"hr-lite/internal/department"
	"hr-lite/internal/position"
	"hr-lite/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListFilter is the repository form of ListEmployeesQuery: ids are parsed
// and bounds already checked.
type ListFilter struct {
	DepartmentID *uuid.UUID
	PositionID   *uuid.UUID
	Search       string
	Limit        int
	Offset       int
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)
	PositionExists(ctx context.Context, id uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	List(ctx context.Context, filter ListFilter) ([]Employee, int64, error)
	Update(ctx context.Context, empl *Employee) error
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

func (r *repository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&department.Department{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) PositionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&position.Position{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).
		Omit(clause.Associations).
		Create(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Preload("Department").
		Preload("Position").
		Where("id = ?", id).
		First(&empl).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Employee, int64, error) {
	session := r.conn(ctx)

	var total int64
	if err := applyFilter(session.Model(&Employee{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var empls []Employee
	err := applyFilter(session, filter).
		Preload("Department").
		Preload("Position").
		Order("last_name ASC").
		Order("id ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&empls).Error
	if err != nil {
		return nil, 0, err
	}

	return empls, total, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).
		Omit(clause.Associations).
		Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).
		Where("id = ?", id).
		Delete(&Employee{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyFilter(db *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.DepartmentID != nil {
		db = db.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.PositionID != nil {
		db = db.Where("position_id = ?", *filter.PositionID)
	}
	if filter.Search != "" {
		like := "%" + likeEscaper.Replace(filter.Search) + "%"
		db = db.Where("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?)", like, like, like)
	}
	return db
}

// likeEscaper makes user input match literally inside an ILIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
