package department

import (
	"context"
	"database/sql"
	"errors"
	"time"

	departmenterrors "hr-lite/internal/department/errors"
	"hr-lite/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const listFlightKey = "departments:all"

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	sf     singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

func (s *service) Create(
	ctx context.Context,
	req CreateDepartmentRequest,
) (DepartmentResponse, error) {
	s.logger.Debug("create department", zap.String("name", req.Name))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.ExistsByName(ctx, req.Name)
	if err != nil {
		return DepartmentResponse{}, err
	}
	if taken {
		return DepartmentResponse{}, nameTaken(req.Name)
	}

	dept := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	dept.Touch(s.now())

	if err := qtx.Create(ctx, dept); err != nil {
		return DepartmentResponse{}, s.translate(err, dept.Name)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("department_id", dept.ID.String()),
		zap.String("name", dept.Name),
	)
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	// The shared query outlives any single caller; each caller stops
	// waiting when its own context ends.
	ch := s.sf.DoChan(listFlightKey, func() (interface{}, error) {
		return s.repo.FindAll(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return mapToListResponse(res.Val.([]Department)), nil
	}
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	deptID, err := parseID(id)
	if err != nil {
		return DepartmentResponse{}, err
	}

	dept, err := s.repo.FindByID(ctx, deptID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*dept), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateDepartmentRequest,
) (DepartmentResponse, error) {
	deptID, err := parseID(id)
	if err != nil {
		return DepartmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, deptID)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}

	if req.Name != nil && *req.Name != dept.Name {
		taken, err := qtx.ExistsByName(ctx, *req.Name)
		if err != nil {
			return DepartmentResponse{}, err
		}
		if taken {
			return DepartmentResponse{}, nameTaken(*req.Name)
		}
		dept.Name = *req.Name
	}

	if req.Description != nil {
		if *req.Description == "" {
			dept.Description = nil
		} else {
			desc := *req.Description
			dept.Description = &desc
		}
	}

	dept.Touch(s.now())

	if err := qtx.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, s.translate(err, dept.Name)
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	deptID, err := parseID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, deptID); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, deptID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("department deleted", zap.String("department_id", deptID.String()))
	return nil
}

// translate maps a write failure, attaching the name when the unique
// index fired after the pre-check passed.
func (s *service) translate(err error, name string) error {
	mapped := mapRepositoryError(err)
	if errors.Is(mapped, departmenterrors.ErrDepartmentNameTaken) {
		return nameTaken(name)
	}
	return mapped
}

func nameTaken(name string) error {
	return departmenterrors.ErrDepartmentNameTaken.WithDetails(apperror.DuplicateValue{
		Field: "name",
		Value: name,
	})
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.InvalidField("id")
	}
	return parsed, nil
}

func mapToResponse(dept Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Description: dept.Description,
		CreatedAt:   formatTime(dept.CreatedAt),
		UpdatedAt:   formatTime(dept.UpdatedAt),
	}
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
