package employee

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	employeeerrors "hr-lite/internal/employee/errors"
	"hr-lite/internal/events"
	"hr-lite/internal/media"
	"hr-lite/internal/shared/apperror"
	"hr-lite/internal/shared/contextutil"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minNameLength  = 2
	publishTimeout = 3 * time.Second
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest, photo PhotoUpload) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	List(ctx context.Context, query ListEmployeesQuery) ([]EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, query ListEmployeesQuery) (*bytes.Buffer, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	media     media.Store
	publisher EventPublisher
	validate  *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	store media.Store,
	publisher EventPublisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	return &service{
		db:        db,
		repo:      repo,
		media:     store,
		publisher: publisher,
		validate:  validator.New(),
		logger:    l,
		now:       time.Now,
	}
}

func (s *service) Create(
	ctx context.Context,
	req CreateEmployeeRequest,
	photo PhotoUpload,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	firstName, err := normalizeName("first_name", req.FirstName)
	if err != nil {
		return EmployeeResponse{}, err
	}
	lastName, err := normalizeName("last_name", req.LastName)
	if err != nil {
		return EmployeeResponse{}, err
	}
	email, err := s.normalizeEmail(req.Email)
	if err != nil {
		return EmployeeResponse{}, err
	}
	departmentID, err := parseID("department_id", req.DepartmentID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	positionID, err := parseID("position_id", req.PositionID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	hireDate, err := parseHireDate(req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", email),
		zap.String("department_id", departmentID.String()),
		zap.String("position_id", positionID.String()),
	)

	stored, err := s.media.Save(ctx, photo.Content, photo.ContentType)
	if err != nil {
		s.logger.Warn("create employee photo rejected", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	empl := &Employee{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		DepartmentID: departmentID,
		PositionID:   positionID,
		PhotoURL:     stored.URL,
		HireDate:     hireDate,
		Status:       StatusActive,
	}
	empl.Touch(s.now())

	created, err := s.persistNew(ctx, empl)
	if err != nil {
		// The cleanup must run even when the request context is gone.
		s.media.Delete(context.WithoutCancel(ctx), stored.Handle)
		s.logger.Warn("create employee failed, photo removed",
			zap.String("request_id", rid),
			zap.String("photo_url", stored.URL),
			zap.Error(err),
		)
		return EmployeeResponse{}, err
	}

	s.publishCreated(ctx, created)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", created.ID.String()),
	)
	return mapToResponse(*created), nil
}

// persistNew checks references and email uniqueness, inserts the row and
// reloads it with its relations, all in one transaction.
func (s *service) persistNew(ctx context.Context, empl *Employee) (*Employee, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := checkDepartment(ctx, qtx, empl.DepartmentID); err != nil {
		return nil, err
	}
	if err := checkPosition(ctx, qtx, empl.PositionID); err != nil {
		return nil, err
	}
	if err := checkEmail(ctx, qtx, empl.Email); err != nil {
		return nil, err
	}

	if err := qtx.Create(ctx, empl); err != nil {
		return nil, translateWriteError(err, empl.Email)
	}

	created, err := qtx.FindByID(ctx, empl.ID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *service) publishCreated(ctx context.Context, empl *Employee) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.EmployeeCreatedEvent{
		EventType:    events.EmployeeCreatedType,
		RequestID:    contextutil.GetRequestID(ctx),
		EmployeeID:   empl.ID.String(),
		Email:        empl.Email,
		DepartmentID: empl.DepartmentID.String(),
		PositionID:   empl.PositionID.String(),
		OccurredAt:   s.now().UTC(),
	}
	if err := s.publisher.PublishEmployeeCreated(pubCtx, event); err != nil {
		s.logger.Warn("publish employee created failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
	}
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	emplID, err := parseID("id", id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.FindByID(ctx, emplID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) List(ctx context.Context, query ListEmployeesQuery) ([]EmployeeResponse, int64, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Debug("list employees",
		zap.String("q", filter.Search),
		zap.Int("limit", filter.Limit),
		zap.Int("offset", filter.Offset),
	)

	empls, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return mapToListResponse(empls), total, nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	emplID, err := parseID("id", id)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, emplID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.applyUpdate(ctx, qtx, empl, req); err != nil {
		return EmployeeResponse{}, err
	}
	empl.Touch(s.now())

	if err := qtx.Update(ctx, empl); err != nil {
		return EmployeeResponse{}, translateWriteError(err, empl.Email)
	}

	updated, err := qtx.FindByID(ctx, emplID)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee updated", zap.String("employee_id", emplID.String()))
	return mapToResponse(*updated), nil
}

func (s *service) applyUpdate(ctx context.Context, qtx Repository, empl *Employee, req UpdateEmployeeRequest) error {
	if req.FirstName != nil {
		name, err := normalizeName("first_name", *req.FirstName)
		if err != nil {
			return err
		}
		empl.FirstName = name
	}

	if req.LastName != nil {
		name, err := normalizeName("last_name", *req.LastName)
		if err != nil {
			return err
		}
		empl.LastName = name
	}

	if req.Email != nil {
		email, err := s.normalizeEmail(*req.Email)
		if err != nil {
			return err
		}
		if email != empl.Email {
			if err := checkEmail(ctx, qtx, email); err != nil {
				return err
			}
			empl.Email = email
		}
	}

	if req.DepartmentID != nil {
		deptID, err := parseID("department_id", *req.DepartmentID)
		if err != nil {
			return err
		}
		if deptID != empl.DepartmentID {
			if err := checkDepartment(ctx, qtx, deptID); err != nil {
				return err
			}
			empl.DepartmentID = deptID
		}
	}

	if req.PositionID != nil {
		posID, err := parseID("position_id", *req.PositionID)
		if err != nil {
			return err
		}
		if posID != empl.PositionID {
			if err := checkPosition(ctx, qtx, posID); err != nil {
				return err
			}
			empl.PositionID = posID
		}
	}

	if req.HireDate != nil {
		hireDate, err := parseHireDate(*req.HireDate)
		if err != nil {
			return err
		}
		empl.HireDate = hireDate
	}

	if req.Status != nil {
		switch *req.Status {
		case StatusActive, StatusInactive:
			empl.Status = *req.Status
		default:
			return apperror.Validation("status", "Status must be one of: active inactive")
		}
	}

	return nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	emplID, err := parseID("id", id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	empl, err := qtx.FindByID(ctx, emplID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, emplID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if handle, ok := s.media.HandleForURL(empl.PhotoURL); ok {
		s.media.Delete(context.WithoutCancel(ctx), handle)
	}

	s.logger.Info("employee deleted", zap.String("employee_id", emplID.String()))
	return nil
}

func checkDepartment(ctx context.Context, repo Repository, id uuid.UUID) error {
	ok, err := repo.DepartmentExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return employeeerrors.ErrDepartmentNotFound.WithDetails(apperror.FieldError{
			Field:  "department_id",
			Reason: "Department does not exist",
		})
	}
	return nil
}

func checkPosition(ctx context.Context, repo Repository, id uuid.UUID) error {
	ok, err := repo.PositionExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return employeeerrors.ErrPositionNotFound.WithDetails(apperror.FieldError{
			Field:  "position_id",
			Reason: "Position does not exist",
		})
	}
	return nil
}

func checkEmail(ctx context.Context, repo Repository, email string) error {
	taken, err := repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return emailTaken(email)
	}
	return nil
}

func emailTaken(email string) error {
	return employeeerrors.ErrEmailTaken.WithDetails(apperror.DuplicateValue{
		Field: "email",
		Value: email,
	})
}

// translateWriteError maps an insert or update failure, attaching the email
// when the unique index fired after the pre-check passed.
func translateWriteError(err error, email string) error {
	mapped := mapRepositoryError(err)
	if errors.Is(mapped, employeeerrors.ErrEmailTaken) {
		return emailTaken(email)
	}
	return mapped
}

func normalizeName(field, value string) (string, error) {
	name := strings.TrimSpace(value)
	if utf8.RuneCountInString(name) < minNameLength {
		human := strings.ToUpper(field[:1]) + strings.ReplaceAll(field[1:], "_", " ")
		return "", apperror.Validation(field, fmt.Sprintf("%s must be at least %d characters long", human, minNameLength))
	}
	return name, nil
}

func (s *service) normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	if err := s.validate.Var(email, "required,email,max=100"); err != nil {
		return "", apperror.Validation("email", "Email must be a valid email address")
	}
	return email, nil
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, apperror.InvalidField(field)
	}
	return id, nil
}

// parseHireDate returns nil for an empty value.
func parseHireDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(hireDateLayout, value)
	if err != nil {
		return nil, apperror.Validation("hire_date", "Hire date must be formatted as YYYY-MM-DD")
	}
	return &d, nil
}

func buildFilter(query ListEmployeesQuery) (ListFilter, error) {
	limit := query.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return ListFilter{}, apperror.Validation("limit", fmt.Sprintf("Limit must be between 1 and %d", MaxListLimit))
	}
	if query.Offset < 0 {
		return ListFilter{}, apperror.Validation("offset", "Offset must be at least 0")
	}

	filter := ListFilter{
		Search: strings.TrimSpace(query.Q),
		Limit:  limit,
		Offset: query.Offset,
	}

	if query.DepartmentID != "" {
		id, err := parseID("department_id", query.DepartmentID)
		if err != nil {
			return ListFilter{}, err
		}
		filter.DepartmentID = &id
	}
	if query.PositionID != "" {
		id, err := parseID("position_id", query.PositionID)
		if err != nil {
			return ListFilter{}, err
		}
		filter.PositionID = &id
	}

	return filter, nil
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:        empl.ID.String(),
		FirstName: empl.FirstName,
		LastName:  empl.LastName,
		Email:     empl.Email,
		Status:    empl.Status,
		PhotoURL:  empl.PhotoURL,
		CreatedAt: formatTime(empl.CreatedAt),
		UpdatedAt: formatTime(empl.UpdatedAt),
	}
	if empl.HireDate != nil {
		d := empl.HireDate.Format(hireDateLayout)
		resp.HireDate = &d
	}
	if empl.Department != nil {
		resp.Department = &DepartmentSummary{
			ID:          empl.Department.ID.String(),
			Name:        empl.Department.Name,
			Description: empl.Department.Description,
		}
	}
	if empl.Position != nil {
		resp.Position = &PositionSummary{
			ID:    empl.Position.ID.String(),
			Title: empl.Position.Title,
		}
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
