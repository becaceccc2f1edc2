package position

import (
	"context"
	"database/sql"
	"errors"
	"time"

	positionerrors "hr-lite/internal/position/errors"
	"hr-lite/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const listFlightKey = "positions:all"

//go:generate mockgen -source=position_service.go -destination=mock/position_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context) ([]PositionResponse, error)
	GetByID(ctx context.Context, id string) (PositionResponse, error)
	Update(ctx context.Context, id string, req UpdatePositionRequest) (PositionResponse, error)
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
	l := zap.L().Named("position.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("position.service")
	}
	return &service{db: db, repo: repo, logger: l, now: time.Now}
}

func (s *service) Create(
	ctx context.Context,
	req CreatePositionRequest,
) (PositionResponse, error) {
	s.logger.Debug("create position", zap.String("title", req.Title))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	taken, err := qtx.ExistsByTitle(ctx, req.Title)
	if err != nil {
		return PositionResponse{}, err
	}
	if taken {
		return PositionResponse{}, titleTaken(req.Title)
	}

	pos := &Position{
		ID:    uuid.New(),
		Title: req.Title,
	}
	pos.Touch(s.now())

	if err := qtx.Create(ctx, pos); err != nil {
		return PositionResponse{}, s.translate(err, pos.Title)
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	s.logger.Info("position created",
		zap.String("position_id", pos.ID.String()),
		zap.String("title", pos.Title),
	)
	return mapToResponse(*pos), nil
}

func (s *service) GetAll(ctx context.Context) ([]PositionResponse, error) {
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
		return mapToListResponse(res.Val.([]Position)), nil
	}
}

func (s *service) GetByID(ctx context.Context, id string) (PositionResponse, error) {
	posID, err := parseID(id)
	if err != nil {
		return PositionResponse{}, err
	}

	pos, err := s.repo.FindByID(ctx, posID)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*pos), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdatePositionRequest,
) (PositionResponse, error) {
	posID, err := parseID(id)
	if err != nil {
		return PositionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByID(ctx, posID)
	if err != nil {
		return PositionResponse{}, mapRepositoryError(err)
	}

	if req.Title != nil && *req.Title != pos.Title {
		taken, err := qtx.ExistsByTitle(ctx, *req.Title)
		if err != nil {
			return PositionResponse{}, err
		}
		if taken {
			return PositionResponse{}, titleTaken(*req.Title)
		}
		pos.Title = *req.Title
	}

	pos.Touch(s.now())

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, s.translate(err, pos.Title)
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	return mapToResponse(*pos), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	posID, err := parseID(id)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, posID); err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, posID); err != nil {
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("position deleted", zap.String("position_id", posID.String()))
	return nil
}

// translate maps a write failure, attaching the title when the unique
// index fired after the pre-check passed.
func (s *service) translate(err error, title string) error {
	mapped := mapRepositoryError(err)
	if errors.Is(mapped, positionerrors.ErrPositionTitleTaken) {
		return titleTaken(title)
	}
	return mapped
}

func titleTaken(title string) error {
	return positionerrors.ErrPositionTitleTaken.WithDetails(apperror.DuplicateValue{
		Field: "title",
		Value: title,
	})
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.InvalidField("id")
	}
	return parsed, nil
}

func mapToResponse(pos Position) PositionResponse {
	return PositionResponse{
		ID:        pos.ID.String(),
		Title:     pos.Title,
		CreatedAt: formatTime(pos.CreatedAt),
		UpdatedAt: formatTime(pos.UpdatedAt),
	}
}

func mapToListResponse(positions []Position) []PositionResponse {
	res := make([]PositionResponse, len(positions))
	for i, d := range positions {
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
