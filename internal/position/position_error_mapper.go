package position

import (
	"errors"

	positionerrors "hr-lite/internal/position/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return positionerrors.ErrPositionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "uq_positions_title" {
				return positionerrors.ErrPositionTitleTaken
			}
		case "23503":
			return positionerrors.ErrPositionInUse
		}
	}

	return err
}
