package employee

import (
	"errors"

	employeeerrors "hr-lite/internal/employee/errors"
	"hr-lite/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if pgErr.ConstraintName == "uq_employees_email" {
				return employeeerrors.ErrEmailTaken
			}
		case "23503":
			switch pgErr.ConstraintName {
			case "fk_employees_department":
				return employeeerrors.ErrDepartmentNotFound
			case "fk_employees_position":
				return employeeerrors.ErrPositionNotFound
			}
		case "23514":
			if pgErr.ConstraintName == "ck_employees_status" {
				return apperror.InvalidField("status")
			}
		}
	}

	return err
}
