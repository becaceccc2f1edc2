package position_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hr-lite/internal/position"
	"hr-lite/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var positionColumns = []string{"id", "title", "created_at", "updated_at"}

func TestPositionRepository_FindAll(t *testing.T) {
	gdb, _, mock := dbtest.New(t)
	repo := position.NewRepository(gdb)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" ORDER BY title ASC`)).
		WillReturnRows(sqlmock.NewRows(positionColumns).
			AddRow(uuid.New().String(), "Software Engineer", now, now).
			AddRow(uuid.New().String(), "Accountant", now, now))

	positions, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, positions, 2)
	assert.Equal(t, "Software Engineer", positions[0].Title)
	assert.Equal(t, "Accountant", positions[1].Title)
}

func TestPositionRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gdb, _, mock := dbtest.New(t)
		repo := position.NewRepository(gdb)
		id := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(positionColumns).AddRow(id.String(), "Software Engineer", now, now))

		pos, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, pos.ID)
	})

	t.Run("missing", func(t *testing.T) {
		gdb, _, mock := dbtest.New(t)
		repo := position.NewRepository(gdb)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "positions" WHERE id = $1`)).
			WillReturnRows(sqlmock.NewRows(positionColumns))

		pos, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Nil(t, pos)
	})
}

func TestPositionRepository_ExistsByTitle(t *testing.T) {
	gdb, _, mock := dbtest.New(t)
	repo := position.NewRepository(gdb)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "positions" WHERE title = $1`)).
		WithArgs("Software Engineer").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := repo.ExistsByTitle(context.Background(), "Software Engineer")

	require.NoError(t, err)
	assert.True(t, taken)
}

func TestPositionRepository_CreateInsideTx(t *testing.T) {
	gdb, sqlDB, mock := dbtest.New(t)
	repo := position.NewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "positions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := sqlDB.Begin()
	require.NoError(t, err)

	pos := &position.Position{ID: uuid.New(), Title: "Software Engineer"}
	pos.Touch(time.Now())

	require.NoError(t, repo.WithTx(tx).Create(context.Background(), pos))
	require.NoError(t, tx.Commit())
}

func TestPositionRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		gdb, _, mock := dbtest.New(t)
		repo := position.NewRepository(gdb)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "positions" WHERE id = $1`)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
	})

	t.Run("no rows", func(t *testing.T) {
		gdb, _, mock := dbtest.New(t)
		repo := position.NewRepository(gdb)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "positions" WHERE id = $1`)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), gorm.ErrRecordNotFound)
	})
}
