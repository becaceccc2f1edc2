//go:build integration

package employee_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"hr-lite/internal/department"
	departmenterrors "hr-lite/internal/department/errors"
	"hr-lite/internal/employee"
	employeeerrors "hr-lite/internal/employee/errors"
	"hr-lite/internal/media"
	"hr-lite/internal/position"
	"hr-lite/internal/shared/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type integrationEnv struct {
	departments department.Service
	positions   position.Service
	employees   employee.Service
	mediaRoot   string
}

// setupIntegration needs TEST_DATABASE_DSN pointing at a throwaway database.
func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(sqlDB, zap.NewNop()))
	_, err = sqlDB.Exec("TRUNCATE employees, positions, departments")
	require.NoError(t, err)

	root := t.TempDir()
	store := media.NewLocalStore(root, "/media", zap.NewNop())

	return &integrationEnv{
		departments: department.NewService(sqlDB, department.NewRepository(gormDB), zap.NewNop()),
		positions:   position.NewService(sqlDB, position.NewRepository(gormDB), zap.NewNop()),
		employees:   employee.NewService(sqlDB, employee.NewRepository(gormDB), store, nil, zap.NewNop()),
		mediaRoot:   root,
	}
}

func TestIntegration_EmployeeLifecycle(t *testing.T) {
	env := setupIntegration(t)
	ctx := context.Background()

	dept, err := env.departments.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	pos, err := env.positions.Create(ctx, position.CreatePositionRequest{Title: "Software Engineer"})
	require.NoError(t, err)

	photo := employee.PhotoUpload{Content: bytes.Repeat([]byte{0xFF}, 512), ContentType: "image/jpeg"}
	req := employee.CreateEmployeeRequest{
		FirstName:    "Jane",
		LastName:     "Smith",
		Email:        "jane.smith@example.com",
		DepartmentID: dept.ID,
		PositionID:   pos.ID,
		HireDate:     "2024-03-01",
	}

	created, err := env.employees.Create(ctx, req, photo)
	require.NoError(t, err)
	require.NotNil(t, created.Department)
	assert.Equal(t, "Engineering", created.Department.Name)
	assert.Equal(t, "Software Engineer", created.Position.Title)
	assert.Len(t, storedPhotos(t, env.mediaRoot), 1)

	t.Run("duplicate email leaves no extra photo", func(t *testing.T) {
		dup := req
		dup.FirstName = "Janet"
		dup.Email = "JANE.SMITH@example.com"

		_, err := env.employees.Create(ctx, dup, photo)
		assert.ErrorIs(t, err, employeeerrors.ErrEmailTaken)
		assert.Len(t, storedPhotos(t, env.mediaRoot), 1)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		list, total, err := env.employees.List(ctx, employee.ListEmployeesQuery{Q: "SMITH", Limit: 20})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, created.ID, list[0].ID)
	})

	t.Run("referenced department cannot be deleted", func(t *testing.T) {
		err := env.departments.Delete(ctx, dept.ID)
		assert.ErrorIs(t, err, departmenterrors.ErrDepartmentInUse)
	})

	t.Run("delete removes row and photo", func(t *testing.T) {
		require.NoError(t, env.employees.Delete(ctx, created.ID))

		_, err := env.employees.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.Empty(t, storedPhotos(t, env.mediaRoot))
	})
}
