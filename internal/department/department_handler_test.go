package department_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"hr-lite/internal/department"
	departmenterrors "hr-lite/internal/department/errors"
	"hr-lite/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	os.Exit(m.Run())
}

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeDepartmentService struct {
	CreateFn  func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetAllFn  func(ctx context.Context) ([]department.DepartmentResponse, error)
	GetByIDFn func(ctx context.Context, id string) (department.DepartmentResponse, error)
	UpdateFn  func(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)
	DeleteFn  func(ctx context.Context, id string) error
}

func (f *fakeDepartmentService) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeDepartmentService) GetAll(ctx context.Context) ([]department.DepartmentResponse, error) {
	return f.GetAllFn(ctx)
}
func (f *fakeDepartmentService) GetByID(ctx context.Context, id string) (department.DepartmentResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeDepartmentService) Update(ctx context.Context, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeDepartmentService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter(svc department.Service) *gin.Engine {
	r := gin.New()
	department.RegisterRoutes(r, department.NewHandler(svc, zap.NewNop()))
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func TestDepartmentHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			CreateFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				assert.Equal(t, "Engineering", req.Name)
				assert.Nil(t, req.Description)
				return department.DepartmentResponse{ID: uuid.New().String(), Name: req.Name}, nil
			},
		}

		w := serve(setupRouter(svc), http.MethodPost, "/departments", `{"name":"Engineering"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got department.DepartmentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Engineering", got.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		w := serve(setupRouter(&fakeDepartmentService{}), http.MethodPost, "/departments", `{}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		var details apperror.FieldError
		assert.NoError(t, json.Unmarshal(env.Error.Details, &details))
		assert.Equal(t, "name", details.Field)
	})

	t.Run("name too short", func(t *testing.T) {
		w := serve(setupRouter(&fakeDepartmentService{}), http.MethodPost, "/departments", `{"name":"E"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := serve(setupRouter(&fakeDepartmentService{}), http.MethodPost, "/departments", `{"name":`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("conflict", func(t *testing.T) {
		svc := &fakeDepartmentService{
			CreateFn: func(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentNameTaken.WithDetails(
					apperror.DuplicateValue{Field: "name", Value: req.Name},
				)
			},
		}

		w := serve(setupRouter(svc), http.MethodPost, "/departments", `{"name":"Engineering"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
		assert.JSONEq(t, `{"field":"name","value":"Engineering"}`, string(env.Error.Details))
	})
}

func TestDepartmentHandler_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetAllFn: func(ctx context.Context) ([]department.DepartmentResponse, error) {
				return []department.DepartmentResponse{{Name: "Engineering"}, {Name: "Finance"}}, nil
			},
		}

		w := serve(setupRouter(svc), http.MethodGet, "/departments", "")

		assert.Equal(t, http.StatusOK, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		var got []department.DepartmentResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
	})

	t.Run("internal error hides details", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetAllFn: func(ctx context.Context) ([]department.DepartmentResponse, error) {
				return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
			},
		}

		w := serve(setupRouter(svc), http.MethodGet, "/departments", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
		assert.Equal(t, "Internal server error", env.Error.Message)
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})
}

func TestDepartmentHandler_GetByID(t *testing.T) {
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetByIDFn: func(ctx context.Context, got string) (department.DepartmentResponse, error) {
				assert.Equal(t, id, got)
				return department.DepartmentResponse{ID: got, Name: "Finance"}, nil
			},
		}

		w := serve(setupRouter(svc), http.MethodGet, "/departments/"+id, "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeDepartmentService{
			GetByIDFn: func(ctx context.Context, got string) (department.DepartmentResponse, error) {
				return department.DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
			},
		}

		w := serve(setupRouter(svc), http.MethodGet, "/departments/"+id, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestDepartmentHandler_Update(t *testing.T) {
	id := uuid.New().String()

	t.Run("partial body", func(t *testing.T) {
		svc := &fakeDepartmentService{
			UpdateFn: func(ctx context.Context, got string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
				assert.Equal(t, id, got)
				assert.Nil(t, req.Name)
				assert.Equal(t, "Runs payroll", *req.Description)
				return department.DepartmentResponse{ID: got, Name: "Finance", Description: req.Description}, nil
			},
		}

		w := serve(setupRouter(svc), http.MethodPatch, "/departments/"+id, `{"description":"Runs payroll"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid name", func(t *testing.T) {
		w := serve(setupRouter(&fakeDepartmentService{}), http.MethodPatch, "/departments/"+id, `{"name":"x"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestDepartmentHandler_Delete(t *testing.T) {
	id := uuid.New().String()

	t.Run("no content", func(t *testing.T) {
		svc := &fakeDepartmentService{
			DeleteFn: func(ctx context.Context, got string) error {
				assert.Equal(t, id, got)
				return nil
			},
		}

		w := serve(setupRouter(svc), http.MethodDelete, "/departments/"+id, "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("in use", func(t *testing.T) {
		svc := &fakeDepartmentService{
			DeleteFn: func(ctx context.Context, got string) error {
				return departmenterrors.ErrDepartmentInUse
			},
		}

		w := serve(setupRouter(svc), http.MethodDelete, "/departments/"+id, "")

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
