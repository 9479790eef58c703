package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/eaclient/user-api/internal/domain"
	"github.com/eaclient/user-api/internal/transport/http/handler"
	"github.com/eaclient/user-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserUsecase implements the unexported userUsecaser interface via method
// matching.
type fakeUserUsecase struct {
	list    func(ctx context.Context) ([]domain.User, error)
	getByID func(ctx context.Context, id int64) (*domain.User, error)
	create  func(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	update  func(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	delete  func(ctx context.Context, id int64) (*domain.User, error)
}

func (f *fakeUserUsecase) List(ctx context.Context) ([]domain.User, error) {
	return f.list(ctx)
}

func (f *fakeUserUsecase) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return f.getByID(ctx, id)
}

func (f *fakeUserUsecase) Create(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error) {
	return f.create(ctx, input)
}

func (f *fakeUserUsecase) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	return f.update(ctx, id, patch)
}

func (f *fakeUserUsecase) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return f.delete(ctx, id)
}

func newUserTestEngine(uc *fakeUserUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewUserHandler(uc, logger)

	r := gin.New()
	r.GET("/api/users", h.List)
	r.POST("/api/users", h.Create)
	r.GET("/api/users/:id", h.GetByID)
	r.PUT("/api/users/:id", h.Update)
	r.DELETE("/api/users/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListUsers_EmptyIsArrayNotError(t *testing.T) {
	uc := &fakeUserUsecase{
		list: func(_ context.Context) ([]domain.User, error) { return []domain.User{}, nil },
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodGet, "/api/users", "")

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestListUsers_StoreError_Returns500(t *testing.T) {
	uc := &fakeUserUsecase{
		list: func(_ context.Context) ([]domain.User, error) { return nil, errors.New("store down") },
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodGet, "/api/users", "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "details") {
		t.Errorf("body = %s, want a details field", w.Body.String())
	}
}

func TestCreateUser_MissingFields_Returns400(t *testing.T) {
	uc := &fakeUserUsecase{}
	r := newUserTestEngine(uc)

	for _, body := range []string{`{}`, `{"name":"Alice"}`, `{"email":"a@x.com"}`, `{bad json}`} {
		w := doJSON(t, r, http.MethodPost, "/api/users", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, w.Code)
		}
	}
}

func TestCreateUser_DuplicateEmail_Returns400(t *testing.T) {
	uc := &fakeUserUsecase{
		create: func(_ context.Context, _ usecase.CreateUserInput) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodPost, "/api/users",
		`{"name":"Alice","email":"alice@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateUser_Success_Returns201(t *testing.T) {
	uc := &fakeUserUsecase{
		create: func(_ context.Context, input usecase.CreateUserInput) (*domain.User, error) {
			return &domain.User{ID: 1, Name: input.Name, Email: input.Email}, nil
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodPost, "/api/users",
		`{"name":"Alice","email":"alice@example.com","age":28,"city":"Beijing"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var got domain.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 1 || got.Name != "Alice" {
		t.Errorf("body = %+v, want created record", got)
	}
}

func TestGetUser_NonNumericID_Returns404(t *testing.T) {
	uc := &fakeUserUsecase{}
	w := doJSON(t, newUserTestEngine(uc), http.MethodGet, "/api/users/abc", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetUser_NotFound_Returns404(t *testing.T) {
	uc := &fakeUserUsecase{
		getByID: func(_ context.Context, _ int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodGet, "/api/users/99", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateUser_NullName_Returns400(t *testing.T) {
	uc := &fakeUserUsecase{}
	w := doJSON(t, newUserTestEngine(uc), http.MethodPut, "/api/users/1", `{"name":null}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateUser_EmailConflict_Returns400(t *testing.T) {
	uc := &fakeUserUsecase{
		update: func(_ context.Context, _ int64, _ domain.UserPatch) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodPut, "/api/users/1",
		`{"email":"taken@example.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestDeleteUser_Success_ReturnsConfirmation(t *testing.T) {
	uc := &fakeUserUsecase{
		delete: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Name: "Alice"}, nil
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodDelete, "/api/users/7", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 7 || !strings.Contains(got.Message, "Alice") {
		t.Errorf("body = %+v, want id 7 and the deleted name", got)
	}
}

func TestDeleteUser_NotFound_Returns404(t *testing.T) {
	uc := &fakeUserUsecase{
		delete: func(_ context.Context, _ int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	w := doJSON(t, newUserTestEngine(uc), http.MethodDelete, "/api/users/99", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
