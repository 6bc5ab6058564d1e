package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/telecare/telecare-api/internal/application"
	"github.com/telecare/telecare-api/internal/domain/entity"
	repo "github.com/telecare/telecare-api/internal/domain/repository"
)

type mockUserService struct {
	createFunc func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error)
	listFunc   func(ctx context.Context) ([]userapp.UserProjection, error)
	getFunc    func(ctx context.Context, id string) (*userapp.UserProjection, error)
	searchFunc func(ctx context.Context, q string, size int) ([]map[string]any, error)
}

func (m *mockUserService) CreateUser(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]userapp.UserProjection, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) GetUser(ctx context.Context, id string) (*userapp.UserProjection, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q, size)
	}
	return nil, errors.New("not implemented")
}

func setupRouter(svc UserService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewUserHandler(svc, logger)
	r := gin.New()
	r.GET("/", Health)
	r.POST("/api/users", h.Create)
	r.GET("/api/users", h.List)
	r.GET("/api/users/search", h.Search)
	r.GET("/api/users/:id", h.Get)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func sampleProjection() *userapp.UserProjection {
	now := time.Now().UTC()
	return &userapp.UserProjection{
		ID:        "8c2f9a44-0000-0000-0000-000000000001",
		Email:     "a@x.com",
		Role:      entity.RolePatient,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouter(&mockUserService{})
	w, _ := doJSON(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Server is running", w.Body.String())
}

func TestCreateUserCreated(t *testing.T) {
	var got userapp.CreateUserInput
	r := setupRouter(&mockUserService{
		createFunc: func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
			got = in
			return sampleProjection(), nil
		},
	})

	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "User created successfully", body["message"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "PATIENT", user["role"])
	assert.NotContains(t, user, "password")

	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "secret123", got.Password)
}

func TestCreateUserValidationError(t *testing.T) {
	r := setupRouter(&mockUserService{
		createFunc: func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
			return nil, userapp.ErrEmailAndPasswordRequired
		},
	})

	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", body["error"])
	assert.NotContains(t, body, "message")
}

func TestCreateUserMalformedBody(t *testing.T) {
	svcCalled := false
	r := setupRouter(&mockUserService{
		createFunc: func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
			svcCalled = true
			return sampleProjection(), nil
		},
	})

	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", body["error"])
	assert.False(t, svcCalled)
}

func TestCreateUserConflict(t *testing.T) {
	r := setupRouter(&mockUserService{
		createFunc: func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
			return nil, userapp.ErrUserExists
		},
	})

	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email or phone already exists", body["error"])
}

func TestCreateUserInternalError(t *testing.T) {
	r := setupRouter(&mockUserService{
		createFunc: func(ctx context.Context, in userapp.CreateUserInput) (*userapp.UserProjection, error) {
			return nil, errors.New("connection refused")
		},
	})

	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com","password":"secret123"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to create user", body["error"])
	assert.Equal(t, "connection refused", body["message"])
}

func TestListUsersOK(t *testing.T) {
	r := setupRouter(&mockUserService{
		listFunc: func(ctx context.Context) ([]userapp.UserProjection, error) {
			return []userapp.UserProjection{
				{ID: "2", Email: "b@x.com", Role: entity.RoleDoctor},
				{ID: "1", Email: "a@x.com", Role: entity.RolePatient},
			}, nil
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Users retrieved successfully", body["message"])
	assert.EqualValues(t, 2, body["count"])

	users, ok := body["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 2)
	first := users[0].(map[string]any)
	assert.Equal(t, "b@x.com", first["email"])
}

func TestListUsersEmptyOK(t *testing.T) {
	r := setupRouter(&mockUserService{
		listFunc: func(ctx context.Context) ([]userapp.UserProjection, error) {
			return []userapp.UserProjection{}, nil
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["count"])
	users, ok := body["users"].([]any)
	require.True(t, ok, "users must be an array even when empty")
	assert.Empty(t, users)
}

func TestListUsersInternalError(t *testing.T) {
	r := setupRouter(&mockUserService{
		listFunc: func(ctx context.Context) ([]userapp.UserProjection, error) {
			return nil, errors.New("boom")
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch users", body["error"])
	assert.Equal(t, "boom", body["message"])
}

func TestGetUserOK(t *testing.T) {
	r := setupRouter(&mockUserService{
		getFunc: func(ctx context.Context, id string) (*userapp.UserProjection, error) {
			p := sampleProjection()
			p.ID = id
			return p, nil
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users/8c2f9a44-0000-0000-0000-000000000001", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "User retrieved successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "8c2f9a44-0000-0000-0000-000000000001", user["id"])
	assert.NotContains(t, user, "password")
}

func TestGetUserNotFound(t *testing.T) {
	r := setupRouter(&mockUserService{
		getFunc: func(ctx context.Context, id string) (*userapp.UserProjection, error) {
			return nil, userapp.ErrUserNotFound
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users/never-created", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", body["error"])
	assert.NotContains(t, body, "message")
}

func TestGetUserInternalError(t *testing.T) {
	r := setupRouter(&mockUserService{
		getFunc: func(ctx context.Context, id string) (*userapp.UserProjection, error) {
			return nil, errors.New("boom")
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users/some-id", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to fetch user", body["error"])
	assert.Equal(t, "boom", body["message"])
}

func TestSearchRequiresQuery(t *testing.T) {
	svcCalled := false
	r := setupRouter(&mockUserService{
		searchFunc: func(ctx context.Context, q string, size int) ([]map[string]any, error) {
			svcCalled = true
			return nil, nil
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Query parameter q is required", body["error"])
	assert.False(t, svcCalled)
}

func TestSearchOK(t *testing.T) {
	r := setupRouter(&mockUserService{
		searchFunc: func(ctx context.Context, q string, size int) ([]map[string]any, error) {
			assert.Equal(t, "james", q)
			assert.Equal(t, 5, size)
			return []map[string]any{{"email": "james.walker@example.com"}}, nil
		},
	})

	w, body := doJSON(t, r, http.MethodGet, "/api/users/search?q=james&size=5", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
}

// memoryRepo is a minimal in-memory store used to exercise the full
// handler -> service -> repository path without Postgres. Email uniqueness
// is case-insensitive, matching the real schema.
type memoryRepo struct {
	mu    sync.Mutex
	seq   int
	users []entity.User
}

func (m *memoryRepo) Create(ctx context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repo.ErrDuplicate
		}
		if existing.Phone != nil && u.Phone != nil && *existing.Phone == *u.Phone {
			return repo.ErrDuplicate
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", m.seq)
	u.CreatedAt = time.Now().UTC().Add(time.Duration(m.seq) * time.Millisecond)
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryRepo) List(ctx context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.User, len(m.users))
	copy(out, m.users)
	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func TestUserLifecycleScenario(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := userapp.NewService(&memoryRepo{}, logger)
	r := setupRouter(svc)

	// First registration succeeds with the default role.
	w, body := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "PATIENT", user["role"])
	createdID := user["id"].(string)

	// Repeating the same registration conflicts.
	w, body = doJSON(t, r, http.MethodPost, "/api/users", `{"email":"a@x.com","password":"other456"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email or phone already exists", body["error"])

	// Case-insensitive collision also conflicts.
	w, _ = doJSON(t, r, http.MethodPost, "/api/users", `{"email":"A@X.COM","password":"other456"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Exactly one row exists.
	w, body = doJSON(t, r, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["count"])
	users := body["users"].([]any)
	assert.Equal(t, "a@x.com", users[0].(map[string]any)["email"])

	// The created id resolves back to the same user.
	w, body = doJSON(t, r, http.MethodGet, "/api/users/"+createdID, "")
	require.Equal(t, http.StatusOK, w.Code)
	fetched := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", fetched["email"])
	assert.NotEmpty(t, fetched["createdAt"])
	assert.NotEmpty(t, fetched["updatedAt"])
	assert.NotContains(t, fetched, "password")
}

func TestListNewestFirstOrdering(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := userapp.NewService(&memoryRepo{}, logger)
	r := setupRouter(svc)

	for _, email := range []string{"first@x.com", "second@x.com", "third@x.com"} {
		w, _ := doJSON(t, r, http.MethodPost, "/api/users", `{"email":"`+email+`","password":"secret123"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, body := doJSON(t, r, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := body["users"].([]any)
	require.Len(t, users, 3)
	assert.Equal(t, "third@x.com", users[0].(map[string]any)["email"])
	assert.Equal(t, "second@x.com", users[1].(map[string]any)["email"])
	assert.Equal(t, "first@x.com", users[2].(map[string]any)["email"])
}
