package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/telecare/telecare-api/internal/domain/entity"
	repo "github.com/telecare/telecare-api/internal/domain/repository"
	"github.com/telecare/telecare-api/pkg/helpers"
	"github.com/telecare/telecare-api/pkg/mailer"
)

// Classified operation outcomes. The HTTP layer maps these to statuses;
// anything not in this list is an internal failure.
var (
	ErrEmailAndPasswordRequired = errors.New("email and password are required")
	ErrInvalidRole              = errors.New("role must be one of PATIENT, DOCTOR, ADMIN")
	ErrUserExists               = errors.New("user with this email or phone already exists")
	ErrUserNotFound             = errors.New("user not found")
)

// Service implements the user operations: create, list, get, search.
// Pub and ES are optional; when nil the welcome email and search indexing
// are skipped without affecting the core operations.
type Service struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	Pub          *helpers.RabbitPublisher
	MailEnabled  bool
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Logger: logger}
}

// UserProjection is the caller-facing view of a user. It deliberately has no
// password field; JSON keys follow the public wire format.
type UserProjection struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Phone     *string     `json:"phone"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func project(u *entity.User) *UserProjection {
	return &UserProjection{
		ID:        u.ID,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type CreateUserInput struct {
	Email    string
	Password string
	Phone    string
	Role     string
}

// CreateUser validates the input, hashes the password and inserts exactly one
// row. Validation happens before the store is touched; a uniqueness conflict
// surfaces as ErrUserExists. The welcome email and search indexing run after
// the insert and never fail the operation.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*UserProjection, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrEmailAndPasswordRequired
	}

	role := entity.RolePatient
	if in.Role != "" {
		role = entity.Role(in.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if in.Phone != "" {
		u.Phone = &in.Phone
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.enqueueWelcome(ctx, u)
	s.indexUser(ctx, u)

	return project(u), nil
}

// ListUsers returns all users as projections, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]UserProjection, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserProjection, 0, len(users))
	for i := range users {
		out = append(out, *project(&users[i]))
	}
	return out, nil
}

// GetUser returns a single user projection by id.
func (s *Service) GetUser(ctx context.Context, id string) (*UserProjection, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return project(u), nil
}

func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Email": u.Email, "Role": string(u.Role)},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome email enqueue failed")
	}
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	if u.Phone != nil {
		doc["phone"] = *u.Phone
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchUsers performs a simple multi_match search on email, phone and role.
// Returns an empty result set when Elasticsearch is not configured.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "phone", "role"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
