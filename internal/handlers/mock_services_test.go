package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	appMiddleware "github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
	"github.com/devconnector/backend/internal/token"
)

type memUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User // id hex -> user
	byEmail map[string]string
	err     error // forced failure for storage-error paths
}

func newMemUserService() *memUserService {
	return &memUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *memUserService) Create(_ context.Context, user *models.User) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return nil, services.ErrEmailExists
	}
	u := *user
	u.ID = primitive.NewObjectID()
	u.Date = time.Now()
	s.users[u.ID.Hex()] = &u
	s.byEmail[u.Email] = u.ID.Hex()
	return &u, nil
}

func (s *memUserService) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, services.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *memUserService) GetByID(_ context.Context, id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, services.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *memUserService) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, exists := s.users[id.Hex()]; exists {
			u := *user
			out[id] = &u
		}
	}
	return out, nil
}

func (s *memUserService) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, exists := s.users[id]; exists {
		delete(s.byEmail, user.Email)
		delete(s.users, id)
	}
	return nil
}

type memProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile // user id hex -> profile
	err      error
}

func newMemProfileService() *memProfileService {
	return &memProfileService{profiles: make(map[string]*models.Profile)}
}

func (s *memProfileService) GetByUserID(_ context.Context, userID string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(userID)
}

func (s *memProfileService) lookup(userID string) (*models.Profile, error) {
	if _, err := primitive.ObjectIDFromHex(userID); err != nil {
		return nil, services.ErrProfileNotFound
	}
	prof, exists := s.profiles[userID]
	if !exists {
		return nil, services.ErrProfileNotFound
	}
	p := *prof
	p.Experience = append([]models.Experience(nil), prof.Experience...)
	p.Education = append([]models.Education(nil), prof.Education...)
	return &p, nil
}

func (s *memProfileService) GetAll(_ context.Context) ([]models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Profile, 0, len(s.profiles))
	for _, prof := range s.profiles {
		out = append(out, *prof)
	}
	return out, nil
}

func (s *memProfileService) Upsert(_ context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, services.ErrProfileNotFound
	}

	prof, exists := s.profiles[userID]
	if !exists {
		prof = &models.Profile{
			ID:         primitive.NewObjectID(),
			UserID:     oid,
			Experience: []models.Experience{},
			Education:  []models.Education{},
			Date:       time.Now(),
		}
		s.profiles[userID] = prof
	}

	prof.Status = fields.Status
	prof.Skills = fields.Skills
	prof.Social = fields.Social
	if fields.Company != "" {
		prof.Company = fields.Company
	}
	if fields.Location != "" {
		prof.Location = fields.Location
	}
	if fields.Bio != "" {
		prof.Bio = fields.Bio
	}
	if fields.GithubUsername != "" {
		prof.GithubUsername = fields.GithubUsername
	}

	p := *prof
	return &p, nil
}

func (s *memProfileService) Delete(_ context.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

func (s *memProfileService) AddExperience(_ context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, services.ErrProfileNotFound
	}
	exp.ID = uuid.New().String()
	prof.Experience = append([]models.Experience{exp}, prof.Experience...)
	p := *prof
	return &p, nil
}

func (s *memProfileService) RemoveExperience(_ context.Context, userID, expID string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, services.ErrProfileNotFound
	}
	for i, e := range prof.Experience {
		if e.ID == expID {
			prof.Experience = append(prof.Experience[:i], prof.Experience[i+1:]...)
			break
		}
	}
	p := *prof
	return &p, nil
}

func (s *memProfileService) AddEducation(_ context.Context, userID string, edu models.Education) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, services.ErrProfileNotFound
	}
	edu.ID = uuid.New().String()
	prof.Education = append([]models.Education{edu}, prof.Education...)
	p := *prof
	return &p, nil
}

func (s *memProfileService) RemoveEducation(_ context.Context, userID, eduID string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return nil, services.ErrProfileNotFound
	}
	for i, e := range prof.Education {
		if e.ID == eduID {
			prof.Education = append(prof.Education[:i], prof.Education[i+1:]...)
			break
		}
	}
	p := *prof
	return &p, nil
}

// testEnv wires the fakes behind the same route table the server mounts.
type testEnv struct {
	users    *memUserService
	profiles *memProfileService
	tokens   *token.Service
	router   http.Handler
}

func newTestEnv(github *services.GithubClient) *testEnv {
	users := newMemUserService()
	profiles := newMemProfileService()
	tokens := token.NewService("test-secret", 0)
	guard := appMiddleware.TokenAuth(tokens)

	authHandler := NewAuthHandler(users, tokens)
	usersHandler := NewUsersHandler(users, tokens)
	profileHandler := NewProfileHandler(profiles, users, github)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", usersHandler.Register)

		r.Route("/auth", func(r chi.Router) {
			r.With(guard).Get("/", authHandler.Me)
			r.Post("/", authHandler.Login)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.List)
			r.Get("/user/{userId}", profileHandler.GetByUser)
			r.Get("/github/{username}", profileHandler.GithubRepos)

			r.Group(func(r chi.Router) {
				r.Use(guard)

				r.Get("/me", profileHandler.Me)
				r.Post("/", profileHandler.Upsert)
				r.Delete("/", profileHandler.DeleteAccount)

				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{expId}", profileHandler.RemoveExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{eduId}", profileHandler.RemoveEducation)
			})
		})
	})

	return &testEnv{users: users, profiles: profiles, tokens: tokens, router: r}
}

func (e *testEnv) seedUser(t testingT, name, email, password string) (*models.User, string) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := e.users.Create(context.Background(), &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   "https://www.gravatar.com/avatar/test",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	tokenString, err := e.tokens.Issue(user.ID.Hex())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return user, tokenString
}

// testingT is the slice of *testing.T the helpers need.
type testingT interface {
	Fatalf(format string, args ...interface{})
}
