package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
)

type ProfileHandler struct {
	profiles services.ProfileService
	users    services.UserService
	github   *services.GithubClient
}

func NewProfileHandler(profiles services.ProfileService, users services.UserService, github *services.GithubClient) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, users: users, github: github}
}

// Me returns the authenticated user's profile with the owner's name and
// avatar joined in.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessage("User profile does not exist"))
			return
		}
		log.Printf("[ProfileMe] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, h.withOwner(ctx, *prof))
}

// Upsert creates the user's profile or applies a partial update to it.
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid request body"}))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.Upsert(ctx, userID, req.Fields())
	if err != nil {
		log.Printf("[ProfileUpsert] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// List returns every profile joined with its owner's name and avatar.
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	profiles, err := h.profiles.GetAll(ctx)
	if err != nil {
		log.Printf("[ProfileList] error=%v", err)
		writeServerError(w)
		return
	}

	owners, err := h.ownersFor(ctx, profiles)
	if err != nil {
		log.Printf("[ProfileList] error=%v", err)
		writeServerError(w)
		return
	}

	out := make([]models.ProfileWithOwner, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, models.NewProfileWithOwner(p, owners[p.UserID]))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetByUser returns a profile by its owner's user id. A malformed id reads
// the same as an unknown one.
func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := h.profiles.GetByUserID(ctx, targetID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessage("User profile not found"))
			return
		}
		log.Printf("[ProfileGetByUser] user=%s error=%v", targetID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, h.withOwner(ctx, *prof))
}

// DeleteAccount removes the user's profile and then the user record. The
// two deletes are not transactional; a failure between them can orphan one
// of the records.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := h.profiles.Delete(ctx, userID); err != nil && !errors.Is(err, services.ErrProfileNotFound) {
		log.Printf("[DeleteAccount] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	if err := h.users.Delete(ctx, userID); err != nil && !errors.Is(err, services.ErrUserNotFound) {
		log.Printf("[DeleteAccount] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, models.NewMessage("User deleted"))
}

// AddExperience prepends an experience entry, keeping the list
// most-recent-first.
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	var req models.ExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid request body"}))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(errs...))
		return
	}

	h.mutateLists(w, r, func(ctx context.Context, userID string) (*models.Profile, error) {
		return h.profiles.AddExperience(ctx, userID, req.Entry())
	})
}

// RemoveExperience deletes an experience entry by id. An unknown id leaves
// the list unchanged.
func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	expID := chi.URLParam(r, "expId")
	h.mutateLists(w, r, func(ctx context.Context, userID string) (*models.Profile, error) {
		return h.profiles.RemoveExperience(ctx, userID, expID)
	})
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	var req models.EducationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(models.FieldError{Msg: "Invalid request body"}))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrors(errs...))
		return
	}

	h.mutateLists(w, r, func(ctx context.Context, userID string) (*models.Profile, error) {
		return h.profiles.AddEducation(ctx, userID, req.Entry())
	})
}

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	eduID := chi.URLParam(r, "eduId")
	h.mutateLists(w, r, func(ctx context.Context, userID string) (*models.Profile, error) {
		return h.profiles.RemoveEducation(ctx, userID, eduID)
	})
}

// GithubRepos proxies the repository listing for a GitHub username. Both
// failure modes come back as 404 with distinct messages.
func (h *ProfileHandler) GithubRepos(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	repos, err := h.github.Repos(ctx, username)
	if err != nil {
		if errors.Is(err, services.ErrGithubBadStatus) {
			writeJSON(w, http.StatusNotFound, models.NewMessage("Github profile not found!"))
			return
		}
		log.Printf("[GithubRepos] username=%s error=%v", username, err)
		writeJSON(w, http.StatusNotFound, models.NewMessage("No Github profile found"))
		return
	}

	writeJSON(w, http.StatusOK, repos)
}

func (h *ProfileHandler) mutateLists(w http.ResponseWriter, r *http.Request, mutate func(ctx context.Context, userID string) (*models.Profile, error)) {
	userID := middleware.GetUserID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	prof, err := mutate(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			writeJSON(w, http.StatusBadRequest, models.NewMessage("Profile not found"))
			return
		}
		log.Printf("[ProfileMutate] user=%s error=%v", userID, err)
		writeServerError(w)
		return
	}

	writeJSON(w, http.StatusOK, prof)
}

// withOwner joins the owning user's name and avatar into a profile
// response. A missing owner serializes as a null user.
func (h *ProfileHandler) withOwner(ctx context.Context, prof models.Profile) models.ProfileWithOwner {
	user, err := h.users.GetByID(ctx, prof.UserID.Hex())
	if err != nil {
		return models.NewProfileWithOwner(prof, nil)
	}
	return models.NewProfileWithOwner(prof, user)
}

func (h *ProfileHandler) ownersFor(ctx context.Context, profiles []models.Profile) (map[primitive.ObjectID]*models.User, error) {
	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	return h.users.GetByIDs(ctx, ids)
}
