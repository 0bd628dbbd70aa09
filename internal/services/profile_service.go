package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/devconnector/backend/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// newEntryID mints ids for embedded experience/education entries.
func newEntryID() string {
	return uuid.New().String()
}

// ProfileService owns the profiles collection. All mutation happens on
// behalf of a single authenticated user; sub-list edits are
// read-modify-write on the whole document, so concurrent edits to the
// same profile are last-write-wins.
type ProfileService interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	GetAll(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, userID string, fields *models.ProfileFields) (*models.Profile, error)
	Delete(ctx context.Context, userID string) error

	AddExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error)
	AddEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error)
}
