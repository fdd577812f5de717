package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medconsult/consult-api/internal/model"
)

// Assignment is one column change produced by the field-update policy
// and applied by EMRRepository.UpdateFields.
type Assignment struct {
	Column string
	Value  interface{}
}

type UserRepository interface {
	CreateWithProfile(ctx context.Context, user *model.User, profile *model.DoctorProfile) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	UpdateProfile(ctx context.Context, profile *model.DoctorProfile) error
	List(ctx context.Context) ([]*model.Doctor, error)
}

type EMRRepository interface {
	Create(ctx context.Context, emr *model.EMR) error
	Get(ctx context.Context, id uuid.UUID) (*model.EMR, error)
	// GetWithDoctor loads the record joined with the assigned doctor's
	// display name for report rendering.
	GetWithDoctor(ctx context.Context, id uuid.UUID) (*model.EMR, error)
	List(ctx context.Context) ([]*model.EMR, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.EMR, error)
	// UpdateFields applies a sparse assignment set and reports the number
	// of rows touched; zero means the id does not exist.
	UpdateFields(ctx context.Context, id uuid.UUID, assignments []Assignment) (int64, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
}
