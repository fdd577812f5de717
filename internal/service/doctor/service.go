package doctor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/logger"
	"github.com/medconsult/consult-api/pkg/security"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type Service struct {
	userRepo   repository.UserRepository
	doctorRepo repository.DoctorRepository
	outboxRepo repository.OutboxRepository
	hasher     security.PasswordHasher
	logger     *logger.Logger
}

func NewService(
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	outboxRepo repository.OutboxRepository,
	hasher security.PasswordHasher,
	logger *logger.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		doctorRepo: doctorRepo,
		outboxRepo: outboxRepo,
		hasher:     hasher,
		logger:     logger,
	}
}

// Create inserts the doctor user and profile atomically; a failure on
// either row leaves nothing behind.
func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	feesJSON, err := json.Marshal(req.Fees)
	if err != nil {
		return nil, apperrors.Validation("invalid consultation fees", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleDoctor,
	}
	profile := &model.DoctorProfile{
		FullName:    req.FullName,
		PhotoURL:    req.PhotoURL,
		Specialty:   req.Specialty,
		Expertise:   req.Expertise,
		Affiliation: req.Affiliation,
		ProfileLink: req.ProfileLink,
		FeesJSON:    feesJSON,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		return nil, apperrors.Store(err)
	}

	profile.DecodeFees()
	doctor := &model.Doctor{
		UserRef: model.UserRef{ID: user.ID, Email: user.Email, Role: user.Role},
		Profile: *profile,
	}

	s.appendEvent(ctx, doctor)
	return doctor, nil
}

// UpdateProfile applies a sparse admin edit over the stored profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error) {
	profile, err := s.doctorRepo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, apperrors.Store(err)
	}

	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}
	if req.Specialty != nil {
		profile.Specialty = *req.Specialty
	}
	if req.Expertise != nil {
		profile.Expertise = *req.Expertise
	}
	if req.Affiliation != nil {
		profile.Affiliation = *req.Affiliation
	}
	if req.ProfileLink != nil {
		profile.ProfileLink = *req.ProfileLink
	}
	if req.Fees != nil {
		feesJSON, err := json.Marshal(req.Fees)
		if err != nil {
			return nil, apperrors.Validation("invalid consultation fees", err)
		}
		profile.FeesJSON = feesJSON
	}

	if err := s.doctorRepo.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("doctor profile", err)
		}
		return nil, apperrors.Store(err)
	}

	profile.DecodeFees()
	return profile, nil
}

// Delete removes the doctor user; the profile cascades with it.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("doctor", err)
		}
		return apperrors.Store(err)
	}
	return nil
}

// List returns the joined doctor user + profile rows.
func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.doctorRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	for _, d := range doctors {
		d.Profile.DecodeFees()
	}
	return doctors, nil
}

func (s *Service) appendEvent(ctx context.Context, doctor *model.Doctor) {
	payload, err := json.Marshal(doctor)
	if err != nil {
		s.logger.Error(err, "failed to marshal doctor for event")
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: model.EventDoctorCreated,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to append outbox event", "event_type", model.EventDoctorCreated)
	}
}
