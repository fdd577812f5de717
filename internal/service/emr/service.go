package emr

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/jsonutil"
	"github.com/medconsult/consult-api/pkg/logger"
	"github.com/medconsult/consult-api/pkg/security"

	"github.com/medconsult/consult-api/internal/email"
	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type Service struct {
	repo       repository.EMRRepository
	userRepo   repository.UserRepository
	outboxRepo repository.OutboxRepository
	hasher     security.PasswordHasher
	emailSvc   email.Service
	logger     *logger.Logger
	flags      PolicyFlags
}

func NewService(
	repo repository.EMRRepository,
	userRepo repository.UserRepository,
	outboxRepo repository.OutboxRepository,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	logger *logger.Logger,
	flags PolicyFlags,
) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		outboxRepo: outboxRepo,
		hasher:     hasher,
		emailSvc:   emailSvc,
		logger:     logger,
		flags:      flags,
	}
}

// Submit creates a new record from a patient submission. The session
// secret is hashed before it ever reaches the store, and the patient's
// language is normalized to a supported code for later notifications.
func (s *Service) Submit(ctx context.Context, req *model.SubmitEMRRequest) (*model.EMR, error) {
	secretHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid session secret", err)
	}

	emr := &model.EMR{
		ID:                   uuid.New(),
		Email:                req.Email,
		PatientSecret:        secretHash,
		Name:                 req.Name,
		DateOfBirth:          req.DOB,
		Symptoms:             req.Symptoms,
		MedicalHistory:       req.MedicalHistory,
		Medication:           req.Medication,
		MedicalDocumentsJSON: jsonutil.EncodeList(req.MedicalDocuments),
		Notes:                req.Notes,
		Language:             i18n.Resolve(i18n.Signals{Body: req.Language}),
		ConsultationTypeJSON: json.RawMessage("[]"),
		Status:               model.StatusSubmittedByPatient,
	}

	if err := s.repo.Create(ctx, emr); err != nil {
		return nil, apperrors.Store(err)
	}

	emr.LoadLists()
	s.appendEvent(ctx, model.EventEMRSubmitted, emr)
	return emr, nil
}

// List returns the records the requester may see: admins see all,
// doctors see only their assigned records.
func (s *Service) List(ctx context.Context, userID string, userRole string) ([]*model.EMR, error) {
	role, ok := model.ParseRole(userRole)
	if !ok {
		return nil, apperrors.Forbidden(fmt.Sprintf("unrecognized role %q", userRole), nil)
	}

	var (
		emrs []*model.EMR
		err  error
	)
	switch role {
	case model.RoleAdmin:
		emrs, err = s.repo.List(ctx)
	case model.RoleDoctor:
		id, parseErr := uuid.Parse(userID)
		if parseErr != nil {
			return nil, apperrors.Validation("invalid user id", parseErr)
		}
		emrs, err = s.repo.ListByDoctor(ctx, id)
	}
	if err != nil {
		return nil, apperrors.Store(err)
	}

	for _, e := range emrs {
		e.LoadLists()
	}
	return emrs, nil
}

// Get loads a single record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.EMR, error) {
	emr, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("emr", err)
		}
		return nil, apperrors.Store(err)
	}
	emr.LoadLists()
	return emr, nil
}

// Update applies a role-gated partial update and advances the status.
// An update that filters down to nothing returns (nil, nil): a no-op
// success, not an error.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateEMRRequest) (*model.EMR, error) {
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, apperrors.Forbidden(fmt.Sprintf("unrecognized role %q", req.Role), nil)
	}

	assignments, facts, err := BuildAssignments(role, req.Updates, s.flags)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	assignments, err = s.applyStatusTransition(ctx, role, assignments, facts)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.UpdateFields(ctx, id, assignments)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("emr", nil)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Store(err)
	}
	updated.LoadLists()

	s.appendEvent(ctx, model.EventEMRUpdated, updated)

	if role == model.RoleDoctor && facts.ClinicalChange {
		s.notifyReportReady(ctx, updated)
	}

	return updated, nil
}

// applyStatusTransition enforces the state machine on top of the
// filtered assignments. Doctor updates always land on the terminal
// status regardless of what the payload asked for; admin updates derive
// a status from the assignment and payment changes unless one was
// requested explicitly.
func (s *Service) applyStatusTransition(ctx context.Context, role model.Role, assignments []repository.Assignment, facts *UpdateFacts) ([]repository.Assignment, error) {
	switch role {
	case model.RoleDoctor:
		return setStatus(assignments, model.StatusReportComplete), nil

	case model.RoleAdmin:
		if facts.AssignedDoctorID != nil {
			assignee, err := s.userRepo.Get(ctx, *facts.AssignedDoctorID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return nil, apperrors.Validation("assigned doctor does not exist", err)
				}
				return nil, apperrors.Store(err)
			}
			if assignee.Role != model.RoleDoctor {
				return nil, apperrors.Validation("assigned user is not a doctor", nil)
			}
		}

		if facts.RequestedStatus != nil {
			return assignments, nil
		}
		if facts.PaymentConfirmed != nil && *facts.PaymentConfirmed {
			return setStatus(assignments, model.StatusPaymentConfirmed), nil
		}
		if facts.AssignedDoctorID != nil {
			return setStatus(assignments, model.StatusAssigned), nil
		}
		return assignments, nil
	}
	return assignments, nil
}

// setStatus replaces an existing status assignment or inserts one.
func setStatus(assignments []repository.Assignment, status model.EMRStatus) []repository.Assignment {
	for i, a := range assignments {
		if a.Column == "status" {
			assignments[i].Value = status
			return assignments
		}
	}
	// Keep the updated_at touch last.
	last := assignments[len(assignments)-1]
	assignments[len(assignments)-1] = repository.Assignment{Column: "status", Value: status}
	return append(assignments, last)
}

func (s *Service) appendEvent(ctx context.Context, eventType string, emr *model.EMR) {
	payload, err := json.Marshal(emr)
	if err != nil {
		s.logger.Error(err, "failed to marshal emr for event", "event_type", eventType)
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to append outbox event", "event_type", eventType)
	}
}

func (s *Service) notifyReportReady(ctx context.Context, emr *model.EMR) {
	if s.emailSvc == nil {
		return
	}
	lang := emr.Language
	if lang == "" {
		lang = i18n.Fallback
	}
	if err := s.emailSvc.SendReportReady(ctx, emr.Email, emr.Name, lang); err != nil {
		s.logger.Warn("report-ready notification skipped", "emr_id", emr.ID.String(), "reason", err.Error())
	}
}
