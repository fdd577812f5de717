package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type emrRepository struct {
	db *sqlx.DB
}

func NewEMRRepository(db *sqlx.DB) repository.EMRRepository {
	return &emrRepository{db: db}
}

func (r *emrRepository) Create(ctx context.Context, emr *model.EMR) error {
	now := time.Now()
	emr.CreatedAt = now
	emr.UpdatedAt = now

	query := `
		INSERT INTO emrs (
			id, email, patient_secret, name, date_of_birth, symptoms,
			medical_history, medication, medical_documents, notes, language,
			assigned_doctor_id, is_payment_confirmed, admin_notes, status,
			diagnosis, report, recommendations, private_notes, consultation_type,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		emr.ID,
		emr.Email,
		emr.PatientSecret,
		emr.Name,
		emr.DateOfBirth,
		emr.Symptoms,
		emr.MedicalHistory,
		emr.Medication,
		emr.MedicalDocumentsJSON,
		emr.Notes,
		emr.Language,
		emr.AssignedDoctorID,
		emr.IsPaymentConfirmed,
		emr.AdminNotes,
		emr.Status,
		emr.Diagnosis,
		emr.Report,
		emr.Recommendations,
		emr.PrivateNotes,
		emr.ConsultationTypeJSON,
		emr.CreatedAt,
		emr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create emr: %w", err)
	}
	return nil
}

func (r *emrRepository) Get(ctx context.Context, id uuid.UUID) (*model.EMR, error) {
	query := `SELECT *, '' AS doctor_name FROM emrs WHERE id = $1`
	var emr model.EMR
	if err := r.db.GetContext(ctx, &emr, query, id); err != nil {
		return nil, fmt.Errorf("failed to get emr: %w", err)
	}
	return &emr, nil
}

func (r *emrRepository) GetWithDoctor(ctx context.Context, id uuid.UUID) (*model.EMR, error) {
	query := `
		SELECT e.*, COALESCE(p.full_name, '') AS doctor_name
		FROM emrs e
		LEFT JOIN doctor_profiles p ON p.user_id = e.assigned_doctor_id
		WHERE e.id = $1
	`
	var emr model.EMR
	if err := r.db.GetContext(ctx, &emr, query, id); err != nil {
		return nil, fmt.Errorf("failed to get emr with doctor: %w", err)
	}
	return &emr, nil
}

func (r *emrRepository) List(ctx context.Context) ([]*model.EMR, error) {
	query := `SELECT *, '' AS doctor_name FROM emrs ORDER BY created_at DESC`
	var emrs []*model.EMR
	if err := r.db.SelectContext(ctx, &emrs, query); err != nil {
		return nil, fmt.Errorf("failed to list emrs: %w", err)
	}
	return emrs, nil
}

func (r *emrRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.EMR, error) {
	query := `SELECT *, '' AS doctor_name FROM emrs WHERE assigned_doctor_id = $1 ORDER BY created_at DESC`
	var emrs []*model.EMR
	if err := r.db.SelectContext(ctx, &emrs, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list emrs for doctor: %w", err)
	}
	return emrs, nil
}

// UpdateFields builds one conditional UPDATE from the policy's
// assignment set. The caller turns a zero row count into not-found.
func (r *emrRepository) UpdateFields(ctx context.Context, id uuid.UUID, assignments []repository.Assignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, fmt.Errorf("no assignments to apply")
	}

	setClauses := make([]string, 0, len(assignments))
	args := make([]interface{}, 0, len(assignments)+1)
	for i, a := range assignments {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", a.Column, i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE emrs SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "),
		len(args),
	)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update emr: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}
