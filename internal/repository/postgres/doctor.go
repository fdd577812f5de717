package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	query := `SELECT * FROM doctor_profiles WHERE user_id = $1`
	var profile model.DoctorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		UPDATE doctor_profiles
		SET full_name = $1, photo_url = $2, specialty = $3, expertise = $4,
			affiliation = $5, profile_link = $6, consultation_fees = $7, updated_at = $8
		WHERE user_id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		profile.FullName,
		profile.PhotoURL,
		profile.Specialty,
		profile.Expertise,
		profile.Affiliation,
		profile.ProfileLink,
		profile.FeesJSON,
		time.Now(),
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("doctor profile %s: %w", profile.UserID, ErrNoRows)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT u.id, u.email, u.role,
			p.user_id "profile.user_id",
			p.full_name "profile.full_name",
			p.photo_url "profile.photo_url",
			p.specialty "profile.specialty",
			p.expertise "profile.expertise",
			p.affiliation "profile.affiliation",
			p.profile_link "profile.profile_link",
			p.consultation_fees "profile.consultation_fees",
			p.created_at "profile.created_at",
			p.updated_at "profile.updated_at"
		FROM users u
		JOIN doctor_profiles p ON p.user_id = u.id
		WHERE u.role = 'doctor'
		ORDER BY p.full_name
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
