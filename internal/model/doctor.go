package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ConsultationFees itemizes the five fee kinds a doctor may charge.
type ConsultationFees struct {
	Office float64 `json:"office"`
	Home   float64 `json:"home"`
	Video  float64 `json:"video"`
	Phone  float64 `json:"phone"`
	Review float64 `json:"review"`
}

// DoctorProfile is the one-to-one extension of a doctor user. Deleted
// together with its owning user.
type DoctorProfile struct {
	UserID      uuid.UUID        `json:"user_id" db:"user_id"`
	FullName    string           `json:"full_name" db:"full_name"`
	PhotoURL    string           `json:"photo_url" db:"photo_url"`
	Specialty   string           `json:"specialty" db:"specialty"`
	Expertise   string           `json:"expertise" db:"expertise"`
	Affiliation string           `json:"affiliation" db:"affiliation"`
	ProfileLink string           `json:"profile_link" db:"profile_link"`
	FeesJSON    json.RawMessage  `json:"-" db:"consultation_fees"`
	Fees        ConsultationFees `json:"consultation_fees" db:"-"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// Doctor is the joined user + profile row returned by listings.
type Doctor struct {
	UserRef
	Profile DoctorProfile `json:"profile"`
}

// DecodeFees populates Fees from the stored JSON column. Malformed
// fees degrade to zeros rather than failing the read.
func (p *DoctorProfile) DecodeFees() {
	p.Fees = ConsultationFees{}
	if len(p.FeesJSON) > 0 {
		_ = json.Unmarshal(p.FeesJSON, &p.Fees)
	}
}

type CreateDoctorRequest struct {
	Email       string           `json:"email" binding:"required,email"`
	Password    string           `json:"password" binding:"required,min=8"`
	FullName    string           `json:"fullName" binding:"required"`
	PhotoURL    string           `json:"photoUrl"`
	Specialty   string           `json:"specialty"`
	Expertise   string           `json:"expertise"`
	Affiliation string           `json:"affiliation"`
	ProfileLink string           `json:"profileLink"`
	Fees        ConsultationFees `json:"consultationFees"`
}

type UpdateDoctorProfileRequest struct {
	FullName    *string           `json:"fullName"`
	PhotoURL    *string           `json:"photoUrl"`
	Specialty   *string           `json:"specialty"`
	Expertise   *string           `json:"expertise"`
	Affiliation *string           `json:"affiliation"`
	ProfileLink *string           `json:"profileLink"`
	Fees        *ConsultationFees `json:"consultationFees"`
}
