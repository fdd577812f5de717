package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/medconsult/consult-api/pkg/jsonutil"
)

// EMRStatus is the closed lifecycle state of a consultation record.
// Unrecognized values are rejected at the API boundary instead of
// persisted as free-form strings.
type EMRStatus string

const (
	StatusSubmittedByPatient EMRStatus = "submitted_by_patient"
	StatusAssigned           EMRStatus = "assigned"
	StatusPaymentConfirmed   EMRStatus = "payment_confirmed"
	StatusReportComplete     EMRStatus = "report_complete"
	StatusClosed             EMRStatus = "closed"
)

// ParseEMRStatus validates a status string from a request.
func ParseEMRStatus(s string) (EMRStatus, bool) {
	switch EMRStatus(s) {
	case StatusSubmittedByPatient, StatusAssigned, StatusPaymentConfirmed,
		StatusReportComplete, StatusClosed:
		return EMRStatus(s), true
	}
	return "", false
}

// MedicalDocument is one patient-attached document reference.
type MedicalDocument struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Password string `json:"password"`
}

// ConsultationType is one consultation tag recorded by the doctor,
// e.g. in-person, video, phone, optionally with sub-attributes.
type ConsultationType struct {
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// Label renders the tag for display.
func (t ConsultationType) Label() string {
	if t.Details != "" {
		return t.Type + " (" + t.Details + ")"
	}
	return t.Type
}

// EMR is one patient consultation request. The patient secret never
// serializes into responses; the JSON list columns carry their decoded
// counterparts after LoadLists.
type EMR struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Patient-authored fields.
	Email                string          `json:"email" db:"email"`
	PatientSecret        string          `json:"-" db:"patient_secret"`
	Name                 string          `json:"name" db:"name"`
	DateOfBirth          string          `json:"date_of_birth" db:"date_of_birth"`
	Symptoms             string          `json:"symptoms" db:"symptoms"`
	MedicalHistory       string          `json:"medical_history" db:"medical_history"`
	Medication           string          `json:"medication" db:"medication"`
	MedicalDocumentsJSON json.RawMessage `json:"-" db:"medical_documents"`
	Notes                string          `json:"notes" db:"notes"`
	Language             string          `json:"language" db:"language"`

	// Assignment fields, admin-owned.
	AssignedDoctorID   *uuid.UUID `json:"assigned_doctor_id" db:"assigned_doctor_id"`
	IsPaymentConfirmed bool       `json:"is_payment_confirmed" db:"is_payment_confirmed"`
	AdminNotes         string     `json:"admin_notes" db:"admin_notes"`
	Status             EMRStatus  `json:"status" db:"status"`

	// Clinical fields, doctor-owned.
	Diagnosis            string          `json:"diagnosis" db:"diagnosis"`
	Report               string          `json:"report" db:"report"`
	Recommendations      string          `json:"recommendations" db:"recommendations"`
	PrivateNotes         string          `json:"private_notes" db:"private_notes"`
	ConsultationTypeJSON json.RawMessage `json:"-" db:"consultation_type"`

	// Decoded list columns, populated by LoadLists.
	MedicalDocuments  []MedicalDocument  `json:"medical_documents" db:"-"`
	ConsultationTypes []ConsultationType `json:"consultation_type" db:"-"`

	// Joined display name of the assigned doctor, when loaded.
	DoctorName string `json:"doctor_name,omitempty" db:"doctor_name"`
}

// LoadLists decodes the semi-structured columns. Malformed or absent
// values decode to empty lists, never an error.
func (e *EMR) LoadLists() {
	e.MedicalDocuments = jsonutil.DecodeList[MedicalDocument](e.MedicalDocumentsJSON)
	e.ConsultationTypes = jsonutil.DecodeList[ConsultationType](e.ConsultationTypeJSON)
}

type SubmitEMRRequest struct {
	Email            string            `json:"email" binding:"required,email"`
	Password         string            `json:"password" binding:"required"`
	Name             string            `json:"name" binding:"required"`
	DOB              string            `json:"dob" binding:"required,dateonly"`
	Symptoms         string            `json:"symptoms" binding:"required"`
	MedicalHistory   string            `json:"medicalHistory"`
	Medication       string            `json:"medication"`
	MedicalDocuments []MedicalDocument `json:"medicalDocuments"`
	Notes            string            `json:"notes"`
	// Language is the patient's display language at submission time; it
	// drives later notifications. Optional, normalized on intake.
	Language string `json:"lng"`
}

// UpdateEMRRequest is the sparse partial-update payload. Updates keeps
// raw values so the policy can distinguish absent fields from zero
// values and report unknown keys.
type UpdateEMRRequest struct {
	Role    string                     `json:"role" binding:"required"`
	Updates map[string]json.RawMessage `json:"updates" binding:"required"`
}
