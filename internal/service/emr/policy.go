package emr

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/jsonutil"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

// PolicyFlags are the configurable behaviors of the update policy.
type PolicyFlags struct {
	// StrictFields rejects unowned or unknown fields instead of
	// silently dropping them.
	StrictFields bool
	// DoctorEditsPatientFields additionally grants doctors the
	// patient-authored fields.
	DoctorEditsPatientFields bool
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
	kindUUID
	kindStatus
	kindDocumentList
	kindConsultationList
)

type fieldSpec struct {
	column string
	kind   fieldKind
}

// Wire-name to column mapping for every updatable field.
var fieldSpecs = map[string]fieldSpec{
	"assignedDoctorId":   {"assigned_doctor_id", kindUUID},
	"isPaymentConfirmed": {"is_payment_confirmed", kindBool},
	"status":             {"status", kindStatus},
	"adminNotes":         {"admin_notes", kindString},
	"diagnosis":          {"diagnosis", kindString},
	"report":             {"report", kindString},
	"recommendations":    {"recommendations", kindString},
	"privateNotes":       {"private_notes", kindString},
	"consultationType":   {"consultation_type", kindConsultationList},
	"symptoms":           {"symptoms", kindString},
	"medicalHistory":     {"medical_history", kindString},
	"medication":         {"medication", kindString},
	"medicalDocuments":   {"medical_documents", kindDocumentList},
	"notes":              {"notes", kindString},
}

var adminFields = map[string]bool{
	"assignedDoctorId":   true,
	"isPaymentConfirmed": true,
	"status":             true,
	"adminNotes":         true,
}

var doctorFields = map[string]bool{
	"diagnosis":        true,
	"report":           true,
	"recommendations":  true,
	"privateNotes":     true,
	"consultationType": true,
	"status":           true,
}

var doctorPatientFields = map[string]bool{
	"symptoms":         true,
	"medicalHistory":   true,
	"medication":       true,
	"medicalDocuments": true,
	"notes":            true,
}

// UpdateFacts captures what an update asked for, for the state machine.
type UpdateFacts struct {
	RequestedStatus  *model.EMRStatus
	AssignedDoctorID *uuid.UUID
	PaymentConfirmed *bool
	ClinicalChange   bool
}

// BuildAssignments filters a sparse update payload down to the columns
// the role owns and decodes each value. A non-empty result always ends
// with an updated_at touch; an empty result means no-op.
func BuildAssignments(role model.Role, updates map[string]json.RawMessage, flags PolicyFlags) ([]repository.Assignment, *UpdateFacts, error) {
	owned, err := ownedFields(role, flags)
	if err != nil {
		return nil, nil, err
	}

	// Deterministic assignment order regardless of map iteration.
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	facts := &UpdateFacts{}
	assignments := make([]repository.Assignment, 0, len(keys)+1)

	for _, key := range keys {
		spec, known := fieldSpecs[key]
		if !known || !owned[key] {
			if flags.StrictFields {
				return nil, nil, apperrors.Validation(
					fmt.Sprintf("field %q is not permitted for role %q", key, role), nil)
			}
			continue
		}

		value, err := decodeField(key, spec, updates[key], facts)
		if err != nil {
			return nil, nil, err
		}
		assignments = append(assignments, repository.Assignment{Column: spec.column, Value: value})

		if role == model.RoleDoctor && key != "status" {
			facts.ClinicalChange = true
		}
	}

	if len(assignments) == 0 {
		return nil, facts, nil
	}

	assignments = append(assignments, repository.Assignment{Column: "updated_at", Value: time.Now()})
	return assignments, facts, nil
}

func ownedFields(role model.Role, flags PolicyFlags) (map[string]bool, error) {
	switch role {
	case model.RoleAdmin:
		return adminFields, nil
	case model.RoleDoctor:
		if !flags.DoctorEditsPatientFields {
			return doctorFields, nil
		}
		merged := make(map[string]bool, len(doctorFields)+len(doctorPatientFields))
		for k := range doctorFields {
			merged[k] = true
		}
		for k := range doctorPatientFields {
			merged[k] = true
		}
		return merged, nil
	}
	return nil, apperrors.Forbidden(fmt.Sprintf("unrecognized role %q", role), nil)
}

func decodeField(key string, spec fieldSpec, raw json.RawMessage, facts *UpdateFacts) (interface{}, error) {
	switch spec.kind {
	case kindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("field %q must be a string", key), err)
		}
		return s, nil

	case kindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("field %q must be a boolean", key), err)
		}
		facts.PaymentConfirmed = &b
		return b, nil

	case kindUUID:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("field %q must be a string", key), err)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("field %q must be a valid id", key), err)
		}
		facts.AssignedDoctorID = &id
		return id, nil

	case kindStatus:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("field %q must be a string", key), err)
		}
		status, ok := model.ParseEMRStatus(s)
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("unrecognized status %q", s), nil)
		}
		facts.RequestedStatus = &status
		return status, nil

	case kindDocumentList:
		list := jsonutil.DecodeList[model.MedicalDocument](raw)
		return jsonutil.EncodeList(list), nil

	case kindConsultationList:
		list := jsonutil.DecodeList[model.ConsultationType](raw)
		return jsonutil.EncodeList(list), nil
	}
	return nil, apperrors.Validation(fmt.Sprintf("field %q is not updatable", key), nil)
}
