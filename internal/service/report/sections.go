package report

import (
	"strings"
	"time"

	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/model"
)

// Placeholder rendered for every empty field, uniform across all field
// types and languages.
const Placeholder = "N/A"

// Section is one titled block of the report, in render order.
type Section struct {
	Header string
	Lines  []string
}

// BuildSections lays out the report in its fixed order for one
// language. The output is deterministic given the same record and
// timestamp, so tests can assert on sequence and content.
func BuildSections(emr *model.EMR, t *i18n.Translator, lang string, now time.Time) []Section {
	sections := []Section{
		{Header: t.T(lang, "report.title")},
		{Header: t.T(lang, "report.patient_data"), Lines: []string{
			t.T(lang, "report.name") + ": " + valueOr(emr.Name),
			t.T(lang, "report.dob") + ": " + valueOr(emr.DateOfBirth),
		}},
		{Header: t.T(lang, "report.symptoms"), Lines: []string{valueOr(emr.Symptoms)}},
		{Header: t.T(lang, "report.medical_history"), Lines: []string{valueOr(emr.MedicalHistory)}},
		{Header: t.T(lang, "report.medication"), Lines: []string{valueOr(emr.Medication)}},
		{Header: t.T(lang, "report.documents"), Lines: documentLines(emr.MedicalDocuments)},
		{Header: t.T(lang, "report.physician_report")},
		{Header: t.T(lang, "report.diagnosis"), Lines: []string{valueOr(emr.Diagnosis)}},
		{Header: t.T(lang, "report.findings"), Lines: []string{valueOr(emr.Report)}},
		{Header: t.T(lang, "report.recommendations"), Lines: []string{valueOr(emr.Recommendations)}},
		{Header: t.T(lang, "report.consultation_types"), Lines: []string{consultationLine(emr.ConsultationTypes)}},
		{Header: t.T(lang, "report.generated"), Lines: []string{now.Format("2006-01-02 15:04")}},
		{Header: t.T(lang, "report.signature"), Lines: []string{signatureLine(emr, t, lang)}},
	}
	return sections
}

func valueOr(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func documentLines(docs []model.MedicalDocument) []string {
	if len(docs) == 0 {
		return []string{Placeholder}
	}
	lines := make([]string, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, d.Name+": "+d.URL+" (password: "+d.Password+")")
	}
	return lines
}

func consultationLine(types []model.ConsultationType) string {
	if len(types) == 0 {
		return Placeholder
	}
	labels := make([]string, 0, len(types))
	for _, t := range types {
		labels = append(labels, t.Label())
	}
	return strings.Join(labels, ", ")
}

func signatureLine(emr *model.EMR, t *i18n.Translator, lang string) string {
	if emr.DoctorName != "" {
		return emr.DoctorName
	}
	return t.T(lang, "report.physician")
}
