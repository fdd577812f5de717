package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/model"
)

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator("")
	require.NoError(t, err)
	return tr
}

func headers(sections []Section) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Header)
	}
	return out
}

func TestBuildSectionsOrder(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{Name: "Jane Doe", DateOfBirth: "1990-04-02"}

	sections := BuildSections(emr, tr, "en", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, []string{
		"Medical Consultation Report",
		"Patient Data",
		"Symptoms",
		"Medical History",
		"Current Medication",
		"Medical Documents",
		"Physician's Report",
		"Diagnosis",
		"Findings",
		"Recommendations",
		"Consultation Types",
		"Generated",
		"Signature",
	}, headers(sections))
}

func TestBuildSectionsPlaceholders(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{Name: "Jane Doe", DateOfBirth: "1990-04-02", Symptoms: "  "}

	sections := BuildSections(emr, tr, "en", time.Now())

	// Whitespace-only and empty fields both render the placeholder.
	assert.Equal(t, []string{Placeholder}, sections[2].Lines)  // symptoms
	assert.Equal(t, []string{Placeholder}, sections[3].Lines)  // history
	assert.Equal(t, []string{Placeholder}, sections[4].Lines)  // medication
	assert.Equal(t, []string{Placeholder}, sections[5].Lines)  // documents
	assert.Equal(t, []string{Placeholder}, sections[7].Lines)  // diagnosis
	assert.Equal(t, []string{Placeholder}, sections[10].Lines) // consultation types
}

func TestBuildSectionsPatientData(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{Name: "Jane Doe", DateOfBirth: "1990-04-02"}

	sections := BuildSections(emr, tr, "en", time.Now())

	assert.Equal(t, []string{
		"Name: Jane Doe",
		"Date of Birth: 1990-04-02",
	}, sections[1].Lines)
}

func TestBuildSectionsDocuments(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{
		MedicalDocuments: []model.MedicalDocument{
			{Name: "scan", URL: "https://files/scan.pdf", Password: "pw1"},
			{Name: "labs", URL: "https://files/labs.pdf", Password: "pw2"},
		},
	}

	sections := BuildSections(emr, tr, "en", time.Now())

	assert.Equal(t, []string{
		"scan: https://files/scan.pdf (password: pw1)",
		"labs: https://files/labs.pdf (password: pw2)",
	}, sections[5].Lines)
}

func TestBuildSectionsConsultationTypes(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{
		ConsultationTypes: []model.ConsultationType{
			{Type: "video"},
			{Type: "office", Details: "follow-up"},
		},
	}

	sections := BuildSections(emr, tr, "en", time.Now())
	assert.Equal(t, []string{"video, office (follow-up)"}, sections[10].Lines)
}

func TestBuildSectionsSignature(t *testing.T) {
	tr := testTranslator(t)

	named := BuildSections(&model.EMR{DoctorName: "Dr. Weber"}, tr, "en", time.Now())
	assert.Equal(t, []string{"Dr. Weber"}, named[12].Lines)

	anonymous := BuildSections(&model.EMR{}, tr, "en", time.Now())
	assert.Equal(t, []string{"Physician"}, anonymous[12].Lines)
}

func TestBuildSectionsGeneratedTimestamp(t *testing.T) {
	tr := testTranslator(t)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	sections := BuildSections(&model.EMR{}, tr, "en", now)
	assert.Equal(t, []string{"2026-03-14 09:30"}, sections[11].Lines)
}

func TestBuildSectionsLocalized(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{Name: "Jane Doe"}

	fr := BuildSections(emr, tr, "fr", time.Now())
	assert.Equal(t, "Rapport de Consultation Médicale", fr[0].Header)

	// Placeholder stays uniform across languages.
	assert.Equal(t, []string{Placeholder}, fr[2].Lines)
}

func TestBuildSectionsDeterministic(t *testing.T) {
	tr := testTranslator(t)
	emr := &model.EMR{Name: "Jane Doe", Symptoms: "cough", Diagnosis: "bronchitis"}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	first := BuildSections(emr, tr, "de", now)
	second := BuildSections(emr, tr, "de", now)
	assert.Equal(t, first, second)
}
