package report

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medconsult/consult-api/pkg/assets"
	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/logger"

	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

type fakeEMRRepo struct {
	emr *model.EMR
}

func (f *fakeEMRRepo) Create(context.Context, *model.EMR) error { return nil }

func (f *fakeEMRRepo) Get(ctx context.Context, id uuid.UUID) (*model.EMR, error) {
	return f.GetWithDoctor(ctx, id)
}

func (f *fakeEMRRepo) GetWithDoctor(_ context.Context, id uuid.UUID) (*model.EMR, error) {
	if f.emr == nil || f.emr.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *f.emr
	return &copied, nil
}

func (f *fakeEMRRepo) List(context.Context) ([]*model.EMR, error) { return nil, nil }

func (f *fakeEMRRepo) ListByDoctor(context.Context, uuid.UUID) ([]*model.EMR, error) {
	return nil, nil
}

func (f *fakeEMRRepo) UpdateFields(context.Context, uuid.UUID, []repository.Assignment) (int64, error) {
	return 0, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(context.Context, uuid.UUID, model.OutboxStatus, *string) error {
	return nil
}

type failingLogoFetcher struct{}

func (failingLogoFetcher) Fetch(context.Context) (*assets.Logo, error) {
	return nil, assert.AnError
}

func paidEMR() *model.EMR {
	return &model.EMR{
		ID:                 uuid.New(),
		Name:               "Jane Doe",
		DateOfBirth:        "1990-04-02",
		Symptoms:           "persistent cough",
		Diagnosis:          "acute bronchitis",
		IsPaymentConfirmed: true,
		DoctorName:         "Dr. Weber",
	}
}

func newReportService(t *testing.T, emr *model.EMR, requirePayment bool) (*Service, *fakeOutboxRepo) {
	t.Helper()
	tr := testTranslator(t)
	outbox := &fakeOutboxRepo{}
	svc := NewService(&fakeEMRRepo{emr: emr}, outbox, tr, nil, logger.NewLogger(nil), requirePayment)
	return svc, outbox
}

func TestGenerateProducesPDF(t *testing.T) {
	emr := paidEMR()
	svc, outbox := newReportService(t, emr, true)

	result, err := svc.Generate(context.Background(), emr.ID, "en")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
	assert.Equal(t, "consultation-report-"+emr.ID.String()+"-en.pdf", result.Filename)
	assert.Equal(t, "en", result.Language)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventReportGenerated, outbox.events[0].EventType)
}

func TestGeneratePaymentGate(t *testing.T) {
	emr := paidEMR()
	emr.IsPaymentConfirmed = false

	svc, _ := newReportService(t, emr, true)
	_, err := svc.Generate(context.Background(), emr.ID, "en")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrPaymentNotConfirmed))

	// With the gate disabled the same record renders.
	svc, _ = newReportService(t, emr, false)
	result, err := svc.Generate(context.Background(), emr.ID, "en")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Data)
}

func TestGenerateUnknownRecord(t *testing.T) {
	svc, _ := newReportService(t, paidEMR(), true)

	_, err := svc.Generate(context.Background(), uuid.New(), "en")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestGenerateLogoFailureIsNotFatal(t *testing.T) {
	emr := paidEMR()
	tr := testTranslator(t)
	svc := NewService(&fakeEMRRepo{emr: emr}, &fakeOutboxRepo{}, tr, failingLogoFetcher{}, logger.NewLogger(nil), true)

	result, err := svc.Generate(context.Background(), emr.ID, "fr")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
	assert.Equal(t, "fr", result.Language)
}

func TestWritePDFWithoutLogo(t *testing.T) {
	tr := testTranslator(t)
	sections := BuildSections(paidEMR(), tr, "de", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	data, err := WritePDF(sections, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
