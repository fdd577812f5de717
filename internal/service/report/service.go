package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medconsult/consult-api/pkg/assets"
	apperrors "github.com/medconsult/consult-api/pkg/errors"
	"github.com/medconsult/consult-api/pkg/logger"

	"github.com/medconsult/consult-api/internal/i18n"
	"github.com/medconsult/consult-api/internal/model"
	"github.com/medconsult/consult-api/internal/repository"
)

// Result is one rendered report ready for the response.
type Result struct {
	Data     []byte
	Filename string
	Language string
}

type Service struct {
	repo           repository.EMRRepository
	outboxRepo     repository.OutboxRepository
	translator     *i18n.Translator
	logoFetcher    assets.Fetcher
	logger         *logger.Logger
	requirePayment bool
}

func NewService(
	repo repository.EMRRepository,
	outboxRepo repository.OutboxRepository,
	translator *i18n.Translator,
	logoFetcher assets.Fetcher,
	logger *logger.Logger,
	requirePayment bool,
) *Service {
	return &Service{
		repo:           repo,
		outboxRepo:     outboxRepo,
		translator:     translator,
		logoFetcher:    logoFetcher,
		logger:         logger,
		requirePayment: requirePayment,
	}
}

// Generate renders the consultation report for one record in the
// resolved language. When the payment gate is active, an unconfirmed
// record is refused before any rendering work happens.
func (s *Service) Generate(ctx context.Context, id uuid.UUID, lang string) (*Result, error) {
	emr, err := s.repo.GetWithDoctor(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("emr", err)
		}
		return nil, apperrors.Store(err)
	}

	if s.requirePayment && !emr.IsPaymentConfirmed {
		return nil, apperrors.PaymentNotConfirmed(nil)
	}

	emr.LoadLists()

	var logo *assets.Logo
	if s.logoFetcher != nil {
		logo, err = s.logoFetcher.Fetch(ctx)
		if err != nil {
			// Best-effort branding: the report renders without it.
			s.logger.Warn("logo fetch skipped", "emr_id", id.String(), "reason", err.Error())
			logo = nil
		}
	}

	sections := BuildSections(emr, s.translator, lang, time.Now())
	data, err := WritePDF(sections, logo)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.appendEvent(ctx, id, lang)

	return &Result{
		Data:     data,
		Filename: fmt.Sprintf("consultation-report-%s-%s.pdf", id, lang),
		Language: lang,
	}, nil
}

func (s *Service) appendEvent(ctx context.Context, id uuid.UUID, lang string) {
	payload, err := json.Marshal(map[string]string{"emr_id": id.String(), "language": lang})
	if err != nil {
		return
	}
	if err := s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: model.EventReportGenerated,
		Payload:   payload,
	}); err != nil {
		s.logger.Error(err, "failed to append outbox event", "event_type", model.EventReportGenerated)
	}
}
