package email

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/medconsult/consult-api/internal/config"
	"github.com/medconsult/consult-api/internal/i18n"
)

type Service interface {
	// SendReportReady notifies a patient that the consultation report
	// has been completed, in the patient's language.
	SendReportReady(ctx context.Context, to, name, lang string) error
}

type service struct {
	cfg        config.SMTPConfig
	translator *i18n.Translator
}

func NewService(cfg config.SMTPConfig, translator *i18n.Translator) Service {
	return &service{cfg: cfg, translator: translator}
}

func (s *service) SendReportReady(_ context.Context, to, name, lang string) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp not configured")
	}

	subject := s.translator.T(lang, "email.report_ready.subject")
	body := s.translator.TData(lang, "email.report_ready.body", map[string]interface{}{
		"Name": name,
	})

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send report-ready email: %w", err)
	}
	return nil
}
