package bootstrap

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/wolfman30/atomnext-intake/internal/archive"
	appconfig "github.com/wolfman30/atomnext-intake/internal/config"
	"github.com/wolfman30/atomnext-intake/internal/notify"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

// BuildEmailSender wires SendGrid and SES from config and picks one per
// EMAIL_PROVIDER. ses may be nil when AWS is not configured.
func BuildEmailSender(cfg *appconfig.Config, ses notify.SESAPI, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}

	sendgrid := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)

	var sesSender *notify.SESSender
	if ses != nil && strings.TrimSpace(cfg.SESFromEmail) != "" {
		sesSender = notify.NewSESSender(ses, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	}

	sender := notify.SelectSender(cfg.EmailProvider, sendgrid, sesSender, logger)
	logger.Info("email sender configured", "provider", cfg.EmailProvider, "sender", senderName(sender))
	return sender
}

func senderName(s notify.EmailSender) string {
	switch s.(type) {
	case *notify.SendGridSender:
		return "sendgrid"
	case *notify.SESSender:
		return "ses"
	default:
		return "stub"
	}
}

// BuildArchiver returns the S3 submission archiver, or nil when no bucket
// is configured.
func BuildArchiver(cfg *appconfig.Config, s3 archive.S3API, logger *logging.Logger) *archive.SubmissionArchiver {
	if cfg == nil || s3 == nil || strings.TrimSpace(cfg.ArchiveBucket) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return archive.NewSubmissionArchiver(archive.NewStore(s3, cfg.ArchiveBucket, logger.Logger), logger.Logger)
}

// LoadLocation resolves the timezone used in notification emails, falling
// back to UTC.
func LoadLocation(name string, logger *logging.Logger) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if logger != nil {
			logger.Warn("unknown forms timezone; using UTC", "timezone", name, "error", err)
		}
		return time.UTC
	}
	return loc
}
