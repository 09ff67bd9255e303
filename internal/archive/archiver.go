package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/wolfman30/atomnext-intake/internal/leads"
)

// SubmissionArchiver turns submissions into scrubbed records and stores them.
// Errors are logged but never block the caller.
type SubmissionArchiver struct {
	store  *Store
	logger *slog.Logger
}

// NewSubmissionArchiver returns nil if store is not enabled; a nil archiver
// is a no-op.
func NewSubmissionArchiver(store *Store, logger *slog.Logger) *SubmissionArchiver {
	if store == nil || !store.Enabled() {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SubmissionArchiver{store: store, logger: logger}
}

// NewRecord builds the archived form of sub.
func NewRecord(sub *leads.Submission, archivedAt time.Time) *SubmissionRecord {
	return &SubmissionRecord{
		Version:      "1.0",
		SubmissionID: sub.ID,
		Kind:         string(sub.Kind),
		EmailHash:    HashContact(sub.Email),
		PhoneHash:    HashContact(sub.Phone),
		ArchivedAt:   archivedAt.UTC(),
		SubmittedAt:  sub.CreatedAt,
		Service:      sub.Service,
		Timeline:     sub.Timeline,
		Budget:       sub.Budget,
		Intent:       sub.Intent,
		CompanyType:  sub.CompanyType,
		Description:  ScrubPII(sub.Description),
		Message:      ScrubPII(sub.Message),
	}
}

// Archive stores sub. This method never returns an error.
func (a *SubmissionArchiver) Archive(ctx context.Context, sub *leads.Submission) {
	if a == nil || sub == nil {
		return
	}
	if err := a.store.ArchiveSubmission(ctx, NewRecord(sub, a.store.now())); err != nil {
		a.logger.Error("submission archive: failed to archive",
			"error", err, "submission_id", sub.ID)
	}
}
