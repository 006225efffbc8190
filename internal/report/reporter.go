// Package report fans a finalized signal run out to its consumers:
// the persistence store, the PDF document and the Telegram chat.
// Consumers are independent; one failing is logged and never blocks
// the others.
package report

import (
	"context"

	"bist-screener/internal/signal"
	"bist-screener/pkg/logger"
)

// Reporter distributes a run to all configured consumers.
// A nil repository means persistence is disabled.
type Reporter struct {
	repo     *Repository
	pdf      *PDFWriter
	notifier *Notifier
	logger   *logger.Logger
}

// NewReporter creates a reporter. repo may be nil when no store is
// configured.
func NewReporter(repo *Repository, pdf *PDFWriter, notifier *Notifier, log *logger.Logger) *Reporter {
	return &Reporter{
		repo:     repo,
		pdf:      pdf,
		notifier: notifier,
		logger:   log,
	}
}

// Publish delivers the run to every consumer. An empty run skips
// persistence and the document; the notification always goes out,
// carrying the no-signals text when the run is empty.
func (r *Reporter) Publish(ctx context.Context, run signal.Run) {
	if run.Empty() {
		r.logger.Info("No signals this run, sending empty-result notification")
		if err := r.notifier.SendSummary(ctx, run); err != nil {
			r.logger.WithError(err).Error("Notification failed")
		}
		return
	}

	r.persist(ctx, run)
	pdfPath := r.render(run)
	r.notify(ctx, run, pdfPath)
}

// MarketUnsafe reports the aborted run. The unsafe regime is an
// expected business outcome, not an error.
func (r *Reporter) MarketUnsafe(ctx context.Context) {
	if err := r.notifier.SendMarketUnsafe(ctx); err != nil {
		r.logger.WithError(err).Error("Unsafe-regime notification failed")
	}
}

func (r *Reporter) persist(ctx context.Context, run signal.Run) {
	if r.repo == nil {
		r.logger.Info("DATABASE_URL not set, skipping signal persistence")
		return
	}

	if err := r.repo.SaveSignals(ctx, run); err != nil {
		r.logger.WithError(err).Error("Signal persistence failed")
		return
	}

	r.logger.WithField("count", len(run.Signals)).Info("Signals saved to database")
}

// render writes the PDF and returns its path, or "" on failure.
func (r *Reporter) render(run signal.Run) string {
	path, err := r.pdf.Render(run)
	if err != nil {
		r.logger.WithError(err).Error("PDF report failed")
		return ""
	}

	r.logger.WithField("path", path).Info("PDF report written")
	return path
}

func (r *Reporter) notify(ctx context.Context, run signal.Run, pdfPath string) {
	if err := r.notifier.SendSummary(ctx, run); err != nil {
		r.logger.WithError(err).Error("Notification failed")
		return
	}

	// The document follows as a second message when it was produced
	if pdfPath != "" && r.notifier.Enabled() {
		if err := r.notifier.SendDocument(ctx, pdfPath); err != nil {
			r.logger.WithError(err).Error("Report upload failed")
		}
	}
}
