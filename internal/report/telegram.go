package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"bist-screener/internal/signal"
	"bist-screener/pkg/config"
	"bist-screener/pkg/httputil"
	"bist-screener/pkg/logger"
)

const telegramBaseURL = "https://api.telegram.org"

// Notifier sends run summaries to a Telegram chat. With missing
// credentials every send is a silent no-op.
type Notifier struct {
	httpClient *httputil.Client
	baseURL    string
	token      string
	chatID     string
	logger     *logger.Logger
}

// NewNotifier creates a Telegram notifier from config.
func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	return &Notifier{
		httpClient: httputil.New(log),
		baseURL:    telegramBaseURL,
		token:      cfg.Telegram.BotToken,
		chatID:     cfg.Telegram.ChatID,
		logger:     log,
	}
}

// Enabled reports whether credentials are configured.
func (n *Notifier) Enabled() bool {
	return n.token != "" && n.chatID != ""
}

// SendSummary sends the formatted run summary, including the
// no-signals text when the run is empty.
func (n *Notifier) SendSummary(ctx context.Context, run signal.Run) error {
	if !n.Enabled() {
		n.logger.Debug("Telegram credentials not configured, skipping notification")
		return nil
	}

	return n.sendMessage(ctx, buildSummary(run))
}

// SendMarketUnsafe sends the unsafe-regime notice. This is the run's
// only output when the gate aborts the screen.
func (n *Notifier) SendMarketUnsafe(ctx context.Context) error {
	if !n.Enabled() {
		return nil
	}

	return n.sendMessage(ctx, "📉 Piyasa koşulları olumsuz. Bugün işlem yapılmadı.")
}

// SendDocument uploads the PDF report as a follow-up message.
func (n *Notifier) SendDocument(ctx context.Context, path string) error {
	if !n.Enabled() {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", n.chatID); err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", n.baseURL, n.token)
	resp, err := n.httpClient.Post(ctx, endpoint, writer.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("telegram sendDocument: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendDocument: unexpected status %d", resp.StatusCode)
	}

	return nil
}

func (n *Notifier) sendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)

	form := url.Values{
		"chat_id":    {n.chatID},
		"text":       {text},
		"parse_mode": {"Markdown"},
	}

	resp, err := n.httpClient.PostForm(ctx, endpoint, form)
	if err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram sendMessage: unexpected status %d", resp.StatusCode)
	}

	return nil
}

// buildSummary composes the Markdown summary for a run.
func buildSummary(run signal.Run) string {
	var b strings.Builder
	b.WriteString("📈 *BIST SEANS KAPANIŞI – GÜNLÜK SİNYALLER*\n\n")

	if run.Empty() {
		b.WriteString("📊 Seans Kapanışı: Bugün kriterlere uygun sinyal bulunamadı.")
	} else {
		for _, s := range run.Signals {
			fmt.Fprintf(&b, "🔹 *%s*\n", s.Symbol)
			fmt.Fprintf(&b, "Sinyal: 🟢 *%s*\n", s.Kind)
			fmt.Fprintf(&b, "Giriş: %s\n", formatPrice(s.Entry))
			fmt.Fprintf(&b, "Stop: %s\n", formatPrice(s.Stop))
			fmt.Fprintf(&b, "TP: %s\n", formatPrice(s.Target))
			fmt.Fprintf(&b, "Skor: %d/100\n", s.Score)
			fmt.Fprintf(&b, "R/R: %s\n\n", formatPrice(s.RewardRisk))
		}
	}

	b.WriteString("⚠️ _Yatırım tavsiyesi değildir._")
	return b.String()
}
