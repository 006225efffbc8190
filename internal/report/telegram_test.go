package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bist-screener/internal/signal"
	"bist-screener/pkg/httputil"
	"bist-screener/pkg/logger"
)

func sampleRun() signal.Run {
	return signal.Run{
		Date: time.Date(2026, 8, 28, 18, 15, 0, 0, time.UTC),
		Signals: []signal.Signal{
			{Symbol: "GARAN", Kind: signal.KindBuy, Entry: 100, Stop: 97, Target: 106, Score: 100, RewardRisk: 2, Status: signal.StatusOpen},
			{Symbol: "THYAO", Kind: signal.KindBuy, Entry: 250.5, Stop: 243.25, Target: 265, Score: 75, RewardRisk: 2, Status: signal.StatusOpen},
		},
	}
}

func testNotifier(baseURL string) *Notifier {
	return &Notifier{
		httpClient: httputil.New(logger.NewNop()),
		baseURL:    baseURL,
		token:      "123:abc",
		chatID:     "-100200300",
		logger:     logger.NewNop(),
	}
}

func TestBuildSummary_WithSignals(t *testing.T) {
	msg := buildSummary(sampleRun())

	assert.Contains(t, msg, "GÜNLÜK SİNYALLER")
	assert.Contains(t, msg, "*GARAN*")
	assert.Contains(t, msg, "*THYAO*")
	assert.Contains(t, msg, "Giriş: 100.00")
	assert.Contains(t, msg, "Stop: 97.00")
	assert.Contains(t, msg, "TP: 106.00")
	assert.Contains(t, msg, "Skor: 100/100")
	assert.Contains(t, msg, "R/R: 2.00")
	assert.Contains(t, msg, "Yatırım tavsiyesi değildir.")

	// Finalized ordering carries into the message
	assert.Less(t, strings.Index(msg, "GARAN"), strings.Index(msg, "THYAO"))
}

func TestBuildSummary_Empty(t *testing.T) {
	msg := buildSummary(signal.Run{Date: time.Now()})

	assert.Contains(t, msg, "Bugün kriterlere uygun sinyal bulunamadı")
	assert.Contains(t, msg, "Yatırım tavsiyesi değildir.")
	assert.NotContains(t, msg, "🔹")
}

func TestSendSummary(t *testing.T) {
	var gotPath, gotChatID, gotParseMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotChatID = r.PostFormValue("chat_id")
		gotParseMode = r.PostFormValue("parse_mode")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := testNotifier(srv.URL)
	require.NoError(t, n.SendSummary(context.Background(), sampleRun()))

	assert.Equal(t, "/bot123:abc/sendMessage", gotPath)
	assert.Equal(t, "-100200300", gotChatID)
	assert.Equal(t, "Markdown", gotParseMode)
}

func TestSendSummary_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	n := testNotifier(srv.URL)
	err := n.SendSummary(context.Background(), sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 403")
}

func TestSendDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gunluk_rapor.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))

	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/sendDocument", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "-100200300", r.PostFormValue("chat_id"))

		_, header, err := r.FormFile("document")
		require.NoError(t, err)
		gotFilename = header.Filename
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := testNotifier(srv.URL)
	require.NoError(t, n.SendDocument(context.Background(), path))
	assert.Equal(t, "gunluk_rapor.pdf", gotFilename)
}

func TestDisabledNotifier_SilentNoop(t *testing.T) {
	n := &Notifier{
		httpClient: httputil.New(logger.NewNop()),
		baseURL:    "http://127.0.0.1:1", // would fail if contacted
		logger:     logger.NewNop(),
	}

	require.False(t, n.Enabled())
	assert.NoError(t, n.SendSummary(context.Background(), sampleRun()))
	assert.NoError(t, n.SendMarketUnsafe(context.Background()))
	assert.NoError(t, n.SendDocument(context.Background(), "whatever.pdf"))
}
