package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger("debug", false)
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	fallback, err := NewLogger("loud", false)
	require.NoError(t, err)
	require.False(t, fallback.Core().Enabled(zapcore.DebugLevel))
	require.True(t, fallback.Core().Enabled(zapcore.InfoLevel))

	dev, err := NewLogger("", true)
	require.NoError(t, err)
	require.NotNil(t, dev)
}

func TestFromContextDefaultsToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := chi.NewRouter()
	r.Use(RequestLogger(zap.New(core)))
	r.Get("/ok/{slug}", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Debug("inside handler")
		_, _ = w.Write([]byte("hello"))
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	for _, path := range []string{"/ok/lakeland", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 3)
	require.Equal(t, zapcore.InfoLevel, completed[0].Level)
	require.Equal(t, zapcore.WarnLevel, completed[1].Level)
	require.Equal(t, zapcore.ErrorLevel, completed[2].Level)

	fields := completed[0].ContextMap()
	require.Equal(t, "/ok/{slug}", fields["route"])
	require.Equal(t, "/ok/lakeland", fields["path"])
	require.EqualValues(t, 5, fields["bytes"])

	inner := logs.FilterMessage("inside handler").All()
	require.Len(t, inner, 1)
	require.Equal(t, "/ok/lakeland", inner[0].ContextMap()["path"])
}

func TestSanitizeStripsControlCharacters(t *testing.T) {
	require.Equal(t, "/faq/fake", SanitizePath("/faq/\nfake"))
	require.Equal(t, "/", SanitizePath(""))
	require.Equal(t, "GET", SanitizeMethod("ge\x00t"))
	require.Equal(t, "curl/8.4", SanitizeUserAgent("  curl/8.4\r\n"))
}

func TestSanitizeTruncatesLongValues(t *testing.T) {
	long := "/" + strings.Repeat("é", 300)
	got := SanitizePath(long)
	require.True(t, strings.HasSuffix(got, "..."))
	require.Equal(t, pathLimit+3, utf8.RuneCountInString(got))
}

func TestSanitizeReferer(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "query dropped", in: "https://www.google.com/search?q=balcony+repair+tampa#top", want: "https://www.google.com/search"},
		{name: "credentials dropped", in: "https://user:pw@example.com/a", want: "https://example.com/a"},
		{name: "relative ignored", in: "/services/", want: ""},
		{name: "garbage ignored", in: "%zz", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SanitizeReferer(tc.in))
		})
	}
}

func TestRequestLoggerRecordsClientHeaders(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/contact/", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0\nforged")
	req.Header.Set("Referer", "https://www.bayshorebuild.com/services/?utm_source=mail")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "Mozilla/5.0forged", fields["user_agent"])
	require.Equal(t, "https://www.bayshorebuild.com/services/", fields["referer"])
}
