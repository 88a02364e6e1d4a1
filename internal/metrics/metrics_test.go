package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/emojiril/internal/shortname"
)

func TestObserveTokens(t *testing.T) {
	before := testutil.ToFloat64(Tokens.WithLabelValues("replaced"))
	beforeUnknown := testutil.ToFloat64(Tokens.WithLabelValues("unknown"))

	ObserveTokens(shortname.Stats{Replaced: 3, Unknown: 1})

	assert.Equal(t, before+3, testutil.ToFloat64(Tokens.WithLabelValues("replaced")))
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(Tokens.WithLabelValues("unknown")))
}

func TestObserveRewrite(t *testing.T) {
	ok := testutil.ToFloat64(DocumentsRewritten.WithLabelValues("test", "success"))
	failed := testutil.ToFloat64(DocumentsRewritten.WithLabelValues("test", "error"))

	ObserveRewrite("test", time.Now(), nil)
	ObserveRewrite("test", time.Now(), errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(DocumentsRewritten.WithLabelValues("test", "success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(DocumentsRewritten.WithLabelValues("test", "error")))
}

func TestHandler(t *testing.T) {
	RegisteredAliases.Set(7)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "emojiril_registered_aliases 7")
}
