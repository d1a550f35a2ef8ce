package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTelExporter_ServeHTTP(t *testing.T) {
	exporter, err := NewOTelExporter(NewBookCollector(seededRepository(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = exporter.Shutdown(context.Background()) })

	w := httptest.NewRecorder()
	exporter.ServeHTTP().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "library_books_count")
	assert.Contains(t, body, `book_status="Available"`)
	assert.Contains(t, body, `book_status="Borrowed"`)
	assert.Contains(t, body, "library_catalogue_size")
}

func TestOTelExporter_Independent(t *testing.T) {
	first, err := NewOTelExporter(NewBookCollector(seededRepository(t)))
	require.NoError(t, err)
	defer first.Shutdown(context.Background())

	second, err := NewOTelExporter(NewBookCollector(seededRepository(t)))
	require.NoError(t, err)
	defer second.Shutdown(context.Background())

	assert.NotSame(t, first.registry, second.registry)
}
