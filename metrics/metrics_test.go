package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func Test_RecordManifestLoad_SetsCatalogSize(t *testing.T) {
	before := testutil.ToFloat64(manifestLoadsTotal.WithLabelValues("success"))

	RecordManifestLoad(10*time.Millisecond, 42, true)

	if got := testutil.ToFloat64(catalogEntries); got != 42 {
		t.Errorf("expected catalog gauge 42, got %v", got)
	}
	if got := testutil.ToFloat64(manifestLoadsTotal.WithLabelValues("success")); got != before+1 {
		t.Errorf("expected success counter to increase by 1, got %v -> %v", before, got)
	}
}

func Test_RecordManifestLoad_FailureKeepsCatalogSize(t *testing.T) {
	RecordManifestLoad(time.Millisecond, 7, true)
	RecordManifestLoad(time.Millisecond, 0, false)

	if got := testutil.ToFloat64(catalogEntries); got != 7 {
		t.Errorf("expected failed load to leave gauge at 7, got %v", got)
	}
}

func Test_RecordToolCall_ByStatus(t *testing.T) {
	before := testutil.ToFloat64(toolCallsTotal.WithLabelValues("assetview_list", "error"))
	RecordToolCall("assetview_list", true)
	after := testutil.ToFloat64(toolCallsTotal.WithLabelValues("assetview_list", "error"))
	if after != before+1 {
		t.Errorf("expected error counter to increase by 1, got %v -> %v", before, after)
	}
}

func Test_Handler_ExposesMetrics(t *testing.T) {
	RecordPreview("text", "text", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "assetview_previews_total") {
		t.Error("expected previews counter in metrics output")
	}
}
