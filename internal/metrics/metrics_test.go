package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.WebhookReceived("pull_request", "processing")
	m.WebhookReceived("pull_request", "processing")
	m.WebhookReceived("push", "ignored")
	m.PullRequestEvent("octo/repo", "closed", true)
	m.Deployment("octo/repo", "production", true)
	m.Deployment("octo/repo", "production", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.webhookDeliveries.WithLabelValues("pull_request", "processing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookDeliveries.WithLabelValues("push", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.prTotal.WithLabelValues("octo/repo", "closed", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deployments.WithLabelValues("octo/repo", "production", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deployments.WithLabelValues("octo/repo", "production", "failure")))
}

func TestMetrics_InstancesAreIsolated(t *testing.T) {
	a, b := New(), New()
	a.WebhookReceived("push", "accepted")

	assert.Equal(t, 0, testutil.CollectAndCount(b.webhookDeliveries))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.PullRequestEvent("octo/repo", "opened", false)
	m.PullRequestReviewTime("octo/repo", 2*time.Hour)
	m.JobCompleted("pull_request", "success", 3*time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(out, `pr_total{action="opened",merged="false",repository="octo/repo"} 1`), out)
	assert.Contains(t, out, "pr_review_time_seconds_bucket")
	assert.Contains(t, out, "background_job_duration_seconds_count")
	assert.Contains(t, out, "go_goroutines")
}
