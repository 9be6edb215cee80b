package metrics

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeStatus struct {
	up, checked bool
}

func (f fakeStatus) UpstreamStatus() (bool, bool) { return f.up, f.checked }

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(fetchTotal.WithLabelValues("profile", "error"))
	RecordFetch("profile", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(fetchTotal.WithLabelValues("profile", "error")))

	before = testutil.ToFloat64(fetchTotal.WithLabelValues("hashtag", "ok"))
	RecordFetch("hashtag", nil)
	assert.Equal(t, before+1, testutil.ToFloat64(fetchTotal.WithLabelValues("hashtag", "ok")))
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	misses := testutil.ToFloat64(cacheLookups.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, misses+2, testutil.ToFloat64(cacheLookups.WithLabelValues("miss")))
}

func TestUpstreamCollector(t *testing.T) {
	tests := []struct {
		name   string
		status fakeStatus
		want   string
	}{
		{"not yet probed", fakeStatus{}, ""},
		{"up", fakeStatus{up: true, checked: true}, "influencer_upstream_up 1"},
		{"down", fakeStatus{checked: true}, "influencer_upstream_up 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewPedanticRegistry()
			reg.MustRegister(&UpstreamCollector{src: tt.status})

			n, err := testutil.GatherAndCount(reg, "influencer_upstream_up")
			assert.NoError(t, err)
			if tt.want == "" {
				assert.Zero(t, n)
				return
			}
			assert.Equal(t, 1, n)

			expected := "# HELP influencer_upstream_up Whether the last upstream probe succeeded (1) or failed (0)\n" +
				"# TYPE influencer_upstream_up gauge\n" + tt.want + "\n"
			assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "influencer_upstream_up"))
		})
	}
}
