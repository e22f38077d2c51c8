package database

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describeAll(c prometheus.Collector) []string {
	ch := make(chan *prometheus.Desc, 32)
	c.Describe(ch)
	close(ch)

	var out []string
	for d := range ch {
		out = append(out, d.String())
	}
	return out
}

func TestPoolStatsCollector_Describe(t *testing.T) {
	c := NewPoolStatsCollector(nil, "wishlist")

	descs := describeAll(c)
	require.Len(t, descs, 8)

	joined := ""
	for _, d := range descs {
		joined += d
	}
	for _, name := range []string{
		"db_pool_acquired_connections",
		"db_pool_idle_connections",
		"db_pool_total_connections",
		"db_pool_max_connections",
		"db_pool_acquire_count_total",
		"db_pool_acquire_duration_seconds_total",
		"db_pool_empty_acquire_count_total",
		"db_pool_canceled_acquire_count_total",
	} {
		assert.Contains(t, joined, name)
	}
}

func TestPoolStatsCollector_CollectWithoutPool(t *testing.T) {
	c := NewPoolStatsCollector(nil, "wishlist")

	ch := make(chan prometheus.Metric, 32)
	c.Collect(ch)
	close(ch)

	assert.Empty(t, ch)
}

func TestRegisterPoolMetrics_DuplicateRejected(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, RegisterPoolMetrics(reg, nil, "wishlist"))
	assert.Error(t, RegisterPoolMetrics(reg, nil, "wishlist"))
}
