package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors_Once(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)
	RegisterCollectors(reg)

	LLMRequests.WithLabelValues("test/model", "ok").Inc()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["ziio_llm_requests_total"])
}
