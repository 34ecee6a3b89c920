package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usdscan/depositworker/config"
)

func TestCreateStrategiesAndDispatch(t *testing.T) {
	cfg := &config.Config{MaxPagesPerSite: 20, MaxLinksPerPage: 200, MaxJSONURLs: 40}
	strategies := CreateStrategies(cfg, newFakeFetcher())
	require.Len(t, strategies, 2)

	s := Dispatch(strategies, "xb.uz")
	require.NotNil(t, s)
	assert.Equal(t, "xalq-open-data", s.Name())

	s = Dispatch(strategies, "bank.example")
	require.NotNil(t, s)
	assert.Equal(t, "generic", s.Name())
}

func TestDispatchEmptyList(t *testing.T) {
	assert.Nil(t, Dispatch(nil, "bank.example"))
}
