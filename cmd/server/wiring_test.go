package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicer/internal/config"
)

func TestBuildServices_Memory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Invoice.NumberPrefix = "AB"
	cfg.Invoice.PhoneRegion = "IN"

	repos := memoryRepositories()
	assert.Equal(t, "memory", repos.name)

	services, err := buildServices(cfg, repos)
	require.NoError(t, err)
	assert.NotNil(t, services.Invoice)
	assert.NotNil(t, services.Stock)
	assert.NotNil(t, services.Worker)
	assert.NotNil(t, services.WorkerTransactions)
	assert.NotNil(t, services.Company)

	cfg.Invoice.NumberPrefix = ""
	_, err = buildServices(cfg, repos)
	assert.Error(t, err)
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}
