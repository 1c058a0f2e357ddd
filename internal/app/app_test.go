package app

import (
	"context"
	"taskAPI/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestShutdown_ReverseOrder тестирует порядок выполнения shutdown-функций
func TestShutdown_ReverseOrder(t *testing.T) {
	a := New(&config.Config{})

	order := []int{}
	a.shutdowns = append(a.shutdowns, func() { order = append(order, 1) })
	a.shutdowns = append(a.shutdowns, func() { order = append(order, 2) })

	a.shutdown()
	assert.Equal(t, []int{2, 1}, order)
}

// TestRun_InitFailureRunsShutdowns тестирует очистку при ошибке init:
// накопленные к моменту ошибки shutdown-функции должны выполниться
func TestRun_InitFailureRunsShutdowns(t *testing.T) {
	cfg := &config.Config{}
	cfg.Repository.Type = "bogus"

	a := New(cfg)

	cleaned := false
	a.shutdowns = append(a.shutdowns, func() { cleaned = true })

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, cleaned)
}
