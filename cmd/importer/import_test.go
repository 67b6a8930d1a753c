package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosmogony-cities/internal/config"
)

func TestCauseChain(t *testing.T) {
	root := errors.New("connection refused")
	err := fmt.Errorf("load regions: %w", fmt.Errorf("begin transaction: %w", root))

	assert.Equal(t, []string{
		"load regions: begin transaction: connection refused",
		"begin transaction: connection refused",
		"connection refused",
	}, causeChain(err))
}

func TestCauseChain_Joined(t *testing.T) {
	err := errors.Join(errors.New("a"), fmt.Errorf("b: %w", errors.New("c")))

	chain := causeChain(err)
	assert.Equal(t, []string{"a\nb: c", "a", "b: c", "c"}, chain)
}

func TestImportCmd_FlagsOverrideConfig(t *testing.T) {
	cmd := newImportCmd()
	require.NoError(t, cmd.ParseFlags([]string{
		"--input", "/data/cosmogony.jsonl.gz",
		"-c", "postgres://localhost/cities",
		"--batch-size", "500",
		"--timeout", "10m",
		"--dry-run",
	}))

	cfg := &config.Config{Import: config.ImportConfig{Table: "administrative_regions", Workers: 4}}
	var opts importOptions
	opts.input, _ = cmd.Flags().GetString("input")
	opts.connectionString, _ = cmd.Flags().GetString("connection-string")
	opts.batchSize, _ = cmd.Flags().GetInt("batch-size")
	opts.timeout, _ = cmd.Flags().GetDuration("timeout")
	opts.dryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.applyTo(cmd, cfg)

	assert.Equal(t, "/data/cosmogony.jsonl.gz", cfg.Import.Input)
	assert.Equal(t, "postgres://localhost/cities", cfg.Database.URL)
	assert.Equal(t, 500, cfg.Import.BatchSize)
	assert.Equal(t, 10*time.Minute, cfg.Import.Timeout)
	assert.True(t, cfg.Import.DryRun)
	// not given on the command line
	assert.Equal(t, "administrative_regions", cfg.Import.Table)
	assert.Equal(t, 4, cfg.Import.Workers)
}
