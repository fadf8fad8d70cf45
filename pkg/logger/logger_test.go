package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/pln-usage-report/pkg/logger"
)

func TestNewWithWriter_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Env: "production", Level: "warn"}, &buf)

	log.Info().Msg("hidden")
	log.With("export").Warn().Str("file", "a.pdf").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"export"`)
	assert.Contains(t, out, `"file":"a.pdf"`)
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() {
		log.Error().Msg("nothing happens")
	})
}
