package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLoggerFormatsComponentAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "flow")
	l.Warn("attempt %d failed", 2)
	assert.Contains(t, buf.String(), "[WARN] [flow] attempt 2 failed")
}

func TestComponentLoggerWritesToCategoryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(Close)

	NewComponentLogger("store").Info("saved %s", "rec-1")
	NewLLMLogger("engine").Info("model=%s", "flash")
	Close()

	svc, err := os.ReadFile(filepath.Join(dir, "humanos.log"))
	require.NoError(t, err)
	assert.Contains(t, string(svc), "[store] saved rec-1")

	llm, err := os.ReadFile(filepath.Join(dir, "humanos-llm.log"))
	require.NoError(t, err)
	assert.Contains(t, string(llm), "[engine] model=flash")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Equal(t, l, OrNop(l))
}
