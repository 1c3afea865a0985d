package settings_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type Server struct {
	Host    string
	Port    int           `comment:"Port to listen on"`
	Timeout time.Duration `comment:"Idle timeout"`
}

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

func (Mode) Values() []Mode { return []Mode{ModeDev, ModeProd} }

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}
