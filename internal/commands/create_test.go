package commands

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/gistman/internal/app"
	"github.com/tildaslashalef/gistman/internal/collect"
	"github.com/tildaslashalef/gistman/internal/config"
	"github.com/tildaslashalef/gistman/internal/gist"
	"github.com/tildaslashalef/gistman/internal/loggy"
)

const createdGistJSON = `{
	"id": "abc123def456",
	"description": "sample",
	"public": false,
	"html_url": "https://gist.github.com/user/abc123def456",
	"updated_at": "2024-05-01T10:00:00Z",
	"files": {
		"a.py": {"filename": "a.py", "content": "print('a')", "size": 10}
	}
}`

// newTestCLIApp wires a cli.App the way main.go does, but against a test
// HTTP server and an in-memory filesystem.
func newTestCLIApp(t *testing.T, mux *http.ServeMux, fs afero.Fs, cmd *cli.Command) *cli.App {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := config.New()
	cfg.GitHub = config.GitHubConfig{
		Token:             "test-token",
		APIURL:            server.URL,
		RequestTimeout:    5 * time.Second,
		MaxRetries:        1,
		RequestsPerSecond: 1000,
		Burst:             1000,
	}
	cfg.Gist = config.GistConfig{
		MaxFileSize:    1 << 20,
		ReservedPrefix: "gistfile",
		ListLimit:      30,
	}

	application := &app.App{
		Config:    cfg,
		Gist:      gist.NewService(cfg, loggy.NewNoopLogger()),
		Collector: collect.NewCollectorWithFs(fs),
	}

	return &cli.App{
		Name:     "gistman",
		Metadata: map[string]interface{}{"app": application},
		Commands: []*cli.Command{cmd},
	}
}

func TestCreateCommand(t *testing.T) {
	var created atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/gists", func(w http.ResponseWriter, r *http.Request) {
		created.Store(true)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, createdGistJSON)
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.py", []byte("print('a')"), 0644))

	cliApp := newTestCLIApp(t, mux, fs, CreateCommand())

	err := cliApp.Run([]string{"gistman", "create", "a.py"})
	require.NoError(t, err)
	assert.True(t, created.Load())
}

func TestCreateCommandCopyFlagIsNonFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/gists", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, createdGistJSON)
	})

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.py", []byte("print('a')"), 0644))

	cliApp := newTestCLIApp(t, mux, fs, CreateCommand())

	// A missing clipboard tool must degrade to a warning; the gist was
	// already created, so the command still succeeds.
	err := cliApp.Run([]string{"gistman", "create", "--copy", "a.py"})
	assert.NoError(t, err)
}

func TestCreateCommandRequiresFiles(t *testing.T) {
	cliApp := newTestCLIApp(t, http.NewServeMux(), afero.NewMemMapFs(), CreateCommand())

	err := cliApp.Run([]string{"gistman", "create"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one file")
}

func TestCreateCommandMissingFile(t *testing.T) {
	cliApp := newTestCLIApp(t, http.NewServeMux(), afero.NewMemMapFs(), CreateCommand())

	err := cliApp.Run([]string{"gistman", "create", "nope.py"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
