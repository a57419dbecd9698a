package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// fakeProviders serves canned TMDB, TVmaze and Trakt responses on one
// httptest server, keyed by path.
type fakeProviders struct {
	t      *testing.T
	mu     sync.Mutex
	routes map[string]any
	hits   map[string]int
	server *httptest.Server
}

func newFakeProviders(t *testing.T) *fakeProviders {
	t.Helper()
	f := &fakeProviders{t: t, routes: make(map[string]any), hits: make(map[string]int)}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		v, ok := f.routes[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		respondJSON(t, w, v)
	}))
	t.Cleanup(f.server.Close)
	return f
}

// Respond registers the JSON body returned for path.
func (f *fakeProviders) Respond(path string, v any) *fakeProviders {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = v
	return f
}

// Hits reports how many requests path received.
func (f *fakeProviders) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeProviders) URL() string { return f.server.URL }

// respondJSON writes a JSON response with proper content-type header.
// Fails the test if JSON encoding fails instead of silently ignoring.
func respondJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON response: %v", err)
	}
}

// writeTestConfig writes a config whose providers all point at baseURL and
// whose catalog and database live in a temp dir.
func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("OMDB_API_KEY", "")
	t.Setenv("TRAKT_API_KEY", "")

	dir := t.TempDir()
	content := fmt.Sprintf(`
[server]
log_level = "error"

[catalog]
path = %q

[database]
path = %q

[providers.tmdb]
api_key = "test-key"
base_url = %q

[providers.tvmaze]
base_url = %q

[providers.trakt]
api_key = "client-id"
base_url = %q
`, filepath.Join(dir, "catalog.json"), filepath.Join(dir, "cinetrack.db"), baseURL+"/tmdb", baseURL+"/tvmaze", baseURL+"/trakt")

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resetFlags restores every flag of cmd and its children to its default.
// Cobra keeps flag values between Execute calls on the shared rootCmd.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with args against cfgPath and returns stdout.
func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	jsonOutput, verbose, configPath = false, false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}
