package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/landing-leads/internal/entity"
)

// fakeCRM keeps leads in memory and speaks enough of the EspoCRM Lead API
// for the commands.
type fakeCRM struct {
	mu      sync.Mutex
	leads   map[string]entity.LeadRecord
	deleted []string
}

func newFakeCRM(t *testing.T) (*fakeCRM, *httptest.Server) {
	f := &fakeCRM{leads: map[string]entity.LeadRecord{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		id := strings.TrimPrefix(r.URL.Path, "/api/v1/Lead")
		id = strings.TrimPrefix(id, "/")

		switch {
		case r.Method == http.MethodGet && id == "":
			list := []entity.LeadRecord{}
			email := r.URL.Query().Get("where[0][value]")
			for _, l := range f.leads {
				if email == "" || l.EmailAddress == email {
					list = append(list, l)
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"total": len(list), "list": list})
		case r.Method == http.MethodPost:
			var lead entity.Lead
			_ = json.NewDecoder(r.Body).Decode(&lead)
			rec := entity.LeadRecord{
				ID:           "lead-1",
				FirstName:    lead.FirstName,
				LastName:     lead.LastName,
				EmailAddress: lead.EmailAddress,
				Status:       lead.Status,
			}
			f.leads[rec.ID] = rec
			_ = json.NewEncoder(w).Encode(rec)
		case r.Method == http.MethodGet:
			rec, ok := f.leads[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(rec)
		case r.Method == http.MethodDelete:
			delete(f.leads, id)
			f.deleted = append(f.deleted, id)
			_, _ = w.Write([]byte("true"))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func run(t *testing.T, srvURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ESPOCRM_URL", srvURL)
	t.Setenv("ESPOCRM_API_KEY", "test-key")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ping", "find", "get", "delete", "debug"} {
		assert.True(t, names[want], want)
	}
}

func TestPing(t *testing.T) {
	_, srv := newFakeCRM(t)

	out, err := run(t, srv.URL, "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "API key ********")
	assert.NotContains(t, out, "test-key")
	assert.Contains(t, out, "OK")
}

func TestPingBadKey(t *testing.T) {
	_, srv := newFakeCRM(t)

	_, err := run(t, srv.URL, "ping", "--api-key", "wrong-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential rejected")
}

func TestInvalidURLFlag(t *testing.T) {
	_, srv := newFakeCRM(t)

	_, err := run(t, srv.URL, "ping", "--url", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestNoCredentials(t *testing.T) {
	_, srv := newFakeCRM(t)
	t.Setenv("ESPOCRM_URL", srv.URL)
	t.Setenv("ESPOCRM_API_KEY", "")
	t.Setenv("ESPOCRM_USERNAME", "")
	t.Setenv("ESPOCRM_PASSWORD", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"ping"})

	assert.ErrorIs(t, root.Execute(), errNoCredentials)
}

func TestFindGetDelete(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.mu.Lock()
	f.leads["abc"] = entity.LeadRecord{ID: "abc", EmailAddress: "jane@example.com", FirstName: "Jane"}
	f.mu.Unlock()

	out, err := run(t, srv.URL, "find", "jane@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "abc"`)

	_, err = run(t, srv.URL, "find", "nobody@example.com")
	assert.Error(t, err)

	out, err = run(t, srv.URL, "get", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"firstName": "Jane"`)

	out, err = run(t, srv.URL, "delete", "abc")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted lead abc")
	assert.Equal(t, []string{"abc"}, f.deleted)

	_, err = run(t, srv.URL, "get", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDebugRoundTrip(t *testing.T) {
	f, srv := newFakeCRM(t)

	out, err := run(t, srv.URL, "debug")
	require.NoError(t, err)

	assert.Contains(t, out, "created lead lead-1")
	assert.Contains(t, out, "Debug Test <debug-test-")
	assert.Contains(t, out, `"description": "This is a test submission for debugging\n\nTeam Size: 10-50"`)
	assert.Contains(t, out, "deleted lead lead-1")
	assert.Equal(t, []string{"lead-1"}, f.deleted)
}

func TestDebugKeep(t *testing.T) {
	f, srv := newFakeCRM(t)

	out, err := run(t, srv.URL, "debug", "--keep")
	require.NoError(t, err)

	assert.Contains(t, out, "Kept lead lead-1")
	assert.Empty(t, f.deleted)
	assert.Len(t, f.leads, 1)
}
