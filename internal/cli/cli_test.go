package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixmycity/internal/config"
	"fixmycity/internal/logging"
	"fixmycity/internal/model"
	transport "fixmycity/internal/transport/http"
)

// harness runs each command as a fresh process would: new App, same session file.
type harness struct {
	t           *testing.T
	apiURL      string
	sessionFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := &config.Config{JWTSecret: "cli-secret", AccessTokenMaxAge: 3600}
	srv := httptest.NewServer(transport.NewSandbox(cfg, zerolog.Nop(), false))
	t.Cleanup(srv.Close)

	return &harness{
		t:           t,
		apiURL:      srv.URL + "/api",
		sessionFile: filepath.Join(t.TempDir(), "session.json"),
	}
}

func (h *harness) run(args ...string) (code int, stdout, stderr string) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append(args, "--api-url", h.apiURL, "--store", "file", "--session-file", h.sessionFile)

	code = New(&out, &errOut).Execute(context.Background(), full)
	return code, out.String(), errOut.String()
}

func (h *harness) register(email string) {
	h.t.Helper()
	code, _, stderr := h.run("register",
		"--first-name", "Ada", "--last-name", "Banda",
		"--email", email, "--password", "secret1",
		"--phone", "0977000000", "--nrc", "123456/78/1")
	require.Equal(h.t, 0, code, stderr)
}

func TestCLI_SessionLifecycle(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "not logged in")

	h.register("ada@example.com")

	code, stdout, _ := h.run("whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Ada Banda <ada@example.com>")
	assert.Contains(t, stdout, "Member since")

	code, stdout, _ = h.run("logout")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed out")

	code, _, _ = h.run("whoami")
	assert.Equal(t, 1, code)

	code, stdout, _ = h.run("login", "--email", "ada@example.com", "--password", "secret1")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Signed in as Ada Banda")
}

func TestCLI_RegisterRequiresEveryField(t *testing.T) {
	h := newHarness(t)

	code, _, stderr := h.run("register", "--email", "ada@example.com", "--password", "secret1")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "required flag(s)")
	for _, name := range []string{"first-name", "last-name", "phone", "nrc"} {
		assert.Contains(t, stderr, name)
	}

	code, _, _ = h.run("whoami")
	assert.Equal(t, 1, code, "nothing was registered")
}

func TestCLI_SessionStoreLogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.WithLogger(context.Background(), zerolog.New(&buf).Level(zerolog.DebugLevel))
	cfg := &config.Config{SessionStore: config.StoreFile, SessionFile: filepath.Join(t.TempDir(), "s.json")}

	store, closeStore, err := newSessionStore(ctx, cfg, "work")
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NoError(t, closeStore())

	assert.Contains(t, buf.String(), "opening session store")
	assert.Contains(t, buf.String(), `"profile":"work"`)
}

func TestCLI_LoginFailureAsResult(t *testing.T) {
	h := newHarness(t)
	h.register("ada@example.com")

	code, stdout, _ := h.run("login", "--email", "ada@example.com", "--password", "wrong", "--json")
	assert.Equal(t, 1, code)

	var res model.Result
	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, model.Result{Success: false, Error: "invalid credentials"}, res)

	// the earlier session is still usable
	code, _, _ = h.run("whoami")
	assert.Equal(t, 0, code)
}

func TestCLI_ReportFlow(t *testing.T) {
	h := newHarness(t)
	h.register("ada@example.com")

	photo := filepath.Join(t.TempDir(), "pothole.jpg")
	require.NoError(t, os.WriteFile(photo, []byte("fake jpeg bytes"), 0o600))

	code, _, stderr := h.run("submit", "--title", "Pothole", "--caption", "")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "caption is required")

	code, stdout, stderr := h.run("submit",
		"--title", "Pothole", "--caption", "Deep one", "--place", "Cairo Road",
		"--rating", "4", "--image", photo, "--lat", "-15.41", "--lng", "28.28")
	require.Equal(t, 0, code, stderr)

	m := regexp.MustCompile(`Report (\S+) submitted`).FindStringSubmatch(stdout)
	require.Len(t, m, 2)
	id := m[1]

	code, stdout, _ = h.run("feed", "--pages", "3")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Pothole")
	assert.Contains(t, stdout, "★★★★☆")

	code, stdout, _ = h.run("mine", "--json")
	require.Equal(t, 0, code)
	var mine []model.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].ID)

	code, stdout, _ = h.run("delete", id)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Report Deleted Successfully")

	code, stdout, _ = h.run("mine")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "No reports yet.")
}

func TestCLI_UnknownStore(t *testing.T) {
	var out, errOut bytes.Buffer
	code := New(&out, &errOut).Execute(context.Background(), []string{"whoami", "--store", "etcd"})

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), `unknown session store "etcd"`)
}

func TestCLI_ArchiveNeedsBucket(t *testing.T) {
	t.Setenv("ARCHIVE_BUCKET", "")
	h := newHarness(t)
	h.register("ada@example.com")

	code, _, stderr := h.run("archive")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "archive bucket is not configured")
}
