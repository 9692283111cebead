package http_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	apphttp "github.com/clipboardhq/clipboard/internal/http"
	"github.com/clipboardhq/clipboard/internal/mail"
	"github.com/clipboardhq/clipboard/internal/oauth"
	"github.com/clipboardhq/clipboard/internal/service"
	"github.com/clipboardhq/clipboard/internal/store/sqlite"
	"github.com/clipboardhq/clipboard/pkg/cryptox"
	"github.com/clipboardhq/clipboard/pkg/jwtx"
	"github.com/clipboardhq/clipboard/pkg/slogx"

	"github.com/stretchr/testify/require"
)

const (
	testIssuer      = "clipboard-test"
	testFrontendURL = "https://app.example.com"
)

var (
	testAccessSecret  = []byte("test-access-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// capturingSender records outbound mail for assertions.
type capturingSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (c *capturingSender) Send(_ context.Context, msg mail.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *capturingSender) last(t *testing.T) mail.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.sent)
	return c.sent[len(c.sent)-1]
}

type testEnv struct {
	server *httptest.Server
	store  *sqlite.Store
	mail   *capturingSender
}

// newTestEnv builds a full router over a fresh database and serves it.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "http_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	tokens := &service.TokenService{
		AccessSigner:  jwtx.NewHS256Signer(testAccessSecret),
		RefreshSigner: jwtx.NewHS256Signer(testRefreshSecret),
		Issuer:        testIssuer,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	authSvc := &service.AuthService{
		Store:           st,
		Tokens:          tokens,
		RefreshVerifier: jwtx.NewHS256Verifier(testRefreshSecret, testIssuer),
	}
	sender := &capturingSender{}

	logger := slogx.New(slogx.Config{Level: "error", Format: "text"})
	router := apphttp.NewRouter(
		jwtx.NewHS256Verifier(testAccessSecret, testIssuer),
		"test", testFrontendURL,
		apphttp.CookieConfig{Secure: false},
		st, logger,
	)
	router.AuthService = authSvc
	router.OAuthService = &service.OAuthService{Store: st}
	router.ResetService = &service.ResetService{Store: st, Mail: sender, FrontendURL: testFrontendURL}
	router.UserService = &service.UserService{Store: st}
	router.Providers = oauth.NewRegistry(
		oauth.NewGitHub("test-client", "test-secret", "http://localhost/api/auth/github/callback"),
	)
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: st, mail: sender}
}
