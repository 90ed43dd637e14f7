package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"login_automation/application/login"
	"login_automation/domain/entities"
	"login_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set LOGIN_BROWSER_TESTS to a comma separated list of backends, or "all",
// to run these against locally installed browsers.
const browserTestsEnv = "LOGIN_BROWSER_TESTS"

const loginPage = `<!DOCTYPE html>
<html><body>
<form method="post" action="/auth/validate">
  <input name="username" type="text">
  <input name="password" type="password">
  <button type="submit">Login</button>
</form>
</body></html>`

const slowLoginPage = `<!DOCTYPE html>
<html><body><div id="app"></div>
<script>
setTimeout(function () {
  document.getElementById("app").innerHTML = '<form method="post" action="/auth/validate">' +
    '<input name="username" type="text"><input name="password" type="password">' +
    '<button type="submit">Login</button></form>';
}, 300);
</script>
</body></html>`

const disabledLoginPage = `<!DOCTYPE html>
<html><body>
<form method="post" action="/auth/validate">
  <input name="username" type="text" disabled>
  <input name="password" type="password" disabled>
  <button type="submit" disabled>Login</button>
</form>
<script>
setTimeout(function () {
  document.querySelectorAll("input, button").forEach(function (el) { el.disabled = false; });
}, 300);
</script>
</body></html>`

func newLoginServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(loginPage))
	})
	mux.HandleFunc("/auth/slow", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(slowLoginPage))
	})
	mux.HandleFunc("/auth/disabled", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(disabledLoginPage))
	})
	mux.HandleFunc("/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("username") == "Admin" && r.FormValue("password") == "admin123" {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/auth/login?error=1", http.StatusSeeOther)
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><h1>Dashboard</h1></body></html>"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func browserBackends(t *testing.T) []string {
	v := os.Getenv(browserTestsEnv)
	if v == "" {
		t.Skipf("set %s to run browser tests", browserTestsEnv)
	}
	if v == "all" {
		return config.Backends
	}
	return strings.Split(v, ",")
}

func testConfig(backend string) *config.Config {
	cfg := config.Default()
	cfg.Backend = backend
	cfg.Browser.Headless = true
	return cfg
}

func TestLoginAgainstRealBrowser(t *testing.T) {
	backends := browserBackends(t)
	srv := newLoginServer(t)

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			logger := logrus.New()
			logger.SetLevel(logrus.DebugLevel)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			b, err := Open(ctx, testConfig(backend), logger)
			require.NoError(t, err)
			defer b.Close()

			for _, path := range []string{"/auth/login", "/auth/slow"} {
				require.NoError(t, b.Navigate(ctx, srv.URL+path))

				a := login.NewLoginAction(b, login.WithLogger(logger), login.WithWaitTimeout(5*time.Second))
				require.NoError(t, a.EnterIdentifier(ctx))
				require.NoError(t, a.EnterSecret(ctx))
				require.NoError(t, a.Submit(ctx))

				require.Eventually(t, func() bool {
					url, err := b.CurrentURL(ctx)
					return err == nil && strings.HasSuffix(url, "/dashboard")
				}, 10*time.Second, 100*time.Millisecond, "submit should navigate to the dashboard")
			}

			// The dashboard has no login form
			a := login.NewLoginAction(b, login.WithWaitTimeout(0))
			err = a.EnterIdentifier(ctx)
			assert.True(t, entities.IsElementNotFound(err), "got %v", err)

			a = login.NewLoginAction(b, login.WithWaitTimeout(200*time.Millisecond))
			err = a.Submit(ctx)
			assert.True(t, entities.IsElementNotFound(err), "got %v", err)
		})
	}
}

func TestRodWaitsForDisabledFields(t *testing.T) {
	backends := browserBackends(t)
	if !slices.Contains(backends, config.BackendRod) {
		t.Skip("rod backend not selected")
	}
	srv := newLoginServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	b, err := Open(ctx, testConfig(config.BackendRod), logrus.New())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Navigate(ctx, srv.URL+"/auth/disabled"))

	// The fields exist right away, so the lookup succeeds without a wait
	a := login.NewLoginAction(b, login.WithWaitTimeout(0))
	require.NoError(t, a.EnterIdentifier(ctx))
	require.NoError(t, a.EnterSecret(ctx))
	require.NoError(t, a.Submit(ctx))

	require.Eventually(t, func() bool {
		url, err := b.CurrentURL(ctx)
		return err == nil && strings.HasSuffix(url, "/dashboard")
	}, 10*time.Second, 100*time.Millisecond, "submit should navigate to the dashboard")
}
