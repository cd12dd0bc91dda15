// Command sessiondemo serves a small sign-in flow on top of the session
// package: flashed errors across a redirect, identifier regeneration on
// sign-in and a page guarded by a session key.
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/modules/account"
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	RedisURL     string `env:"REDIS_URL"` // memory backend when empty
	DemoEmail    string `env:"DEMO_EMAIL" envDefault:"demo@example.com"`
	DemoPassword string `env:"DEMO_PASSWORD" envDefault:"demo-password"`
}

func homePage(userID string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<!doctype html>
<html>
<head><title>Home</title></head>
<body>
<p>Signed in as `+templ.EscapeString(userID)+`</p>
<form method="post" action="/auth/password/logout"><button type="submit">Sign out</button></form>
</body>
</html>
`)
		return err
	})
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := logger.New(
		logger.WithEnvironment(appCfg.Env, "sessiondemo"),
		logger.WithContextValue("request_id", middleware.RequestIDKey),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appCfg, log); err != nil {
		log.Error("sessiondemo stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var (
		cookieCfg  cookie.Config
		sessionCfg session.Config
		serverCfg  httpserver.Config
		accountCfg account.Config
	)
	config.MustLoad(&cookieCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&serverCfg)
	config.MustLoad(&accountCfg)

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithCookieManager(cookies),
		session.WithLogger(log),
		session.WithAutoStart(true),
		session.WithUnauthorizedHandler(toLogin(accountCfg)),
	}

	var readiness []func(context.Context) error
	if appCfg.RedisURL != "" {
		client, backend, err := connectRedis(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		opts = append(opts, session.WithBackend(backend))
		readiness = append(readiness, redis.Healthcheck(client))
		log.Info("using redis session backend")
	}

	sessions := session.NewFromConfig(sessionCfg, opts...)
	defer sessions.Close()

	users := account.NewMemoryUsers(0)
	if _, err := users.Register(ctx, appCfg.DemoEmail, appCfg.DemoPassword); err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Get("/healthz", httpserver.HealthCheckHandler(log, readiness...))

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		r.Mount("/", account.Router(account.RouterOptions{
			Password: account.NewPasswordService(accountCfg, users, account.WithLogger(log)),
		}))

		r.With(sessions.RequireKey(account.SessionUserKey)).Get("/", home(log))
	})

	srv := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func connectRedis(ctx context.Context) (*goredis.Client, *redis.Backend, error) {
	var cfg redis.Config
	if err := config.Load(&cfg); err != nil {
		return nil, nil, err
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	backend, err := redis.NewBackendFromConfig(client, cfg)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return client, backend, nil
}

// toLogin sends anonymous visitors to the login page instead of a bare 401.
func toLogin(cfg account.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, cfg.LoginPath+"?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	})
}

func home(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		userID, _ := sess.GetString(account.SessionUserKey)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := homePage(userID).Render(r.Context(), w); err != nil {
			log.ErrorContext(r.Context(), "failed to render home page", logger.Error(err))
		}
	}
}
