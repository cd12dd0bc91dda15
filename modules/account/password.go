package account

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionkit/pkg/binder"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/validator"
)

type PasswordService struct {
	cfg     Config
	storage UserStorage
	views   Views
	logger  *slog.Logger
}

// PasswordOption configures a PasswordService.
type PasswordOption func(*PasswordService)

// WithViews replaces the default views.
func WithViews(v Views) PasswordOption {
	return func(s *PasswordService) {
		if v.LoginPage != nil {
			s.views = v
		}
	}
}

// WithLogger sets the logger for sign-in events.
func WithLogger(l *slog.Logger) PasswordOption {
	return func(s *PasswordService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewPasswordService(cfg Config, storage UserStorage, opts ...PasswordOption) *PasswordService {
	s := &PasswordService{
		cfg:     cfg,
		storage: storage,
		views:   DefaultViews(),
		logger:  logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PasswordService) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/login", s.loginPage)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	return r
}

// LoginPageQuery is bound from the login page URL.
type LoginPageQuery struct {
	Email    string `query:"email"`
	Redirect string `query:"redirect"`
}

// LoginRequest is bound from the login form.
type LoginRequest struct {
	Email       string `form:"email"`
	Password    string `form:"password"`
	RedirectURL string `form:"redirect_url"`
}

// Validate checks the shape of the submitted credentials before any lookup.
// bcrypt ignores input past 72 bytes, so longer passwords are refused.
func (req LoginRequest) Validate() error {
	return validator.Apply(
		validator.Required("email", req.Email),
		validator.ValidEmail("email", req.Email),
		validator.MaxLen("email", req.Email, 254),
		validator.Required("password", req.Password),
		validator.MaxLen("password", req.Password, 72),
	)
}

func (s *PasswordService) loginPage(w http.ResponseWriter, r *http.Request) {
	sess, err := startedSession(r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	var query LoginPageQuery
	if err := binder.Query()(r, &query); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	params := LoginPageParams{
		Email:       query.Email,
		RedirectURL: safeRedirect(query.Redirect, ""),
		Errors:      sess.GetFlash(FlashErrors),
		Notices:     sess.GetFlash(FlashNotices),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.LoginPage(params).Render(r.Context(), w); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render login page",
			logger.Component("account"),
			logger.Error(err),
		)
	}
}

func (s *PasswordService) login(w http.ResponseWriter, r *http.Request) {
	sess, err := startedSession(r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	var req LoginRequest
	if err := binder.Form()(r, &req); err != nil {
		s.logger.InfoContext(r.Context(), "malformed sign-in request",
			logger.Component("account"),
			logger.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	back := s.cfg.LoginPath + "?email=" + url.QueryEscape(email)
	target := safeRedirect(req.RedirectURL, s.cfg.HomePath)

	if err := req.Validate(); err != nil {
		verrs := validator.ExtractValidationErrors(err)
		messages := make([]string, 0, len(verrs))
		for _, field := range verrs.Fields() {
			// One message per field.
			messages = append(messages, field+": "+verrs.Get(field)[0])
		}
		sess.Flash(FlashErrors, messages)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	user, err := Authenticate(r.Context(), s.storage, email, req.Password)
	if err != nil {
		s.logger.InfoContext(r.Context(), "sign-in rejected",
			logger.Component("account"),
			logger.Event("login_failed"),
		)
		sess.Flash(FlashErrors, []string{"Invalid email or password."})
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if !sess.Regenerate() {
		s.logger.WarnContext(r.Context(), "session identifier not regenerated on sign-in",
			logger.Component("account"),
			logger.SessionID(sess.ID()),
		)
	}
	sess.Put(SessionUserKey, user.ID.String())

	s.logger.InfoContext(r.Context(), "user signed in",
		logger.Component("account"),
		logger.Event("login"),
		logger.SessionID(sess.ID()),
	)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *PasswordService) logout(w http.ResponseWriter, r *http.Request) {
	sess, err := startedSession(r)
	if err != nil {
		s.sessionError(w, r, err)
		return
	}

	sess.Forget(SessionUserKey)
	sess.Regenerate()
	sess.Flash(FlashNotices, []string{"You have been signed out."})

	http.Redirect(w, r, s.cfg.LoginPath, http.StatusSeeOther)
}

func (s *PasswordService) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "session unavailable",
		logger.Component("account"),
		logger.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

var errNoSession = errors.New("account: session middleware is not installed")

// startedSession returns the request session, starting it when the
// middleware was configured without auto start.
func startedSession(r *http.Request) (*session.Session, error) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil, errNoSession
	}
	if !sess.IsActive() {
		if err := sess.Start(); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// safeRedirect keeps redirects on this host: only absolute paths are allowed.
func safeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
