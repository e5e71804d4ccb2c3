package main

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/DEFRA/fes-frontend/auth"
	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/logger"
	"github.com/DEFRA/fes-frontend/orchestration"
	"github.com/DEFRA/fes-frontend/session"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	languageCookie = "lng"
	privacyKey     = "privacy"
)

// handler wraps the router with the middleware every request passes through
func (a *app) handler(router http.Handler) http.Handler {
	h := a.language(router)
	h = a.recoverer(h)
	h = a.requestLogger(h)
	return otelhttp.NewHandler(h, viper.GetString("service_name"))
}

func (a *app) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx, l := logger.WithRequest(r.Context(), a.logger, requestID)
		l.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *app) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.FromContext(r.Context()).Error("panic serving request",
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()))
				a.status(w, r, http.StatusInternalServerError, "page.serverError.title")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *app) language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var choice string
		if c, err := r.Cookie(languageCookie); err == nil {
			choice = c.Value
		}
		lang := a.catalog.Match(choice, r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(withLanguage(r.Context(), lang)))
	})
}

type pageOptions struct {
	skipPrivacy bool
	journey     *journey
	feature     string
}

// page guards an exporter facing route. The exporter must be signed in and
// have accepted the privacy notice. Posts must carry the session's form token.
func (a *app) page(h httprouter.Handle, opts ...func(*pageOptions)) httprouter.Handle {
	o := pageOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, ok := a.identify(r)
		if !ok {
			http.Redirect(w, r, "/forbidden", http.StatusFound)
			return
		}
		ctx := auth.WithIdentity(r.Context(), identity)
		ctx = orchestration.WithToken(ctx, identity.Token)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(zap.String("contact_id", identity.Claims.ContactID)))

		s, err := a.sessions.Get(r)
		if err != nil {
			a.serverError(w, r, err)
			return
		}
		r = r.WithContext(session.WithContext(ctx, s))

		if o.journey != nil {
			if doc := ps.ByName("documentNumber"); doc != "" && !o.journey.owns(doc) {
				a.redirect(w, r, o.journey.dashboard())
				return
			}
		}
		if o.feature != "" && !a.flags.IsEnabled(o.feature) {
			a.status(w, r, http.StatusNotFound, "page.notFound.title")
			return
		}

		if r.Method == http.MethodPost {
			if !a.parseForm(w, r) {
				return
			}
			if !sameToken(r.PostFormValue("csrf"), s.CSRFToken()) {
				logger.FromContext(r.Context()).Warn("form token mismatch", zap.String("path", r.URL.Path))
				a.status(w, r, http.StatusForbidden, "page.forbidden.title")
				return
			}
		}

		if !o.skipPrivacy && !a.privacyAccepted(w, r, s) {
			return
		}
		h(w, r, ps)
	}
}

func forJourney(j *journey) func(*pageOptions) {
	return func(o *pageOptions) { o.journey = j }
}

func withoutPrivacy(o *pageOptions) { o.skipPrivacy = true }

func behindFeature(name string) func(*pageOptions) {
	return func(o *pageOptions) { o.feature = name }
}

// owns reports whether documentNumber belongs to the journey
func (j *journey) owns(documentNumber string) bool {
	return forms.IsDocumentNumber(documentNumber) && strings.Contains(documentNumber, "-"+j.section+"-")
}

func (a *app) identify(r *http.Request) (auth.Identity, bool) {
	if viper.GetBool("auth.disabled") {
		return auth.DevelopmentIdentity(), true
	}
	if a.verifier == nil {
		return auth.Identity{}, false
	}
	token := auth.TokenFromRequest(r, viper.GetString("auth.cookie_name"))
	claims, err := a.verifier.Verify(token)
	if err != nil {
		logger.FromContext(r.Context()).Info("identity token rejected", zap.Error(err))
		return auth.Identity{}, false
	}
	return auth.Identity{Claims: *claims, Token: token}, true
}

// sameToken compares form tokens in constant time. An empty token never matches.
func sameToken(posted, want string) bool {
	return posted != "" && subtle.ConstantTimeCompare([]byte(posted), []byte(want)) == 1
}

// parseForm reads the posted body, multipart or urlencoded, within the size limit
func (a *app) parseForm(w http.ResponseWriter, r *http.Request) bool {
	maxBytes := viper.GetInt64("upload.max_bytes")
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		logger.FromContext(r.Context()).Info("unreadable form", zap.Error(err))
		a.status(w, r, http.StatusRequestEntityTooLarge, "page.badRequest.title")
		return false
	}
	return true
}

// privacyAccepted checks the privacy notice has been accepted, asking the
// orchestration API once per session
func (a *app) privacyAccepted(w http.ResponseWriter, r *http.Request, s *session.Session) bool {
	if s.Get(privacyKey) == "accepted" {
		return true
	}
	attrs, err := a.api.GetUserAttributes(r.Context())
	if err != nil {
		a.fail(w, r, nil, err)
		return false
	}
	if attrs.PrivacyStatement {
		s.Set(privacyKey, "accepted")
		return true
	}
	a.redirect(w, r, fmt.Sprintf("/privacy-notice?nextUri=%s", url.QueryEscape(r.URL.RequestURI())))
	return false
}
