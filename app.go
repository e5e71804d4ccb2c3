package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/DEFRA/fes-frontend/archive"
	"github.com/DEFRA/fes-frontend/auth"
	"github.com/DEFRA/fes-frontend/i18n"
	"github.com/DEFRA/fes-frontend/logger"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/orchestration"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/DEFRA/fes-frontend/session"
	"go.uber.org/zap"
)

// app holds everything a route needs
type app struct {
	api      *orchestration.Client
	sessions *session.Manager
	renderer *render.Renderer
	catalog  *i18n.Catalog
	flags    featureFlags
	archive  archive.Archive
	verifier *auth.Verifier
	logger   *zap.Logger
}

type languageKey struct{}

func withLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, languageKey{}, lang)
}

func languageFrom(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey{}).(string); ok {
		return lang
	}
	return i18n.English
}

// sessionFrom returns the request's session. Routes outside the page
// middleware get a throwaway one.
func sessionFrom(r *http.Request) *session.Session {
	if s := session.FromContext(r.Context()); s != nil {
		return s
	}
	return session.New()
}

// view starts a page view in the request's language
func (a *app) view(r *http.Request, title string) *render.View {
	v := render.NewView(title, languageFrom(r.Context()))
	v.CSRF = sessionFrom(r).CSRFToken()
	return v
}

// commit saves the session if the request has one. Every request extends
// its expiry.
func (a *app) commit(w http.ResponseWriter, r *http.Request) error {
	s := session.FromContext(r.Context())
	if s == nil {
		return nil
	}
	return a.sessions.Commit(r.Context(), w, s)
}

func (a *app) render(w http.ResponseWriter, r *http.Request, v *render.View) {
	if err := a.commit(w, r); err != nil {
		a.serverError(w, r, err)
		return
	}
	if err := a.renderer.Render(w, r, v); err != nil {
		logger.FromContext(r.Context()).Error("rendering page failed", zap.String("template", v.Template), zap.Error(err))
	}
}

func (a *app) redirect(w http.ResponseWriter, r *http.Request, location string) {
	if err := a.commit(w, r); err != nil {
		a.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, location, http.StatusFound)
}

// invalid re-renders v with errs and the posted values
func (a *app) invalid(w http.ResponseWriter, r *http.Request, v *render.View, errs []models.FieldError) {
	v.Bind(postedValues(r)).AddErrors(errs...)
	a.render(w, r, v)
}

// fail maps an orchestration failure to a response. Documents that no longer
// exist send the exporter back to the journey dashboard.
func (a *app) fail(w http.ResponseWriter, r *http.Request, j *journey, err error) {
	switch {
	case errors.Is(err, orchestration.ErrUnauthorised):
		a.redirect(w, r, "/forbidden")
	case errors.Is(err, orchestration.ErrNotFound) && j != nil:
		a.redirect(w, r, j.dashboard())
	case errors.Is(err, orchestration.ErrNotFound):
		a.status(w, r, http.StatusNotFound, "page.notFound.title")
	default:
		a.serverError(w, r, err)
	}
}

// failOrInvalid re-renders v when err carries field errors, otherwise fails
func (a *app) failOrInvalid(w http.ResponseWriter, r *http.Request, j *journey, v *render.View, err error) {
	if errs, ok := orchestration.FieldErrors(err); ok {
		a.invalid(w, r, v, errs)
		return
	}
	a.fail(w, r, j, err)
}

func (a *app) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logger.FromContext(r.Context()).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	a.status(w, r, http.StatusInternalServerError, "page.serverError.title")
}

func (a *app) status(w http.ResponseWriter, r *http.Request, status int, title string) {
	v := a.view(r, title)
	v.Template = "message"
	v.Status = status
	if err := a.renderer.Render(w, r, v); err != nil {
		logger.FromContext(r.Context()).Error("rendering status page failed", zap.Int("status", status), zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(models.Error{Error: http.StatusText(status)})
	}
}

// badRequest answers an action the page does not offer
func (a *app) badRequest(w http.ResponseWriter, r *http.Request) {
	a.status(w, r, http.StatusBadRequest, "page.badRequest.title")
}

// postedValues flattens the posted form for re-rendering. Repeated fields
// are joined with commas.
func postedValues(r *http.Request) map[string]string {
	out := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		out[k] = strings.Join(v, ",")
	}
	return out
}

func action(r *http.Request) string {
	return r.PostFormValue("_action")
}

// splitAction separates "remove:<id>" style actions from their argument
func splitAction(r *http.Request) (string, string) {
	name, arg, _ := strings.Cut(action(r), ":")
	return name, arg
}

// safeRedirect only follows relative paths on this service
func safeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return next
}
