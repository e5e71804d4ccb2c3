package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/i18n"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
)

func home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, catchCertificate.dashboard(), http.StatusFound)
}

func (a *app) forbidden(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.status(w, r, http.StatusForbidden, "page.forbidden.title")
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	a.status(w, r, http.StatusNotFound, "page.notFound.title")
}

// changeLanguage remembers the chosen language and returns to the page it was chosen on
func (a *app) changeLanguage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	next := safeRedirect(r.URL.Query().Get("nextUri"), "/")
	lang, ok := i18n.Supported(r.URL.Query().Get("lng"))
	if ok {
		http.SetCookie(w, &http.Cookie{
			Name:     languageCookie,
			Value:    lang,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			HttpOnly: true,
			Secure:   viper.GetBool("session.secure"),
			SameSite: http.SameSiteLaxMode,
		})
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func (a *app) privacyView(r *http.Request) *render.View {
	v := a.view(r, "page.privacyNotice.title")
	v.Fields = []render.Field{
		{Name: "agreePrivacy", Type: render.Checkbox, Label: "label.agreePrivacy", Options: []render.Option{{Value: "Y", Label: "option.agreePrivacy"}}},
		{Name: "nextUri", Type: render.Hidden, Value: r.FormValue("nextUri")},
	}
	v.Buttons = []render.Button{{Action: "accept", Label: "button.acceptAndContinue"}}
	return v
}

func (a *app) privacyNotice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	a.render(w, r, a.privacyView(r))
}

type privacyForm struct {
	AgreePrivacy string `form:"agreePrivacy" validate:"required,eq=Y"`
	NextURI      string `form:"nextUri"`
}

func (a *app) acceptPrivacyNotice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var form privacyForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if errs := forms.Validate(form); len(errs) > 0 {
		a.invalid(w, r, a.privacyView(r), errs)
		return
	}

	attrs := models.UserAttributes{PrivacyStatement: true, Language: languageFrom(r.Context())}
	if err := a.api.SaveUserAttributes(r.Context(), attrs); err != nil {
		a.fail(w, r, nil, err)
		return
	}
	sessionFrom(r).Set(privacyKey, "accepted")
	a.redirect(w, r, safeRedirect(form.NextURI, catchCertificate.dashboard()))
}
