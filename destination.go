package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

func (a *app) destinationView(r *http.Request, j *journey, documentNumber string, countries []models.Country) *render.View {
	v := a.view(r, "page.whatExportDestination.title")
	v.BackURL = j.progress(documentNumber)
	options := make([]render.Option, len(countries))
	for i, c := range countries {
		options[i] = render.Option{Value: c.OfficialCountryName, Label: c.OfficialCountryName}
	}
	v.Fields = []render.Field{
		{Name: "exportedTo", Type: render.Select, Label: "label.exportedTo", Options: options},
		{Name: "pointOfDestination", Type: render.Text, Label: "label.pointOfDestination", Hint: "hint.pointOfDestination"},
	}
	v.Buttons = draftButtons
	return v
}

func (a *app) destination(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		var (
			countries []models.Country
			location  models.ExportLocation
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			countries, err = a.api.Countries(ctx)
			return err
		})
		g.Go(func() (err error) {
			location, err = a.api.GetExportLocation(ctx, j.kind, documentNumber)
			return err
		})
		if err := g.Wait(); err != nil {
			a.fail(w, r, j, err)
			return
		}

		v := a.destinationView(r, j, documentNumber, countries)
		v.Bind(map[string]string{
			"exportedTo":         location.ExportedTo.OfficialCountryName,
			"pointOfDestination": location.PointOfDestination,
		})
		v.Data = location
		a.render(w, r, v)
	}
}

type destinationForm struct {
	ExportedTo         string `form:"exportedTo" validate:"required"`
	PointOfDestination string `form:"pointOfDestination" validate:"max=100"`
}

func (a *app) saveDestination(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		countries, err := a.api.Countries(r.Context())
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		v := a.destinationView(r, j, documentNumber, countries)

		var form destinationForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		country, known := findCountry(countries, form.ExportedTo)
		if !isDraft(r) {
			errs := forms.Validate(form)
			if len(errs) == 0 && !known {
				errs = append(errs, forms.Error("exportedTo", "country"))
			}
			if len(errs) > 0 {
				a.invalid(w, r, v, errs)
				return
			}
		}

		location := models.ExportLocation{ExportedTo: country, PointOfDestination: form.PointOfDestination}
		if err := a.api.SaveExportLocation(r.Context(), j.kind, documentNumber, location, isDraft(r)); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.afterSave(r, documentNumber, "progress"))
	}
}

func findCountry(countries []models.Country, name string) (models.Country, bool) {
	for _, c := range countries {
		if c.OfficialCountryName == name {
			return c, true
		}
	}
	return models.Country{OfficialCountryName: name}, false
}
