package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
)

func (a *app) exporterView(r *http.Request, j *journey, documentNumber string, addr *models.Address) *render.View {
	v := a.view(r, "page.addExporterDetails.title")
	v.BackURL = j.progress(documentNumber)
	v.Fields = []render.Field{
		{Name: "exporterFullName", Type: render.Text, Label: "label.exporterFullName"},
		{Name: "exporterCompanyName", Type: render.Text, Label: "label.exporterCompanyName"},
	}
	v.Rows = []render.Row{addressRow(j, exporterAddress, documentNumber, addr)}
	v.Buttons = append([]render.Button{{Action: "change-address", Label: "button.changeAddress", Secondary: true}}, draftButtons...)
	return v
}

func (a *app) exporter(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		exporter, err := a.api.GetExporter(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		addr := exporter.Address
		if pending := exporterAddress.pending(sessionFrom(r), documentNumber); pending != nil {
			addr = pending
		}
		v := a.exporterView(r, j, documentNumber, addr)
		v.Bind(map[string]string{
			"exporterFullName":    exporter.ExporterFullName,
			"exporterCompanyName": exporter.ExporterCompanyName,
		})
		v.Data = exporter
		a.render(w, r, v)
	}
}

type exporterForm struct {
	ExporterFullName    string `form:"exporterFullName" validate:"required,max=100"`
	ExporterCompanyName string `form:"exporterCompanyName" validate:"required,max=100"`
}

func (a *app) saveExporter(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		s := sessionFrom(r)
		if action(r) == "change-address" {
			a.redirect(w, r, j.url(documentNumber, exporterAddress.page))
			return
		}

		exporter, err := a.api.GetExporter(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		if pending := exporterAddress.pending(s, documentNumber); pending != nil {
			exporter.Address = pending
		}
		v := a.exporterView(r, j, documentNumber, exporter.Address)

		var form exporterForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if !isDraft(r) {
			errs := forms.Validate(form)
			if exporter.Address == nil || exporter.Address.IsEmpty() {
				errs = append(errs, forms.Error("address", "required"))
			}
			if len(errs) > 0 {
				a.invalid(w, r, v, errs)
				return
			}
		}

		exporter.ExporterFullName = form.ExporterFullName
		exporter.ExporterCompanyName = form.ExporterCompanyName
		if err := a.api.SaveExporter(r.Context(), j.kind, documentNumber, exporter, isDraft(r)); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		exporterAddress.consume(s, documentNumber)
		a.redirect(w, r, j.afterSave(r, documentNumber, "progress"))
	}
}
