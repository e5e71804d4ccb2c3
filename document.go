package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
)

var draftButtons = []render.Button{
	{Action: "continue", Label: "button.saveAndContinue"},
	{Action: "saveAsDraft", Label: "button.saveAsDraft", Secondary: true},
}

func (a *app) progress(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		progress, err := a.api.Progress(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}

		v := a.view(r, "page.progress.title")
		v.BackURL = j.dashboard()
		for _, section := range progress.Sections {
			row := render.Row{Key: "section." + section.Name, Value: section.Status}
			if page, ok := j.pages[section.Name]; ok && section.Status != models.SectionCannotStart {
				row.ChangeURL = j.url(documentNumber, page)
			}
			v.Rows = append(v.Rows, row)
		}
		if progress.Completed() {
			v.Rows = append(v.Rows, render.Row{Key: "section.checkYourInformation", ChangeURL: j.url(documentNumber, "check-your-information")})
		}
		v.Data = progress
		a.render(w, r, v)
	}
}

func referenceView(a *app, r *http.Request, j *journey, documentNumber string) *render.View {
	v := a.view(r, "page.addYourReference.title")
	v.BackURL = j.progress(documentNumber)
	v.Fields = []render.Field{{Name: "userReference", Type: render.Text, Label: "label.userReference", Hint: "hint.userReference"}}
	v.Buttons = draftButtons
	return v
}

func (a *app) reference(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		reference, err := a.api.GetUserReference(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		v := referenceView(a, r, j, documentNumber)
		v.Bind(map[string]string{"userReference": reference})
		a.render(w, r, v)
	}
}

type referenceForm struct {
	UserReference string `form:"userReference" validate:"max=50"`
}

func (a *app) saveReference(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		v := referenceView(a, r, j, documentNumber)
		var form referenceForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		if err := a.api.SaveUserReference(r.Context(), j.kind, documentNumber, form.UserReference); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.afterSave(r, documentNumber, "progress"))
	}
}

func deleteView(a *app, r *http.Request, j *journey, documentNumber string) *render.View {
	v := a.view(r, "page.deleteThisDraft.title")
	v.BackURL = j.progress(documentNumber)
	v.Fields = []render.Field{{
		Name:    "documentDelete",
		Type:    render.Radios,
		Label:   "label.documentDelete",
		Options: []render.Option{{Value: "Yes", Label: "option.yes"}, {Value: "No", Label: "option.no"}},
	}}
	v.Buttons = []render.Button{{Action: "continue", Label: "button.continue"}}
	v.Data = map[string]string{"documentNumber": documentNumber}
	return v
}

func (a *app) deleteDraft(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		a.render(w, r, deleteView(a, r, j, ps.ByName("documentNumber")))
	}
}

func (a *app) confirmDeleteDraft(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		switch r.PostFormValue("documentDelete") {
		case "Yes":
			if err := a.api.DeleteDraft(r.Context(), j.kind, documentNumber); err != nil {
				a.fail(w, r, j, err)
				return
			}
			sessionFrom(r).Flash(flashNotification, "notification.draftDeleted")
			a.redirect(w, r, j.dashboard())
		case "No":
			a.redirect(w, r, j.progress(documentNumber))
		default:
			a.invalid(w, r, deleteView(a, r, j, documentNumber), []models.FieldError{forms.Error("documentDelete", "required")})
		}
	}
}

func copyView(a *app, r *http.Request, j *journey, documentNumber string) *render.View {
	v := a.view(r, "page.copyThisDocument.title")
	v.BackURL = j.dashboard()
	v.Fields = []render.Field{{
		Name:  "copyDocument",
		Type:  render.Radios,
		Label: "label.copyDocument",
		Options: []render.Option{
			{Value: "copy", Label: "option.copyDocument.copy"},
			{Value: "void", Label: "option.copyDocument.void"},
		},
	}}
	v.Buttons = []render.Button{{Action: "continue", Label: "button.continue"}}
	v.Data = map[string]string{"documentNumber": documentNumber}
	return v
}

func (a *app) copyDocument(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		a.render(w, r, copyView(a, r, j, ps.ByName("documentNumber")))
	}
}

type copyForm struct {
	CopyDocument string `form:"copyDocument" validate:"required,oneof=copy void"`
}

func (a *app) confirmCopyDocument(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		v := copyView(a, r, j, documentNumber)
		var form copyForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		copied, err := a.api.CopyDocument(r.Context(), j.kind, documentNumber, form.CopyDocument == "void")
		if err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.progress(copied))
	}
}

func (a *app) documentCreated(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		doc, err := a.api.GetDocument(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}

		v := a.view(r, "page.documentCreated.title")
		v.Template = "message"
		v.Rows = []render.Row{{Key: "label.documentNumber", Value: doc.DocumentNumber}}
		switch {
		case doc.Status == models.StatusComplete && doc.DocumentURI != "":
			v.Rows = append(v.Rows, render.Row{Key: "label.viewDocument", Value: doc.DocumentNumber, ChangeURL: doc.DocumentURI})
		case doc.Status == models.StatusPending:
			v.Title = "page.documentPending.title"
			v.Rows = append(v.Rows, render.Row{Key: "message.documentPending"})
		}
		v.Rows = append(v.Rows, render.Row{Key: "label.returnToDashboard", Value: j.dashboard(), ChangeURL: j.dashboard()})
		v.Data = doc
		a.render(w, r, v)
	}
}
