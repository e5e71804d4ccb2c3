package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
)

// Consignment

func (a *app) consignmentView(r *http.Request, documentNumber string) *render.View {
	v := a.view(r, "page.addConsignmentDetails.title")
	v.BackURL = processingStatement.progress(documentNumber)
	v.Fields = []render.Field{{Name: "consignmentDescription", Type: render.TextArea, Label: "label.consignmentDescription", Hint: "hint.consignmentDescription"}}
	v.Buttons = draftButtons
	return v
}

func (a *app) consignment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, processingStatement, err)
		return
	}
	v := a.consignmentView(r, documentNumber)
	v.Bind(map[string]string{"consignmentDescription": statement.ConsignmentDescription})
	a.render(w, r, v)
}

type consignmentForm struct {
	ConsignmentDescription string `form:"consignmentDescription" validate:"required,max=200"`
}

func (a *app) saveConsignment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var form consignmentForm
	a.updateProcessingStatement(w, r, ps, a.consignmentView(r, ps.ByName("documentNumber")), &form, "add-catch-details",
		func(statement *models.ProcessingStatement) {
			statement.ConsignmentDescription = form.ConsignmentDescription
		})
}

// updateProcessingStatement decodes and validates form, applies it to the
// stored processing statement and saves it
func (a *app) updateProcessingStatement(w http.ResponseWriter, r *http.Request, ps httprouter.Params, v *render.View, form interface{}, next string, apply func(*models.ProcessingStatement)) {
	j := processingStatement
	documentNumber := ps.ByName("documentNumber")
	if err := forms.Decode(r.PostForm, form); err != nil {
		a.badRequest(w, r)
		return
	}
	if !isDraft(r) {
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
	}
	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	apply(&statement)
	if err := a.api.SaveProcessingStatement(r.Context(), documentNumber, statement, isDraft(r)); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	a.redirect(w, r, j.afterSave(r, documentNumber, next))
}

// Catches

func (a *app) processingCatchesView(r *http.Request, documentNumber string, catches []models.ProcessingCatch) *render.View {
	v := a.view(r, "page.addCatchDetails.title")
	v.BackURL = processingStatement.url(documentNumber, "add-consignment-details")
	v.Columns = []string{"column.species", "column.catchCertificateNumber", "column.totalWeightLanded", "column.weightBeforeProcessing", "column.weightAfterProcessing"}
	for _, c := range catches {
		v.Items = append(v.Items, render.Item{
			ID: c.ID,
			Cells: []string{
				c.Species,
				c.CatchCertificateNumber,
				c.TotalWeightLanded.StringFixed(2),
				c.ExportWeightBeforeProcessing.StringFixed(2),
				c.ExportWeightAfterProcessing.StringFixed(2),
			},
			RemoveAction: "remove",
		})
	}
	v.Fields = []render.Field{
		{Name: "species", Type: render.Text, Label: "label.species"},
		{Name: "catchCertificateNumber", Type: render.Text, Label: "label.catchCertificateNumber", Hint: "hint.catchCertificateNumber"},
		{Name: "totalWeightLanded", Type: render.Text, Label: "label.totalWeightLanded"},
		{Name: "exportWeightBeforeProcessing", Type: render.Text, Label: "label.exportWeightBeforeProcessing"},
		{Name: "exportWeightAfterProcessing", Type: render.Text, Label: "label.exportWeightAfterProcessing"},
	}
	v.Buttons = append([]render.Button{{Action: "add", Label: "button.addCatch", Secondary: true}}, draftButtons...)
	v.Data = catches
	return v
}

func (a *app) processingCatches(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, processingStatement, err)
		return
	}
	a.render(w, r, a.processingCatchesView(r, documentNumber, statement.Catches))
}

type processingCatchForm struct {
	Species                      string `form:"species" validate:"required,max=100"`
	CatchCertificateNumber       string `form:"catchCertificateNumber" validate:"required,max=50"`
	TotalWeightLanded            string `form:"totalWeightLanded" validate:"required,weight"`
	ExportWeightBeforeProcessing string `form:"exportWeightBeforeProcessing" validate:"required,weight"`
	ExportWeightAfterProcessing  string `form:"exportWeightAfterProcessing" validate:"required,weight"`
}

func (a *app) processingCatchesAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := processingStatement
	documentNumber := ps.ByName("documentNumber")
	ctx := r.Context()
	statement, err := a.api.GetProcessingStatement(ctx, documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	v := a.processingCatchesView(r, documentNumber, statement.Catches)
	here := j.url(documentNumber, "add-catch-details")

	switch name, _ := splitAction(r); name {
	case "add":
		var form processingCatchForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		landed, _ := forms.ParseWeight(form.TotalWeightLanded)
		before, _ := forms.ParseWeight(form.ExportWeightBeforeProcessing)
		after, _ := forms.ParseWeight(form.ExportWeightAfterProcessing)
		var errs []models.FieldError
		if before.GreaterThan(landed) {
			errs = append(errs, forms.Error("exportWeightBeforeProcessing", "exceedsLanded"))
		}
		if after.GreaterThan(before) {
			errs = append(errs, forms.Error("exportWeightAfterProcessing", "exceedsBefore"))
		}
		if len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		catch := models.ProcessingCatch{
			Species:                      form.Species,
			CatchCertificateNumber:       form.CatchCertificateNumber,
			TotalWeightLanded:            landed,
			ExportWeightBeforeProcessing: before,
			ExportWeightAfterProcessing:  after,
		}
		if err := a.api.AddProcessingCatch(ctx, documentNumber, catch); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, here)

	case "remove":
		id := removeTarget(r, "catchId")
		if id == "" {
			a.badRequest(w, r)
			return
		}
		if err := a.api.RemoveProcessingCatch(ctx, documentNumber, id); err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.redirect(w, r, here)

	case "continue":
		if len(statement.Catches) == 0 {
			a.invalid(w, r, v, []models.FieldError{forms.Error("catches", "required")})
			return
		}
		a.redirect(w, r, j.url(documentNumber, "add-processing-plant-details"))

	case "saveAsDraft":
		a.redirect(w, r, j.dashboard())

	default:
		a.badRequest(w, r)
	}
}

// Processing plant

func (a *app) plantView(r *http.Request, documentNumber string, addr *models.Address) *render.View {
	j := processingStatement
	v := a.view(r, "page.addProcessingPlantDetails.title")
	v.BackURL = j.url(documentNumber, "add-catch-details")
	v.Fields = []render.Field{
		{Name: "plantApprovalNumber", Type: render.Text, Label: "label.plantApprovalNumber"},
		{Name: "plantName", Type: render.Text, Label: "label.plantName"},
		{Name: "personResponsibleForConsignment", Type: render.Text, Label: "label.personResponsibleForConsignment"},
	}
	v.Rows = []render.Row{addressRow(j, plantAddress, documentNumber, addr)}
	v.Buttons = append([]render.Button{{Action: "change-address", Label: "button.changeAddress", Secondary: true}}, draftButtons...)
	return v
}

func (a *app) plant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, processingStatement, err)
		return
	}
	addr := statement.PlantAddress
	if pending := plantAddress.pending(sessionFrom(r), documentNumber); pending != nil {
		addr = pending
	}
	v := a.plantView(r, documentNumber, addr)
	v.Bind(map[string]string{
		"plantApprovalNumber":             statement.PlantApprovalNumber,
		"plantName":                       statement.PlantName,
		"personResponsibleForConsignment": statement.PersonResponsibleForConsignment,
	})
	a.render(w, r, v)
}

type plantForm struct {
	PlantApprovalNumber             string `form:"plantApprovalNumber" validate:"required,max=50"`
	PlantName                       string `form:"plantName" validate:"required,max=100"`
	PersonResponsibleForConsignment string `form:"personResponsibleForConsignment" validate:"required,max=100"`
}

func (a *app) savePlant(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := processingStatement
	documentNumber := ps.ByName("documentNumber")
	s := sessionFrom(r)
	if action(r) == "change-address" {
		a.redirect(w, r, j.url(documentNumber, plantAddress.page))
		return
	}

	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	if pending := plantAddress.pending(s, documentNumber); pending != nil {
		statement.PlantAddress = pending
	}
	v := a.plantView(r, documentNumber, statement.PlantAddress)

	var form plantForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if !isDraft(r) {
		errs := forms.Validate(form)
		if statement.PlantAddress == nil || statement.PlantAddress.IsEmpty() {
			errs = append(errs, forms.Error("address", "required"))
		}
		if len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
	}

	statement.PlantApprovalNumber = form.PlantApprovalNumber
	statement.PlantName = form.PlantName
	statement.PersonResponsibleForConsignment = form.PersonResponsibleForConsignment
	if err := a.api.SaveProcessingStatement(r.Context(), documentNumber, statement, isDraft(r)); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	plantAddress.consume(s, documentNumber)
	a.redirect(w, r, j.afterSave(r, documentNumber, "add-health-certificate"))
}

// Health certificate

func (a *app) healthCertificateView(r *http.Request, documentNumber string) *render.View {
	v := a.view(r, "page.addHealthCertificate.title")
	v.BackURL = processingStatement.url(documentNumber, "add-processing-plant-details")
	v.Fields = []render.Field{
		{Name: "healthCertificateNumber", Type: render.Text, Label: "label.healthCertificateNumber", Hint: "hint.healthCertificateNumber"},
		{Name: "healthCertificateDate", Type: render.Date, Label: "label.healthCertificateDate"},
	}
	v.Buttons = draftButtons
	return v
}

func (a *app) healthCertificate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	statement, err := a.api.GetProcessingStatement(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, processingStatement, err)
		return
	}
	v := a.healthCertificateView(r, documentNumber)
	v.Bind(map[string]string{
		"healthCertificateNumber": statement.HealthCertificateNumber,
		"healthCertificateDate":   statement.HealthCertificateDate,
	})
	a.render(w, r, v)
}

type healthCertificateForm struct {
	HealthCertificateNumber string `form:"healthCertificateNumber" validate:"required,healthcert"`
	HealthCertificateDate   string `form:"healthCertificateDate" validate:"required,pastdate"`
}

func (a *app) saveHealthCertificate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var form healthCertificateForm
	a.updateProcessingStatement(w, r, ps, a.healthCertificateView(r, ps.ByName("documentNumber")), &form, "what-export-destination",
		func(statement *models.ProcessingStatement) {
			statement.HealthCertificateNumber = form.HealthCertificateNumber
			statement.HealthCertificateDate = form.HealthCertificateDate
		})
}
