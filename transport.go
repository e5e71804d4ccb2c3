package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
)

const transportPage = "how-does-the-export-leave-the-uk"

// transportDetails is the form of one vehicle's details page
type transportDetails interface {
	apply(t *models.Transport)
}

type (
	truckDetails struct {
		NationalityOfVehicle string `form:"nationalityOfVehicle" validate:"required,max=50"`
		RegistrationNumber   string `form:"registrationNumber" validate:"required,max=20"`
		ExportedFrom         string `form:"exportedFrom" validate:"required,max=100"`
		ExportDate           string `form:"exportDate" validate:"required,datetime=2006-01-02"`
	}
	planeDetails struct {
		FlightNumber    string `form:"flightNumber" validate:"required,max=15"`
		ContainerNumber string `form:"containerNumber" validate:"required,max=150"`
		ExportedFrom    string `form:"exportedFrom" validate:"required,max=100"`
		ExportDate      string `form:"exportDate" validate:"required,datetime=2006-01-02"`
	}
	trainDetails struct {
		RailwayBillNumber string `form:"railwayBillNumber" validate:"required,max=15"`
		ExportedFrom      string `form:"exportedFrom" validate:"required,max=100"`
		ExportDate        string `form:"exportDate" validate:"required,datetime=2006-01-02"`
	}
	containerVesselDetails struct {
		VesselName      string `form:"vesselName" validate:"required,max=50"`
		FlagState       string `form:"flagState" validate:"required,max=50"`
		ContainerNumber string `form:"containerNumber" validate:"required,max=150"`
		ExportedFrom    string `form:"exportedFrom" validate:"required,max=100"`
		ExportDate      string `form:"exportDate" validate:"required,datetime=2006-01-02"`
	}
)

func (d *truckDetails) apply(t *models.Transport) {
	t.NationalityOfVehicle, t.RegistrationNumber = d.NationalityOfVehicle, d.RegistrationNumber
	t.ExportedFrom, t.ExportDate = d.ExportedFrom, d.ExportDate
}

func (d *planeDetails) apply(t *models.Transport) {
	t.FlightNumber, t.ContainerNumber = d.FlightNumber, d.ContainerNumber
	t.ExportedFrom, t.ExportDate = d.ExportedFrom, d.ExportDate
}

func (d *trainDetails) apply(t *models.Transport) {
	t.RailwayBillNumber = d.RailwayBillNumber
	t.ExportedFrom, t.ExportDate = d.ExportedFrom, d.ExportDate
}

func (d *containerVesselDetails) apply(t *models.Transport) {
	t.VesselName, t.FlagState, t.ContainerNumber = d.VesselName, d.FlagState, d.ContainerNumber
	t.ExportedFrom, t.ExportDate = d.ExportedFrom, d.ExportDate
}

// vehicle describes the details page of one way of leaving the UK
type vehicle struct {
	name   string
	page   string
	title  string
	fields []string
	form   func() transportDetails
	values func(t models.Transport) map[string]string
}

var vehicles = []vehicle{
	{
		name:   models.VehicleTruck,
		page:   "add-transportation-details-truck",
		title:  "page.transportDetailsTruck.title",
		fields: []string{"nationalityOfVehicle", "registrationNumber"},
		form:   func() transportDetails { return &truckDetails{} },
		values: func(t models.Transport) map[string]string {
			return map[string]string{"nationalityOfVehicle": t.NationalityOfVehicle, "registrationNumber": t.RegistrationNumber}
		},
	},
	{
		name:   models.VehiclePlane,
		page:   "add-transportation-details-plane",
		title:  "page.transportDetailsPlane.title",
		fields: []string{"flightNumber", "containerNumber"},
		form:   func() transportDetails { return &planeDetails{} },
		values: func(t models.Transport) map[string]string {
			return map[string]string{"flightNumber": t.FlightNumber, "containerNumber": t.ContainerNumber}
		},
	},
	{
		name:   models.VehicleTrain,
		page:   "add-transportation-details-train",
		title:  "page.transportDetailsTrain.title",
		fields: []string{"railwayBillNumber"},
		form:   func() transportDetails { return &trainDetails{} },
		values: func(t models.Transport) map[string]string {
			return map[string]string{"railwayBillNumber": t.RailwayBillNumber}
		},
	},
	{
		name:   models.VehicleContainer,
		page:   "add-transportation-details-container-vessel",
		title:  "page.transportDetailsContainerVessel.title",
		fields: []string{"vesselName", "flagState", "containerNumber"},
		form:   func() transportDetails { return &containerVesselDetails{} },
		values: func(t models.Transport) map[string]string {
			return map[string]string{"vesselName": t.VesselName, "flagState": t.FlagState, "containerNumber": t.ContainerNumber}
		},
	},
}

func vehicleByName(name string) (vehicle, bool) {
	for _, v := range vehicles {
		if v.name == name {
			return v, true
		}
	}
	return vehicle{}, false
}

// vehicleOptions lists the ways a journey's exports may leave the UK.
// Only catch certificates may be landed directly.
func vehicleOptions(j *journey) []render.Option {
	options := []render.Option{
		{Value: models.VehicleTruck, Label: "option.vehicle.truck"},
		{Value: models.VehiclePlane, Label: "option.vehicle.plane"},
		{Value: models.VehicleTrain, Label: "option.vehicle.train"},
		{Value: models.VehicleContainer, Label: "option.vehicle.containerVessel"},
	}
	if j == catchCertificate {
		options = append(options, render.Option{Value: models.VehicleDirectLanding, Label: "option.vehicle.directLanding"})
	}
	return options
}

func (a *app) transportView(r *http.Request, j *journey, documentNumber string) *render.View {
	v := a.view(r, "page.howDoesTheExportLeave.title")
	v.BackURL = j.progress(documentNumber)
	v.Fields = []render.Field{{Name: "vehicle", Type: render.Radios, Label: "label.vehicle", Options: vehicleOptions(j)}}
	v.Buttons = draftButtons
	return v
}

func (a *app) transport(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		t, err := a.api.GetTransport(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		v := a.transportView(r, j, documentNumber)
		v.Bind(map[string]string{"vehicle": t.Vehicle})
		v.Data = t
		a.render(w, r, v)
	}
}

func (a *app) saveTransport(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		v := a.transportView(r, j, documentNumber)

		choice := r.PostFormValue("vehicle")
		valid := false
		for _, o := range vehicleOptions(j) {
			valid = valid || o.Value == choice
		}
		if !valid {
			// nothing chosen yet, so a draft has nothing to save
			if isDraft(r) {
				a.redirect(w, r, j.dashboard())
				return
			}
			a.invalid(w, r, v, []models.FieldError{forms.Error("vehicle", "required")})
			return
		}

		current, err := a.api.GetTransport(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		t := models.Transport{Vehicle: choice}
		if current.Vehicle == choice {
			t = current
		}
		if err := a.api.SaveTransport(r.Context(), j.kind, documentNumber, t, isDraft(r)); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}

		next := "progress"
		if details, ok := vehicleByName(choice); ok {
			next = details.page
		}
		a.redirect(w, r, j.afterSave(r, documentNumber, next))
	}
}

func (a *app) transportDetailsView(r *http.Request, j *journey, documentNumber string, vh vehicle) *render.View {
	v := a.view(r, vh.title)
	v.BackURL = j.url(documentNumber, transportPage)
	for _, name := range vh.fields {
		v.Fields = append(v.Fields, render.Field{Name: name, Type: render.Text, Label: "label." + name})
	}
	v.Fields = append(v.Fields,
		render.Field{Name: "exportedFrom", Type: render.Text, Label: "label.exportedFrom", Hint: "hint.exportedFrom"},
		render.Field{Name: "exportDate", Type: render.Date, Label: "label.exportDate"},
	)
	v.Buttons = draftButtons
	return v
}

func (a *app) transportDetails(j *journey, vh vehicle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		t, err := a.api.GetTransport(r.Context(), j.kind, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		if t.Vehicle != vh.name {
			a.redirect(w, r, j.url(documentNumber, transportPage))
			return
		}
		v := a.transportDetailsView(r, j, documentNumber, vh)
		values := vh.values(t)
		values["exportedFrom"] = t.ExportedFrom
		values["exportDate"] = t.ExportDate
		v.Bind(values)
		v.Data = t
		a.render(w, r, v)
	}
}

func (a *app) saveTransportDetails(j *journey, vh vehicle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		v := a.transportDetailsView(r, j, documentNumber, vh)

		form := vh.form()
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

		t := models.Transport{Vehicle: vh.name}
		form.apply(&t)
		if err := a.api.SaveTransport(r.Context(), j.kind, documentNumber, t, isDraft(r)); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.afterSave(r, documentNumber, "progress"))
	}
}
