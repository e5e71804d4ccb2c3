package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
)

// Products held in storage

func (a *app) storageCatchesView(r *http.Request, documentNumber string, catches []models.StorageCatch) *render.View {
	v := a.view(r, "page.addProductToConsignment.title")
	v.BackURL = storageDocument.progress(documentNumber)
	v.Columns = []string{"column.product", "column.commodityCode", "column.catchCertificateNumber", "column.weightOnCC", "column.productWeight"}
	for _, c := range catches {
		v.Items = append(v.Items, render.Item{
			ID:           c.ID,
			Cells:        []string{c.Product, c.CommodityCode, c.CertificateNumber, c.WeightOnCC.StringFixed(2), c.ProductWeight.StringFixed(2)},
			RemoveAction: "remove",
		})
	}
	v.Fields = []render.Field{
		{Name: "product", Type: render.Text, Label: "label.product"},
		{Name: "commodityCode", Type: render.Text, Label: "label.commodityCode"},
		{Name: "certificateNumber", Type: render.Text, Label: "label.catchCertificateNumber", Hint: "hint.catchCertificateNumber"},
		{Name: "weightOnCC", Type: render.Text, Label: "label.weightOnCC"},
		{Name: "productWeight", Type: render.Text, Label: "label.productWeight"},
		{Name: "dateOfUnloading", Type: render.Date, Label: "label.dateOfUnloading"},
		{Name: "placeOfUnloading", Type: render.Text, Label: "label.placeOfUnloading"},
		{Name: "transportUnloadedFrom", Type: render.Text, Label: "label.transportUnloadedFrom"},
	}
	v.Buttons = append([]render.Button{{Action: "add", Label: "button.addProduct", Secondary: true}}, draftButtons...)
	v.Data = catches
	return v
}

func (a *app) storageCatches(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	sd, err := a.api.GetStorageDocument(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, storageDocument, err)
		return
	}
	a.render(w, r, a.storageCatchesView(r, documentNumber, sd.Catches))
}

type storageCatchForm struct {
	Product               string `form:"product" validate:"required,max=100"`
	CommodityCode         string `form:"commodityCode" validate:"required,max=20"`
	CertificateNumber     string `form:"certificateNumber" validate:"required,max=50"`
	WeightOnCC            string `form:"weightOnCC" validate:"required,weight"`
	ProductWeight         string `form:"productWeight" validate:"required,weight"`
	DateOfUnloading       string `form:"dateOfUnloading" validate:"required,pastdate"`
	PlaceOfUnloading      string `form:"placeOfUnloading" validate:"required,max=100"`
	TransportUnloadedFrom string `form:"transportUnloadedFrom" validate:"required,max=100"`
}

func (a *app) storageCatchesAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := storageDocument
	documentNumber := ps.ByName("documentNumber")
	ctx := r.Context()
	sd, err := a.api.GetStorageDocument(ctx, documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	v := a.storageCatchesView(r, documentNumber, sd.Catches)
	here := j.url(documentNumber, "add-product-to-this-consignment")

	switch name, _ := splitAction(r); name {
	case "add":
		var form storageCatchForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		onCC, _ := forms.ParseWeight(form.WeightOnCC)
		weight, _ := forms.ParseWeight(form.ProductWeight)
		if weight.GreaterThan(onCC) {
			a.invalid(w, r, v, []models.FieldError{forms.Error("productWeight", "exceedsCertificate")})
			return
		}
		catch := models.StorageCatch{
			Product:               form.Product,
			CommodityCode:         form.CommodityCode,
			CertificateNumber:     form.CertificateNumber,
			WeightOnCC:            onCC,
			ProductWeight:         weight,
			DateOfUnloading:       form.DateOfUnloading,
			PlaceOfUnloading:      form.PlaceOfUnloading,
			TransportUnloadedFrom: form.TransportUnloadedFrom,
		}
		if err := a.api.AddStorageCatch(ctx, documentNumber, catch); err != nil {
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
		if err := a.api.RemoveStorageCatch(ctx, documentNumber, id); err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.redirect(w, r, here)

	case "continue":
		if len(sd.Catches) == 0 {
			a.invalid(w, r, v, []models.FieldError{forms.Error("catches", "required")})
			return
		}
		a.redirect(w, r, j.url(documentNumber, "add-storage-facility-details"))

	case "saveAsDraft":
		a.redirect(w, r, j.dashboard())

	default:
		a.badRequest(w, r)
	}
}

// Storage facility

func (a *app) facilityView(r *http.Request, documentNumber string, addr *models.Address) *render.View {
	j := storageDocument
	v := a.view(r, "page.addStorageFacilityDetails.title")
	v.BackURL = j.url(documentNumber, "add-product-to-this-consignment")
	v.Fields = []render.Field{{Name: "facilityName", Type: render.Text, Label: "label.facilityName"}}
	v.Rows = []render.Row{addressRow(j, facilityAddress, documentNumber, addr)}
	v.Buttons = append([]render.Button{{Action: "change-address", Label: "button.changeAddress", Secondary: true}}, draftButtons...)
	return v
}

func (a *app) facility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	sd, err := a.api.GetStorageDocument(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, storageDocument, err)
		return
	}
	addr := sd.FacilityAddress
	if pending := facilityAddress.pending(sessionFrom(r), documentNumber); pending != nil {
		addr = pending
	}
	v := a.facilityView(r, documentNumber, addr)
	v.Bind(map[string]string{"facilityName": sd.FacilityName})
	a.render(w, r, v)
}

type facilityForm struct {
	FacilityName string `form:"facilityName" validate:"required,max=100"`
}

// storageNext is the page after the facility, which depends on whether
// arrival transport is collected
func (a *app) storageNext() string {
	if a.flags.IsEnabled(featureArrivalTransport) {
		return "add-arrival-transportation-details"
	}
	return transportPage
}

func (a *app) saveFacility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := storageDocument
	documentNumber := ps.ByName("documentNumber")
	s := sessionFrom(r)
	if action(r) == "change-address" {
		a.redirect(w, r, j.url(documentNumber, facilityAddress.page))
		return
	}

	sd, err := a.api.GetStorageDocument(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	if pending := facilityAddress.pending(s, documentNumber); pending != nil {
		sd.FacilityAddress = pending
	}
	v := a.facilityView(r, documentNumber, sd.FacilityAddress)

	var form facilityForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if !isDraft(r) {
		errs := forms.Validate(form)
		if sd.FacilityAddress == nil || sd.FacilityAddress.IsEmpty() {
			errs = append(errs, forms.Error("address", "required"))
		}
		if len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
	}

	sd.FacilityName = form.FacilityName
	if err := a.api.SaveStorageDocument(r.Context(), documentNumber, sd, isDraft(r)); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	facilityAddress.consume(s, documentNumber)
	a.redirect(w, r, j.afterSave(r, documentNumber, a.storageNext()))
}

// Arrival transport

func (a *app) arrivalView(r *http.Request, documentNumber string) *render.View {
	j := storageDocument
	v := a.view(r, "page.addArrivalTransport.title")
	v.BackURL = j.url(documentNumber, "add-storage-facility-details")
	v.Fields = []render.Field{
		{Name: "vehicle", Type: render.Radios, Label: "label.arrivalVehicle", Options: vehicleOptions(j)},
		{Name: "identifier", Type: render.Text, Label: "label.arrivalIdentifier", Hint: "hint.arrivalIdentifier"},
		{Name: "departurePlace", Type: render.Text, Label: "label.departurePlace"},
	}
	v.Buttons = draftButtons
	return v
}

func (a *app) arrivalTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	sd, err := a.api.GetStorageDocument(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, storageDocument, err)
		return
	}
	v := a.arrivalView(r, documentNumber)
	if t := sd.ArrivalTransport; t != nil {
		v.Bind(map[string]string{"vehicle": t.Vehicle, "identifier": arrivalIdentifier(*t), "departurePlace": t.ExportedFrom})
	}
	a.render(w, r, v)
}

type arrivalForm struct {
	Vehicle        string `form:"vehicle" validate:"required,oneof=truck plane train containerVessel"`
	Identifier     string `form:"identifier" validate:"required,max=50"`
	DeparturePlace string `form:"departurePlace" validate:"max=100"`
}

// arrivalIdentifier is the registration, flight, bill or vessel naming the arriving vehicle
func arrivalIdentifier(t models.Transport) string {
	switch t.Vehicle {
	case models.VehiclePlane:
		return t.FlightNumber
	case models.VehicleTrain:
		return t.RailwayBillNumber
	case models.VehicleContainer:
		return t.VesselName
	}
	return t.RegistrationNumber
}

func (a *app) saveArrivalTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := storageDocument
	documentNumber := ps.ByName("documentNumber")
	v := a.arrivalView(r, documentNumber)

	var form arrivalForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if !isDraft(r) {
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
	}

	t := &models.Transport{Vehicle: form.Vehicle, ExportedFrom: form.DeparturePlace}
	switch form.Vehicle {
	case models.VehiclePlane:
		t.FlightNumber = form.Identifier
	case models.VehicleTrain:
		t.RailwayBillNumber = form.Identifier
	case models.VehicleContainer:
		t.VesselName = form.Identifier
	default:
		t.RegistrationNumber = form.Identifier
	}

	sd, err := a.api.GetStorageDocument(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	sd.ArrivalTransport = t
	if err := a.api.SaveStorageDocument(r.Context(), documentNumber, sd, isDraft(r)); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	a.redirect(w, r, j.afterSave(r, documentNumber, transportPage))
}
