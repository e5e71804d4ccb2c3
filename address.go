package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/DEFRA/fes-frontend/session"
	"github.com/julienschmidt/httprouter"
)

// Address flow states
const (
	addressLookup = "lookup"
	addressSelect = "select"
	addressManual = "manual"
)

// addressFlow is a postcode lookup, select and manual entry sequence that
// hands its result back to a parent page
type addressFlow struct {
	purpose string
	page    string
	parent  string
	title   string
}

var (
	exporterAddress = addressFlow{
		purpose: "exporter",
		page:    "what-exporters-address",
		parent:  "add-exporter-details",
		title:   "page.whatExportersAddress.title",
	}
	plantAddress = addressFlow{
		purpose: "plant",
		page:    "what-processing-plant-address",
		parent:  "add-processing-plant-details",
		title:   "page.whatProcessingPlantAddress.title",
	}
	facilityAddress = addressFlow{
		purpose: "facility",
		page:    "what-storage-facility-address",
		parent:  "add-storage-facility-details",
		title:   "page.whatStorageFacilityAddress.title",
	}
)

func (f addressFlow) key(documentNumber, name string) string {
	return fmt.Sprintf("address:%s:%s:%s", documentNumber, f.purpose, name)
}

func (f addressFlow) state(s *session.Session, documentNumber string) string {
	switch state := s.Get(f.key(documentNumber, "state")); state {
	case addressSelect, addressManual:
		return state
	}
	return addressLookup
}

func (f addressFlow) reset(s *session.Session, documentNumber string) {
	s.Unset(f.key(documentNumber, "state"), f.key(documentNumber, "postcode"), f.key(documentNumber, "results"))
}

// pending returns the address chosen in the flow but not yet saved by the parent page
func (f addressFlow) pending(s *session.Session, documentNumber string) *models.Address {
	var addr models.Address
	if ok, err := s.GetJSON(f.key(documentNumber, "pending"), &addr); !ok || err != nil {
		return nil
	}
	return &addr
}

// consume clears the pending address once the parent has saved it
func (f addressFlow) consume(s *session.Session, documentNumber string) {
	s.Unset(f.key(documentNumber, "pending"))
}

func (f addressFlow) choose(s *session.Session, documentNumber string, addr models.Address) error {
	f.reset(s, documentNumber)
	return s.SetJSON(f.key(documentNumber, "pending"), addr)
}

func (f addressFlow) results(s *session.Session, documentNumber string) []models.Address {
	var results []models.Address
	if _, err := s.GetJSON(f.key(documentNumber, "results"), &results); err != nil {
		return nil
	}
	return results
}

func (a *app) addressView(r *http.Request, j *journey, f addressFlow, documentNumber string) *render.View {
	s := sessionFrom(r)
	v := a.view(r, f.title)
	v.BackURL = j.url(documentNumber, f.parent)
	cancel := render.Button{Action: "cancel", Label: "button.cancel", Secondary: true}

	switch f.state(s, documentNumber) {
	case addressSelect:
		results := f.results(s, documentNumber)
		options := make([]render.Option, len(results))
		for i, addr := range results {
			options[i] = render.Option{Value: strconv.Itoa(i), Label: addr.String()}
		}
		v.Rows = []render.Row{{Key: "label.postcode", Value: s.Get(f.key(documentNumber, "postcode"))}}
		v.Fields = []render.Field{{Name: "addressIndex", Type: render.Radios, Label: "label.addressIndex", Options: options}}
		v.Buttons = []render.Button{
			{Action: "select-address", Label: "button.useThisAddress"},
			{Action: "change-postcode", Label: "button.changePostcode", Secondary: true},
			{Action: "manual", Label: "button.enterAddressManually", Secondary: true},
			cancel,
		}
		v.Data = map[string]interface{}{"state": addressSelect, "addresses": results}
	case addressManual:
		v.Fields = []render.Field{
			{Name: "subBuildingName", Type: render.Text, Label: "label.subBuildingName"},
			{Name: "buildingNumber", Type: render.Text, Label: "label.buildingNumber"},
			{Name: "buildingName", Type: render.Text, Label: "label.buildingName"},
			{Name: "streetName", Type: render.Text, Label: "label.streetName"},
			{Name: "townCity", Type: render.Text, Label: "label.townCity"},
			{Name: "county", Type: render.Text, Label: "label.county"},
			{Name: "postcode", Type: render.Text, Label: "label.postcode", Value: s.Get(f.key(documentNumber, "postcode"))},
			{Name: "country", Type: render.Text, Label: "label.country", Value: "United Kingdom"},
		}
		v.Buttons = []render.Button{{Action: "save-address", Label: "button.continue"}, cancel}
		v.Data = map[string]interface{}{"state": addressManual}
	default:
		v.Fields = []render.Field{{Name: "postcode", Type: render.Text, Label: "label.postcode", Hint: "hint.postcode", Value: s.Get(f.key(documentNumber, "postcode"))}}
		v.Buttons = []render.Button{
			{Action: "find-address", Label: "button.findAddress"},
			{Action: "manual", Label: "button.enterAddressManually", Secondary: true},
			cancel,
		}
		v.Data = map[string]interface{}{"state": addressLookup}
	}
	return v
}

func (a *app) address(j *journey, f addressFlow) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		a.render(w, r, a.addressView(r, j, f, ps.ByName("documentNumber")))
	}
}

type manualAddressForm struct {
	SubBuildingName string `form:"subBuildingName"`
	BuildingNumber  string `form:"buildingNumber"`
	BuildingName    string `form:"buildingName"`
	StreetName      string `form:"streetName"`
	TownCity        string `form:"townCity" validate:"required"`
	County          string `form:"county"`
	Postcode        string `form:"postcode" validate:"required,postcode"`
	Country         string `form:"country" validate:"required"`
}

func (a *app) addressAction(j *journey, f addressFlow) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		s := sessionFrom(r)
		here := j.url(documentNumber, f.page)
		parent := j.url(documentNumber, f.parent)

		switch action(r) {
		case "find-address":
			postcode := r.PostFormValue("postcode")
			s.Set(f.key(documentNumber, "postcode"), postcode)
			if postcode == "" {
				a.invalid(w, r, a.addressView(r, j, f, documentNumber), []models.FieldError{forms.Error("postcode", "required")})
				return
			}
			if !forms.IsPostcode(postcode) {
				a.invalid(w, r, a.addressView(r, j, f, documentNumber), []models.FieldError{forms.Error("postcode", "postcode")})
				return
			}
			results, err := a.api.SearchAddresses(r.Context(), postcode)
			if err != nil {
				a.failOrInvalid(w, r, j, a.addressView(r, j, f, documentNumber), err)
				return
			}
			if len(results) == 0 {
				a.invalid(w, r, a.addressView(r, j, f, documentNumber), []models.FieldError{forms.Error("postcode", "noaddress")})
				return
			}
			if err := s.SetJSON(f.key(documentNumber, "results"), results); err != nil {
				a.serverError(w, r, err)
				return
			}
			s.Set(f.key(documentNumber, "state"), addressSelect)
			a.redirect(w, r, here)

		case "select-address":
			results := f.results(s, documentNumber)
			index, err := strconv.Atoi(r.PostFormValue("addressIndex"))
			if err != nil || index < 0 || index >= len(results) {
				a.invalid(w, r, a.addressView(r, j, f, documentNumber), []models.FieldError{forms.Error("addressIndex", "required")})
				return
			}
			if err := f.choose(s, documentNumber, results[index]); err != nil {
				a.serverError(w, r, err)
				return
			}
			a.redirect(w, r, parent)

		case "change-postcode":
			s.Set(f.key(documentNumber, "state"), addressLookup)
			s.Unset(f.key(documentNumber, "results"))
			a.redirect(w, r, here)

		case "manual":
			if postcode := r.PostFormValue("postcode"); postcode != "" {
				s.Set(f.key(documentNumber, "postcode"), postcode)
			}
			s.Set(f.key(documentNumber, "state"), addressManual)
			a.redirect(w, r, here)

		case "save-address":
			var form manualAddressForm
			if err := forms.Decode(r.PostForm, &form); err != nil {
				a.badRequest(w, r)
				return
			}
			if errs := forms.Validate(form); len(errs) > 0 {
				a.invalid(w, r, a.addressView(r, j, f, documentNumber), errs)
				return
			}
			addr := models.Address{
				SubBuildingName: form.SubBuildingName,
				BuildingNumber:  form.BuildingNumber,
				BuildingName:    form.BuildingName,
				StreetName:      form.StreetName,
				TownCity:        form.TownCity,
				County:          form.County,
				Postcode:        form.Postcode,
				Country:         form.Country,
			}
			if err := f.choose(s, documentNumber, addr); err != nil {
				a.serverError(w, r, err)
				return
			}
			a.redirect(w, r, parent)

		case "cancel":
			f.reset(s, documentNumber)
			a.redirect(w, r, parent)

		default:
			a.badRequest(w, r)
		}
	}
}

// addressRow shows an address on a parent page with a link into the flow
func addressRow(j *journey, f addressFlow, documentNumber string, addr *models.Address) render.Row {
	row := render.Row{Key: "label.address", ChangeURL: j.url(documentNumber, f.page)}
	if addr != nil {
		row.Value = addr.String()
	}
	return row
}
