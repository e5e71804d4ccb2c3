package main

import (
	"net/http"
	"strings"

	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var (
	stateOptions = []render.Option{
		{Value: "FRE", Label: "option.state.FRE"},
		{Value: "FRO", Label: "option.state.FRO"},
		{Value: "ALI", Label: "option.state.ALI"},
		{Value: "SAL", Label: "option.state.SAL"},
		{Value: "DRI", Label: "option.state.DRI"},
		{Value: "SMO", Label: "option.state.SMO"},
		{Value: "BOI", Label: "option.state.BOI"},
	}
	presentationOptions = []render.Option{
		{Value: "WHL", Label: "option.presentation.WHL"},
		{Value: "GUT", Label: "option.presentation.GUT"},
		{Value: "FIL", Label: "option.presentation.FIL"},
		{Value: "HEA", Label: "option.presentation.HEA"},
		{Value: "OTH", Label: "option.presentation.OTH"},
	}
	faoAreaOptions = func() []render.Option {
		var out []render.Option
		for _, area := range []string{"FAO18", "FAO21", "FAO27", "FAO31", "FAO34", "FAO37", "FAO41", "FAO47", "FAO48", "FAO51", "FAO57", "FAO58", "FAO61", "FAO67", "FAO71", "FAO77", "FAO81", "FAO87", "FAO88"} {
			out = append(out, render.Option{Value: area, Label: area})
		}
		return out
	}()
)

// removeTarget is the id a remove action applies to: "remove:<id>" or the named field
func removeTarget(r *http.Request, field string) string {
	if _, id := splitAction(r); id != "" {
		return id
	}
	return strings.TrimSpace(r.PostFormValue(field))
}

// Products

func (a *app) productsView(r *http.Request, documentNumber string, products []models.Product) *render.View {
	j := catchCertificate
	v := a.view(r, "page.whatAreYouExporting.title")
	v.BackURL = j.progress(documentNumber)
	v.Columns = []string{"column.species", "column.state", "column.presentation", "column.commodityCode"}
	for _, p := range products {
		v.Items = append(v.Items, render.Item{
			ID:           p.ID,
			Cells:        []string{p.Species, p.State, p.Presentation, p.CommodityCode},
			RemoveAction: "remove",
		})
	}
	v.Fields = []render.Field{
		{Name: "species", Type: render.Text, Label: "label.species", Hint: "hint.species"},
		{Name: "state", Type: render.Select, Label: "label.state", Options: stateOptions},
		{Name: "presentation", Type: render.Select, Label: "label.presentation", Options: presentationOptions},
		{Name: "commodityCode", Type: render.Text, Label: "label.commodityCode"},
	}
	v.Buttons = append([]render.Button{{Action: "add", Label: "button.addProduct", Secondary: true}}, draftButtons...)
	v.Data = products
	return v
}

func (a *app) products(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	products, err := a.api.Products(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, catchCertificate, err)
		return
	}
	a.render(w, r, a.productsView(r, documentNumber, products))
}

type productForm struct {
	Species       string `form:"species" validate:"required"`
	State         string `form:"state" validate:"required,oneof=FRE FRO ALI SAL DRI SMO BOI"`
	Presentation  string `form:"presentation" validate:"required,oneof=WHL GUT FIL HEA OTH"`
	CommodityCode string `form:"commodityCode" validate:"required"`
}

func (a *app) productsAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := catchCertificate
	documentNumber := ps.ByName("documentNumber")
	ctx := r.Context()
	products, err := a.api.Products(ctx, documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	v := a.productsView(r, documentNumber, products)

	switch name, _ := splitAction(r); name {
	case "add":
		var form productForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		if errs := forms.Validate(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		species, err := a.api.SearchSpecies(ctx, form.Species)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		match, ok := findSpecies(species, form.Species)
		if !ok {
			a.invalid(w, r, v, []models.FieldError{forms.Error("species", "unknown")})
			return
		}
		codes, err := a.api.CommodityCodes(ctx, match.FAOCode, form.State, form.Presentation)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		if !hasCommodity(codes, form.CommodityCode) {
			a.invalid(w, r, v, []models.FieldError{forms.Error("commodityCode", "invalid")})
			return
		}
		product := models.Product{
			Species:       match.FAOName,
			SpeciesCode:   match.FAOCode,
			State:         form.State,
			Presentation:  form.Presentation,
			CommodityCode: form.CommodityCode,
		}
		if err := a.api.AddProduct(ctx, documentNumber, product); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.url(documentNumber, "what-are-you-exporting"))

	case "remove":
		id := removeTarget(r, "productId")
		if id == "" {
			a.badRequest(w, r)
			return
		}
		if err := a.api.RemoveProduct(ctx, documentNumber, id); err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.redirect(w, r, j.url(documentNumber, "what-are-you-exporting"))

	case "continue", "saveAsDraft":
		if !isDraft(r) && len(products) == 0 {
			a.invalid(w, r, v, []models.FieldError{forms.Error("products", "required")})
			return
		}
		if err := a.api.ConfirmProducts(ctx, documentNumber, products, isDraft(r)); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, j.afterSave(r, documentNumber, "how-are-you-adding-landings"))

	default:
		a.badRequest(w, r)
	}
}

func findSpecies(species []models.Species, term string) (models.Species, bool) {
	term = strings.TrimSpace(term)
	for _, s := range species {
		if strings.EqualFold(s.FAOName, term) || strings.EqualFold(s.FAOCode, term) {
			return s, true
		}
	}
	if len(species) == 1 {
		return species[0], true
	}
	return models.Species{}, false
}

func hasCommodity(codes []models.Commodity, code string) bool {
	for _, c := range codes {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Landings entry

func (a *app) landingsEntryView(r *http.Request, documentNumber string) *render.View {
	v := a.view(r, "page.howAreYouAddingLandings.title")
	v.BackURL = catchCertificate.url(documentNumber, "what-are-you-exporting")
	options := []render.Option{{Value: models.EntryManual, Label: "option.landingsEntry.manualEntry"}}
	if a.flags.IsEnabled(featureLandingsUpload) {
		options = append(options, render.Option{Value: models.EntryUpload, Label: "option.landingsEntry.uploadEntry"})
	}
	options = append(options, render.Option{Value: models.EntryDirectLanding, Label: "option.landingsEntry.directLanding"})
	v.Fields = []render.Field{{Name: "landingsEntryOption", Type: render.Radios, Label: "label.landingsEntryOption", Options: options}}
	v.Buttons = draftButtons
	return v
}

func (a *app) landingsEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	entry, err := a.api.GetLandingsEntry(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, catchCertificate, err)
		return
	}
	v := a.landingsEntryView(r, documentNumber)
	v.Bind(map[string]string{"landingsEntryOption": entry.LandingsEntryOption})
	a.render(w, r, v)
}

type landingsEntryForm struct {
	LandingsEntryOption string `form:"landingsEntryOption" validate:"required,oneof=manualEntry uploadEntry directLanding"`
}

func (a *app) saveLandingsEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := catchCertificate
	documentNumber := ps.ByName("documentNumber")
	v := a.landingsEntryView(r, documentNumber)

	var form landingsEntryForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if errs := forms.Validate(form); len(errs) > 0 {
		a.invalid(w, r, v, errs)
		return
	}
	if err := a.api.SaveLandingsEntry(r.Context(), documentNumber, models.LandingsEntry{LandingsEntryOption: form.LandingsEntryOption}); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	next := "add-landings"
	if form.LandingsEntryOption == models.EntryUpload && a.flags.IsEnabled(featureLandingsUpload) {
		next = "upload-file"
	}
	a.redirect(w, r, j.afterSave(r, documentNumber, next))
}

// Landings

type landingsData struct {
	Products    []models.Product `json:"products"`
	Landings    []models.Landing `json:"landings"`
	TotalWeight decimal.Decimal  `json:"totalWeight"`
}

func (a *app) loadLandings(r *http.Request, documentNumber string) (landingsData, error) {
	var data landingsData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Products, err = a.api.Products(ctx, documentNumber)
		return err
	})
	g.Go(func() (err error) {
		data.Landings, err = a.api.Landings(ctx, documentNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return data, err
	}
	data.TotalWeight = models.TotalExportWeight(data.Landings)
	return data, nil
}

func (a *app) landingsView(r *http.Request, documentNumber string, data landingsData) *render.View {
	v := a.view(r, "page.addLandings.title")
	v.BackURL = catchCertificate.url(documentNumber, "how-are-you-adding-landings")

	productNames := map[string]string{}
	productOptions := make([]render.Option, len(data.Products))
	for i, p := range data.Products {
		productNames[p.ID] = p.Species
		productOptions[i] = render.Option{Value: p.ID, Label: p.Species + ", " + p.State + ", " + p.Presentation}
	}
	v.Columns = []string{"column.product", "column.vessel", "column.dateLanded", "column.faoArea", "column.exportWeight"}
	for _, l := range data.Landings {
		v.Items = append(v.Items, render.Item{
			ID:           l.ID,
			Cells:        []string{productNames[l.ProductID], l.VesselName + " (" + l.PLN + ")", l.DateLanded, l.FAOArea, l.ExportWeight.StringFixed(2)},
			RemoveAction: "remove",
		})
	}
	v.Rows = []render.Row{{Key: "label.totalExportWeight", Value: data.TotalWeight.StringFixed(2)}}
	v.Fields = []render.Field{
		{Name: "productId", Type: render.Select, Label: "label.product", Options: productOptions},
		{Name: "vesselName", Type: render.Text, Label: "label.vesselName", Hint: "hint.vesselName"},
		{Name: "pln", Type: render.Text, Label: "label.pln"},
		{Name: "dateLanded", Type: render.Date, Label: "label.dateLanded"},
		{Name: "faoArea", Type: render.Select, Label: "label.faoArea", Options: faoAreaOptions},
		{Name: "exportWeight", Type: render.Text, Label: "label.exportWeight", Hint: "hint.exportWeight"},
	}
	v.Buttons = append([]render.Button{{Action: "add", Label: "button.addLanding", Secondary: true}}, draftButtons...)
	v.Data = data
	return v
}

func (a *app) landings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	data, err := a.loadLandings(r, documentNumber)
	if err != nil {
		a.fail(w, r, catchCertificate, err)
		return
	}
	a.render(w, r, a.landingsView(r, documentNumber, data))
}

type landingForm struct {
	ProductID    string `form:"productId" validate:"required"`
	VesselName   string `form:"vesselName" validate:"max=50"`
	PLN          string `form:"pln" validate:"required,plnumber"`
	DateLanded   string `form:"dateLanded" validate:"required,pastdate"`
	FAOArea      string `form:"faoArea" validate:"required"`
	ExportWeight string `form:"exportWeight" validate:"required,weight"`
}

func (a *app) landingsAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := catchCertificate
	documentNumber := ps.ByName("documentNumber")
	ctx := r.Context()
	data, err := a.loadLandings(r, documentNumber)
	if err != nil {
		a.fail(w, r, j, err)
		return
	}
	v := a.landingsView(r, documentNumber, data)
	here := j.url(documentNumber, "add-landings")

	switch name, _ := splitAction(r); name {
	case "add":
		var form landingForm
		if err := forms.Decode(r.PostForm, &form); err != nil {
			a.badRequest(w, r)
			return
		}
		errs := forms.Validate(form)
		if form.ProductID != "" && !hasProduct(data.Products, form.ProductID) {
			errs = append(errs, forms.Error("productId", "required"))
		}
		if len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
		pln := strings.ToUpper(strings.TrimSpace(form.PLN))
		vesselName := form.VesselName
		if vesselName == "" {
			vessels, err := a.api.SearchVessels(ctx, pln)
			if err != nil {
				a.fail(w, r, j, err)
				return
			}
			for _, vessel := range vessels {
				if strings.EqualFold(vessel.PLN, pln) {
					vesselName = vessel.VesselName
					break
				}
			}
			if vesselName == "" {
				a.invalid(w, r, v, []models.FieldError{forms.Error("vesselName", "unknown")})
				return
			}
		}
		weight, _ := forms.ParseWeight(form.ExportWeight)
		landing := models.Landing{
			ProductID:    form.ProductID,
			VesselName:   vesselName,
			PLN:          pln,
			DateLanded:   form.DateLanded,
			ExportWeight: weight,
			FAOArea:      form.FAOArea,
		}
		if err := a.api.AddLanding(ctx, documentNumber, landing); err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.redirect(w, r, here)

	case "remove":
		id := removeTarget(r, "landingId")
		if id == "" {
			a.badRequest(w, r)
			return
		}
		if err := a.api.RemoveLanding(ctx, documentNumber, id); err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.redirect(w, r, here)

	case "continue":
		if len(data.Products) == 0 {
			a.invalid(w, r, v, []models.FieldError{forms.Error("products", "required")})
			return
		}
		for _, p := range data.Products {
			if !productLanded(data.Landings, p.ID) {
				a.invalid(w, r, v, []models.FieldError{forms.Error("landings", "incomplete")})
				return
			}
		}
		a.redirect(w, r, j.url(documentNumber, "whose-waters-were-they-caught-in"))

	case "saveAsDraft":
		a.redirect(w, r, j.dashboard())

	default:
		a.badRequest(w, r)
	}
}

func hasProduct(products []models.Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func productLanded(landings []models.Landing, productID string) bool {
	for _, l := range landings {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Conservation

func (a *app) conservationView(r *http.Request, documentNumber string) *render.View {
	v := a.view(r, "page.whoseWaters.title")
	v.BackURL = catchCertificate.url(documentNumber, "add-landings")
	v.Fields = []render.Field{
		{Name: "caughtIn", Type: render.Checkbox, Label: "label.caughtIn", Options: []render.Option{
			{Value: models.WatersUK, Label: "option.waters.uk"},
			{Value: models.WatersEU, Label: "option.waters.eu"},
			{Value: models.WatersHighSeas, Label: "option.waters.highSeas"},
			{Value: models.WatersOther, Label: "option.waters.other"},
		}},
		{Name: "otherWaters", Type: render.Text, Label: "label.otherWaters"},
	}
	v.Buttons = draftButtons
	return v
}

func (a *app) conservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	c, err := a.api.GetConservation(r.Context(), documentNumber)
	if err != nil {
		a.fail(w, r, catchCertificate, err)
		return
	}
	v := a.conservationView(r, documentNumber)
	v.Bind(map[string]string{"caughtIn": strings.Join(c.Waters, ","), "otherWaters": c.OtherWaters})
	v.Data = c
	a.render(w, r, v)
}

type conservationForm struct {
	CaughtIn    []string `form:"caughtIn" validate:"required,dive,oneof=uk eu highSeas other"`
	OtherWaters string   `form:"otherWaters" validate:"max=100"`
}

func (a *app) saveConservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := catchCertificate
	documentNumber := ps.ByName("documentNumber")
	v := a.conservationView(r, documentNumber)

	var form conservationForm
	if err := forms.Decode(r.PostForm, &form); err != nil {
		a.badRequest(w, r)
		return
	}
	if !isDraft(r) {
		if errs := validateConservation(form); len(errs) > 0 {
			a.invalid(w, r, v, errs)
			return
		}
	}

	c := models.Conservation{Waters: form.CaughtIn}
	if contains(form.CaughtIn, models.WatersOther) {
		c.OtherWaters = form.OtherWaters
	}
	if err := a.api.SaveConservation(r.Context(), documentNumber, c, isDraft(r)); err != nil {
		a.failOrInvalid(w, r, j, v, err)
		return
	}
	a.redirect(w, r, j.afterSave(r, documentNumber, "what-export-destination"))
}

func validateConservation(form conservationForm) []models.FieldError {
	errs := forms.Validate(form)
	if len(errs) == 0 && contains(form.CaughtIn, models.WatersOther) && strings.TrimSpace(form.OtherWaters) == "" {
		errs = append(errs, forms.Error("otherWaters", "required"))
	}
	return errs
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
