package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

// summary is every section of a document, gathered for review before submission
type summary struct {
	UserReference       string                      `json:"userReference"`
	Exporter            models.Exporter             `json:"exporter"`
	ExportLocation      models.ExportLocation       `json:"exportLocation"`
	Transport           *models.Transport           `json:"transport,omitempty"`
	Products            []models.Product            `json:"products,omitempty"`
	Landings            []models.Landing            `json:"landings,omitempty"`
	Conservation        *models.Conservation        `json:"conservation,omitempty"`
	ProcessingStatement *models.ProcessingStatement `json:"processingStatement,omitempty"`
	StorageDocument     *models.StorageDocument     `json:"storageDocument,omitempty"`
}

func (a *app) loadSummary(ctx context.Context, j *journey, documentNumber string) (summary, error) {
	var s summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.UserReference, err = a.api.GetUserReference(ctx, j.kind, documentNumber)
		return err
	})
	g.Go(func() (err error) {
		s.Exporter, err = a.api.GetExporter(ctx, j.kind, documentNumber)
		return err
	})
	g.Go(func() (err error) {
		s.ExportLocation, err = a.api.GetExportLocation(ctx, j.kind, documentNumber)
		return err
	})

	switch j {
	case catchCertificate:
		g.Go(func() error {
			t, err := a.api.GetTransport(ctx, j.kind, documentNumber)
			s.Transport = &t
			return err
		})
		g.Go(func() (err error) {
			s.Products, err = a.api.Products(ctx, documentNumber)
			return err
		})
		g.Go(func() (err error) {
			s.Landings, err = a.api.Landings(ctx, documentNumber)
			return err
		})
		g.Go(func() error {
			c, err := a.api.GetConservation(ctx, documentNumber)
			s.Conservation = &c
			return err
		})
	case processingStatement:
		g.Go(func() error {
			ps, err := a.api.GetProcessingStatement(ctx, documentNumber)
			s.ProcessingStatement = &ps
			return err
		})
	case storageDocument:
		g.Go(func() error {
			t, err := a.api.GetTransport(ctx, j.kind, documentNumber)
			s.Transport = &t
			return err
		})
		g.Go(func() error {
			sd, err := a.api.GetStorageDocument(ctx, documentNumber)
			s.StorageDocument = &sd
			return err
		})
	}
	return s, g.Wait()
}

func (a *app) summaryView(r *http.Request, j *journey, documentNumber string, s summary) *render.View {
	v := a.view(r, "page.checkYourInformation.title")
	v.BackURL = j.progress(documentNumber)
	change := func(page string) string { return j.url(documentNumber, page) }

	v.Rows = append(v.Rows,
		render.Row{Key: "label.documentNumber", Value: documentNumber},
		render.Row{Key: "label.userReference", Value: s.UserReference, ChangeURL: change("add-your-reference")},
		render.Row{Key: "label.exporterFullName", Value: s.Exporter.ExporterFullName, ChangeURL: change("add-exporter-details")},
		render.Row{Key: "label.exporterCompanyName", Value: s.Exporter.ExporterCompanyName, ChangeURL: change("add-exporter-details")},
	)
	if s.Exporter.Address != nil {
		v.Rows = append(v.Rows, render.Row{Key: "label.address", Value: s.Exporter.Address.String(), ChangeURL: change(exporterAddress.page)})
	}

	switch j {
	case catchCertificate:
		for _, p := range s.Products {
			v.Rows = append(v.Rows, render.Row{Key: "label.product", Value: strings.Join([]string{p.Species, p.State, p.Presentation, p.CommodityCode}, ", "), ChangeURL: change("what-are-you-exporting")})
		}
		v.Rows = append(v.Rows, render.Row{Key: "label.totalExportWeight", Value: models.TotalExportWeight(s.Landings).StringFixed(2), ChangeURL: change("add-landings")})
		if s.Conservation != nil {
			waters := strings.Join(s.Conservation.Waters, ", ")
			if s.Conservation.OtherWaters != "" {
				waters += " (" + s.Conservation.OtherWaters + ")"
			}
			v.Rows = append(v.Rows, render.Row{Key: "label.caughtIn", Value: waters, ChangeURL: change("whose-waters-were-they-caught-in")})
		}
	case processingStatement:
		if ps := s.ProcessingStatement; ps != nil {
			v.Rows = append(v.Rows,
				render.Row{Key: "label.consignmentDescription", Value: ps.ConsignmentDescription, ChangeURL: change("add-consignment-details")},
				render.Row{Key: "label.catches", Value: strconv.Itoa(len(ps.Catches)), ChangeURL: change("add-catch-details")},
				render.Row{Key: "label.plantName", Value: ps.PlantName, ChangeURL: change("add-processing-plant-details")},
				render.Row{Key: "label.healthCertificateNumber", Value: ps.HealthCertificateNumber, ChangeURL: change("add-health-certificate")},
			)
		}
	case storageDocument:
		if sd := s.StorageDocument; sd != nil {
			v.Rows = append(v.Rows,
				render.Row{Key: "label.catches", Value: strconv.Itoa(len(sd.Catches)), ChangeURL: change("add-product-to-this-consignment")},
				render.Row{Key: "label.facilityName", Value: sd.FacilityName, ChangeURL: change("add-storage-facility-details")},
			)
			if sd.ArrivalTransport != nil && a.flags.IsEnabled(featureArrivalTransport) {
				v.Rows = append(v.Rows, render.Row{Key: "label.arrivalVehicle", Value: sd.ArrivalTransport.Vehicle, ChangeURL: change("add-arrival-transportation-details")})
			}
		}
	}

	v.Rows = append(v.Rows, render.Row{Key: "label.exportedTo", Value: s.ExportLocation.ExportedTo.OfficialCountryName, ChangeURL: change("what-export-destination")})
	if s.Transport != nil && s.Transport.Vehicle != "" {
		v.Rows = append(v.Rows, render.Row{Key: "label.vehicle", Value: s.Transport.Vehicle, ChangeURL: change(transportPage)})
	}
	v.Buttons = []render.Button{{Action: "submit", Label: "button.createDocument"}}
	v.Data = s
	return v
}

func (a *app) checkYourInformation(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		s, err := a.loadSummary(r.Context(), j, documentNumber)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.render(w, r, a.summaryView(r, j, documentNumber, s))
	}
}

func (a *app) submitDocument(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		documentNumber := ps.ByName("documentNumber")
		if action(r) != "submit" {
			a.badRequest(w, r)
			return
		}

		result, err := a.api.Submit(r.Context(), j.kind, documentNumber)
		if err == nil && len(result.Errors) == 0 {
			a.redirect(w, r, j.url(documentNumber, "document-created"))
			return
		}

		// Rejected submissions show the summary again with the reasons
		s, loadErr := a.loadSummary(r.Context(), j, documentNumber)
		if loadErr != nil {
			a.fail(w, r, j, loadErr)
			return
		}
		v := a.summaryView(r, j, documentNumber, s)
		if err != nil {
			a.failOrInvalid(w, r, j, v, err)
			return
		}
		a.invalid(w, r, v, result.Errors)
	}
}
