package models

import "github.com/shopspring/decimal"

// Landings entry options
const (
	EntryManual        = "manualEntry"
	EntryUpload        = "uploadEntry"
	EntryDirectLanding = "directLanding"
)

// Waters a catch may have been taken in
const (
	WatersUK       = "uk"
	WatersEU       = "eu"
	WatersHighSeas = "highSeas"
	WatersOther    = "other"
)

type (
	// Product is a species, in a given state and presentation, being exported
	Product struct {
		ID            string `json:"id"`
		Species       string `json:"species"`
		SpeciesCode   string `json:"speciesCode"`
		State         string `json:"state"`
		Presentation  string `json:"presentation"`
		CommodityCode string `json:"commodity_code"`
	}

	// Landing is a landing of a product by a vessel
	Landing struct {
		ID           string          `json:"id"`
		ProductID    string          `json:"productId"`
		VesselName   string          `json:"vesselName"`
		PLN          string          `json:"pln"`
		DateLanded   string          `json:"dateLanded"`
		ExportWeight decimal.Decimal `json:"exportWeight"`
		FAOArea      string          `json:"faoArea"`
	}

	// LandingsEntry records how the exporter chose to enter landings
	LandingsEntry struct {
		LandingsEntryOption string `json:"landingsEntryOption"`
	}

	// Conservation records the waters the catch was taken in
	Conservation struct {
		Waters      []string `json:"caughtIn"`
		OtherWaters string   `json:"otherWaters,omitempty"`
	}

	// ExportLocation is the destination of an export
	ExportLocation struct {
		ExportedTo         Country `json:"exportedTo"`
		PointOfDestination string  `json:"pointOfDestination,omitempty"`
	}

	// UploadRow is one row of an uploaded landings CSV file
	UploadRow struct {
		RowNumber    int             `json:"rowNumber"`
		ProductID    string          `json:"productId"`
		DateLanded   string          `json:"dateLanded"`
		FAOArea      string          `json:"faoArea"`
		PLN          string          `json:"pln"`
		ExportWeight decimal.Decimal `json:"exportWeight"`
		Raw          string          `json:"rowData"`
		Errors       []string        `json:"errors,omitempty"`
	}

	// UploadValidation is the orchestration service's verdict on uploaded rows
	UploadValidation struct {
		Rows []UploadRow `json:"rows"`
	}
)

// Valid reports whether the row carries no errors
func (r UploadRow) Valid() bool {
	return len(r.Errors) == 0
}

// TotalExportWeight sums the export weight of the given landings
func TotalExportWeight(landings []Landing) decimal.Decimal {
	total := decimal.Zero
	for _, l := range landings {
		total = total.Add(l.ExportWeight)
	}
	return total
}
