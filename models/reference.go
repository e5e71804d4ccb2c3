package models

type (
	// Country is a reference data country
	Country struct {
		OfficialCountryName string `json:"officialCountryName"`
		IsoCodeAlpha2       string `json:"isoCodeAlpha2,omitempty"`
		IsoCodeAlpha3       string `json:"isoCodeAlpha3,omitempty"`
		IsoNumericCode      string `json:"isoNumericCode,omitempty"`
	}

	// Species is a reference data species, keyed by its FAO code
	Species struct {
		FAOCode        string `json:"faoCode"`
		FAOName        string `json:"faoName"`
		ScientificName string `json:"scientificName,omitempty"`
	}

	// Vessel is a reference data fishing vessel
	Vessel struct {
		VesselName string `json:"vesselName"`
		PLN        string `json:"pln"`
		FlagState  string `json:"flag,omitempty"`
	}

	// Commodity is a commodity code valid for a species, state and presentation
	Commodity struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	}
)
