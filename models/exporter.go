package models

type (
	// Exporter represents the exporter details held against a document
	Exporter struct {
		ContactID           string   `json:"contactId,omitempty"`
		AccountID           string   `json:"accountId,omitempty"`
		ExporterFullName    string   `json:"exporterFullName,omitempty"`
		ExporterCompanyName string   `json:"exporterCompanyName"`
		Address             *Address `json:"address,omitempty"`
	}
)
