package models

import "github.com/shopspring/decimal"

type (
	// ProcessingCatch is a catch used as raw material for a processed product
	ProcessingCatch struct {
		ID                           string          `json:"id"`
		Species                      string          `json:"species"`
		CatchCertificateNumber       string          `json:"catchCertificateNumber"`
		TotalWeightLanded            decimal.Decimal `json:"totalWeightLanded"`
		ExportWeightBeforeProcessing decimal.Decimal `json:"exportWeightBeforeProcessing"`
		ExportWeightAfterProcessing  decimal.Decimal `json:"exportWeightAfterProcessing"`
	}

	// ProcessingStatement holds the processing statement specific sections
	ProcessingStatement struct {
		Catches                         []ProcessingCatch `json:"catches"`
		ConsignmentDescription          string            `json:"consignmentDescription,omitempty"`
		HealthCertificateNumber         string            `json:"healthCertificateNumber,omitempty"`
		HealthCertificateDate           string            `json:"healthCertificateDate,omitempty"`
		PersonResponsibleForConsignment string            `json:"personResponsibleForConsignment,omitempty"`
		PlantApprovalNumber             string            `json:"plantApprovalNumber,omitempty"`
		PlantName                       string            `json:"plantName,omitempty"`
		PlantAddress                    *Address          `json:"plantAddress,omitempty"`
	}
)
