package models

import "github.com/shopspring/decimal"

type (
	// StorageCatch is a product held in storage before export
	StorageCatch struct {
		ID                    string          `json:"id"`
		Product               string          `json:"product"`
		CommodityCode         string          `json:"commodityCode"`
		CertificateNumber     string          `json:"certificateNumber"`
		WeightOnCC            decimal.Decimal `json:"weightOnCC"`
		ProductWeight         decimal.Decimal `json:"productWeight"`
		DateOfUnloading       string          `json:"dateOfUnloading"`
		PlaceOfUnloading      string          `json:"placeOfUnloading"`
		TransportUnloadedFrom string          `json:"transportUnloadedFrom"`
	}

	// StorageDocument holds the storage document specific sections
	StorageDocument struct {
		Catches          []StorageCatch `json:"catches"`
		FacilityName     string         `json:"facilityName,omitempty"`
		FacilityAddress  *Address       `json:"facilityAddress,omitempty"`
		ArrivalTransport *Transport     `json:"arrivalTransport,omitempty"`
	}
)
