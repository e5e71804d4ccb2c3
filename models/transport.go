package models

// Transport vehicles
const (
	VehicleTruck         = "truck"
	VehiclePlane         = "plane"
	VehicleTrain         = "train"
	VehicleContainer     = "containerVessel"
	VehicleDirectLanding = "directLanding"
)

type (
	// Transport describes how a consignment leaves (or, for storage documents,
	// arrives in) the UK. Only the fields for the chosen vehicle are populated
	Transport struct {
		Vehicle              string `json:"vehicle"`
		ExportedFrom         string `json:"exportedFrom,omitempty"`
		ExportDate           string `json:"exportDate,omitempty"`
		NationalityOfVehicle string `json:"nationalityOfVehicle,omitempty"`
		RegistrationNumber   string `json:"registrationNumber,omitempty"`
		FlightNumber         string `json:"flightNumber,omitempty"`
		ContainerNumber      string `json:"containerNumber,omitempty"`
		RailwayBillNumber    string `json:"railwayBillNumber,omitempty"`
		VesselName           string `json:"vesselName,omitempty"`
		FlagState            string `json:"flagState,omitempty"`
	}
)
