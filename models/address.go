package models

import "strings"

type (
	// Address mirrors the orchestration service's ILookUpAddress shape, used both
	// for postcode search results and for addresses entered manually
	Address struct {
		BuildingNumber  string `json:"building_number,omitempty"`
		SubBuildingName string `json:"sub_building_name,omitempty"`
		BuildingName    string `json:"building_name,omitempty"`
		StreetName      string `json:"street_name,omitempty"`
		County          string `json:"county,omitempty"`
		Country         string `json:"country,omitempty"`
		TownCity        string `json:"town_city,omitempty"`
		Postcode        string `json:"postCode,omitempty"`
	}
)

// Lines returns the non-empty address lines in display order
func (a Address) Lines() []string {
	first := strings.TrimSpace(strings.Join(nonEmpty(a.SubBuildingName, a.BuildingName), ", "))
	street := strings.TrimSpace(strings.Join(nonEmpty(a.BuildingNumber, a.StreetName), " "))
	return nonEmpty(first, street, a.TownCity, a.County, a.Postcode, a.Country)
}

// String renders the address on a single line
func (a Address) String() string {
	return strings.Join(a.Lines(), ", ")
}

// IsEmpty reports whether no part of the address has been filled in
func (a Address) IsEmpty() bool {
	return len(a.Lines()) == 0
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
