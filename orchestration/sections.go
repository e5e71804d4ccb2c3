package orchestration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DEFRA/fes-frontend/models"
)

// GetExporter returns the exporter details of a document
func (c *Client) GetExporter(ctx context.Context, journey Journey, documentNumber string) (models.Exporter, error) {
	var exporter models.Exporter
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/exporter/%s/%s", journey, escape(documentNumber)), nil, nil, &exporter)
	return exporter, err
}

// SaveExporter stores the exporter details of a document
func (c *Client) SaveExporter(ctx context.Context, journey Journey, documentNumber string, exporter models.Exporter, draft bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/exporter/%s/%s", journey, escape(documentNumber)), draftQuery(draft), exporter, nil)
}

// SearchAddresses looks up the addresses registered at a postcode
func (c *Client) SearchAddresses(ctx context.Context, postcode string) ([]models.Address, error) {
	var addresses []models.Address
	query := url.Values{"postcode": []string{postcode}}
	err := c.do(ctx, http.MethodGet, "/v1/addresses/search", query, nil, &addresses)
	return addresses, err
}

// GetExportLocation returns the export destination of a document
func (c *Client) GetExportLocation(ctx context.Context, journey Journey, documentNumber string) (models.ExportLocation, error) {
	var location models.ExportLocation
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/export-location/%s/%s", journey, escape(documentNumber)), nil, nil, &location)
	return location, err
}

// SaveExportLocation stores the export destination of a document
func (c *Client) SaveExportLocation(ctx context.Context, journey Journey, documentNumber string, location models.ExportLocation, draft bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/export-location/%s/%s", journey, escape(documentNumber)), draftQuery(draft), location, nil)
}

// GetTransport returns the departure transport of a document
func (c *Client) GetTransport(ctx context.Context, journey Journey, documentNumber string) (models.Transport, error) {
	var transport models.Transport
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/transport/%s/%s", journey, escape(documentNumber)), nil, nil, &transport)
	return transport, err
}

// SaveTransport stores the departure transport of a document
func (c *Client) SaveTransport(ctx context.Context, journey Journey, documentNumber string, transport models.Transport, draft bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/transport/%s/%s", journey, escape(documentNumber)), draftQuery(draft), transport, nil)
}

// Countries returns the reference list of destination countries
func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := c.do(ctx, http.MethodGet, "/v1/reference-data/countries", nil, nil, &countries)
	return countries, err
}

// SearchSpecies returns the species matching a search term
func (c *Client) SearchSpecies(ctx context.Context, term string) ([]models.Species, error) {
	var species []models.Species
	err := c.do(ctx, http.MethodGet, "/v1/reference-data/species", url.Values{"searchTerm": []string{term}}, nil, &species)
	return species, err
}

// SearchVessels returns the vessels whose name or PLN match a search term
func (c *Client) SearchVessels(ctx context.Context, term string) ([]models.Vessel, error) {
	var vessels []models.Vessel
	err := c.do(ctx, http.MethodGet, "/v1/reference-data/vessels", url.Values{"searchTerm": []string{term}}, nil, &vessels)
	return vessels, err
}

// CommodityCodes returns the commodity codes valid for a species, state and presentation
func (c *Client) CommodityCodes(ctx context.Context, speciesCode, state, presentation string) ([]models.Commodity, error) {
	var codes []models.Commodity
	query := url.Values{
		"speciesCode":  []string{speciesCode},
		"state":        []string{state},
		"presentation": []string{presentation},
	}
	err := c.do(ctx, http.MethodGet, "/v1/reference-data/commodity-codes", query, nil, &codes)
	return codes, err
}
