package orchestration

import (
	"context"
	"net/http"

	"github.com/DEFRA/fes-frontend/models"
)

// Products returns the products added to a catch certificate
func (c *Client) Products(ctx context.Context, documentNumber string) ([]models.Product, error) {
	var products []models.Product
	err := c.do(ctx, http.MethodGet, "/v1/species/"+escape(documentNumber), nil, nil, &products)
	return products, err
}

// AddProduct adds a product to a catch certificate
func (c *Client) AddProduct(ctx context.Context, documentNumber string, product models.Product) error {
	return c.do(ctx, http.MethodPost, "/v1/species/"+escape(documentNumber), nil, product, nil)
}

// RemoveProduct removes a product, and its landings, from a catch certificate
func (c *Client) RemoveProduct(ctx context.Context, documentNumber, productID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/species/"+escape(documentNumber)+"/"+escape(productID), nil, nil, nil)
}

// ConfirmProducts validates the product list, storing it as is when draft is set
func (c *Client) ConfirmProducts(ctx context.Context, documentNumber string, products []models.Product, draft bool) error {
	return c.do(ctx, http.MethodPut, "/v1/species/"+escape(documentNumber), draftQuery(draft), products, nil)
}

// Landings returns the landings added to a catch certificate
func (c *Client) Landings(ctx context.Context, documentNumber string) ([]models.Landing, error) {
	var landings []models.Landing
	err := c.do(ctx, http.MethodGet, "/v1/landings/"+escape(documentNumber), nil, nil, &landings)
	return landings, err
}

// AddLanding adds a landing to a catch certificate
func (c *Client) AddLanding(ctx context.Context, documentNumber string, landing models.Landing) error {
	return c.do(ctx, http.MethodPost, "/v1/landings/"+escape(documentNumber), nil, landing, nil)
}

// RemoveLanding removes a landing from a catch certificate
func (c *Client) RemoveLanding(ctx context.Context, documentNumber, landingID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/landings/"+escape(documentNumber)+"/"+escape(landingID), nil, nil, nil)
}

// GetLandingsEntry returns how the exporter chose to enter landings
func (c *Client) GetLandingsEntry(ctx context.Context, documentNumber string) (models.LandingsEntry, error) {
	var entry models.LandingsEntry
	err := c.do(ctx, http.MethodGet, "/v1/landings/"+escape(documentNumber)+"/entry-option", nil, nil, &entry)
	return entry, err
}

// SaveLandingsEntry stores how the exporter chose to enter landings
func (c *Client) SaveLandingsEntry(ctx context.Context, documentNumber string, entry models.LandingsEntry) error {
	return c.do(ctx, http.MethodPut, "/v1/landings/"+escape(documentNumber)+"/entry-option", nil, entry, nil)
}

// ValidateUpload asks the API to check uploaded landing rows against reference data
func (c *Client) ValidateUpload(ctx context.Context, documentNumber string, rows []models.UploadRow) (models.UploadValidation, error) {
	var result models.UploadValidation
	body := models.UploadValidation{Rows: rows}
	err := c.do(ctx, http.MethodPost, "/v1/landings/"+escape(documentNumber)+"/upload/validate", nil, body, &result)
	return result, err
}

// SaveUpload stores validated landing rows against a catch certificate
func (c *Client) SaveUpload(ctx context.Context, documentNumber string, rows []models.UploadRow) error {
	body := models.UploadValidation{Rows: rows}
	return c.do(ctx, http.MethodPost, "/v1/landings/"+escape(documentNumber)+"/upload/save", nil, body, nil)
}

// GetConservation returns the waters the catch was taken in
func (c *Client) GetConservation(ctx context.Context, documentNumber string) (models.Conservation, error) {
	var conservation models.Conservation
	err := c.do(ctx, http.MethodGet, "/v1/conservation/"+escape(documentNumber), nil, nil, &conservation)
	return conservation, err
}

// SaveConservation stores the waters the catch was taken in
func (c *Client) SaveConservation(ctx context.Context, documentNumber string, conservation models.Conservation, draft bool) error {
	return c.do(ctx, http.MethodPut, "/v1/conservation/"+escape(documentNumber), draftQuery(draft), conservation, nil)
}
