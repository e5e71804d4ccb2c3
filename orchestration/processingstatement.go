package orchestration

import (
	"context"
	"net/http"

	"github.com/DEFRA/fes-frontend/models"
)

// GetProcessingStatement returns the processing statement specific sections
func (c *Client) GetProcessingStatement(ctx context.Context, documentNumber string) (models.ProcessingStatement, error) {
	var ps models.ProcessingStatement
	err := c.do(ctx, http.MethodGet, "/v1/processing-statement/"+escape(documentNumber), nil, nil, &ps)
	return ps, err
}

// SaveProcessingStatement stores the processing statement specific sections
func (c *Client) SaveProcessingStatement(ctx context.Context, documentNumber string, ps models.ProcessingStatement, draft bool) error {
	return c.do(ctx, http.MethodPut, "/v1/processing-statement/"+escape(documentNumber), draftQuery(draft), ps, nil)
}

// AddProcessingCatch adds a catch to a processing statement
func (c *Client) AddProcessingCatch(ctx context.Context, documentNumber string, catch models.ProcessingCatch) error {
	return c.do(ctx, http.MethodPost, "/v1/processing-statement/"+escape(documentNumber)+"/catches", nil, catch, nil)
}

// RemoveProcessingCatch removes a catch from a processing statement
func (c *Client) RemoveProcessingCatch(ctx context.Context, documentNumber, catchID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/processing-statement/"+escape(documentNumber)+"/catches/"+escape(catchID), nil, nil, nil)
}

// GetStorageDocument returns the storage document specific sections
func (c *Client) GetStorageDocument(ctx context.Context, documentNumber string) (models.StorageDocument, error) {
	var sd models.StorageDocument
	err := c.do(ctx, http.MethodGet, "/v1/storage-document/"+escape(documentNumber), nil, nil, &sd)
	return sd, err
}

// SaveStorageDocument stores the storage document specific sections
func (c *Client) SaveStorageDocument(ctx context.Context, documentNumber string, sd models.StorageDocument, draft bool) error {
	return c.do(ctx, http.MethodPut, "/v1/storage-document/"+escape(documentNumber), draftQuery(draft), sd, nil)
}

// AddStorageCatch adds a product to a storage document
func (c *Client) AddStorageCatch(ctx context.Context, documentNumber string, catch models.StorageCatch) error {
	return c.do(ctx, http.MethodPost, "/v1/storage-document/"+escape(documentNumber)+"/catches", nil, catch, nil)
}

// RemoveStorageCatch removes a product from a storage document
func (c *Client) RemoveStorageCatch(ctx context.Context, documentNumber, catchID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/storage-document/"+escape(documentNumber)+"/catches/"+escape(catchID), nil, nil, nil)
}
