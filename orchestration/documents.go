package orchestration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DEFRA/fes-frontend/models"
)

func documentPath(journey Journey, documentNumber string) string {
	return fmt.Sprintf("/v1/documents/%s/%s", journey, escape(documentNumber))
}

// ListDocuments returns the exporter's documents of a journey in the given status
func (c *Client) ListDocuments(ctx context.Context, journey Journey, status string) ([]models.Document, error) {
	var docs []models.Document
	query := url.Values{"status": []string{status}}
	err := c.do(ctx, http.MethodGet, "/v1/documents/"+string(journey), query, nil, &docs)
	return docs, err
}

// CreateDraft starts a new draft document
func (c *Client) CreateDraft(ctx context.Context, journey Journey) (string, error) {
	var created models.CreatedDocument
	if err := c.do(ctx, http.MethodPost, "/v1/documents/"+string(journey), nil, struct{}{}, &created); err != nil {
		return "", err
	}
	return created.DocumentNumber, nil
}

// DeleteDraft removes a draft document
func (c *Client) DeleteDraft(ctx context.Context, journey Journey, documentNumber string) error {
	return c.do(ctx, http.MethodDelete, documentPath(journey, documentNumber), nil, nil, nil)
}

// CopyDocument copies a document into a new draft, optionally voiding the original
func (c *Client) CopyDocument(ctx context.Context, journey Journey, documentNumber string, voidOriginal bool) (string, error) {
	var created models.CreatedDocument
	body := models.CopyRequest{VoidOriginal: voidOriginal}
	if err := c.do(ctx, http.MethodPost, documentPath(journey, documentNumber)+"/copy", nil, body, &created); err != nil {
		return "", err
	}
	return created.DocumentNumber, nil
}

// Submit submits a completed document for certification
func (c *Client) Submit(ctx context.Context, journey Journey, documentNumber string) (models.SubmitResult, error) {
	var result models.SubmitResult
	err := c.do(ctx, http.MethodPost, documentPath(journey, documentNumber)+"/submit", nil, struct{}{}, &result)
	return result, err
}

// GetDocument returns the dashboard entry of one document
func (c *Client) GetDocument(ctx context.Context, journey Journey, documentNumber string) (models.Document, error) {
	var doc models.Document
	err := c.do(ctx, http.MethodGet, documentPath(journey, documentNumber), nil, nil, &doc)
	return doc, err
}

// Progress returns the completion state of each section of a document
func (c *Client) Progress(ctx context.Context, journey Journey, documentNumber string) (models.Progress, error) {
	var progress models.Progress
	err := c.do(ctx, http.MethodGet, documentPath(journey, documentNumber)+"/progress", nil, nil, &progress)
	return progress, err
}

// GetUserReference returns the exporter's own reference for a document
func (c *Client) GetUserReference(ctx context.Context, journey Journey, documentNumber string) (string, error) {
	var ref models.UserReference
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/user-reference/%s/%s", journey, escape(documentNumber)), nil, nil, &ref)
	return ref.UserReference, err
}

// SaveUserReference stores the exporter's own reference for a document
func (c *Client) SaveUserReference(ctx context.Context, journey Journey, documentNumber, reference string) error {
	body := models.UserReference{UserReference: reference}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/user-reference/%s/%s", journey, escape(documentNumber)), nil, body, nil)
}

// GetUserAttributes returns the signed in user's account settings
func (c *Client) GetUserAttributes(ctx context.Context) (models.UserAttributes, error) {
	var attrs models.UserAttributes
	err := c.do(ctx, http.MethodGet, "/v1/user-attributes", nil, nil, &attrs)
	return attrs, err
}

// SaveUserAttributes updates the signed in user's account settings
func (c *Client) SaveUserAttributes(ctx context.Context, attrs models.UserAttributes) error {
	return c.do(ctx, http.MethodPut, "/v1/user-attributes", nil, attrs, nil)
}
