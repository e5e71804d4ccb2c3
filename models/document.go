package models

import "time"

// Document statuses as reported by the orchestration service
const (
	StatusDraft    = "DRAFT"
	StatusComplete = "COMPLETE"
	StatusPending  = "PENDING"
	StatusVoid     = "VOID"
)

// Progress section statuses
const (
	SectionCompleted   = "COMPLETED"
	SectionIncomplete  = "INCOMPLETE"
	SectionOptional    = "OPTIONAL"
	SectionCannotStart = "CANNOT START"
)

type (
	// Document is one entry of a journey dashboard
	Document struct {
		DocumentNumber string    `json:"documentNumber"`
		Status         string    `json:"status"`
		UserReference  string    `json:"userReference,omitempty"`
		CreatedAt      time.Time `json:"createdAt"`
		DocumentURI    string    `json:"documentUri,omitempty"`
	}

	// CreatedDocument is returned by the create and copy endpoints
	CreatedDocument struct {
		DocumentNumber string `json:"documentNumber"`
	}

	// CopyRequest is the body of 'POST /v1/documents/{journey}/{doc}/copy'
	CopyRequest struct {
		VoidOriginal bool `json:"voidOriginal"`
	}

	// SubmitResult is returned when a document is submitted
	SubmitResult struct {
		Status            string       `json:"status"`
		DocumentURI       string       `json:"documentUri,omitempty"`
		OfflineValidation bool         `json:"offlineValidation"`
		Errors            []FieldError `json:"errors,omitempty"`
	}

	// ProgressSection is the completion state of one section of a document
	ProgressSection struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}

	// Progress lists the section states of a document
	Progress struct {
		Sections []ProgressSection `json:"progress"`
	}

	// UserReference is the exporter's own free-text reference for a document
	UserReference struct {
		UserReference string `json:"userReference"`
	}

	// UserAttributes are the account level settings held by the orchestration service
	UserAttributes struct {
		PrivacyStatement bool   `json:"privacy_statement"`
		Language         string `json:"language,omitempty"`
	}
)

// Completed reports whether every mandatory section is complete
func (p Progress) Completed() bool {
	if len(p.Sections) == 0 {
		return false
	}
	for _, s := range p.Sections {
		if s.Status != SectionCompleted && s.Status != SectionOptional {
			return false
		}
	}
	return true
}
