package models

type (
	// Error represents any erroneous JSON response served by this application
	Error struct {
		Error string `json:"error"`
	}

	// FieldError is a validation failure keyed by form field. Message holds a
	// translation key such as "error.exporterFullName.required", never display text.
	FieldError struct {
		Key     string `json:"key"`
		Message string `json:"message"`
	}
)
