package models

type ValidationResponse struct {
	Valid      bool        `json:"valid"`
	Standard   string      `json:"standard,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
	Message    string      `json:"message,omitempty"` // full diagnostic text when invalid
}

type Violation struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
}

type ErrorResponse struct {
	Error    string `json:"error"` // error kind, e.g. INVALID_INPUT_FORMAT
	Message  string `json:"message"`
	Modality string `json:"modality,omitempty"`
}
