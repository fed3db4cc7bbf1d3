package models

type ValidationRequest struct {
	Modality string `json:"modality"`          // Finger, Face or Iris
	Subtype  string `json:"subtype"`           // e.g. "Left IndexFinger", "Right", "UNKNOWN"
	Purpose  string `json:"purpose,omitempty"` // defaults to VERIFY
	Data     string `json:"data"`              // base64url encoded ISO record
}
