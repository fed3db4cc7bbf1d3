package models

// Entry keeps request order, which a JSON object does not.
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"` // base64url
}

type ConversionRequest struct {
	Values           []Entry           `json:"values"`
	SourceFormat     string            `json:"source_format"` // ISO19794_4_2011, ISO19794_5_2011, ISO19794_6_2011
	TargetFormat     string            `json:"target_format"` // IMAGE_JPEG or IMAGE_PNG
	SourceParameters map[string]string `json:"source_parameters,omitempty"`
	TargetParameters map[string]string `json:"target_parameters,omitempty"` // dpi, width, height
}

type ConversionResponse struct {
	Values []Entry `json:"values"`
}
