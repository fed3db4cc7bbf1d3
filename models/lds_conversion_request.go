package models

type LdsConversionRequest struct {
	DataGroups       map[string]string `json:"data_groups"` // "DG2"/"DG3"/"DG4" -> hex
	TargetFormat     string            `json:"target_format"`
	Modalities       []string          `json:"modalities,omitempty"`
	TargetParameters map[string]string `json:"target_parameters,omitempty"`
}

type LdsImage struct {
	DataGroup   string `json:"data_group"`
	Modality    string `json:"modality"`
	Subtype     string `json:"subtype,omitempty"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"` // base64url
}

type LdsConversionResponse struct {
	Images []LdsImage `json:"images"`
}
