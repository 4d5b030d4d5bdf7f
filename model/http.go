package model

type TrackSummary struct {
	Name         string `json:"name"`
	Program      uint8  `json:"program"`
	IsDrum       bool   `json:"is_drum"`
	DType        string `json:"dtype"`
	Steps        int    `json:"steps"`
	ActiveLength int    `json:"active_length"`
	Notes        int    `json:"notes"`
}

type ArchiveSummary struct {
	Name       string         `json:"name"`
	Resolution int            `json:"resolution"`
	Steps      int            `json:"steps"`
	Downbeats  int            `json:"downbeats"`
	Tracks     []TrackSummary `json:"tracks"`
}

type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Detail string `json:"detail,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
