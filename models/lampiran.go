package models

// Lampiran is metadata for a scanned document attached to a record.
// The file itself lives on disk under the lampiran base directory.
type Lampiran struct {
	ID          string  `json:"id"`
	RecordID    string  `json:"recordId"`
	FileName    string  `json:"fileName"`
	StorePath   string  `json:"storePath"`
	ContentType string  `json:"contentType,omitempty"`
	OCRText     string  `json:"ocrText,omitempty"`
	OCRConf     float64 `json:"ocrConf,omitempty"`
	UploadedAt  int64   `json:"uploadedAt"` // epoch millis
	// Failed marks OCR failure; the record is kept so an admin can review.
	Failed       bool   `json:"failed,omitempty"`
	FailedReason string `json:"failedReason,omitempty"`
}
