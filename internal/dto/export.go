package dto

// ExportFormat selects the roster rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered roster ready to stream back to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
