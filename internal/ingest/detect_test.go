package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/talent-cli/internal/model"
)

func TestDetectReportType_FullExport(t *testing.T) {
	headers := []string{
		"Requisition ID", "Person : System ID", "Status",
		"Date First Interviewed: Phone Screen", "Hire/Rehire Date",
	}

	d := DetectReportType(headers)

	assert.Equal(t, model.ReportTypeFullExport, d.Type)
	assert.Equal(t, model.ConfidenceHigh, d.Confidence)
}

func TestDetectReportType_FullExportWithoutHireDate(t *testing.T) {
	headers := []string{
		"Requisition ID", "Person : System ID",
		"Date First Interviewed: Phone Screen",
	}

	d := DetectReportType(headers)

	assert.Equal(t, model.ReportTypeFullExport, d.Type)
	assert.Equal(t, model.ConfidenceMedium, d.Confidence)
}

func TestDetectReportType_MinimalExport(t *testing.T) {
	headers := []string{"Requisition ID", "Candidate ID", "Status"}

	d := DetectReportType(headers)

	assert.Equal(t, model.ReportTypeMinimalExport, d.Type)
	assert.Equal(t, model.ConfidenceMedium, d.Confidence)
}

func TestDetectReportType_Unknown(t *testing.T) {
	d := DetectReportType([]string{"Foo", "Bar", "Baz"})

	assert.Equal(t, model.ReportTypeUnknown, d.Type)
	assert.Equal(t, model.ConfidenceLow, d.Confidence)
}
