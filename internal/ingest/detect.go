package ingest

import (
	"strings"

	"github.com/sells-group/talent-cli/internal/model"
)

// DetectReportType classifies an input file's header shape. Pure header-name
// inspection, used only for diagnostics and warnings; parsing behavior never
// branches on the result.
func DetectReportType(headers []string) model.ReportTypeDetection {
	hasReqID := ResolveColumn(headers, reqIDSynonyms) != ""
	hasCandidateID := ResolveColumn(headers, candidateIDSynonyms) != ""
	hasHireDate := ResolveColumn(headers, hireDateSynonyms) != ""

	hasStageColumns := false
	for _, h := range headers {
		if strings.HasPrefix(normalizeHeader(h), stageColumnPrefixFolded) {
			hasStageColumns = true
			break
		}
	}

	switch {
	case hasReqID && hasCandidateID && hasStageColumns && hasHireDate:
		return model.ReportTypeDetection{Type: model.ReportTypeFullExport, Confidence: model.ConfidenceHigh}
	case hasReqID && hasCandidateID && hasStageColumns:
		return model.ReportTypeDetection{Type: model.ReportTypeFullExport, Confidence: model.ConfidenceMedium}
	case hasReqID && hasCandidateID:
		return model.ReportTypeDetection{Type: model.ReportTypeMinimalExport, Confidence: model.ConfidenceMedium}
	default:
		return model.ReportTypeDetection{Type: model.ReportTypeUnknown, Confidence: model.ConfidenceLow}
	}
}
