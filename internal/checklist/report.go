package checklist

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	jsonIndentConstant                   = "  "
	reportEncodingErrorTemplateConstant  = "unable to encode verification report as %s: %w"
	catalogEncodingErrorTemplateConstant = "unable to encode requirement catalog as %s: %w"
	catalogGroupHeaderTemplateConstant   = "Task %d: %s\n"
	catalogRequirementLineTemplate       = "  [%s] %s\n"
	newlineConstant                      = "\n"
)

// WriteReport renders the report in the requested format.
func WriteReport(writer io.Writer, report VerificationReport, format ReportFormat) error {
	switch format {
	case ReportFormatYAML:
		encoder := yaml.NewEncoder(writer)
		if encodeError := encoder.Encode(report); encodeError != nil {
			return fmt.Errorf(reportEncodingErrorTemplateConstant, format, encodeError)
		}
		return encoder.Close()
	case ReportFormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", jsonIndentConstant)
		if encodeError := encoder.Encode(report); encodeError != nil {
			return fmt.Errorf(reportEncodingErrorTemplateConstant, format, encodeError)
		}
		return nil
	default:
		info := report.Info
		if !strings.HasSuffix(info, newlineConstant) {
			info += newlineConstant
		}
		_, writeError := io.WriteString(writer, info)
		return writeError
	}
}

// WriteCatalog renders the task groups in the requested format.
func WriteCatalog(writer io.Writer, taskGroups []TaskGroup, format ReportFormat) error {
	switch format {
	case ReportFormatYAML:
		encoder := yaml.NewEncoder(writer)
		if encodeError := encoder.Encode(taskGroups); encodeError != nil {
			return fmt.Errorf(catalogEncodingErrorTemplateConstant, format, encodeError)
		}
		return encoder.Close()
	case ReportFormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", jsonIndentConstant)
		if encodeError := encoder.Encode(taskGroups); encodeError != nil {
			return fmt.Errorf(catalogEncodingErrorTemplateConstant, format, encodeError)
		}
		return nil
	default:
		var builder strings.Builder
		for _, taskGroup := range taskGroups {
			builder.WriteString(fmt.Sprintf(catalogGroupHeaderTemplateConstant, taskGroup.Number, taskGroup.Title))
			for _, requirement := range taskGroup.Requirements {
				builder.WriteString(fmt.Sprintf(catalogRequirementLineTemplate, requirement.ID, requirement.Description))
			}
		}
		_, writeError := io.WriteString(writer, builder.String())
		return writeError
	}
}
