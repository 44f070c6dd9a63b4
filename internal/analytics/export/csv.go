package export

import (
	"encoding/csv"
	"io"

	"github.com/crewplan/crewplan/internal/analytics"
)

func writeTable(w io.Writer, headers []string, rows []map[string]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTeamCSV serialises the team capacity view with one column per week.
func WriteTeamCSV(w io.Writer, result analytics.TeamUtilizationResult) error {
	headers, rows := TeamRows(result)
	return writeTable(w, headers, rows)
}

// WriteProjectsCSV serialises the per-project comparison.
func WriteProjectsCSV(w io.Writer, projects []analytics.ProjectAnalytics) error {
	headers, rows := ProjectRows(projects)
	return writeTable(w, headers, rows)
}

// WriteForecastActualsCSV serialises the weekly trend series.
func WriteForecastActualsCSV(w io.Writer, data analytics.ForecastVsActualsData) error {
	headers, rows := ForecastActualsRows(data)
	return writeTable(w, headers, rows)
}
