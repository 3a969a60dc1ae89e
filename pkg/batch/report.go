package batch

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-churnform/pkg/model"
	"github.com/goliatone/go-churnform/pkg/presenter"
)

const (
	predictionsSheet = "Predictions"
	invalidSheet     = "Invalid Rows"
)

var reportHeader = []any{"Row", "Risk Level", "Risk Score", "Prediction", "Confidence", "Recommendation"}

func reportRow(p *presenter.Presenter, row ScoredRow) []any {
	result := p.Present(model.Prediction{Response: row.Response})
	return []any{
		row.Row,
		string(row.Response.RiskLevel),
		result.ScoreText,
		result.PredictionLabel,
		result.ConfidenceText,
		result.Tier.Recommendation,
	}
}

// WriteXLSX writes one sheet of predictions and, when present, one sheet of
// rejected rows.
func WriteXLSX(w io.Writer, summary Summary, p *presenter.Presenter) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", predictionsSheet); err != nil {
		return fmt.Errorf("batch: name sheet: %w", err)
	}
	if err := setRow(f, predictionsSheet, 1, reportHeader); err != nil {
		return err
	}
	for i, row := range summary.Scored {
		if err := setRow(f, predictionsSheet, i+2, reportRow(p, row)); err != nil {
			return err
		}
	}

	if len(summary.Invalid) > 0 {
		if _, err := f.NewSheet(invalidSheet); err != nil {
			return fmt.Errorf("batch: add sheet: %w", err)
		}
		if err := setRow(f, invalidSheet, 1, []any{"Row", "Problems"}); err != nil {
			return err
		}
		for i, rowErr := range summary.Invalid {
			values := []any{rowErr.Row}
			for _, msg := range rowErr.Messages {
				values = append(values, msg)
			}
			if err := setRow(f, invalidSheet, i+2, values); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("batch: write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("batch: write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// WriteText prints an aligned table of predictions followed by the rejected
// rows and totals.
func WriteText(w io.Writer, summary Summary, p *presenter.Presenter) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tRISK\tSCORE\tPREDICTION\tCONFIDENCE")
	for _, row := range summary.Scored {
		values := reportRow(p, row)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", values[0], values[1], values[2], values[3], values[4])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rowErr := range summary.Invalid {
		fmt.Fprintf(w, "skipped %s\n", rowErr)
	}
	_, err := fmt.Fprintf(w, "%d rows, %d scored, %d skipped, %d high risk (%.1fms)\n",
		summary.Rows, len(summary.Scored), len(summary.Invalid), summary.HighRiskCount, summary.ProcessingTimeMS)
	return err
}
