package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/document"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-server/pkg/errors"
)

const (
	formatTable = "table"
	formatPlain = "plain"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatPlain:
		return nil
	default:
		return apperrors.Newf(apperrors.ErrInvalidArgument, "unknown output format %q (want %s or %s)", format, formatTable, formatPlain)
	}
}

func renderPage(w io.Writer, format string, docs []document.Document) {
	if format == formatPlain {
		for _, d := range docs {
			fmt.Fprintln(w, d)
		}
		return
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{
			strconv.Itoa(d.ID),
			strconv.FormatFloat(d.Relevance, 'g', 6, 64),
			strconv.Itoa(d.Rating),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"document_id", "relevance", "rating"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
