// Package export writes enriched leads to CSV, JSON, or XLSX files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// header is the column order shared by the CSV and XLSX formats.
var header = []string{
	"Company Name", "Website", "Description", "Industry", "Region",
	"Contact Name", "Contact Email", "Contact Position", "Contact Phone",
}

// Write dispatches on the path extension: .json, .xlsx, or CSV for
// everything else.
func Write(path string, companies []model.EnrichedCompany) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return WriteJSON(path, companies)
	case ".xlsx":
		return WriteXLSX(path, companies)
	default:
		return WriteCSV(path, companies)
	}
}

// WriteCSV writes one row per company with blank contact cells for
// contactless companies.
func WriteCSV(path string, companies []model.EnrichedCompany) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, c := range companies {
		if err := w.Write(row(c)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

// WriteJSON writes the companies as an indented JSON array.
func WriteJSON(path string, companies []model.EnrichedCompany) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(companies), "export: encode json")
}

// WriteXLSX writes a single-sheet workbook with the same layout as the CSV.
func WriteXLSX(path string, companies []model.EnrichedCompany) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}
	for _, c := range companies {
		r := sheet.AddRow()
		for _, v := range row(c) {
			r.AddCell().SetString(v)
		}
	}

	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

func row(c model.EnrichedCompany) []string {
	out := []string{c.CompanyName, c.Website, c.Description, c.Industry, c.Region, "", "", "", ""}
	if c.Contact != nil {
		out[5] = c.Contact.Name
		out[6] = c.Contact.Email
		out[7] = c.Contact.Position
		out[8] = c.Contact.Phone
	}
	return out
}
