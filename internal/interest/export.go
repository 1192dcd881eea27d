package interest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/VybCoding/OneWonderLake/internal/utils"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

var exportHeader = []string{
	"Name", "Email", "Address", "Phone", "Notes", "Source",
	"Interested", "Email Sent", "Unsubscribed", "Submitted",
}

// WriteXLSX renders parties as a single-sheet workbook.
func WriteXLSX(out io.Writer, parties []InterestedParty) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Interested Parties")
	if err != nil {
		return eris.Wrap(err, "interest: add sheet")
	}

	addRow(sheet, exportHeader)
	for _, p := range parties {
		addRow(sheet, []string{
			p.Name,
			p.Email,
			p.Address,
			deref(p.Phone),
			deref(p.Notes),
			p.Source,
			interestedLabel(p.Interested),
			strconv.FormatBool(p.EmailSent),
			strconv.FormatBool(p.Unsubscribed),
			p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if err := f.Write(out); err != nil {
		return eris.Wrap(err, "interest: write workbook")
	}
	return nil
}

func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("export interested parties", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to export interested parties")
		return
	}

	name := fmt.Sprintf("interested-parties-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := WriteXLSX(w, rows); err != nil {
		h.log.Error("write export", zap.Error(err))
	}
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func interestedLabel(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
