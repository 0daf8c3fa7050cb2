package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/go-pdf/fpdf"
)

var columns = []struct {
	title string
	width float64
}{
	{"Time", 20},
	{"Guest", 60},
	{"Mobile", 40},
	{"People", 18},
	{"Status", 24},
	{"Table", 28},
}

// ReservationSheet renders the host stand's printable list for one date.
// tables maps a reservation id to the name of the table it occupies.
func ReservationSheet(date string, reservations []models.Reservation, tables map[uint]string, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Reservations %s", date), true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Reservations for %s", date)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", generatedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range columns {
			pdf.CellFormat(col.width, 8, col.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	covers := 0
	for _, r := range reservations {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header()
		}
		row := []string{
			r.ReservationTime,
			tr(r.FirstName + " " + r.LastName),
			tr(r.MobileNumber),
			fmt.Sprintf("%d", r.People),
			string(r.Status),
			tr(tables[r.ID]),
		}
		for i, col := range columns {
			pdf.CellFormat(col.width, 7, row[i], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
		covers += r.People
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	if len(reservations) == 0 {
		pdf.CellFormat(0, 7, "No reservations.", "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 7, fmt.Sprintf("%d reservations, %d covers", len(reservations), covers), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render reservation sheet: %w", err)
	}
	return buf.Bytes(), nil
}
