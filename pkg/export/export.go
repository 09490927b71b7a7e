// Package export renders case documents as PDFs: a single-case card and a
// tabular roster of the whole collection.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"simak/models"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
)

// CaseCardFileName derives the download name from the person's name,
// e.g. Data_Hukum_Budi_Santoso.pdf.
func CaseCardFileName(nama string) string {
	return "Data_Hukum_" + strings.Join(strings.Fields(nama), "_") + ".pdf"
}

// RosterFileName stamps the roster download with the given date.
func RosterFileName(t time.Time) string {
	return "Rekap_Pelanggaran_Brigif4DR_" + t.Format("2006-01-02") + ".pdf"
}

// embedLogo draws the logo at the given position when logoPath resolves to
// a decodable image; a missing or broken logo is ignored.
func embedLogo(pdf *fpdf.Fpdf, logoPath string, x, y, w float64) {
	if logoPath == "" {
		return
	}
	img, err := imaging.Open(logoPath)
	if err != nil {
		return
	}
	// keep the embedded image small; the PDF cell is ~2cm
	img = imaging.Fit(img, 256, 256, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("unit-logo", opts, &buf)
	pdf.ImageOptions("unit-logo", x, y, w, 0, false, opts, 0, "")
}

// CaseCardPDF renders one record as an A4 portrait data card: header with
// logo and unit title, identity/status table, kronologis block, issue date.
func CaseCardPDF(rec models.ViolationRecord, unitTitle, logoPath string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	embedLogo(pdf, logoPath, 95, 12, 20)
	pdf.SetY(34)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 8, tr("KARTU DATA PELANGGARAN HUKUM"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, tr(strings.ToUpper(unitTitle)), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(45, 58, 42)
	pdf.SetLineWidth(0.6)
	pdf.Line(20, pdf.GetY()+3, 190, pdf.GetY()+3)
	pdf.Ln(10)

	status := rec.Status
	if rec.KetTindakan != "" {
		status = fmt.Sprintf("%s (%s)", rec.Status, rec.KetTindakan)
	}
	perkara := rec.Perkara
	if rec.Pasal != "" {
		perkara = fmt.Sprintf("%s - %s", rec.Perkara, rec.Pasal)
	}
	rows := [][2]string{
		{"Nama Lengkap", rec.Nama},
		{"Pangkat / NRP", rec.Pangkat + " / " + rec.NRP},
		{"Jabatan / Satuan", rec.Jabatan + " / " + rec.Satuan},
		{"Jenis Perkara", perkara},
		{"Tanggal Kejadian", rec.Tanggal},
		{"Status Hukum", status},
	}
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 9, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 9, tr(": "+row[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, tr("KRONOLOGIS SINGKAT:"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(249, 249, 249)
	pdf.MultiCell(0, 6, tr(rec.Kronologis), "1", "J", true)

	pdf.Ln(14)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 5, tr("Dikeluarkan secara sistem pada: "+time.Now().Format("02-01-2006")), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RosterPDF renders the full collection as an A4 landscape table, one row
// per record in store order.
func RosterPDF(records []models.ViolationRecord, unitTitle string) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr("REKAPITULASI PELANGGARAN HUKUM"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, tr(strings.ToUpper(unitTitle)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"No", "Nama / Pkt / NRP", "Satuan", "Perkara", "Status", "Tanggal"}
	widths := []float64{12, 80, 45, 70, 40, 30}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(45, 58, 42)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range records {
		perkara := r.Perkara
		if r.Pasal != "" {
			perkara = r.Perkara + " - " + r.Pasal
		}
		status := r.Status
		if r.KetTindakan != "" {
			status = r.Status + " (" + r.KetTindakan + ")"
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%s (%s / %s)", r.Nama, r.Pangkat, r.NRP),
			r.Satuan,
			perkara,
			status,
			r.Tanggal,
		}
		aligns := []string{"C", "L", "L", "L", "L", "C"}
		for j, cell := range cells {
			pdf.CellFormat(widths[j], 7, tr(cell), "1", 0, aligns[j], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, tr("Dicetak pada: "+time.Now().Format("02-01-2006 15:04")), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
