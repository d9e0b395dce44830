package infra

// pdf.go: per-operation receipt rendered with go-pdf/fpdf.
// Receipt-sized page (74mm × 140mm) with:
//   - operation type, date and source
//   - money / liters and the balance snapshot
//   - distribution table for Consumo
//
// Files are written to storagePath/operacion_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"flota/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarComprobantePDF writes the receipt of op and returns its path.
// fuente is the human label of the card or reservoir.
func GenerarComprobantePDF(op *model.OperacionCombustible, fuente, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("operacion_%s.pdf", op.ID))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, "Flota", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Operación de combustible"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	unidad := "$"
	if op.ReservorioID != nil {
		unidad = "L"
	}

	fila := func(label, valor string) {
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW*0.45, 4.5, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(contentW*0.55, 4.5, tr(valor), "", 1, "R", false, 0, "")
	}

	fila("Tipo:", op.TipoOperacion)
	fila("Fecha:", op.Fecha.Format("02/01/2006 15:04"))
	fila("Fuente:", fuente)
	if op.UbicacionCupet != nil && *op.UbicacionCupet != "" {
		fila("Cupet:", *op.UbicacionCupet)
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	fila("Valor:", unidad+" "+op.ValorOperacionDinero.StringFixed(2))
	fila("Litros:", op.ValorOperacionLitros.StringFixed(2))
	fila("Saldo inicial:", op.SaldoInicio.StringFixed(2))
	fila("Saldo final:", op.SaldoFinal.StringFixed(2))
	fila("Saldo final (L):", op.SaldoFinalLitros.StringFixed(2))

	// ── Distribución ─────────────────────────────────────────────────────────
	if len(op.Distribuciones) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(contentW*0.7, 5, "Destino", "B", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.3, 5, "Litros", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 6.5)
		for _, d := range op.Distribuciones {
			destino := ""
			switch {
			case d.VehiculoID != nil:
				destino = "Vehículo " + d.VehiculoID.String()[:8]
			case d.ReservorioID != nil:
				destino = "Reservorio " + d.ReservorioID.String()[:8]
			}
			pdf.CellFormat(contentW*0.7, 4.5, tr(destino), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentW*0.3, 4.5, d.Litros.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	if op.Descripcion != nil && *op.Descripcion != "" {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 6.5)
		pdf.MultiCell(contentW, 3.5, tr(*op.Descripcion), "", "L", false)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 6)
	pdf.CellFormat(contentW, 4, op.ID.String(), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
