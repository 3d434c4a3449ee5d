package handlers

import (
	"backend/storage"
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// GenerateBuildRunPDF godoc
// @Summary      Generate a PDF summary of a build run
// @Tags         reports
// @Param        run_code  path  string  true  "Build run code"
// @Success      200  "PDF file"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/build_runs/{run_code}/report [get]
func GenerateBuildRunPDF(gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		runCode := c.Param("run_code")
		if runCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run_code"})
			return
		}

		titleCaser := cases.Title(language.Und)

		run, err := storage.GetBuildRunByCode(gormDB, runCode)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Build run not found", "details": err.Error()})
			return
		}

		pdf := gofpdf.New("P", "mm", "A4", "")
		pdf.SetMargins(15, 15, 15)
		pdf.AddPage()

		// --- Header ---
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, "Informe de Creacion de Estructura", "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Run %s - Proyecto %d", run.RunCode, run.ProjectID), "", 1, "C", false, 0, "")
		pdf.Ln(6)

		// --- Summary block ---
		outcome := "Fallido"
		if run.Success {
			outcome = "Exitoso"
		}
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Format(time.RFC3339)
		}

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 7, "Resultado", "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, outcome, "1", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 7, "Recintos procesados", "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%d / %d", run.CompletedRooms, run.TotalRooms), "1", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 7, "Validado", "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, titleCaser.String(fmt.Sprintf("%t", run.Validated)), "1", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 7, "Inicio", "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, run.StartedAt.Format(time.RFC3339), "1", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 7, "Termino", "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, finished, "1", 1, "L", false, 0, "")
		pdf.Ln(8)

		// --- Error table ---
		records := run.ErrorRecords()
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Errores (%d)", len(records)), "", 1, "L", false, 0, "")

		if len(records) == 0 {
			pdf.SetFont("Arial", "I", 10)
			pdf.CellFormat(0, 7, "Sin errores registrados.", "", 1, "L", false, 0, "")
		} else {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetFillColor(230, 230, 230)
			pdf.CellFormat(80, 7, "Contexto", "1", 0, "L", true, 0, "")
			pdf.CellFormat(0, 7, "Mensaje", "1", 1, "L", true, 0, "")

			pdf.SetFont("Arial", "", 9)
			for _, record := range records {
				pdf.CellFormat(80, 6, truncate(record.Context, 52), "1", 0, "L", false, 0, "")
				pdf.CellFormat(0, 6, truncate(record.Message, 70), "1", 1, "L", false, 0, "")
			}
		}

		var buf bytes.Buffer
		if err := pdf.Output(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=build_run_%s.pdf", run.RunCode))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
