package handlers

import (
	"backend/storage"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"gorm.io/gorm"
)

// addLabel adds text to an image at the specified position
func addLabel(img *image.RGBA, x, y int, label string, bold bool) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16
	if bold {
		face = inconsolata.Bold8x16
	}

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// GenerateBuildRunQR godoc
// @Summary      Generate a labeled QR code for a build run's tracking page
// @Tags         qr
// @Param        run_code  path  string  true  "Build run code"
// @Success      200  {file}  file  "JPEG image"
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/build_runs/{run_code}/qr [get]
func GenerateBuildRunQR(gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		runCode := c.Param("run_code")
		if runCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing run_code"})
			return
		}

		run, err := storage.GetBuildRunByCode(gormDB, runCode)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Build run not found", "details": err.Error()})
			return
		}

		baseURL := os.Getenv("APP_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}
		trackingURL := fmt.Sprintf("%s/build_runs/%s", baseURL, run.RunCode)

		qrImage, err := qrcode.New(trackingURL, qrcode.Medium)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code", "details": err.Error()})
			return
		}

		const qrSize = 256
		const footer = 48
		canvas := image.NewRGBA(image.Rect(0, 0, qrSize, qrSize+footer))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(canvas, image.Rect(0, 0, qrSize, qrSize), qrImage.Image(qrSize), image.Point{}, draw.Src)

		addLabel(canvas, 12, qrSize+18, "Run: "+run.RunCode, true)
		addLabel(canvas, 12, qrSize+36, fmt.Sprintf("Proyecto %d - %d/%d recintos", run.ProjectID, run.CompletedRooms, run.TotalRooms), false)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode image", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=build_run_%s.jpg", run.RunCode))
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
