package handlers

import (
	"backend/models"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Workbook layout for structure imports: one "Recintos" sheet with the
// rooms, plus one sheet per construction category. Category rows reference
// their room by name.
const (
	sheetRooms    = "Recintos"
	sheetWalls    = "Muros"
	sheetFloors   = "Pisos"
	sheetCeilings = "Cielos"
	sheetDoors    = "Puertas"
	sheetWindows  = "Ventanas"
)

// ImportStructure godoc
// @Summary      Import a building structure from XLSX
// @Description  Parses an uploaded workbook into a BuildingStructure ready to post to the build endpoint. Nothing is created on the calc backend.
// @Tags         import
// @Accept       multipart/form-data
// @Produce      json
// @Param        project_id  path      int   true  "Project ID"
// @Param        file        formData  file  true  "XLSX workbook"
// @Success      200  {object}  models.ImportStructureResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projects/{project_id}/structure/import [post]
func ImportStructure() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireSession(c); !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file", "details": err.Error()})
			return
		}

		// Keep a copy of the uploaded workbook for audit when a directory
		// is configured.
		if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
			archived := filepath.Join(uploadDir, uuid.NewString()+".xlsx")
			if err := c.SaveUploadedFile(fileHeader, archived); err != nil {
				log.Printf("failed to archive uploaded workbook: %v", err)
			}
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file", "details": err.Error()})
			return
		}
		defer file.Close()

		workbook, err := excelize.OpenReader(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid XLSX file", "details": err.Error()})
			return
		}
		defer workbook.Close()

		structure, warnings, err := ParseStructureWorkbook(workbook)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse workbook", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.ImportStructureResponse{
			Structure: structure,
			Rooms:     len(structure.Rooms),
			Warnings:  warnings,
		})
	}
}

// ParseStructureWorkbook turns an XLSX workbook into a BuildingStructure.
// Rows referencing an unknown room are skipped with a warning rather than
// failing the whole import.
func ParseStructureWorkbook(workbook *excelize.File) (models.BuildingStructure, []string, error) {
	var structure models.BuildingStructure
	var warnings []string

	roomRows, err := workbook.GetRows(sheetRooms)
	if err != nil {
		return structure, nil, fmt.Errorf("missing sheet %q: %v", sheetRooms, err)
	}

	roomIndex := make(map[string]int)
	for i, row := range roomRows {
		if i == 0 || len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue // header and blank rows
		}

		room := models.Room{
			ID:   len(structure.Rooms) + 1,
			Name: strings.TrimSpace(row[0]),
		}
		room.Properties.Code = cellAt(row, 1)
		room.Properties.RoomType = cellAt(row, 2)
		room.Properties.Level = cellAt(row, 3)
		room.Properties.AverageHeight = floatAt(row, 4)
		room.Properties.SurfaceArea = floatAt(row, 5)
		room.Properties.Volume = floatAt(row, 6)
		room.Properties.WallAvgHeight = floatAt(row, 7)

		if _, exists := roomIndex[room.Name]; exists {
			warnings = append(warnings, fmt.Sprintf("duplicate room %q on sheet %s, row %d skipped", room.Name, sheetRooms, i+1))
			continue
		}
		roomIndex[room.Name] = len(structure.Rooms)
		structure.Rooms = append(structure.Rooms, room)
	}

	if len(structure.Rooms) == 0 {
		return structure, nil, fmt.Errorf("sheet %q has no rooms", sheetRooms)
	}

	categories := []struct {
		sheet  string
		assign func(room *models.Room, group models.ConstructionGroup)
	}{
		{sheetWalls, func(r *models.Room, g models.ConstructionGroup) { r.Details.Walls = appendGroup(r.Details.Walls, g) }},
		{sheetFloors, func(r *models.Room, g models.ConstructionGroup) { r.Details.Floors = appendGroup(r.Details.Floors, g) }},
		{sheetCeilings, func(r *models.Room, g models.ConstructionGroup) { r.Details.Ceilings = appendGroup(r.Details.Ceilings, g) }},
		{sheetDoors, func(r *models.Room, g models.ConstructionGroup) { r.Details.Doors = appendGroup(r.Details.Doors, g) }},
		{sheetWindows, func(r *models.Room, g models.ConstructionGroup) { r.Details.Windows = appendGroup(r.Details.Windows, g) }},
	}

	for _, category := range categories {
		rows, err := workbook.GetRows(category.sheet)
		if err != nil {
			continue // category sheets are optional
		}

		for i, row := range rows {
			if i == 0 || len(row) < 3 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			roomName := strings.TrimSpace(row[0])
			idx, ok := roomIndex[roomName]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("sheet %s row %d references unknown room %q", category.sheet, i+1, roomName))
				continue
			}

			element := models.Element{
				Name:      cellAt(row, 2),
				Material:  cellAt(row, 3),
				Thickness: floatAt(row, 4),
			}
			if area := floatPtrAt(row, 5); area != nil {
				element.Area = area
			}
			if orientation := floatPtrAt(row, 6); orientation != nil {
				element.Orientation = orientation
			}
			if width := floatPtrAt(row, 7); width != nil {
				element.Width = width
			}
			if height := floatPtrAt(row, 8); height != nil {
				element.Height = height
			}

			group := models.ConstructionGroup{
				Code:     cellAt(row, 1),
				Elements: []models.Element{element},
			}
			category.assign(&structure.Rooms[idx], group)
		}
	}

	return structure, warnings, nil
}

// appendGroup merges an element into an existing group with the same code
// or appends a new group.
func appendGroup(groups []models.ConstructionGroup, group models.ConstructionGroup) []models.ConstructionGroup {
	for i := range groups {
		if groups[i].Code == group.Code {
			groups[i].Elements = append(groups[i].Elements, group.Elements...)
			return groups
		}
	}
	return append(groups, group)
}

func cellAt(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func floatAt(row []string, index int) float64 {
	value, err := strconv.ParseFloat(strings.ReplaceAll(cellAt(row, index), ",", "."), 64)
	if err != nil {
		return 0
	}
	return value
}

func floatPtrAt(row []string, index int) *float64 {
	raw := cellAt(row, index)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &value
}
