package handlers

import (
	"backend/models"
	"backend/services"
	"backend/storage"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartStructureBuild godoc
// @Summary      Start a building-structure build run
// @Description  Materializes the posted building structure on the calculation backend. With validate=true the run is gated by a read-only material validation pass first. The build runs asynchronously; poll the status endpoint with the returned run code.
// @Tags         structure
// @Accept       json
// @Produce      json
// @Param        project_id  path   int                       true  "Project ID"
// @Param        validate    query  bool                      false "Gate the run with the validation pass"
// @Param        body        body   models.BuildingStructure  true  "Building structure"
// @Success      202  {object}  models.StartBuildResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      409  {object}  models.ErrorResponse
// @Router       /api/projects/{project_id}/structure [post]
func StartStructureBuild(svc *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireSession(c); !ok {
			return
		}

		projectID, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}

		var structure models.BuildingStructure
		if err := c.ShouldBindJSON(&structure); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}
		if len(structure.Rooms) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Structure has no rooms"})
			return
		}

		if status, _, ok := svc.Status(projectID); ok && status.InProgress {
			c.JSON(http.StatusConflict, gin.H{"error": "A build is already running for this project"})
			return
		}

		validate := c.Query("validate") == "true"

		runCode := svc.StartBuild(projectID, structure, validate)
		c.JSON(http.StatusAccepted, models.StartBuildResponse{
			RunCode:   runCode,
			ProjectID: projectID,
			Message:   "Structure build started",
		})
	}
}

// ValidateStructure godoc
// @Summary      Validate a building structure
// @Description  Runs the read-only material validation pass across all rooms without creating anything.
// @Tags         structure
// @Accept       json
// @Produce      json
// @Param        project_id  path  int                       true  "Project ID"
// @Param        body        body  models.BuildingStructure  true  "Building structure"
// @Success      200  {object}  models.StructureValidation
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /api/projects/{project_id}/structure/validate [post]
func ValidateStructure(svc *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireSession(c); !ok {
			return
		}

		projectID, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}

		var structure models.BuildingStructure
		if err := c.ShouldBindJSON(&structure); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
			return
		}

		validation := svc.ValidateStructure(c.Request.Context(), projectID, structure)
		c.JSON(http.StatusOK, validation)
	}
}

// GetStructureStatus godoc
// @Summary      Poll the status of a build run
// @Tags         structure
// @Produce      json
// @Param        project_id  path  int  true  "Project ID"
// @Success      200  {object}  models.CreationStatus
// @Failure      404  {object}  models.ErrorResponse
// @Router       /api/projects/{project_id}/structure/status [get]
func GetStructureStatus(svc *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireSession(c); !ok {
			return
		}

		projectID, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}

		status, runCode, ok := svc.Status(projectID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "No build run for this project"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"run_code": runCode, "status": status})
	}
}

// ListBuildRuns godoc
// @Summary      List a project's build runs
// @Tags         structure
// @Produce      json
// @Param        project_id  path   int  true   "Project ID"
// @Param        limit       query  int  false  "Max runs to return"
// @Success      200  {array}   models.BuildRunResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /api/projects/{project_id}/build_runs [get]
func ListBuildRuns(gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireSession(c); !ok {
			return
		}

		projectID, err := strconv.Atoi(c.Param("project_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id"})
			return
		}

		limit := 20
		if raw := c.Query("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		runs, err := storage.ListBuildRuns(gormDB, projectID, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list build runs", "details": err.Error()})
			return
		}

		responses := make([]models.BuildRunResponse, 0, len(runs))
		for i := range runs {
			responses = append(responses, runs[i].ToResponse())
		}
		c.JSON(http.StatusOK, responses)
	}
}
