package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProjectDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	RoadID            string    `json:"roadId"`
	ParentSubRoadID   string    `json:"parentSubRoadId"`
	Width             float64   `json:"width"`
	Height            float64   `json:"height"`
	SquareFeet        float64   `json:"squareFeet"`
	CostPerSqFt       float64   `json:"costPerSqFt"`
	TotalCost         float64   `json:"totalCost"`
	DevelopmentStatus string    `json:"developmentStatus"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ProjectUpsertRequest carries only the three cost scalars; any
// squareFeet/totalCost the client sends is ignored.
type ProjectUpsertRequest struct {
	Name              string   `json:"name"`
	RoadID            string   `json:"roadId"`
	ParentSubRoadID   string   `json:"parentSubRoadId"`
	Width             *float64 `json:"width"`
	Height            *float64 `json:"height"`
	CostPerSqFt       *float64 `json:"costPerSqFt"`
	DevelopmentStatus string   `json:"developmentStatus"`
}

func projectToDTO(project models.SubSubRoad) ProjectDTO {
	return ProjectDTO{
		ID:                project.ID,
		Name:              project.Name,
		RoadID:            project.RoadID,
		ParentSubRoadID:   project.ParentSubRoadID,
		Width:             project.Width,
		Height:            project.Height,
		SquareFeet:        project.SquareFeet,
		CostPerSqFt:       project.CostPerSqFt,
		TotalCost:         project.TotalCost,
		DevelopmentStatus: project.DevelopmentStatus,
		CreatedAt:         project.CreatedAt,
	}
}

func validateProjectScalars(req ProjectUpsertRequest) (width, height, costPerSqFt float64, status string, err error) {
	if req.Width == nil || req.Height == nil || req.CostPerSqFt == nil {
		return 0, 0, 0, "", services.ErrBadRequest("Width, height and cost per square foot are required")
	}
	if *req.Width <= 0 || *req.Height <= 0 || *req.CostPerSqFt <= 0 {
		return 0, 0, 0, "", services.ErrBadRequest("Width, height and cost per square foot must be positive")
	}
	status, ok := services.ValidDevelopmentStatus(req.DevelopmentStatus)
	if !ok {
		return 0, 0, 0, "", services.ErrBadRequest("Development status must be undeveloped, in_progress or developed")
	}
	return *req.Width, *req.Height, *req.CostPerSqFt, status, nil
}

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListProjects()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ProjectDTO, 0, len(rows))
	for _, project := range rows {
		items = append(items, projectToDTO(project))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Project name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	parentID, err := services.NormalizeRequired(req.ParentSubRoadID, "Parent sub-road id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	width, height, costPerSqFt, status, err := validateProjectScalars(req)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	subRoad, err := s.Store.GetSubRoad(parentID)
	if err != nil {
		writeStoreError(w, err, "Parent sub-road not found", "")
		return
	}
	exists, err := s.Store.ProjectNameExists(parentID, name, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A project with this name already exists under this sub-road")
		return
	}
	squareFeet, totalCost := services.ComputeProjectCosts(width, height, costPerSqFt)
	project := models.SubSubRoad{
		ID:                uuid.NewString(),
		Name:              name,
		RoadID:            subRoad.RoadID,
		ParentSubRoadID:   parentID,
		Width:             width,
		Height:            height,
		SquareFeet:        squareFeet,
		CostPerSqFt:       costPerSqFt,
		TotalCost:         totalCost,
		DevelopmentStatus: status,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.Store.InsertProject(project); err != nil {
		writeStoreError(w, err, "Parent sub-road not found", "A project with this name already exists under this sub-road")
		return
	}
	s.audit(r, services.ActionCreate, "road_development", project.ID, "Created development project "+project.Name)
	WriteJSON(w, http.StatusCreated, projectToDTO(project))
}

func (s *Server) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectId")
	var req ProjectUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Project name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	width, height, costPerSqFt, status, err := validateProjectScalars(req)
	if err != nil {
		writeStoreError(w, err, "", "")
		return
	}
	project, err := s.Store.GetProject(id)
	if err != nil {
		writeStoreError(w, err, "Project not found", "")
		return
	}
	exists, err := s.Store.ProjectNameExists(project.ParentSubRoadID, name, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A project with this name already exists under this sub-road")
		return
	}
	squareFeet, totalCost := services.ComputeProjectCosts(width, height, costPerSqFt)
	project.Name = name
	project.Width = width
	project.Height = height
	project.SquareFeet = squareFeet
	project.CostPerSqFt = costPerSqFt
	project.TotalCost = totalCost
	project.DevelopmentStatus = status
	if err := s.Store.UpdateProject(project); err != nil {
		writeStoreError(w, err, "Project not found", "A project with this name already exists under this sub-road")
		return
	}
	s.audit(r, services.ActionUpdate, "road_development", id, "Updated development project "+name)
	WriteJSON(w, http.StatusOK, projectToDTO(project))
}

func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectId")
	project, err := s.Store.GetProject(id)
	if err != nil {
		writeStoreError(w, err, "Project not found", "")
		return
	}
	if err := s.Store.SoftDeleteProject(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "road_development", id, "Deleted development project "+project.Name)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Project deleted"})
}

func (s *Server) ProjectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Store.ProjectStats()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
