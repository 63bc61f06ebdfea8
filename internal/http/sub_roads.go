package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type SubRoadDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoadID    string    `json:"roadId"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubRoadUpsertRequest struct {
	Name   string `json:"name"`
	RoadID string `json:"roadId"`
}

func subRoadToDTO(subRoad models.SubRoad) SubRoadDTO {
	return SubRoadDTO{ID: subRoad.ID, Name: subRoad.Name, RoadID: subRoad.RoadID, CreatedAt: subRoad.CreatedAt}
}

func (s *Server) ListSubRoads(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListSubRoads()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]SubRoadDTO, 0, len(rows))
	for _, subRoad := range rows {
		items = append(items, subRoadToDTO(subRoad))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateSubRoad(w http.ResponseWriter, r *http.Request) {
	var req SubRoadUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Sub-road name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	roadID, err := services.NormalizeRequired(req.RoadID, "Road id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.Store.GetRoad(roadID); err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}
	exists, err := s.Store.SubRoadNameExists(roadID, name, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A sub-road with this name already exists under this road")
		return
	}
	subRoad := models.SubRoad{ID: uuid.NewString(), Name: name, RoadID: roadID, CreatedAt: time.Now().UTC()}
	if err := s.Store.InsertSubRoad(subRoad); err != nil {
		writeStoreError(w, err, "Sub-road not found", "A sub-road with this name already exists under this road")
		return
	}
	s.audit(r, services.ActionCreate, "sub_road", subRoad.ID, "Created sub-road "+subRoad.Name)
	WriteJSON(w, http.StatusCreated, subRoadToDTO(subRoad))
}

func (s *Server) UpdateSubRoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subRoadId")
	var req SubRoadUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Sub-road name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	subRoad, err := s.Store.GetSubRoad(id)
	if err != nil {
		writeStoreError(w, err, "Sub-road not found", "")
		return
	}
	exists, err := s.Store.SubRoadNameExists(subRoad.RoadID, name, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A sub-road with this name already exists under this road")
		return
	}
	if err := s.Store.UpdateSubRoad(id, name); err != nil {
		writeStoreError(w, err, "Sub-road not found", "A sub-road with this name already exists under this road")
		return
	}
	subRoad.Name = name
	s.audit(r, services.ActionUpdate, "sub_road", id, "Updated sub-road "+name)
	WriteJSON(w, http.StatusOK, subRoadToDTO(subRoad))
}

func (s *Server) DeleteSubRoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subRoadId")
	subRoad, err := s.Store.GetSubRoad(id)
	if err != nil {
		writeStoreError(w, err, "Sub-road not found", "")
		return
	}

	var addresses, projects, lamps, businesses int
	var g errgroup.Group
	g.Go(func() error {
		var err error
		addresses, err = s.Store.CountActiveAddressesBySubRoad(id)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.Store.CountActiveProjectsBySubRoad(id)
		return err
	})
	g.Go(func() error {
		var err error
		lamps, err = s.Store.CountActiveLampsBySubRoad(id)
		return err
	})
	g.Go(func() error {
		var err error
		businesses, err = s.Store.CountActiveBusinessesBySubRoad(id)
		return err
	})
	if err := g.Wait(); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	switch {
	case addresses > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete sub-road: addresses still reference it")
		return
	case projects > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete sub-road: development projects still reference it")
		return
	case lamps > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete sub-road: road lamps still reference it")
		return
	case businesses > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete sub-road: businesses still reference it")
		return
	}
	if err := s.Store.SoftDeleteSubRoad(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "sub_road", id, "Deleted sub-road "+subRoad.Name)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Sub-road deleted"})
}
