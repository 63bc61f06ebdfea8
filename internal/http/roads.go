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

type RoadDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type RoadUpsertRequest struct {
	Name string `json:"name"`
}

func roadToDTO(road models.Road) RoadDTO {
	return RoadDTO{ID: road.ID, Name: road.Name, CreatedAt: road.CreatedAt}
}

func (s *Server) ListRoads(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListRoads()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]RoadDTO, 0, len(rows))
	for _, road := range rows {
		items = append(items, roadToDTO(road))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) CreateRoad(w http.ResponseWriter, r *http.Request) {
	var req RoadUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Road name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	exists, err := s.Store.RoadNameExists(name, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A road with this name already exists")
		return
	}
	road := models.Road{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	if err := s.Store.InsertRoad(road); err != nil {
		writeStoreError(w, err, "Road not found", "A road with this name already exists")
		return
	}
	s.audit(r, services.ActionCreate, "road", road.ID, "Created road "+road.Name)
	WriteJSON(w, http.StatusCreated, roadToDTO(road))
}

func (s *Server) UpdateRoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roadId")
	var req RoadUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.Name, "Road name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	road, err := s.Store.GetRoad(id)
	if err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}
	exists, err := s.Store.RoadNameExists(name, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A road with this name already exists")
		return
	}
	if err := s.Store.UpdateRoad(id, name); err != nil {
		writeStoreError(w, err, "Road not found", "A road with this name already exists")
		return
	}
	road.Name = name
	s.audit(r, services.ActionUpdate, "road", id, "Updated road "+name)
	WriteJSON(w, http.StatusOK, roadToDTO(road))
}

// DeleteRoad refuses to delete a road that still has active sub-roads,
// lamps or households. The three dependency checks run concurrently;
// the soft delete only happens when all of them come back empty.
func (s *Server) DeleteRoad(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "roadId")
	road, err := s.Store.GetRoad(id)
	if err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}

	var subRoads, lamps, households int
	var g errgroup.Group
	g.Go(func() error {
		var err error
		subRoads, err = s.Store.CountActiveSubRoads(id)
		return err
	})
	g.Go(func() error {
		var err error
		lamps, err = s.Store.CountActiveLampsByRoad(id)
		return err
	})
	g.Go(func() error {
		var err error
		households, err = s.Store.CountActiveHouseholdsByRoad(id)
		return err
	})
	if err := g.Wait(); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	switch {
	case subRoads > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete road: sub-roads still reference it")
		return
	case lamps > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete road: road lamps still reference it")
		return
	case households > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete road: households still reference it")
		return
	}
	if err := s.Store.SoftDeleteRoad(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "road", id, "Deleted road "+road.Name)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Road deleted"})
}

func (s *Server) ListRoadSubRoads(w http.ResponseWriter, r *http.Request) {
	roadID := chi.URLParam(r, "roadId")
	if _, err := s.Store.GetRoad(roadID); err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}
	rows, err := s.Store.ListSubRoadsByRoad(roadID)
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

// ListMainRoadAddresses returns only the addresses attached directly to
// the road (sub_road_id IS NULL), never the whole subtree.
func (s *Server) ListMainRoadAddresses(w http.ResponseWriter, r *http.Request) {
	roadID := chi.URLParam(r, "roadId")
	if _, err := s.Store.GetRoad(roadID); err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}
	rows, err := s.Store.ListAddressesByRoad(roadID, nil)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AddressDTO, 0, len(rows))
	for _, addr := range rows {
		items = append(items, addressToDTO(addr))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) ListSubRoadAddresses(w http.ResponseWriter, r *http.Request) {
	roadID := chi.URLParam(r, "roadId")
	subRoadID := chi.URLParam(r, "subRoadId")
	if _, err := s.Store.GetSubRoad(subRoadID); err != nil {
		writeStoreError(w, err, "Sub-road not found", "")
		return
	}
	rows, err := s.Store.ListAddressesByRoad(roadID, &subRoadID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]AddressDTO, 0, len(rows))
	for _, addr := range rows {
		items = append(items, addressToDTO(addr))
	}
	WriteJSON(w, http.StatusOK, items)
}

// audit queues a best-effort activity entry for a mutating request.
func (s *Server) audit(r *http.Request, action, resourceType, resourceID, description string) {
	s.Activity.Record(services.ActivityEvent{
		Username:     s.Config.AdminUsername,
		ActionType:   action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Description:  description,
		IPAddress:    resolveClientIP(r),
		UserAgent:    r.Header.Get("User-Agent"),
	})
}
