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

type RoadLampDTO struct {
	ID         string    `json:"id"`
	LampNumber string    `json:"lampNumber"`
	RoadID     string    `json:"roadId"`
	SubRoadID  string    `json:"subRoadId"`
	AddressID  string    `json:"addressId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type RoadLampUpsertRequest struct {
	LampNumber string `json:"lampNumber"`
	RoadID     string `json:"roadId"`
	SubRoadID  string `json:"subRoadId"`
	AddressID  string `json:"addressId"`
	Status     string `json:"status"`
}

type LampStatusRequest struct {
	Status string `json:"status"`
}

func lampToDTO(lamp models.RoadLamp) RoadLampDTO {
	return RoadLampDTO{
		ID:         lamp.ID,
		LampNumber: lamp.LampNumber,
		RoadID:     lamp.RoadID,
		SubRoadID:  lamp.SubRoadID,
		AddressID:  lamp.AddressID,
		Status:     lamp.Status,
		CreatedAt:  lamp.CreatedAt,
		UpdatedAt:  lamp.UpdatedAt,
	}
}

func validLampStatus(raw string) (string, bool) {
	switch raw {
	case models.LampWorking, models.LampBroken:
		return raw, true
	case "":
		return models.LampWorking, true
	}
	return "", false
}

func (s *Server) ListLamps(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListLamps()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]RoadLampDTO, 0, len(rows))
	for _, lamp := range rows {
		items = append(items, lampToDTO(lamp))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetLamp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lampId")
	lamp, err := s.Store.GetLamp(id)
	if err != nil {
		writeStoreError(w, err, "Road lamp not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, lampToDTO(lamp))
}

func (s *Server) CreateLamp(w http.ResponseWriter, r *http.Request) {
	var req RoadLampUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	lampNumber, err := services.NormalizeRequired(req.LampNumber, "Lamp number is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	roadID, err := services.NormalizeRequired(req.RoadID, "Road id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	subRoadID, err := services.NormalizeRequired(req.SubRoadID, "Sub-road id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	addressID, err := services.NormalizeRequired(req.AddressID, "Address id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, ok := validLampStatus(req.Status)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Status must be working or broken")
		return
	}
	if _, err := s.Store.GetRoad(roadID); err != nil {
		writeStoreError(w, err, "Road not found", "")
		return
	}
	if _, err := s.Store.GetSubRoad(subRoadID); err != nil {
		writeStoreError(w, err, "Sub-road not found", "")
		return
	}
	if _, err := s.Store.GetAddress(addressID); err != nil {
		writeStoreError(w, err, "Address not found", "")
		return
	}
	exists, err := s.Store.LampNumberExists(lampNumber, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A road lamp with this number already exists")
		return
	}
	now := time.Now().UTC()
	lamp := models.RoadLamp{
		ID:         uuid.NewString(),
		LampNumber: lampNumber,
		RoadID:     roadID,
		SubRoadID:  subRoadID,
		AddressID:  addressID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.InsertLamp(lamp); err != nil {
		writeStoreError(w, err, "Road lamp not found", "A road lamp with this number already exists")
		return
	}
	s.audit(r, services.ActionCreate, "road_lamp", lamp.ID, "Installed road lamp "+lamp.LampNumber)
	WriteJSON(w, http.StatusCreated, lampToDTO(lamp))
}

func (s *Server) UpdateLamp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lampId")
	var req RoadLampUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	lampNumber, err := services.NormalizeRequired(req.LampNumber, "Lamp number is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, ok := validLampStatus(req.Status)
	if !ok {
		WriteError(w, http.StatusBadRequest, "Status must be working or broken")
		return
	}
	lamp, err := s.Store.GetLamp(id)
	if err != nil {
		writeStoreError(w, err, "Road lamp not found", "")
		return
	}
	exists, err := s.Store.LampNumberExists(lampNumber, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "A road lamp with this number already exists")
		return
	}
	lamp.LampNumber = lampNumber
	lamp.Status = status
	lamp.UpdatedAt = time.Now().UTC()
	if err := s.Store.UpdateLamp(lamp); err != nil {
		writeStoreError(w, err, "Road lamp not found", "A road lamp with this number already exists")
		return
	}
	s.audit(r, services.ActionUpdate, "road_lamp", id, "Updated road lamp "+lampNumber)
	WriteJSON(w, http.StatusOK, lampToDTO(lamp))
}

// UpdateLampStatus flips only the working/broken flag; everything else
// on the lamp stays as registered.
func (s *Server) UpdateLampStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lampId")
	var req LampStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Status != models.LampWorking && req.Status != models.LampBroken {
		WriteError(w, http.StatusBadRequest, "Status must be working or broken")
		return
	}
	lamp, err := s.Store.GetLamp(id)
	if err != nil {
		writeStoreError(w, err, "Road lamp not found", "")
		return
	}
	if err := s.Store.UpdateLampStatus(id, req.Status); err != nil {
		writeStoreError(w, err, "Road lamp not found", "")
		return
	}
	lamp.Status = req.Status
	lamp.UpdatedAt = time.Now().UTC()
	s.audit(r, services.ActionUpdate, "road_lamp", id, "Marked road lamp "+lamp.LampNumber+" as "+req.Status)
	WriteJSON(w, http.StatusOK, lampToDTO(lamp))
}

func (s *Server) DeleteLamp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lampId")
	lamp, err := s.Store.GetLamp(id)
	if err != nil {
		writeStoreError(w, err, "Road lamp not found", "")
		return
	}
	if err := s.Store.SoftDeleteLamp(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "road_lamp", id, "Removed road lamp "+lamp.LampNumber)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Road lamp deleted"})
}
