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

type BusinessDTO struct {
	ID              string    `json:"id"`
	BusinessName    string    `json:"businessName"`
	BusinessOwner   string    `json:"businessOwner"`
	BusinessType    string    `json:"businessType"`
	BusinessAddress *string   `json:"businessAddress"`
	BusinessPhone   *string   `json:"businessPhone"`
	RoadID          string    `json:"roadId"`
	SubRoadID       *string   `json:"subRoadId"`
	CreatedAt       time.Time `json:"createdAt"`
}

type BusinessUpsertRequest struct {
	BusinessName    string  `json:"businessName"`
	BusinessOwner   string  `json:"businessOwner"`
	BusinessType    string  `json:"businessType"`
	BusinessAddress *string `json:"businessAddress"`
	BusinessPhone   *string `json:"businessPhone"`
	RoadID          string  `json:"roadId"`
	SubRoadID       *string `json:"subRoadId"`
}

func businessToDTO(biz models.Business) BusinessDTO {
	return BusinessDTO{
		ID:              biz.ID,
		BusinessName:    biz.BusinessName,
		BusinessOwner:   biz.BusinessOwner,
		BusinessType:    biz.BusinessType,
		BusinessAddress: biz.BusinessAddress,
		BusinessPhone:   biz.BusinessPhone,
		RoadID:          biz.RoadID,
		SubRoadID:       biz.SubRoadID,
		CreatedAt:       biz.CreatedAt,
	}
}

func (s *Server) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListBusinesses()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]BusinessDTO, 0, len(rows))
	for _, biz := range rows {
		items = append(items, businessToDTO(biz))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessId")
	biz, err := s.Store.GetBusiness(id)
	if err != nil {
		writeStoreError(w, err, "Business not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, businessToDTO(biz))
}

func (s *Server) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req BusinessUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.BusinessName, "Business name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := services.NormalizeRequired(req.BusinessOwner, "Business owner is required")
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
	subRoadID := trimPtr(req.SubRoadID)
	if subRoadID != nil {
		if _, err := s.Store.GetSubRoad(*subRoadID); err != nil {
			writeStoreError(w, err, "Sub-road not found", "")
			return
		}
	}
	businessAddress := trimPtr(req.BusinessAddress)
	exists, err := s.Store.BusinessExists(name, roadID, subRoadID, businessAddress, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "This business is already registered at this location")
		return
	}
	now := time.Now().UTC()
	biz := models.Business{
		ID:              uuid.NewString(),
		BusinessName:    name,
		BusinessOwner:   owner,
		BusinessType:    req.BusinessType,
		BusinessAddress: businessAddress,
		BusinessPhone:   trimPtr(req.BusinessPhone),
		RoadID:          roadID,
		SubRoadID:       subRoadID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Store.InsertBusiness(biz); err != nil {
		writeStoreError(w, err, "Road not found", "This business is already registered at this location")
		return
	}
	s.audit(r, services.ActionCreate, "business", biz.ID, "Registered business "+biz.BusinessName)
	WriteJSON(w, http.StatusCreated, businessToDTO(biz))
}

func (s *Server) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessId")
	var req BusinessUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name, err := services.NormalizeRequired(req.BusinessName, "Business name is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := services.NormalizeRequired(req.BusinessOwner, "Business owner is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	biz, err := s.Store.GetBusiness(id)
	if err != nil {
		writeStoreError(w, err, "Business not found", "")
		return
	}
	businessAddress := trimPtr(req.BusinessAddress)
	exists, err := s.Store.BusinessExists(name, biz.RoadID, biz.SubRoadID, businessAddress, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "This business is already registered at this location")
		return
	}
	biz.BusinessName = name
	biz.BusinessOwner = owner
	biz.BusinessType = req.BusinessType
	biz.BusinessAddress = businessAddress
	biz.BusinessPhone = trimPtr(req.BusinessPhone)
	biz.UpdatedAt = time.Now().UTC()
	if err := s.Store.UpdateBusiness(biz); err != nil {
		writeStoreError(w, err, "Business not found", "This business is already registered at this location")
		return
	}
	s.audit(r, services.ActionUpdate, "business", id, "Updated business "+name)
	WriteJSON(w, http.StatusOK, businessToDTO(biz))
}

func (s *Server) DeleteBusiness(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "businessId")
	biz, err := s.Store.GetBusiness(id)
	if err != nil {
		writeStoreError(w, err, "Business not found", "")
		return
	}
	if err := s.Store.SoftDeleteBusiness(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "business", id, "Deleted business "+biz.BusinessName)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Business deleted"})
}
