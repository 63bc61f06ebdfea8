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

type AddressDTO struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	RoadID    string    `json:"roadId"`
	SubRoadID *string   `json:"subRoadId"`
	Member    string    `json:"member"`
	CreatedAt time.Time `json:"createdAt"`
}

type AddressUpsertRequest struct {
	Address   string  `json:"address"`
	RoadID    string  `json:"roadId"`
	SubRoadID *string `json:"subRoadId"`
	Member    string  `json:"member"`
}

func addressToDTO(addr models.Address) AddressDTO {
	return AddressDTO{
		ID:        addr.ID,
		Address:   addr.Address,
		RoadID:    addr.RoadID,
		SubRoadID: addr.SubRoadID,
		Member:    addr.Member,
		CreatedAt: addr.CreatedAt,
	}
}

func (s *Server) ListAddresses(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListAddresses()
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

func (s *Server) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	address, err := services.NormalizeRequired(req.Address, "Address is required")
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
	exists, err := s.Store.AddressExists(address, roadID, subRoadID, "")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "This address already exists at this location")
		return
	}
	addr := models.Address{
		ID:        uuid.NewString(),
		Address:   address,
		RoadID:    roadID,
		SubRoadID: subRoadID,
		Member:    req.Member,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.InsertAddress(addr); err != nil {
		writeStoreError(w, err, "Address not found", "This address already exists at this location")
		return
	}
	s.audit(r, services.ActionCreate, "address", addr.ID, "Created address "+addr.Address)
	WriteJSON(w, http.StatusCreated, addressToDTO(addr))
}

func (s *Server) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "addressId")
	var req AddressUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	address, err := services.NormalizeRequired(req.Address, "Address is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	addr, err := s.Store.GetAddress(id)
	if err != nil {
		writeStoreError(w, err, "Address not found", "")
		return
	}
	exists, err := s.Store.AddressExists(address, addr.RoadID, addr.SubRoadID, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		WriteError(w, http.StatusConflict, "This address already exists at this location")
		return
	}
	addr.Address = address
	addr.Member = req.Member
	if err := s.Store.UpdateAddress(addr); err != nil {
		writeStoreError(w, err, "Address not found", "This address already exists at this location")
		return
	}
	s.audit(r, services.ActionUpdate, "address", id, "Updated address "+address)
	WriteJSON(w, http.StatusOK, addressToDTO(addr))
}

func (s *Server) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "addressId")
	addr, err := s.Store.GetAddress(id)
	if err != nil {
		writeStoreError(w, err, "Address not found", "")
		return
	}

	var households, lamps int
	var g errgroup.Group
	g.Go(func() error {
		var err error
		households, err = s.Store.CountActiveHouseholdsByAddress(id)
		return err
	})
	g.Go(func() error {
		var err error
		lamps, err = s.Store.CountActiveLampsByAddress(id)
		return err
	})
	if err := g.Wait(); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	switch {
	case households > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete address: households still reference it")
		return
	case lamps > 0:
		WriteError(w, http.StatusBadRequest, "Cannot delete address: road lamps still reference it")
		return
	}
	if err := s.Store.SoftDeleteAddress(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "address", id, "Deleted address "+addr.Address)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Address deleted"})
}
