package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type HouseholdDTO struct {
	ID               string    `json:"id"`
	AddressID        string    `json:"addressId"`
	AssessmentNumber string    `json:"assessmentNumber"`
	ResidentType     string    `json:"residentType"`
	WasteDisposal    string    `json:"wasteDisposal"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type HouseholdCreateRequest struct {
	AddressID        string                `json:"addressId"`
	AssessmentNumber string                `json:"assessmentNumber"`
	ResidentType     string                `json:"residentType"`
	WasteDisposal    string                `json:"wasteDisposal"`
	Members          []MemberUpsertRequest `json:"members"`
}

type HouseholdUpdateRequest struct {
	AssessmentNumber string `json:"assessmentNumber"`
	ResidentType     string `json:"residentType"`
	WasteDisposal    string `json:"wasteDisposal"`
}

type HouseholdWithMembersDTO struct {
	HouseholdDTO
	Members []MemberDTO `json:"members"`
}

func householdToDTO(hh models.Household) HouseholdDTO {
	return HouseholdDTO{
		ID:               hh.ID,
		AddressID:        hh.AddressID,
		AssessmentNumber: hh.AssessmentNumber,
		ResidentType:     hh.ResidentType,
		WasteDisposal:    hh.WasteDisposal,
		CreatedAt:        hh.CreatedAt,
		UpdatedAt:        hh.UpdatedAt,
	}
}

func (s *Server) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListHouseholds()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]HouseholdDTO, 0, len(rows))
	for _, hh := range rows {
		items = append(items, householdToDTO(hh))
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) GetHousehold(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "householdId")
	hh, err := s.Store.GetHousehold(id)
	if err != nil {
		writeStoreError(w, err, "Household not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, householdToDTO(hh))
}

// CreateHousehold registers a household and its initial members in a
// single transaction. When any member fails validation nothing is
// persisted.
func (s *Server) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req HouseholdCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	addressID, err := services.NormalizeRequired(req.AddressID, "Address id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	assessmentNumber, err := services.NormalizeRequired(req.AssessmentNumber, "Assessment number is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	residentType, err := services.NormalizeRequired(req.ResidentType, "Resident type is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.Store.GetAddress(addressID); err != nil {
		writeStoreError(w, err, "Address not found", "")
		return
	}

	now := time.Now().UTC()
	hh := models.Household{
		ID:               uuid.NewString(),
		AddressID:        addressID,
		AssessmentNumber: assessmentNumber,
		ResidentType:     residentType,
		WasteDisposal:    req.WasteDisposal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	members := make([]models.Member, 0, len(req.Members))
	seenNICs := map[string]bool{}
	for _, memberReq := range req.Members {
		member, err := s.buildMember(memberReq, hh.ID, "")
		if err != nil {
			writeStoreError(w, err, "", "A member with this NIC already exists")
			return
		}
		// NICExists only consults the store; repeats within the batch
		// are caught here.
		nicKey := strings.ToLower(member.NIC)
		if seenNICs[nicKey] {
			WriteError(w, http.StatusConflict, "A member with this NIC already exists")
			return
		}
		seenNICs[nicKey] = true
		members = append(members, member)
	}
	if err := s.Store.InsertHouseholdWithMembers(hh, members); err != nil {
		writeStoreError(w, err, "Address not found", "A member with this NIC already exists")
		return
	}
	s.audit(r, services.ActionCreate, "household", hh.ID, "Registered household "+hh.AssessmentNumber)
	resp := HouseholdWithMembersDTO{HouseholdDTO: householdToDTO(hh), Members: make([]MemberDTO, 0, len(members))}
	for _, member := range members {
		resp.Members = append(resp.Members, memberToDTO(member))
	}
	WriteJSON(w, http.StatusCreated, resp)
}

func (s *Server) UpdateHousehold(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "householdId")
	var req HouseholdUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	assessmentNumber, err := services.NormalizeRequired(req.AssessmentNumber, "Assessment number is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	residentType, err := services.NormalizeRequired(req.ResidentType, "Resident type is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	hh, err := s.Store.GetHousehold(id)
	if err != nil {
		writeStoreError(w, err, "Household not found", "")
		return
	}
	hh.AssessmentNumber = assessmentNumber
	hh.ResidentType = residentType
	hh.WasteDisposal = req.WasteDisposal
	hh.UpdatedAt = time.Now().UTC()
	if err := s.Store.UpdateHousehold(hh); err != nil {
		writeStoreError(w, err, "Household not found", "")
		return
	}
	s.audit(r, services.ActionUpdate, "household", id, "Updated household "+assessmentNumber)
	WriteJSON(w, http.StatusOK, householdToDTO(hh))
}

func (s *Server) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "householdId")
	hh, err := s.Store.GetHousehold(id)
	if err != nil {
		writeStoreError(w, err, "Household not found", "")
		return
	}
	members, err := s.Store.CountActiveMembersByHousehold(id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if members > 0 {
		WriteError(w, http.StatusBadRequest, "Cannot delete household: members still reference it")
		return
	}
	if err := s.Store.SoftDeleteHousehold(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "household", id, "Deleted household "+hh.AssessmentNumber)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Household deleted"})
}
