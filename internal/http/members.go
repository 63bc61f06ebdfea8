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

type MemberDTO struct {
	ID              string    `json:"id"`
	HouseholdID     string    `json:"householdId"`
	FullName        string    `json:"fullName"`
	NameWithInitial string    `json:"nameWithInitial"`
	MemberType      string    `json:"memberType"`
	NIC             string    `json:"nic"`
	Gender          string    `json:"gender"`
	Age             int       `json:"age"`
	Occupation      string    `json:"occupation"`
	SchoolName      *string   `json:"schoolName,omitempty"`
	Grade           *string   `json:"grade,omitempty"`
	UniversityName  *string   `json:"universityName,omitempty"`
	OtherOccupation *string   `json:"otherOccupation,omitempty"`
	OffersReceiving []string  `json:"offersReceiving"`
	IsDisabled      bool      `json:"isDisabled"`
	LandHouseStatus string    `json:"landHouseStatus"`
	WhatsappNumber  *string   `json:"whatsappNumber,omitempty"`
	IsDrugUser      bool      `json:"isDrugUser"`
	IsThief         bool      `json:"isThief"`
	IsDeleted       bool      `json:"isDeleted"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// MemberListItemDTO is the flattened list row: the member plus the
// parent household's registration fields.
type MemberListItemDTO struct {
	MemberDTO
	ResidentType     string `json:"residentType"`
	AssessmentNumber string `json:"assessmentNumber"`
	WasteDisposal    string `json:"wasteDisposal"`
}

type MemberUpsertRequest struct {
	HouseholdID     string          `json:"householdId"`
	FullName        string          `json:"fullName"`
	NameWithInitial string          `json:"nameWithInitial"`
	MemberType      string          `json:"memberType"`
	NIC             string          `json:"nic"`
	Gender          string          `json:"gender"`
	Age             *int            `json:"age"`
	Occupation      string          `json:"occupation"`
	SchoolName      *string         `json:"schoolName"`
	Grade           *string         `json:"grade"`
	UniversityName  *string         `json:"universityName"`
	OtherOccupation *string         `json:"otherOccupation"`
	OffersReceiving json.RawMessage `json:"offersReceiving"`
	IsDisabled      bool            `json:"isDisabled"`
	LandHouseStatus string          `json:"landHouseStatus"`
	WhatsappNumber  *string         `json:"whatsappNumber"`
	IsDrugUser      bool            `json:"isDrugUser"`
	IsThief         bool            `json:"isThief"`
}

func memberToDTO(member models.Member) MemberDTO {
	offers := []string{}
	if len(member.OffersReceiving) > 0 {
		_ = json.Unmarshal(member.OffersReceiving, &offers)
	}
	return MemberDTO{
		ID:              member.ID,
		HouseholdID:     member.HouseholdID,
		FullName:        member.FullName,
		NameWithInitial: member.NameWithInitial,
		MemberType:      member.MemberType,
		NIC:             member.NIC,
		Gender:          member.Gender,
		Age:             member.Age,
		Occupation:      member.Occupation,
		SchoolName:      member.SchoolName,
		Grade:           member.Grade,
		UniversityName:  member.UniversityName,
		OtherOccupation: member.OtherOccupation,
		OffersReceiving: offers,
		IsDisabled:      member.IsDisabled,
		LandHouseStatus: member.LandHouseStatus,
		WhatsappNumber:  member.WhatsappNumber,
		IsDrugUser:      member.IsDrugUser,
		IsThief:         member.IsThief,
		IsDeleted:       member.IsDeleted,
		CreatedAt:       member.CreatedAt,
		UpdatedAt:       member.UpdatedAt,
	}
}

// buildMember validates a member payload and assembles the row. The
// NIC duplicate check runs globally over active members, excluding the
// member itself on update.
func (s *Server) buildMember(req MemberUpsertRequest, householdID, excludeID string) (models.Member, error) {
	fullName, err := services.NormalizeRequired(req.FullName, "Full name is required")
	if err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	nameWithInitial, err := services.NormalizeRequired(req.NameWithInitial, "Name with initial is required")
	if err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	nic, err := services.NormalizeRequired(req.NIC, "NIC is required")
	if err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	gender, err := services.NormalizeRequired(req.Gender, "Gender is required")
	if err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	occupation, err := services.NormalizeRequired(req.Occupation, "Occupation is required")
	if err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	if req.Age == nil {
		return models.Member{}, services.ErrBadRequest("Age is required")
	}
	if err := services.ValidateAge(*req.Age); err != nil {
		return models.Member{}, services.ErrBadRequest(err.Error())
	}
	exists, err := s.Store.NICExists(nic, excludeID)
	if err != nil {
		return models.Member{}, err
	}
	if exists {
		return models.Member{}, services.ErrConflict("A member with this NIC already exists")
	}
	offers, err := json.Marshal(services.CoerceOffers(req.OffersReceiving))
	if err != nil {
		return models.Member{}, err
	}
	now := time.Now().UTC()
	id := excludeID
	if id == "" {
		id = uuid.NewString()
	}
	return models.Member{
		ID:              id,
		HouseholdID:     householdID,
		FullName:        fullName,
		NameWithInitial: nameWithInitial,
		MemberType:      req.MemberType,
		NIC:             nic,
		Gender:          gender,
		Age:             *req.Age,
		Occupation:      occupation,
		SchoolName:      trimPtr(req.SchoolName),
		Grade:           trimPtr(req.Grade),
		UniversityName:  trimPtr(req.UniversityName),
		OtherOccupation: trimPtr(req.OtherOccupation),
		OffersReceiving: offers,
		IsDisabled:      req.IsDisabled,
		LandHouseStatus: req.LandHouseStatus,
		WhatsappNumber:  trimPtr(req.WhatsappNumber),
		IsDrugUser:      req.IsDrugUser,
		IsThief:         req.IsThief,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListMembers()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]MemberListItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, MemberListItemDTO{
			MemberDTO:        memberToDTO(row.Member),
			ResidentType:     row.ResidentType,
			AssessmentNumber: row.AssessmentNumber,
			WasteDisposal:    row.WasteDisposal,
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

// GetMember resolves by raw id without the soft-delete filter, so a
// deleted member still comes back with isDeleted=true.
func (s *Server) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "memberId")
	member, err := s.Store.GetMemberRaw(id)
	if err != nil {
		writeStoreError(w, err, "Member not found", "")
		return
	}
	WriteJSON(w, http.StatusOK, memberToDTO(member))
}

func (s *Server) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req MemberUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	householdID, err := services.NormalizeRequired(req.HouseholdID, "Household id is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := s.Store.GetHousehold(householdID); err != nil {
		writeStoreError(w, err, "Household not found", "")
		return
	}
	member, err := s.buildMember(req, householdID, "")
	if err != nil {
		writeStoreError(w, err, "", "A member with this NIC already exists")
		return
	}
	if err := s.Store.InsertMember(member); err != nil {
		writeStoreError(w, err, "Member not found", "A member with this NIC already exists")
		return
	}
	s.audit(r, services.ActionCreate, "member", member.ID, "Registered member "+member.FullName)
	WriteJSON(w, http.StatusCreated, memberToDTO(member))
}

func (s *Server) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "memberId")
	var req MemberUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	current, err := s.Store.GetMember(id)
	if err != nil {
		writeStoreError(w, err, "Member not found", "")
		return
	}
	householdID := current.HouseholdID
	if trimmed, err := services.NormalizeRequired(req.HouseholdID, ""); err == nil && trimmed != householdID {
		if _, err := s.Store.GetHousehold(trimmed); err != nil {
			writeStoreError(w, err, "Household not found", "")
			return
		}
		householdID = trimmed
	}
	member, err := s.buildMember(req, householdID, id)
	if err != nil {
		writeStoreError(w, err, "", "A member with this NIC already exists")
		return
	}
	member.CreatedAt = current.CreatedAt
	if err := s.Store.UpdateMember(member); err != nil {
		writeStoreError(w, err, "Member not found", "A member with this NIC already exists")
		return
	}
	s.audit(r, services.ActionUpdate, "member", id, "Updated member "+member.FullName)
	WriteJSON(w, http.StatusOK, memberToDTO(member))
}

func (s *Server) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "memberId")
	member, err := s.Store.GetMember(id)
	if err != nil {
		writeStoreError(w, err, "Member not found", "")
		return
	}
	if err := s.Store.SoftDeleteMember(id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.audit(r, services.ActionDelete, "member", id, "Deleted member "+member.FullName)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Member deleted"})
}
