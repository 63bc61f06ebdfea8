package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"village-records-backend-go/internal/config"
	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/services"
	"village-records-backend-go/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	st := store.NewMemory()
	cfg := config.Config{
		JWTSecret:            "test-secret",
		JWTIssuer:            "village-records",
		TokenTTLHours:        24,
		AdminUsername:        "admin",
		AdminDevPassword:     "admin123",
		MetricsSampleSeconds: 30,
	}
	hub := services.NewAdminHub()
	activity := services.NewActivityLogger(st, hub)
	return NewServer(st, cfg, activity, hub), st
}

func doJSON(t *testing.T, handler http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func seedRoad(t *testing.T, st *store.Memory, name string) models.Road {
	t.Helper()
	road := models.Road{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.InsertRoad(road))
	return road
}

func seedSubRoad(t *testing.T, st *store.Memory, roadID, name string) models.SubRoad {
	t.Helper()
	subRoad := models.SubRoad{ID: uuid.NewString(), Name: name, RoadID: roadID, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.InsertSubRoad(subRoad))
	return subRoad
}

func seedAddress(t *testing.T, st *store.Memory, roadID string) models.Address {
	t.Helper()
	addr := models.Address{ID: uuid.NewString(), Address: "No. 1", RoadID: roadID, CreatedAt: time.Now().UTC()}
	require.NoError(t, st.InsertAddress(addr))
	return addr
}

func seedHousehold(t *testing.T, st *store.Memory, addressID string) models.Household {
	t.Helper()
	hh := models.Household{
		ID:               uuid.NewString(),
		AddressID:        addressID,
		AssessmentNumber: "A-1",
		ResidentType:     "owner",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, st.InsertHouseholdWithMembers(hh, nil))
	return hh
}

func TestCreateRoad(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/roads", map[string]string{"name": "Temple Road"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created RoadDTO
	decodeBody(t, rec, &created)
	assert.Equal(t, "Temple Road", created.Name)
	assert.NotEmpty(t, created.ID)

	rec = doJSON(t, router, http.MethodPost, "/api/roads", map[string]string{"name": "temple road"})
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "A road with this name already exists", errResp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/roads", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRoadGuarded(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	seedSubRoad(t, st, road.ID, "First Lane")

	rec := doJSON(t, router, http.MethodDelete, "/api/roads/"+road.ID, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Cannot delete road: sub-roads still reference it", errResp.Error)

	// The guard must leave the road untouched.
	_, err := st.GetRoad(road.ID)
	assert.NoError(t, err)
}

func TestDeleteRoadWithoutDependents(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")

	rec := doJSON(t, router, http.MethodDelete, "/api/roads/"+road.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp MessageResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Road deleted", resp.Message)

	_, err := st.GetRoad(road.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateAddressDuplicate(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")

	payload := map[string]interface{}{"address": "No. 5", "roadId": road.ID, "member": "K. Perera"}
	rec := doJSON(t, router, http.MethodPost, "/api/addresses", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/addresses", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "This address already exists at this location", errResp.Error)
}

func TestAddressScopedToSubRoad(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	subRoad := seedSubRoad(t, st, road.ID, "First Lane")

	rec := doJSON(t, router, http.MethodPost, "/api/addresses",
		map[string]interface{}{"address": "No. 5", "roadId": road.ID, "member": "A"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same number on the lane is a different location, not a duplicate.
	rec = doJSON(t, router, http.MethodPost, "/api/addresses",
		map[string]interface{}{"address": "No. 5", "roadId": road.ID, "subRoadId": subRoad.ID, "member": "B"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/roads/"+road.ID+"/addresses", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mainAddrs []AddressDTO
	decodeBody(t, rec, &mainAddrs)
	require.Len(t, mainAddrs, 1)
	assert.Nil(t, mainAddrs[0].SubRoadID)
}

func TestProjectValidation(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	subRoad := seedSubRoad(t, st, road.ID, "First Lane")

	payload := func(width, height, cost float64) map[string]interface{} {
		return map[string]interface{}{
			"name":              "Resurfacing",
			"parentSubRoadId":   subRoad.ID,
			"width":             width,
			"height":            height,
			"costPerSqFt":       cost,
			"developmentStatus": "undeveloped",
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/road-development", payload(0, 20, 5))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Width, height and cost per square foot must be positive", errResp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/road-development", payload(10, 20, 5))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created ProjectDTO
	decodeBody(t, rec, &created)
	assert.Equal(t, 200.0, created.SquareFeet)
	assert.Equal(t, 1000.0, created.TotalCost)
	assert.Equal(t, road.ID, created.RoadID, "road id derived from the parent sub-road")
}

func TestProjectRoutesAnswerOnBothPrefixes(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	for _, prefix := range []string{"/api/road-development", "/api/sub-sub-roads"} {
		rec := doJSON(t, router, http.MethodGet, prefix, nil)
		assert.Equal(t, http.StatusOK, rec.Code, prefix)
	}
}

func TestLogin(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Invalid username or password", errResp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "admin123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp LoginResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.User.IsAdmin)
	assert.Equal(t, "admin", resp.User.Username)

	username, err := server.Tokens.VerifyAdminToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLoginMissingFields(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Username and password are required", errResp.Error)
}

func TestFailedLoginRecordsAuditEntry(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.Activity.Run(ctx)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var entries []models.ActivityLogEntry
	require.Eventually(t, func() bool {
		rows, err := st.ListActivityLogs(store.ActivityLogFilter{Limit: 10})
		if err != nil || len(rows) != 1 {
			return false
		}
		entries = rows
		return true
	}, 2*time.Second, 10*time.Millisecond)

	entry := entries[0]
	assert.Equal(t, services.ActionLogin, entry.ActionType)
	assert.Equal(t, "admin", entry.Username)
	metadata := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(entry.Metadata, &metadata))
	assert.Equal(t, false, metadata["success"])
}

func TestMemberAgeValidation(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)
	hh := seedHousehold(t, st, addr.ID)

	payload := func(age int, nic string) map[string]interface{} {
		return map[string]interface{}{
			"householdId":     hh.ID,
			"fullName":        "Test Person",
			"nameWithInitial": "T. Person",
			"nic":             nic,
			"gender":          "male",
			"age":             age,
			"occupation":      "farmer",
		}
	}

	rec := doJSON(t, router, http.MethodPost, "/api/members", payload(151, "NIC-1"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Age must be between 0 and 150", errResp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/members", payload(150, "NIC-1"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/members", payload(30, "nic-1"))
	require.Equal(t, http.StatusConflict, rec.Code)
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "A member with this NIC already exists", errResp.Error)
}

func TestHouseholdCreateWithMembers(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)

	member := func(name, nic string) map[string]interface{} {
		return map[string]interface{}{
			"fullName":        name,
			"nameWithInitial": name,
			"nic":             nic,
			"gender":          "female",
			"age":             30,
			"occupation":      "teacher",
			"offersReceiving": "samurdhi",
		}
	}
	rec := doJSON(t, router, http.MethodPost, "/api/households", map[string]interface{}{
		"addressId":        addr.ID,
		"assessmentNumber": "A-200",
		"residentType":     "owner",
		"wasteDisposal":    "collected",
		"members":          []interface{}{member("One", "NIC-A"), member("Two", "NIC-B")},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created HouseholdWithMembersDTO
	decodeBody(t, rec, &created)
	require.Len(t, created.Members, 2)
	assert.Equal(t, []string{"samurdhi"}, created.Members[0].OffersReceiving,
		"singleton offer coerced to a list")

	rec = doJSON(t, router, http.MethodGet, "/api/members", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []MemberListItemDTO
	decodeBody(t, rec, &list)
	require.Len(t, list, 2)
	for _, row := range list {
		assert.Equal(t, "A-200", row.AssessmentNumber)
		assert.Equal(t, "owner", row.ResidentType)
	}
}

func TestUpdateMemberRejectsUnknownHousehold(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)
	hh := seedHousehold(t, st, addr.ID)

	member := models.Member{
		ID:          uuid.NewString(),
		HouseholdID: hh.ID,
		FullName:    "Test Person",
		NIC:         "NIC-MOVE",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.InsertMember(member))

	payload := map[string]interface{}{
		"householdId":     uuid.NewString(),
		"fullName":        "Test Person",
		"nameWithInitial": "T. Person",
		"nic":             "NIC-MOVE",
		"gender":          "male",
		"age":             30,
		"occupation":      "farmer",
	}
	rec := doJSON(t, router, http.MethodPut, "/api/members/"+member.ID, payload)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Household not found", errResp.Error)

	// The rejected move leaves the member where it was.
	stored, err := st.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, hh.ID, stored.HouseholdID)

	rec = doJSON(t, router, http.MethodGet, "/api/members", nil)
	var list []MemberListItemDTO
	decodeBody(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestUpdateMemberMovesToExistingHousehold(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)
	hh := seedHousehold(t, st, addr.ID)
	other := models.Household{
		ID:               uuid.NewString(),
		AddressID:        addr.ID,
		AssessmentNumber: "A-2",
		ResidentType:     "tenant",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	require.NoError(t, st.InsertHouseholdWithMembers(other, nil))

	member := models.Member{
		ID:          uuid.NewString(),
		HouseholdID: hh.ID,
		FullName:    "Test Person",
		NIC:         "NIC-MOVE",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.InsertMember(member))

	rec := doJSON(t, router, http.MethodPut, "/api/members/"+member.ID, map[string]interface{}{
		"householdId":     other.ID,
		"fullName":        "Test Person",
		"nameWithInitial": "T. Person",
		"nic":             "NIC-MOVE",
		"gender":          "male",
		"age":             30,
		"occupation":      "farmer",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := st.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, stored.HouseholdID)
}

func TestHouseholdCreateRejectsDuplicateNICInBatch(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)

	member := func(name, nic string) map[string]interface{} {
		return map[string]interface{}{
			"fullName":        name,
			"nameWithInitial": name,
			"nic":             nic,
			"gender":          "male",
			"age":             40,
			"occupation":      "farmer",
		}
	}
	rec := doJSON(t, router, http.MethodPost, "/api/households", map[string]interface{}{
		"addressId":        addr.ID,
		"assessmentNumber": "A-400",
		"residentType":     "owner",
		"members":          []interface{}{member("One", "NIC-DUP"), member("Two", "nic-dup")},
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "A member with this NIC already exists", errResp.Error)

	households, err := st.ListHouseholds()
	require.NoError(t, err)
	assert.Empty(t, households)
	members, err := st.ListMembers()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestHouseholdCreateRejectsBadMember(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)

	rec := doJSON(t, router, http.MethodPost, "/api/households", map[string]interface{}{
		"addressId":        addr.ID,
		"assessmentNumber": "A-300",
		"residentType":     "owner",
		"members": []interface{}{map[string]interface{}{
			"fullName":        "No NIC",
			"nameWithInitial": "N. NIC",
			"gender":          "male",
			"age":             20,
			"occupation":      "farmer",
		}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing persisted: the household insert is all-or-nothing.
	rows, err := st.ListHouseholds()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeletedMemberStillFetchable(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	addr := seedAddress(t, st, road.ID)
	hh := seedHousehold(t, st, addr.ID)

	member := models.Member{
		ID:          uuid.NewString(),
		HouseholdID: hh.ID,
		FullName:    "Gone Person",
		NIC:         "NIC-GONE",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.InsertMember(member))

	rec := doJSON(t, router, http.MethodDelete, "/api/members/"+member.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/members", nil)
	var list []MemberListItemDTO
	decodeBody(t, rec, &list)
	assert.Empty(t, list)

	rec = doJSON(t, router, http.MethodGet, "/api/members/"+member.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched MemberDTO
	decodeBody(t, rec, &fetched)
	assert.True(t, fetched.IsDeleted)
}

func TestLampStatusPatch(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	road := seedRoad(t, st, "Temple Road")
	subRoad := seedSubRoad(t, st, road.ID, "First Lane")
	addr := seedAddress(t, st, road.ID)

	lamp := models.RoadLamp{
		ID:         uuid.NewString(),
		LampNumber: "LP-001",
		RoadID:     road.ID,
		SubRoadID:  subRoad.ID,
		AddressID:  addr.ID,
		Status:     models.LampWorking,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	require.NoError(t, st.InsertLamp(lamp))

	rec := doJSON(t, router, http.MethodPatch, "/api/road-lamps/"+lamp.ID+"/status",
		map[string]string{"status": "flickering"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/road-lamps/"+lamp.ID+"/status",
		map[string]string{"status": "broken"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := st.GetLamp(lamp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LampBroken, stored.Status)
}

func TestActivityLogsRequireAuth(t *testing.T) {
	server, _ := newTestServer(t)
	router := server.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/activity-logs", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var errResp ErrorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "Authentication required", errResp.Error)

	req := httptest.NewRequest(http.MethodGet, "/api/activity-logs", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	bad := httptest.NewRecorder()
	router.ServeHTTP(bad, req)
	require.Equal(t, http.StatusUnauthorized, bad.Code)

	token, _, err := server.Tokens.CreateToken("admin")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/activity-logs?recent_logins=true", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	ok := httptest.NewRecorder()
	router.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)
}

func TestDashboardStats(t *testing.T) {
	server, st := newTestServer(t)
	router := server.Router()
	seedRoad(t, st, "Temple Road")

	rec := doJSON(t, router, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts store.DashboardCounts
	decodeBody(t, rec, &counts)
	assert.Equal(t, 1, counts.Roads)

	rec = doJSON(t, router, http.MethodGet, "/api/dashboard/member-stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats services.MemberStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, 0, stats.Total)
	assert.Contains(t, stats.ByAgeGroup, "56+")
}
