package store

import (
	"testing"
	"time"

	"village-records-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoad(name string) models.Road {
	return models.Road{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
}

func newSubRoad(roadID, name string) models.SubRoad {
	return models.SubRoad{ID: uuid.NewString(), Name: name, RoadID: roadID, CreatedAt: time.Now().UTC()}
}

func newAddress(roadID string, subRoadID *string, address string) models.Address {
	return models.Address{
		ID:        uuid.NewString(),
		Address:   address,
		RoadID:    roadID,
		SubRoadID: subRoadID,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemorySoftDeleteRoad(t *testing.T) {
	m := NewMemory()
	road := newRoad("Temple Road")
	require.NoError(t, m.InsertRoad(road))

	require.NoError(t, m.SoftDeleteRoad(road.ID))

	rows, err := m.ListRoads()
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = m.GetRoad(road.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The name becomes reusable after the delete.
	exists, err := m.RoadNameExists("temple road", "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryRoadNameExists(t *testing.T) {
	m := NewMemory()
	road := newRoad("Temple Road")
	require.NoError(t, m.InsertRoad(road))

	exists, err := m.RoadNameExists("TEMPLE ROAD", "")
	require.NoError(t, err)
	assert.True(t, exists, "check is case-insensitive")

	exists, err = m.RoadNameExists("Temple Road", road.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the road itself is excluded on update")
}

func TestMemoryAddressSubRoadFiltering(t *testing.T) {
	m := NewMemory()
	road := newRoad("Temple Road")
	require.NoError(t, m.InsertRoad(road))
	subRoad := newSubRoad(road.ID, "First Lane")
	require.NoError(t, m.InsertSubRoad(subRoad))

	mainAddr := newAddress(road.ID, nil, "No. 1")
	laneAddr := newAddress(road.ID, &subRoad.ID, "No. 1")
	require.NoError(t, m.InsertAddress(mainAddr))
	require.NoError(t, m.InsertAddress(laneAddr))

	// nil means addresses directly on the main road, never the subtree.
	rows, err := m.ListAddressesByRoad(road.ID, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, mainAddr.ID, rows[0].ID)

	rows, err = m.ListAddressesByRoad(road.ID, &subRoad.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, laneAddr.ID, rows[0].ID)

	// The same street number can exist on the road and on the lane.
	exists, err := m.AddressExists("No. 1", road.ID, nil, "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = m.AddressExists("No. 1", road.ID, &subRoad.ID, "")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = m.AddressExists("No. 2", road.ID, nil, "")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryNICExists(t *testing.T) {
	m := NewMemory()
	member := models.Member{
		ID:          uuid.NewString(),
		HouseholdID: uuid.NewString(),
		FullName:    "Test Person",
		NIC:         "991234567V",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, m.InsertMember(member))

	exists, err := m.NICExists("991234567v", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.NICExists("991234567V", member.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, m.SoftDeleteMember(member.ID))
	exists, err = m.NICExists("991234567V", "")
	require.NoError(t, err)
	assert.False(t, exists, "deleted members release their NIC")
}

func TestMemoryGetMemberRaw(t *testing.T) {
	m := NewMemory()
	member := models.Member{
		ID:          uuid.NewString(),
		HouseholdID: uuid.NewString(),
		FullName:    "Test Person",
		NIC:         "991234567V",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, m.InsertMember(member))
	require.NoError(t, m.SoftDeleteMember(member.ID))

	_, err := m.GetMember(member.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	raw, err := m.GetMemberRaw(member.ID)
	require.NoError(t, err)
	assert.True(t, raw.IsDeleted)
}

func TestMemoryHouseholdTransaction(t *testing.T) {
	m := NewMemory()
	hh := models.Household{
		ID:               uuid.NewString(),
		AddressID:        uuid.NewString(),
		AssessmentNumber: "A-100",
		ResidentType:     "owner",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	members := []models.Member{
		{ID: uuid.NewString(), HouseholdID: hh.ID, FullName: "One", NIC: "NIC1"},
		{ID: uuid.NewString(), HouseholdID: hh.ID, FullName: "Two", NIC: "NIC2"},
	}
	require.NoError(t, m.InsertHouseholdWithMembers(hh, members))

	count, err := m.CountActiveMembersByHousehold(hh.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rows, err := m.ListMembers()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "A-100", row.AssessmentNumber)
		assert.Equal(t, "owner", row.ResidentType)
	}
}

func TestMemoryListMembersSkipsDeletedHousehold(t *testing.T) {
	m := NewMemory()
	hh := models.Household{
		ID:               uuid.NewString(),
		AddressID:        uuid.NewString(),
		AssessmentNumber: "A-1",
		ResidentType:     "owner",
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}
	members := []models.Member{
		{ID: uuid.NewString(), HouseholdID: hh.ID, FullName: "One", NIC: "NIC1"},
	}
	require.NoError(t, m.InsertHouseholdWithMembers(hh, members))
	require.NoError(t, m.SoftDeleteHousehold(hh.ID))

	rows, err := m.ListMembers()
	require.NoError(t, err)
	assert.Empty(t, rows, "members under a deleted household drop out of the list")
}

func TestMemoryProjectStats(t *testing.T) {
	m := NewMemory()
	insert := func(status string, totalCost float64) {
		require.NoError(t, m.InsertProject(models.SubSubRoad{
			ID:                uuid.NewString(),
			Name:              uuid.NewString(),
			RoadID:            "r1",
			ParentSubRoadID:   "sr1",
			TotalCost:         totalCost,
			DevelopmentStatus: status,
			CreatedAt:         time.Now().UTC(),
		}))
	}
	insert(models.StatusDeveloped, 100)
	insert(models.StatusUndeveloped, 50)
	insert(models.StatusInProgress, 25)
	insert(models.StatusInProgress, 25)

	stats, err := m.ProjectStats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalProjects)
	assert.Equal(t, 1, stats.DevelopedProjects)
	assert.Equal(t, 1, stats.UndevelopedProjects)
	assert.Equal(t, 2, stats.InProgressProjects)
	assert.Equal(t, 200.0, stats.TotalEstimatedCost)
}

func TestMemoryActivityLogFilters(t *testing.T) {
	m := NewMemory()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	insert := func(username, actionType string, at time.Time) {
		require.NoError(t, m.InsertActivityLog(models.ActivityLogEntry{
			ID:         uuid.NewString(),
			Username:   username,
			ActionType: actionType,
			CreatedAt:  at,
		}))
	}
	insert("admin", "login", base)
	insert("admin", "create", base.Add(time.Hour))
	insert("guest", "login", base.Add(2*time.Hour))

	rows, err := m.ListActivityLogs(ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "guest", rows[0].Username, "newest first")

	rows, err = m.ListActivityLogs(ActivityLogFilter{Username: "admin", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = m.ListActivityLogs(ActivityLogFilter{RecentLogins: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "login", row.ActionType)
	}

	start := base.Add(30 * time.Minute)
	rows, err = m.ListActivityLogs(ActivityLogFilter{StartDate: &start, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = m.ListActivityLogs(ActivityLogFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "create", rows[0].ActionType)
}

func TestMemoryDashboardCounts(t *testing.T) {
	m := NewMemoryWithFixture()
	counts, err := m.DashboardCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Roads)
	assert.Equal(t, 1, counts.SubRoads)
	assert.Equal(t, 1, counts.Addresses)
	assert.Equal(t, 1, counts.Lamps)
	assert.Equal(t, 1, counts.LampsWorking)
	assert.Equal(t, 0, counts.LampsBroken)
}
