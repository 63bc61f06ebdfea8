package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"village-records-backend-go/internal/models"

	"github.com/google/uuid"
)

// Memory is the in-memory fixture backend used when no DATABASE_URL is
// configured, and as the store double in tests. It mirrors the postgres
// semantics: soft-delete filtering on every default read, newest-first
// ordering, case-insensitive natural-key matching.
type Memory struct {
	mu         sync.RWMutex
	roads      map[string]models.Road
	subRoads   map[string]models.SubRoad
	projects   map[string]models.SubSubRoad
	addresses  map[string]models.Address
	households map[string]models.Household
	members    map[string]models.Member
	businesses map[string]models.Business
	lamps      map[string]models.RoadLamp
	logs       []models.ActivityLogEntry
	samples    []models.ServerMetricSample
}

func NewMemory() *Memory {
	return &Memory{
		roads:      map[string]models.Road{},
		subRoads:   map[string]models.SubRoad{},
		projects:   map[string]models.SubSubRoad{},
		addresses:  map[string]models.Address{},
		households: map[string]models.Household{},
		members:    map[string]models.Member{},
		businesses: map[string]models.Business{},
		lamps:      map[string]models.RoadLamp{},
	}
}

// NewMemoryWithFixture seeds the small fixed dataset the UI renders when
// the backend runs without a database.
func NewMemoryWithFixture() *Memory {
	m := NewMemory()
	now := time.Now().UTC()
	roadID := uuid.NewString()
	subRoadID := uuid.NewString()
	addressID := uuid.NewString()
	m.roads[roadID] = models.Road{ID: roadID, Name: "Temple Road", CreatedAt: now.Add(-72 * time.Hour)}
	m.subRoads[subRoadID] = models.SubRoad{ID: subRoadID, Name: "First Lane", RoadID: roadID, CreatedAt: now.Add(-48 * time.Hour)}
	m.addresses[addressID] = models.Address{ID: addressID, Address: "No. 12", RoadID: roadID, SubRoadID: &subRoadID, Member: "K. Perera", CreatedAt: now.Add(-24 * time.Hour)}
	lampID := uuid.NewString()
	m.lamps[lampID] = models.RoadLamp{
		ID: lampID, LampNumber: "LP-001", RoadID: roadID, SubRoadID: subRoadID,
		AddressID: addressID, Status: models.LampWorking,
		CreatedAt: now.Add(-24 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour),
	}
	return m
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func sameSubRoad(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// --- Roads ---

func (m *Memory) ListRoads() ([]models.Road, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.Road{}
	for _, road := range m.roads {
		if !road.IsDeleted {
			rows = append(rows, road)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetRoad(id string) (models.Road, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	road, ok := m.roads[id]
	if !ok || road.IsDeleted {
		return models.Road{}, ErrNotFound
	}
	return road, nil
}

func (m *Memory) RoadNameExists(name, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, road := range m.roads {
		if !road.IsDeleted && road.ID != excludeID && equalFold(road.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertRoad(road models.Road) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roads[road.ID] = road
	return nil
}

func (m *Memory) UpdateRoad(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	road, ok := m.roads[id]
	if !ok || road.IsDeleted {
		return nil
	}
	road.Name = name
	m.roads[id] = road
	return nil
}

func (m *Memory) SoftDeleteRoad(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if road, ok := m.roads[id]; ok {
		road.IsDeleted = true
		m.roads[id] = road
	}
	return nil
}

func (m *Memory) CountActiveSubRoads(roadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, subRoad := range m.subRoads {
		if !subRoad.IsDeleted && subRoad.RoadID == roadID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveLampsByRoad(roadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, lamp := range m.lamps {
		if !lamp.IsDeleted && lamp.RoadID == roadID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveHouseholdsByRoad(roadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, hh := range m.households {
		if hh.IsDeleted {
			continue
		}
		addr, ok := m.addresses[hh.AddressID]
		if ok && !addr.IsDeleted && addr.RoadID == roadID {
			count++
		}
	}
	return count, nil
}

// --- Sub-roads ---

func (m *Memory) ListSubRoads() ([]models.SubRoad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.SubRoad{}
	for _, subRoad := range m.subRoads {
		if !subRoad.IsDeleted {
			rows = append(rows, subRoad)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) ListSubRoadsByRoad(roadID string) ([]models.SubRoad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.SubRoad{}
	for _, subRoad := range m.subRoads {
		if !subRoad.IsDeleted && subRoad.RoadID == roadID {
			rows = append(rows, subRoad)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetSubRoad(id string) (models.SubRoad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	subRoad, ok := m.subRoads[id]
	if !ok || subRoad.IsDeleted {
		return models.SubRoad{}, ErrNotFound
	}
	return subRoad, nil
}

func (m *Memory) SubRoadNameExists(roadID, name, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, subRoad := range m.subRoads {
		if !subRoad.IsDeleted && subRoad.RoadID == roadID && subRoad.ID != excludeID && equalFold(subRoad.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertSubRoad(subRoad models.SubRoad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subRoads[subRoad.ID] = subRoad
	return nil
}

func (m *Memory) UpdateSubRoad(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	subRoad, ok := m.subRoads[id]
	if !ok || subRoad.IsDeleted {
		return nil
	}
	subRoad.Name = name
	m.subRoads[id] = subRoad
	return nil
}

func (m *Memory) SoftDeleteSubRoad(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if subRoad, ok := m.subRoads[id]; ok {
		subRoad.IsDeleted = true
		m.subRoads[id] = subRoad
	}
	return nil
}

func (m *Memory) CountActiveAddressesBySubRoad(subRoadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, addr := range m.addresses {
		if !addr.IsDeleted && addr.SubRoadID != nil && *addr.SubRoadID == subRoadID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveProjectsBySubRoad(subRoadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, project := range m.projects {
		if !project.IsDeleted && project.ParentSubRoadID == subRoadID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveLampsBySubRoad(subRoadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, lamp := range m.lamps {
		if !lamp.IsDeleted && lamp.SubRoadID == subRoadID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveBusinessesBySubRoad(subRoadID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, business := range m.businesses {
		if !business.IsDeleted && business.SubRoadID != nil && *business.SubRoadID == subRoadID {
			count++
		}
	}
	return count, nil
}

// --- Development projects ---

func (m *Memory) ListProjects() ([]models.SubSubRoad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.SubSubRoad{}
	for _, project := range m.projects {
		if !project.IsDeleted {
			rows = append(rows, project)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetProject(id string) (models.SubSubRoad, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	project, ok := m.projects[id]
	if !ok || project.IsDeleted {
		return models.SubSubRoad{}, ErrNotFound
	}
	return project, nil
}

func (m *Memory) ProjectNameExists(parentSubRoadID, name, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, project := range m.projects {
		if !project.IsDeleted && project.ParentSubRoadID == parentSubRoadID &&
			project.ID != excludeID && equalFold(project.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertProject(project models.SubSubRoad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[project.ID] = project
	return nil
}

func (m *Memory) UpdateProject(project models.SubSubRoad) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.projects[project.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	project.RoadID = current.RoadID
	project.ParentSubRoadID = current.ParentSubRoadID
	project.CreatedAt = current.CreatedAt
	m.projects[project.ID] = project
	return nil
}

func (m *Memory) SoftDeleteProject(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if project, ok := m.projects[id]; ok {
		project.IsDeleted = true
		m.projects[id] = project
	}
	return nil
}

func (m *Memory) ProjectStats() (ProjectStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := ProjectStats{}
	for _, project := range m.projects {
		if project.IsDeleted {
			continue
		}
		stats.TotalProjects++
		stats.TotalEstimatedCost += project.TotalCost
		switch project.DevelopmentStatus {
		case models.StatusDeveloped:
			stats.DevelopedProjects++
		case models.StatusInProgress:
			stats.InProgressProjects++
		case models.StatusUndeveloped:
			stats.UndevelopedProjects++
		}
	}
	return stats, nil
}

// --- Addresses ---

func (m *Memory) ListAddresses() ([]models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.Address{}
	for _, addr := range m.addresses {
		if !addr.IsDeleted {
			rows = append(rows, addr)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) ListAddressesByRoad(roadID string, subRoadID *string) ([]models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.Address{}
	for _, addr := range m.addresses {
		if addr.IsDeleted || addr.RoadID != roadID {
			continue
		}
		if sameSubRoad(addr.SubRoadID, subRoadID) {
			rows = append(rows, addr)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetAddress(id string) (models.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, ok := m.addresses[id]
	if !ok || addr.IsDeleted {
		return models.Address{}, ErrNotFound
	}
	return addr, nil
}

func (m *Memory) AddressExists(address, roadID string, subRoadID *string, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, addr := range m.addresses {
		if !addr.IsDeleted && addr.ID != excludeID && addr.RoadID == roadID &&
			sameSubRoad(addr.SubRoadID, subRoadID) && equalFold(addr.Address, address) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertAddress(addr models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addresses[addr.ID] = addr
	return nil
}

func (m *Memory) UpdateAddress(addr models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.addresses[addr.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	current.Address = addr.Address
	current.Member = addr.Member
	m.addresses[addr.ID] = current
	return nil
}

func (m *Memory) SoftDeleteAddress(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if addr, ok := m.addresses[id]; ok {
		addr.IsDeleted = true
		m.addresses[id] = addr
	}
	return nil
}

func (m *Memory) CountActiveHouseholdsByAddress(addressID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, hh := range m.households {
		if !hh.IsDeleted && hh.AddressID == addressID {
			count++
		}
	}
	return count, nil
}

func (m *Memory) CountActiveLampsByAddress(addressID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, lamp := range m.lamps {
		if !lamp.IsDeleted && lamp.AddressID == addressID {
			count++
		}
	}
	return count, nil
}

// --- Households ---

func (m *Memory) ListHouseholds() ([]models.Household, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.Household{}
	for _, hh := range m.households {
		if !hh.IsDeleted {
			rows = append(rows, hh)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetHousehold(id string) (models.Household, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hh, ok := m.households[id]
	if !ok || hh.IsDeleted {
		return models.Household{}, ErrNotFound
	}
	return hh, nil
}

func (m *Memory) InsertHouseholdWithMembers(hh models.Household, members []models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.households[hh.ID] = hh
	for _, member := range members {
		m.members[member.ID] = member
	}
	return nil
}

func (m *Memory) UpdateHousehold(hh models.Household) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.households[hh.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	current.AssessmentNumber = hh.AssessmentNumber
	current.ResidentType = hh.ResidentType
	current.WasteDisposal = hh.WasteDisposal
	current.UpdatedAt = hh.UpdatedAt
	m.households[hh.ID] = current
	return nil
}

func (m *Memory) SoftDeleteHousehold(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hh, ok := m.households[id]; ok {
		hh.IsDeleted = true
		m.households[id] = hh
	}
	return nil
}

func (m *Memory) CountActiveMembersByHousehold(householdID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, member := range m.members {
		if !member.IsDeleted && member.HouseholdID == householdID {
			count++
		}
	}
	return count, nil
}

// --- Members ---

func (m *Memory) ListMembers() ([]models.MemberWithHousehold, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.MemberWithHousehold{}
	for _, member := range m.members {
		if member.IsDeleted {
			continue
		}
		hh, ok := m.households[member.HouseholdID]
		if !ok || hh.IsDeleted {
			continue
		}
		rows = append(rows, models.MemberWithHousehold{
			Member:           member,
			ResidentType:     hh.ResidentType,
			AssessmentNumber: hh.AssessmentNumber,
			WasteDisposal:    hh.WasteDisposal,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetMember(id string) (models.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.members[id]
	if !ok || member.IsDeleted {
		return models.Member{}, ErrNotFound
	}
	return member, nil
}

// GetMemberRaw bypasses the soft-delete filter; used by the raw-id
// lookup endpoint only.
func (m *Memory) GetMemberRaw(id string) (models.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	member, ok := m.members[id]
	if !ok {
		return models.Member{}, ErrNotFound
	}
	return member, nil
}

func (m *Memory) NICExists(nic, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members {
		if !member.IsDeleted && member.ID != excludeID && equalFold(member.NIC, nic) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertMember(member models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.ID] = member
	return nil
}

func (m *Memory) UpdateMember(member models.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.members[member.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	member.CreatedAt = current.CreatedAt
	member.IsDeleted = current.IsDeleted
	m.members[member.ID] = member
	return nil
}

func (m *Memory) SoftDeleteMember(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member, ok := m.members[id]; ok {
		member.IsDeleted = true
		m.members[id] = member
	}
	return nil
}

// --- Businesses ---

func (m *Memory) ListBusinesses() ([]models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.Business{}
	for _, business := range m.businesses {
		if !business.IsDeleted {
			rows = append(rows, business)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetBusiness(id string) (models.Business, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	business, ok := m.businesses[id]
	if !ok || business.IsDeleted {
		return models.Business{}, ErrNotFound
	}
	return business, nil
}

func (m *Memory) BusinessExists(name, roadID string, subRoadID, businessAddress *string, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, business := range m.businesses {
		if !business.IsDeleted && business.ID != excludeID && business.RoadID == roadID &&
			sameSubRoad(business.SubRoadID, subRoadID) &&
			samePtr(business.BusinessAddress, businessAddress) &&
			equalFold(business.BusinessName, name) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertBusiness(business models.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businesses[business.ID] = business
	return nil
}

func (m *Memory) UpdateBusiness(business models.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.businesses[business.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	business.RoadID = current.RoadID
	business.SubRoadID = current.SubRoadID
	business.CreatedAt = current.CreatedAt
	business.IsDeleted = current.IsDeleted
	m.businesses[business.ID] = business
	return nil
}

func (m *Memory) SoftDeleteBusiness(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if business, ok := m.businesses[id]; ok {
		business.IsDeleted = true
		m.businesses[id] = business
	}
	return nil
}

// --- Road lamps ---

func (m *Memory) ListLamps() ([]models.RoadLamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.RoadLamp{}
	for _, lamp := range m.lamps {
		if !lamp.IsDeleted {
			rows = append(rows, lamp)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (m *Memory) GetLamp(id string) (models.RoadLamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lamp, ok := m.lamps[id]
	if !ok || lamp.IsDeleted {
		return models.RoadLamp{}, ErrNotFound
	}
	return lamp, nil
}

func (m *Memory) LampNumberExists(lampNumber, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, lamp := range m.lamps {
		if !lamp.IsDeleted && lamp.ID != excludeID && equalFold(lamp.LampNumber, lampNumber) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) InsertLamp(lamp models.RoadLamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lamps[lamp.ID] = lamp
	return nil
}

func (m *Memory) UpdateLamp(lamp models.RoadLamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.lamps[lamp.ID]
	if !ok || current.IsDeleted {
		return nil
	}
	lamp.CreatedAt = current.CreatedAt
	lamp.IsDeleted = current.IsDeleted
	m.lamps[lamp.ID] = lamp
	return nil
}

func (m *Memory) UpdateLampStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lamp, ok := m.lamps[id]
	if !ok || lamp.IsDeleted {
		return nil
	}
	lamp.Status = status
	lamp.UpdatedAt = time.Now().UTC()
	m.lamps[id] = lamp
	return nil
}

func (m *Memory) SoftDeleteLamp(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lamp, ok := m.lamps[id]; ok {
		lamp.IsDeleted = true
		m.lamps[id] = lamp
	}
	return nil
}

// --- Dashboard ---

func (m *Memory) DashboardCounts() (DashboardCounts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := DashboardCounts{}
	for _, hh := range m.households {
		if !hh.IsDeleted {
			counts.Households++
		}
	}
	for _, member := range m.members {
		if !member.IsDeleted {
			counts.Members++
		}
	}
	for _, business := range m.businesses {
		if !business.IsDeleted {
			counts.Businesses++
		}
	}
	for _, road := range m.roads {
		if !road.IsDeleted {
			counts.Roads++
		}
	}
	for _, subRoad := range m.subRoads {
		if !subRoad.IsDeleted {
			counts.SubRoads++
		}
	}
	for _, addr := range m.addresses {
		if !addr.IsDeleted {
			counts.Addresses++
		}
	}
	for _, lamp := range m.lamps {
		if lamp.IsDeleted {
			continue
		}
		counts.Lamps++
		switch lamp.Status {
		case models.LampWorking:
			counts.LampsWorking++
		case models.LampBroken:
			counts.LampsBroken++
		}
	}
	return counts, nil
}

// --- Activity log ---

func (m *Memory) InsertActivityLog(entry models.ActivityLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, entry)
	return nil
}

func (m *Memory) ListActivityLogs(filter ActivityLogFilter) ([]models.ActivityLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := []models.ActivityLogEntry{}
	for _, entry := range m.logs {
		if filter.RecentLogins {
			if entry.ActionType != "login" {
				continue
			}
		} else if filter.ActionType != "" && entry.ActionType != filter.ActionType {
			continue
		}
		if filter.Username != "" && entry.Username != filter.Username {
			continue
		}
		if filter.ResourceType != "" {
			if entry.ResourceType == nil || *entry.ResourceType != filter.ResourceType {
				continue
			}
		}
		if filter.StartDate != nil && entry.CreatedAt.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && entry.CreatedAt.After(*filter.EndDate) {
			continue
		}
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if filter.Offset > 0 {
		if filter.Offset >= len(rows) {
			return []models.ActivityLogEntry{}, nil
		}
		rows = rows[filter.Offset:]
	}
	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}
	return rows, nil
}

// --- Metric samples ---

func (m *Memory) InsertMetricSample(sample models.ServerMetricSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples = append(m.samples, sample)
	if len(m.samples) > 1000 {
		m.samples = m.samples[len(m.samples)-1000:]
	}
	return nil
}

func (m *Memory) ListMetricSamples(limit int) ([]models.ServerMetricSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := make([]models.ServerMetricSample, len(m.samples))
	copy(rows, m.samples)
	sort.Slice(rows, func(i, j int) bool { return rows[i].CapturedAt.After(rows[j].CapturedAt) })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
