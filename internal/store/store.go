package store

import (
	"errors"
	"time"

	"village-records-backend-go/internal/models"
)

// ErrNotFound is returned when an id does not resolve to an active row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a storage-level uniqueness constraint
// rejects a write that slipped past the handler's duplicate pre-check.
var ErrDuplicate = errors.New("duplicate record")

type ActivityLogFilter struct {
	Username     string
	ActionType   string
	ResourceType string
	Limit        int
	Offset       int
	StartDate    *time.Time
	EndDate      *time.Time
	RecentLogins bool
}

type DashboardCounts struct {
	Households   int `db:"households" json:"households"`
	Members      int `db:"members" json:"members"`
	Businesses   int `db:"businesses" json:"businesses"`
	Roads        int `db:"roads" json:"roads"`
	SubRoads     int `db:"sub_roads" json:"subRoads"`
	Addresses    int `db:"addresses" json:"addresses"`
	Lamps        int `db:"lamps" json:"roadLamps"`
	LampsWorking int `db:"lamps_working" json:"workingLamps"`
	LampsBroken  int `db:"lamps_broken" json:"brokenLamps"`
}

type ProjectStats struct {
	TotalProjects       int     `json:"totalProjects"`
	DevelopedProjects   int     `json:"developedProjects"`
	UndevelopedProjects int     `json:"undevelopedProjects"`
	InProgressProjects  int     `json:"inProgressProjects"`
	TotalEstimatedCost  float64 `json:"totalEstimatedCost"`
}

// Store is the persistence strategy behind every handler. Postgres is
// the production implementation; Memory serves as the fixture backend
// when no DATABASE_URL is configured, and as the test double.
//
// Every read excludes soft-deleted rows unless noted otherwise, and
// every delete is a soft delete.
type Store interface {
	// Roads
	ListRoads() ([]models.Road, error)
	GetRoad(id string) (models.Road, error)
	RoadNameExists(name, excludeID string) (bool, error)
	InsertRoad(road models.Road) error
	UpdateRoad(id, name string) error
	SoftDeleteRoad(id string) error
	CountActiveSubRoads(roadID string) (int, error)
	CountActiveLampsByRoad(roadID string) (int, error)
	CountActiveHouseholdsByRoad(roadID string) (int, error)

	// Sub-roads
	ListSubRoads() ([]models.SubRoad, error)
	ListSubRoadsByRoad(roadID string) ([]models.SubRoad, error)
	GetSubRoad(id string) (models.SubRoad, error)
	SubRoadNameExists(roadID, name, excludeID string) (bool, error)
	InsertSubRoad(subRoad models.SubRoad) error
	UpdateSubRoad(id, name string) error
	SoftDeleteSubRoad(id string) error
	CountActiveAddressesBySubRoad(subRoadID string) (int, error)
	CountActiveProjectsBySubRoad(subRoadID string) (int, error)
	CountActiveLampsBySubRoad(subRoadID string) (int, error)
	CountActiveBusinessesBySubRoad(subRoadID string) (int, error)

	// Development projects (sub-sub-roads)
	ListProjects() ([]models.SubSubRoad, error)
	GetProject(id string) (models.SubSubRoad, error)
	ProjectNameExists(parentSubRoadID, name, excludeID string) (bool, error)
	InsertProject(project models.SubSubRoad) error
	UpdateProject(project models.SubSubRoad) error
	SoftDeleteProject(id string) error
	ProjectStats() (ProjectStats, error)

	// Addresses. A nil subRoadID always means "sub_road_id IS NULL",
	// never "any sub-road".
	ListAddresses() ([]models.Address, error)
	ListAddressesByRoad(roadID string, subRoadID *string) ([]models.Address, error)
	GetAddress(id string) (models.Address, error)
	AddressExists(address, roadID string, subRoadID *string, excludeID string) (bool, error)
	InsertAddress(addr models.Address) error
	UpdateAddress(addr models.Address) error
	SoftDeleteAddress(id string) error
	CountActiveHouseholdsByAddress(addressID string) (int, error)
	CountActiveLampsByAddress(addressID string) (int, error)

	// Households
	ListHouseholds() ([]models.Household, error)
	GetHousehold(id string) (models.Household, error)
	InsertHouseholdWithMembers(hh models.Household, members []models.Member) error
	UpdateHousehold(hh models.Household) error
	SoftDeleteHousehold(id string) error
	CountActiveMembersByHousehold(householdID string) (int, error)

	// Members
	ListMembers() ([]models.MemberWithHousehold, error)
	GetMember(id string) (models.Member, error)
	// GetMemberRaw bypasses the soft-delete filter.
	GetMemberRaw(id string) (models.Member, error)
	NICExists(nic, excludeID string) (bool, error)
	InsertMember(member models.Member) error
	UpdateMember(member models.Member) error
	SoftDeleteMember(id string) error

	// Businesses
	ListBusinesses() ([]models.Business, error)
	GetBusiness(id string) (models.Business, error)
	BusinessExists(name, roadID string, subRoadID, businessAddress *string, excludeID string) (bool, error)
	InsertBusiness(business models.Business) error
	UpdateBusiness(business models.Business) error
	SoftDeleteBusiness(id string) error

	// Road lamps
	ListLamps() ([]models.RoadLamp, error)
	GetLamp(id string) (models.RoadLamp, error)
	LampNumberExists(lampNumber, excludeID string) (bool, error)
	InsertLamp(lamp models.RoadLamp) error
	UpdateLamp(lamp models.RoadLamp) error
	UpdateLampStatus(id, status string) error
	SoftDeleteLamp(id string) error

	// Dashboard
	DashboardCounts() (DashboardCounts, error)

	// Activity log (append-only)
	InsertActivityLog(entry models.ActivityLogEntry) error
	ListActivityLogs(filter ActivityLogFilter) ([]models.ActivityLogEntry, error)

	// Server metric samples
	InsertMetricSample(sample models.ServerMetricSample) error
	ListMetricSamples(limit int) ([]models.ServerMetricSample, error)
}
