package models

import "time"

// Development statuses for road projects.
const (
	StatusUndeveloped = "undeveloped"
	StatusInProgress  = "in_progress"
	StatusDeveloped   = "developed"
)

// Road lamp statuses.
const (
	LampWorking = "working"
	LampBroken  = "broken"
)

type Road struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
}

type SubRoad struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	RoadID    string    `db:"road_id"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
}

// SubSubRoad is a road-development project tracked per lane/segment.
// SquareFeet and TotalCost are derived server-side and never taken
// from the caller.
type SubSubRoad struct {
	ID                string    `db:"id"`
	Name              string    `db:"name"`
	RoadID            string    `db:"road_id"`
	ParentSubRoadID   string    `db:"parent_sub_road_id"`
	Width             float64   `db:"width"`
	Height            float64   `db:"height"`
	SquareFeet        float64   `db:"square_feet"`
	CostPerSqFt       float64   `db:"cost_per_sq_ft"`
	TotalCost         float64   `db:"total_cost"`
	DevelopmentStatus string    `db:"development_status"`
	IsDeleted         bool      `db:"is_deleted"`
	CreatedAt         time.Time `db:"created_at"`
}

// Address with a nil SubRoadID sits directly on the main road.
type Address struct {
	ID        string    `db:"id"`
	Address   string    `db:"address"`
	RoadID    string    `db:"road_id"`
	SubRoadID *string   `db:"sub_road_id"`
	Member    string    `db:"member"`
	IsDeleted bool      `db:"is_deleted"`
	CreatedAt time.Time `db:"created_at"`
}

type Household struct {
	ID               string    `db:"id"`
	AddressID        string    `db:"address_id"`
	AssessmentNumber string    `db:"assessment_number"`
	ResidentType     string    `db:"resident_type"`
	WasteDisposal    string    `db:"waste_disposal"`
	IsDeleted        bool      `db:"is_deleted"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type Member struct {
	ID              string    `db:"id"`
	HouseholdID     string    `db:"household_id"`
	FullName        string    `db:"full_name"`
	NameWithInitial string    `db:"name_with_initial"`
	MemberType      string    `db:"member_type"`
	NIC             string    `db:"nic"`
	Gender          string    `db:"gender"`
	Age             int       `db:"age"`
	Occupation      string    `db:"occupation"`
	SchoolName      *string   `db:"school_name"`
	Grade           *string   `db:"grade"`
	UniversityName  *string   `db:"university_name"`
	OtherOccupation *string   `db:"other_occupation"`
	OffersReceiving []byte    `db:"offers_receiving"`
	IsDisabled      bool      `db:"is_disabled"`
	LandHouseStatus string    `db:"land_house_status"`
	WhatsappNumber  *string   `db:"whatsapp_number"`
	IsDrugUser      bool      `db:"is_drug_user"`
	IsThief         bool      `db:"is_thief"`
	IsDeleted       bool      `db:"is_deleted"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// MemberWithHousehold is the flattened list row carrying the parent
// household's registration fields.
type MemberWithHousehold struct {
	Member
	ResidentType     string `db:"resident_type"`
	AssessmentNumber string `db:"assessment_number"`
	WasteDisposal    string `db:"waste_disposal"`
}

type Business struct {
	ID              string    `db:"id"`
	BusinessName    string    `db:"business_name"`
	BusinessOwner   string    `db:"business_owner"`
	BusinessType    string    `db:"business_type"`
	BusinessAddress *string   `db:"business_address"`
	BusinessPhone   *string   `db:"business_phone"`
	RoadID          string    `db:"road_id"`
	SubRoadID       *string   `db:"sub_road_id"`
	IsDeleted       bool      `db:"is_deleted"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type RoadLamp struct {
	ID         string    `db:"id"`
	LampNumber string    `db:"lamp_number"`
	RoadID     string    `db:"road_id"`
	SubRoadID  string    `db:"sub_road_id"`
	AddressID  string    `db:"address_id"`
	Status     string    `db:"status"`
	IsDeleted  bool      `db:"is_deleted"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ActivityLogEntry rows are append-only; the application never updates
// or deletes them.
type ActivityLogEntry struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	ActionType   string    `db:"action_type"`
	ResourceType *string   `db:"resource_type"`
	ResourceID   *string   `db:"resource_id"`
	Description  *string   `db:"description"`
	IPAddress    *string   `db:"ip_address"`
	UserAgent    *string   `db:"user_agent"`
	Metadata     []byte    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

type ServerMetricSample struct {
	ID                string    `db:"id"`
	CapturedAt        time.Time `db:"captured_at"`
	ProcessRSSBytes   int64     `db:"process_rss_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load"`
}
