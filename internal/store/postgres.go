package store

import (
	"database/sql"
	"errors"

	"village-records-backend-go/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Postgres implements Store over sqlx. Uniqueness pre-checks run in the
// handlers; the partial unique indexes in the schema act as the backstop
// for the read-then-write race, surfaced here as ErrDuplicate.
type Postgres struct {
	DB *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{DB: db}
}

func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func translateReadErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// --- Roads ---

func (p *Postgres) ListRoads() ([]models.Road, error) {
	rows := []models.Road{}
	err := p.DB.Select(&rows, `SELECT * FROM roads WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) GetRoad(id string) (models.Road, error) {
	var road models.Road
	err := p.DB.Get(&road, `SELECT * FROM roads WHERE id = $1 AND NOT is_deleted`, id)
	return road, translateReadErr(err)
}

func (p *Postgres) RoadNameExists(name, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM roads WHERE lower(name) = lower($1) AND NOT is_deleted AND id <> $2
)`, name, excludeID)
	return exists, err
}

func (p *Postgres) InsertRoad(road models.Road) error {
	_, err := p.DB.Exec(`
INSERT INTO roads (id, name, is_deleted, created_at) VALUES ($1,$2,FALSE,$3)
`, road.ID, road.Name, road.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateRoad(id, name string) error {
	_, err := p.DB.Exec(`UPDATE roads SET name = $2 WHERE id = $1 AND NOT is_deleted`, id, name)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteRoad(id string) error {
	_, err := p.DB.Exec(`UPDATE roads SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

func (p *Postgres) CountActiveSubRoads(roadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM sub_roads WHERE road_id = $1 AND NOT is_deleted`, roadID)
	return count, err
}

func (p *Postgres) CountActiveLampsByRoad(roadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM road_lamps WHERE road_id = $1 AND NOT is_deleted`, roadID)
	return count, err
}

func (p *Postgres) CountActiveHouseholdsByRoad(roadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `
SELECT count(*)
FROM households h
JOIN addresses a ON a.id = h.address_id
WHERE a.road_id = $1 AND NOT h.is_deleted AND NOT a.is_deleted
`, roadID)
	return count, err
}

// --- Sub-roads ---

func (p *Postgres) ListSubRoads() ([]models.SubRoad, error) {
	rows := []models.SubRoad{}
	err := p.DB.Select(&rows, `SELECT * FROM sub_roads WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) ListSubRoadsByRoad(roadID string) ([]models.SubRoad, error) {
	rows := []models.SubRoad{}
	err := p.DB.Select(&rows, `
SELECT * FROM sub_roads WHERE road_id = $1 AND NOT is_deleted ORDER BY created_at DESC
`, roadID)
	return rows, err
}

func (p *Postgres) GetSubRoad(id string) (models.SubRoad, error) {
	var subRoad models.SubRoad
	err := p.DB.Get(&subRoad, `SELECT * FROM sub_roads WHERE id = $1 AND NOT is_deleted`, id)
	return subRoad, translateReadErr(err)
}

func (p *Postgres) SubRoadNameExists(roadID, name, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM sub_roads
  WHERE road_id = $1 AND lower(name) = lower($2) AND NOT is_deleted AND id <> $3
)`, roadID, name, excludeID)
	return exists, err
}

func (p *Postgres) InsertSubRoad(subRoad models.SubRoad) error {
	_, err := p.DB.Exec(`
INSERT INTO sub_roads (id, name, road_id, is_deleted, created_at) VALUES ($1,$2,$3,FALSE,$4)
`, subRoad.ID, subRoad.Name, subRoad.RoadID, subRoad.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateSubRoad(id, name string) error {
	_, err := p.DB.Exec(`UPDATE sub_roads SET name = $2 WHERE id = $1 AND NOT is_deleted`, id, name)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteSubRoad(id string) error {
	_, err := p.DB.Exec(`UPDATE sub_roads SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

func (p *Postgres) CountActiveAddressesBySubRoad(subRoadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM addresses WHERE sub_road_id = $1 AND NOT is_deleted`, subRoadID)
	return count, err
}

func (p *Postgres) CountActiveProjectsBySubRoad(subRoadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM sub_sub_roads WHERE parent_sub_road_id = $1 AND NOT is_deleted`, subRoadID)
	return count, err
}

func (p *Postgres) CountActiveLampsBySubRoad(subRoadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM road_lamps WHERE sub_road_id = $1 AND NOT is_deleted`, subRoadID)
	return count, err
}

func (p *Postgres) CountActiveBusinessesBySubRoad(subRoadID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM businesses WHERE sub_road_id = $1 AND NOT is_deleted`, subRoadID)
	return count, err
}

// --- Development projects ---

func (p *Postgres) ListProjects() ([]models.SubSubRoad, error) {
	rows := []models.SubSubRoad{}
	err := p.DB.Select(&rows, `SELECT * FROM sub_sub_roads WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) GetProject(id string) (models.SubSubRoad, error) {
	var project models.SubSubRoad
	err := p.DB.Get(&project, `SELECT * FROM sub_sub_roads WHERE id = $1 AND NOT is_deleted`, id)
	return project, translateReadErr(err)
}

func (p *Postgres) ProjectNameExists(parentSubRoadID, name, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM sub_sub_roads
  WHERE parent_sub_road_id = $1 AND lower(name) = lower($2) AND NOT is_deleted AND id <> $3
)`, parentSubRoadID, name, excludeID)
	return exists, err
}

func (p *Postgres) InsertProject(project models.SubSubRoad) error {
	_, err := p.DB.Exec(`
INSERT INTO sub_sub_roads (
  id, name, road_id, parent_sub_road_id, width, height, square_feet,
  cost_per_sq_ft, total_cost, development_status, is_deleted, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,FALSE,$11)
`, project.ID, project.Name, project.RoadID, project.ParentSubRoadID, project.Width,
		project.Height, project.SquareFeet, project.CostPerSqFt, project.TotalCost,
		project.DevelopmentStatus, project.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateProject(project models.SubSubRoad) error {
	_, err := p.DB.Exec(`
UPDATE sub_sub_roads
SET name = $2, width = $3, height = $4, square_feet = $5, cost_per_sq_ft = $6,
    total_cost = $7, development_status = $8
WHERE id = $1 AND NOT is_deleted
`, project.ID, project.Name, project.Width, project.Height, project.SquareFeet,
		project.CostPerSqFt, project.TotalCost, project.DevelopmentStatus)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteProject(id string) error {
	_, err := p.DB.Exec(`UPDATE sub_sub_roads SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

func (p *Postgres) ProjectStats() (ProjectStats, error) {
	rows := []struct {
		Status string  `db:"development_status"`
		Count  int     `db:"count"`
		Cost   float64 `db:"cost"`
	}{}
	err := p.DB.Select(&rows, `
SELECT development_status, count(*) AS count, COALESCE(SUM(total_cost), 0) AS cost
FROM sub_sub_roads
WHERE NOT is_deleted
GROUP BY development_status
`)
	if err != nil {
		return ProjectStats{}, err
	}
	stats := ProjectStats{}
	for _, row := range rows {
		stats.TotalProjects += row.Count
		stats.TotalEstimatedCost += row.Cost
		switch row.Status {
		case models.StatusDeveloped:
			stats.DevelopedProjects = row.Count
		case models.StatusInProgress:
			stats.InProgressProjects = row.Count
		case models.StatusUndeveloped:
			stats.UndevelopedProjects = row.Count
		}
	}
	return stats, nil
}

// --- Addresses ---

func (p *Postgres) ListAddresses() ([]models.Address, error) {
	rows := []models.Address{}
	err := p.DB.Select(&rows, `SELECT * FROM addresses WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) ListAddressesByRoad(roadID string, subRoadID *string) ([]models.Address, error) {
	rows := []models.Address{}
	if subRoadID == nil {
		err := p.DB.Select(&rows, `
SELECT * FROM addresses
WHERE road_id = $1 AND sub_road_id IS NULL AND NOT is_deleted
ORDER BY created_at DESC
`, roadID)
		return rows, err
	}
	err := p.DB.Select(&rows, `
SELECT * FROM addresses
WHERE road_id = $1 AND sub_road_id = $2 AND NOT is_deleted
ORDER BY created_at DESC
`, roadID, *subRoadID)
	return rows, err
}

func (p *Postgres) GetAddress(id string) (models.Address, error) {
	var addr models.Address
	err := p.DB.Get(&addr, `SELECT * FROM addresses WHERE id = $1 AND NOT is_deleted`, id)
	return addr, translateReadErr(err)
}

func (p *Postgres) AddressExists(address, roadID string, subRoadID *string, excludeID string) (bool, error) {
	var exists bool
	if subRoadID == nil {
		err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM addresses
  WHERE lower(address) = lower($1) AND road_id = $2 AND sub_road_id IS NULL
    AND NOT is_deleted AND id <> $3
)`, address, roadID, excludeID)
		return exists, err
	}
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM addresses
  WHERE lower(address) = lower($1) AND road_id = $2 AND sub_road_id = $3
    AND NOT is_deleted AND id <> $4
)`, address, roadID, *subRoadID, excludeID)
	return exists, err
}

func (p *Postgres) InsertAddress(addr models.Address) error {
	_, err := p.DB.Exec(`
INSERT INTO addresses (id, address, road_id, sub_road_id, member, is_deleted, created_at)
VALUES ($1,$2,$3,$4,$5,FALSE,$6)
`, addr.ID, addr.Address, addr.RoadID, addr.SubRoadID, addr.Member, addr.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateAddress(addr models.Address) error {
	_, err := p.DB.Exec(`
UPDATE addresses SET address = $2, member = $3 WHERE id = $1 AND NOT is_deleted
`, addr.ID, addr.Address, addr.Member)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteAddress(id string) error {
	_, err := p.DB.Exec(`UPDATE addresses SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

func (p *Postgres) CountActiveHouseholdsByAddress(addressID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM households WHERE address_id = $1 AND NOT is_deleted`, addressID)
	return count, err
}

func (p *Postgres) CountActiveLampsByAddress(addressID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM road_lamps WHERE address_id = $1 AND NOT is_deleted`, addressID)
	return count, err
}
