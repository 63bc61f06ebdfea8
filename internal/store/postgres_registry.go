package store

import (
	"village-records-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

// --- Households ---

func (p *Postgres) ListHouseholds() ([]models.Household, error) {
	rows := []models.Household{}
	err := p.DB.Select(&rows, `SELECT * FROM households WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) GetHousehold(id string) (models.Household, error) {
	var hh models.Household
	err := p.DB.Get(&hh, `SELECT * FROM households WHERE id = $1 AND NOT is_deleted`, id)
	return hh, translateReadErr(err)
}

// InsertHouseholdWithMembers writes the household and all its members in
// one transaction so a failed member insert never leaves an orphaned
// household behind.
func (p *Postgres) InsertHouseholdWithMembers(hh models.Household, members []models.Member) error {
	tx, err := p.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
INSERT INTO households (id, address_id, assessment_number, resident_type, waste_disposal, is_deleted, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,FALSE,$6,$6)
`, hh.ID, hh.AddressID, hh.AssessmentNumber, hh.ResidentType, hh.WasteDisposal, hh.CreatedAt)
	if err != nil {
		return translateWriteErr(err)
	}
	for _, member := range members {
		if err := insertMemberTx(tx, member); err != nil {
			return translateWriteErr(err)
		}
	}
	return tx.Commit()
}

func (p *Postgres) UpdateHousehold(hh models.Household) error {
	_, err := p.DB.Exec(`
UPDATE households
SET assessment_number = $2, resident_type = $3, waste_disposal = $4, updated_at = $5
WHERE id = $1 AND NOT is_deleted
`, hh.ID, hh.AssessmentNumber, hh.ResidentType, hh.WasteDisposal, hh.UpdatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteHousehold(id string) error {
	_, err := p.DB.Exec(`UPDATE households SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

func (p *Postgres) CountActiveMembersByHousehold(householdID string) (int, error) {
	var count int
	err := p.DB.Get(&count, `SELECT count(*) FROM members WHERE household_id = $1 AND NOT is_deleted`, householdID)
	return count, err
}

// --- Members ---

const memberColumns = `
id, household_id, full_name, name_with_initial, member_type, nic, gender, age,
occupation, school_name, grade, university_name, other_occupation,
offers_receiving, is_disabled, land_house_status, whatsapp_number,
is_drug_user, is_thief, is_deleted, created_at, updated_at`

func (p *Postgres) ListMembers() ([]models.MemberWithHousehold, error) {
	rows := []models.MemberWithHousehold{}
	err := p.DB.Select(&rows, `
SELECT m.*, h.resident_type, h.assessment_number, h.waste_disposal
FROM members m
JOIN households h ON h.id = m.household_id
WHERE NOT m.is_deleted AND NOT h.is_deleted
ORDER BY m.created_at DESC
`)
	return rows, err
}

func (p *Postgres) GetMember(id string) (models.Member, error) {
	var member models.Member
	err := p.DB.Get(&member, `SELECT * FROM members WHERE id = $1 AND NOT is_deleted`, id)
	return member, translateReadErr(err)
}

func (p *Postgres) GetMemberRaw(id string) (models.Member, error) {
	var member models.Member
	err := p.DB.Get(&member, `SELECT * FROM members WHERE id = $1`, id)
	return member, translateReadErr(err)
}

func (p *Postgres) NICExists(nic, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM members WHERE lower(nic) = lower($1) AND NOT is_deleted AND id <> $2
)`, nic, excludeID)
	return exists, err
}

func (p *Postgres) InsertMember(member models.Member) error {
	return translateWriteErr(insertMemberTx(p.DB, member))
}

func insertMemberTx(db sqlx.Execer, member models.Member) error {
	_, err := db.Exec(`
INSERT INTO members (`+memberColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,FALSE,$20,$20)
`, member.ID, member.HouseholdID, member.FullName, member.NameWithInitial,
		member.MemberType, member.NIC, member.Gender, member.Age, member.Occupation,
		member.SchoolName, member.Grade, member.UniversityName, member.OtherOccupation,
		member.OffersReceiving, member.IsDisabled, member.LandHouseStatus,
		member.WhatsappNumber, member.IsDrugUser, member.IsThief, member.CreatedAt)
	return err
}

func (p *Postgres) UpdateMember(member models.Member) error {
	_, err := p.DB.Exec(`
UPDATE members
SET household_id = $2, full_name = $3, name_with_initial = $4, member_type = $5,
    nic = $6, gender = $7, age = $8, occupation = $9, school_name = $10,
    grade = $11, university_name = $12, other_occupation = $13,
    offers_receiving = $14, is_disabled = $15, land_house_status = $16,
    whatsapp_number = $17, is_drug_user = $18, is_thief = $19, updated_at = $20
WHERE id = $1 AND NOT is_deleted
`, member.ID, member.HouseholdID, member.FullName, member.NameWithInitial,
		member.MemberType, member.NIC, member.Gender, member.Age, member.Occupation,
		member.SchoolName, member.Grade, member.UniversityName, member.OtherOccupation,
		member.OffersReceiving, member.IsDisabled, member.LandHouseStatus,
		member.WhatsappNumber, member.IsDrugUser, member.IsThief, member.UpdatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteMember(id string) error {
	_, err := p.DB.Exec(`UPDATE members SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

// --- Businesses ---

func (p *Postgres) ListBusinesses() ([]models.Business, error) {
	rows := []models.Business{}
	err := p.DB.Select(&rows, `SELECT * FROM businesses WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) GetBusiness(id string) (models.Business, error) {
	var business models.Business
	err := p.DB.Get(&business, `SELECT * FROM businesses WHERE id = $1 AND NOT is_deleted`, id)
	return business, translateReadErr(err)
}

func (p *Postgres) BusinessExists(name, roadID string, subRoadID, businessAddress *string, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM businesses
  WHERE lower(business_name) = lower($1) AND road_id = $2
    AND sub_road_id IS NOT DISTINCT FROM $3
    AND business_address IS NOT DISTINCT FROM $4
    AND NOT is_deleted AND id <> $5
)`, name, roadID, subRoadID, businessAddress, excludeID)
	return exists, err
}

func (p *Postgres) InsertBusiness(business models.Business) error {
	_, err := p.DB.Exec(`
INSERT INTO businesses (
  id, business_name, business_owner, business_type, business_address,
  business_phone, road_id, sub_road_id, is_deleted, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,FALSE,$9,$9)
`, business.ID, business.BusinessName, business.BusinessOwner, business.BusinessType,
		business.BusinessAddress, business.BusinessPhone, business.RoadID,
		business.SubRoadID, business.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateBusiness(business models.Business) error {
	_, err := p.DB.Exec(`
UPDATE businesses
SET business_name = $2, business_owner = $3, business_type = $4,
    business_address = $5, business_phone = $6, updated_at = $7
WHERE id = $1 AND NOT is_deleted
`, business.ID, business.BusinessName, business.BusinessOwner, business.BusinessType,
		business.BusinessAddress, business.BusinessPhone, business.UpdatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) SoftDeleteBusiness(id string) error {
	_, err := p.DB.Exec(`UPDATE businesses SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

// --- Road lamps ---

func (p *Postgres) ListLamps() ([]models.RoadLamp, error) {
	rows := []models.RoadLamp{}
	err := p.DB.Select(&rows, `SELECT * FROM road_lamps WHERE NOT is_deleted ORDER BY created_at DESC`)
	return rows, err
}

func (p *Postgres) GetLamp(id string) (models.RoadLamp, error) {
	var lamp models.RoadLamp
	err := p.DB.Get(&lamp, `SELECT * FROM road_lamps WHERE id = $1 AND NOT is_deleted`, id)
	return lamp, translateReadErr(err)
}

func (p *Postgres) LampNumberExists(lampNumber, excludeID string) (bool, error) {
	var exists bool
	err := p.DB.Get(&exists, `
SELECT EXISTS(
  SELECT 1 FROM road_lamps WHERE lower(lamp_number) = lower($1) AND NOT is_deleted AND id <> $2
)`, lampNumber, excludeID)
	return exists, err
}

func (p *Postgres) InsertLamp(lamp models.RoadLamp) error {
	_, err := p.DB.Exec(`
INSERT INTO road_lamps (id, lamp_number, road_id, sub_road_id, address_id, status, is_deleted, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,FALSE,$7,$7)
`, lamp.ID, lamp.LampNumber, lamp.RoadID, lamp.SubRoadID, lamp.AddressID, lamp.Status, lamp.CreatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateLamp(lamp models.RoadLamp) error {
	_, err := p.DB.Exec(`
UPDATE road_lamps
SET lamp_number = $2, road_id = $3, sub_road_id = $4, address_id = $5, status = $6, updated_at = $7
WHERE id = $1 AND NOT is_deleted
`, lamp.ID, lamp.LampNumber, lamp.RoadID, lamp.SubRoadID, lamp.AddressID, lamp.Status, lamp.UpdatedAt)
	return translateWriteErr(err)
}

func (p *Postgres) UpdateLampStatus(id, status string) error {
	_, err := p.DB.Exec(`
UPDATE road_lamps SET status = $2, updated_at = now() WHERE id = $1 AND NOT is_deleted
`, id, status)
	return err
}

func (p *Postgres) SoftDeleteLamp(id string) error {
	_, err := p.DB.Exec(`UPDATE road_lamps SET is_deleted = TRUE WHERE id = $1`, id)
	return err
}

// --- Dashboard ---

func (p *Postgres) DashboardCounts() (DashboardCounts, error) {
	var counts DashboardCounts
	err := p.DB.Get(&counts, `
SELECT
  (SELECT count(*) FROM households WHERE NOT is_deleted)  AS households,
  (SELECT count(*) FROM members WHERE NOT is_deleted)     AS members,
  (SELECT count(*) FROM businesses WHERE NOT is_deleted)  AS businesses,
  (SELECT count(*) FROM roads WHERE NOT is_deleted)       AS roads,
  (SELECT count(*) FROM sub_roads WHERE NOT is_deleted)   AS sub_roads,
  (SELECT count(*) FROM addresses WHERE NOT is_deleted)   AS addresses,
  (SELECT count(*) FROM road_lamps WHERE NOT is_deleted)  AS lamps,
  (SELECT count(*) FROM road_lamps WHERE NOT is_deleted AND status = 'working') AS lamps_working,
  (SELECT count(*) FROM road_lamps WHERE NOT is_deleted AND status = 'broken')  AS lamps_broken
`)
	return counts, err
}
