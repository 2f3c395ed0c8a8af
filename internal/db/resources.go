package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/commonshq/reserva/internal/model"
)

// ErrResourceInUse is returned when deleting a resource that activities or
// combos still reference.
var ErrResourceInUse = errors.New("resource is referenced by bookings or combos")

const resourceColumns = `id, host, label, description, is_combo, is_bookable, created_by, created_at, updated_at`

// ListResources returns all resources of a host with combo membership
// populated, ordered by label then id.
func ListResources(host string) ([]model.Resource, error) {
	var out []model.Resource
	q := fmt.Sprintf(`SELECT %s FROM resources WHERE host = $1 ORDER BY label, id;`, resourceColumns)
	if err := DB.Select(&out, q, host); err != nil {
		log.Error().Err(err).Str("host", host).Msg("ListResources failed")
		return nil, err
	}

	type memberRow struct {
		ComboID  string `db:"combo_id"`
		MemberID string `db:"member_id"`
	}
	var members []memberRow
	const mq = `
	SELECT m.combo_id, m.member_id
	  FROM resource_combo_members m
	  JOIN resources r ON r.id = m.combo_id
	 WHERE r.host = $1
	 ORDER BY m.combo_id, m.position;`
	if err := DB.Select(&members, mq, host); err != nil {
		log.Error().Err(err).Str("host", host).Msg("ListResources member query failed")
		return nil, err
	}

	byCombo := make(map[string][]string)
	for _, m := range members {
		byCombo[m.ComboID] = append(byCombo[m.ComboID], m.MemberID)
	}
	for i := range out {
		out[i].MemberIDs = byCombo[out[i].ID]
	}
	return out, nil
}

func GetResource(id string) (*model.Resource, error) {
	var r model.Resource
	q := fmt.Sprintf(`SELECT %s FROM resources WHERE id = $1;`, resourceColumns)
	if err := DB.Get(&r, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Str("resource_id", id).Msg("GetResource failed")
		return nil, err
	}
	if r.IsCombo {
		const mq = `
		SELECT member_id FROM resource_combo_members
		 WHERE combo_id = $1 ORDER BY position;`
		if err := DB.Select(&r.MemberIDs, mq, id); err != nil {
			log.Error().Err(err).Str("resource_id", id).Msg("GetResource member query failed")
			return nil, err
		}
	}
	return &r, nil
}

func CreateResource(host, label string, description *string, isCombo, isBookable bool, memberIDs []string, createdBy int) (*model.Resource, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := newID()
	var r model.Resource
	q := fmt.Sprintf(`
	INSERT INTO resources (id, host, label, description, is_combo, is_bookable, created_by, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	RETURNING %s;`, resourceColumns)
	if err := tx.Get(&r, q, id, host, label, description, isCombo, isBookable, createdBy); err != nil {
		log.Error().Err(err).Str("label", label).Msg("CreateResource failed")
		return nil, err
	}

	if isCombo {
		if err := replaceComboMembers(tx, id, memberIDs); err != nil {
			return nil, err
		}
		r.MemberIDs = memberIDs
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}

func UpdateResource(id, label string, description *string, isBookable bool, memberIDs []string) (*model.Resource, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var r model.Resource
	q := fmt.Sprintf(`
	UPDATE resources
	   SET label = $2, description = $3, is_bookable = $4, updated_at = now()
	 WHERE id = $1
	RETURNING %s;`, resourceColumns)
	if err := tx.Get(&r, q, id, label, description, isBookable); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Str("resource_id", id).Msg("UpdateResource failed")
		return nil, err
	}

	if r.IsCombo {
		if err := replaceComboMembers(tx, id, memberIDs); err != nil {
			return nil, err
		}
		r.MemberIDs = memberIDs
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteResource removes a resource. Foreign keys from occurrences,
// activities and combo membership protect referenced resources; that case
// surfaces as ErrResourceInUse.
func DeleteResource(id string) error {
	_, err := DB.Exec(`DELETE FROM resources WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("resource_id", id).Msg("DeleteResource failed")
		if isForeignKeyViolation(err) {
			return ErrResourceInUse
		}
	}
	return err
}

func replaceComboMembers(tx *sqlx.Tx, comboID string, memberIDs []string) error {
	if _, err := tx.Exec(`DELETE FROM resource_combo_members WHERE combo_id = $1;`, comboID); err != nil {
		log.Error().Err(err).Str("combo_id", comboID).Msg("clearing combo members failed")
		return err
	}
	for i, m := range memberIDs {
		_, err := tx.Exec(`
		INSERT INTO resource_combo_members (combo_id, member_id, position)
		VALUES ($1, $2, $3);`, comboID, m, i)
		if err != nil {
			log.Error().Err(err).Str("combo_id", comboID).Str("member_id", m).Msg("inserting combo member failed")
			return err
		}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
