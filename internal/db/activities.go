package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/commonshq/reserva/internal/model"
)

const activityColumns = `id, host, title, author_id, COALESCE(resource_id, '') AS resource_id, is_published, created_at, updated_at`

type occurrenceRow struct {
	ActivityID string `db:"activity_id"`
	Idx        int    `db:"idx"`
	model.Occurrence
}

// ListActivities returns all activities of a host with their full occurrence
// lists, in creation order.
func ListActivities(host string) ([]model.Activity, error) {
	var out []model.Activity
	q := fmt.Sprintf(`SELECT %s FROM activities WHERE host = $1 ORDER BY created_at, id;`, activityColumns)
	if err := DB.Select(&out, q, host); err != nil {
		log.Error().Err(err).Str("host", host).Msg("ListActivities failed")
		return nil, err
	}

	var rows []occurrenceRow
	const oq = `
	SELECT o.activity_id, o.idx, o.start_date, o.end_date, o.start_time, o.end_time,
	       COALESCE(o.resource_id, '') AS resource_id, o.capacity
	  FROM activity_occurrences o
	  JOIN activities a ON a.id = o.activity_id
	 WHERE a.host = $1
	 ORDER BY o.activity_id, o.idx;`
	if err := DB.Select(&rows, oq, host); err != nil {
		log.Error().Err(err).Str("host", host).Msg("ListActivities occurrence query failed")
		return nil, err
	}

	byActivity := make(map[string][]model.Occurrence)
	for _, r := range rows {
		byActivity[r.ActivityID] = append(byActivity[r.ActivityID], r.Occurrence)
	}
	for i := range out {
		out[i].DatesAndTimes = byActivity[out[i].ID]
	}
	return out, nil
}

func GetActivity(id string) (*model.Activity, error) {
	var a model.Activity
	q := fmt.Sprintf(`SELECT %s FROM activities WHERE id = $1;`, activityColumns)
	if err := DB.Get(&a, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Str("activity_id", id).Msg("GetActivity failed")
		return nil, err
	}

	var rows []occurrenceRow
	const oq = `
	SELECT activity_id, idx, start_date, end_date, start_time, end_time,
	       COALESCE(resource_id, '') AS resource_id, capacity
	  FROM activity_occurrences
	 WHERE activity_id = $1
	 ORDER BY idx;`
	if err := DB.Select(&rows, oq, id); err != nil {
		log.Error().Err(err).Str("activity_id", id).Msg("GetActivity occurrence query failed")
		return nil, err
	}
	for _, r := range rows {
		a.DatesAndTimes = append(a.DatesAndTimes, r.Occurrence)
	}
	return &a, nil
}

func CreateActivity(host, title, resourceID string, authorID int, occurrences []model.Occurrence) (*model.Activity, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id := newID()
	var a model.Activity
	q := fmt.Sprintf(`
	INSERT INTO activities (id, host, title, author_id, resource_id, is_published, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, true, now(), now())
	RETURNING %s;`, activityColumns)
	if err := tx.Get(&a, q, id, host, title, authorID, resourceID); err != nil {
		log.Error().Err(err).Str("title", title).Msg("CreateActivity failed")
		return nil, err
	}

	if err := replaceOccurrences(tx, id, occurrences); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	a.DatesAndTimes = occurrences
	return &a, nil
}

// UpdateActivity rewrites title, resource and the whole occurrence list.
// Occurrences are replaced as a unit; their identity is positional.
func UpdateActivity(id, title, resourceID string, occurrences []model.Occurrence) (*model.Activity, error) {
	tx, err := DB.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var a model.Activity
	q := fmt.Sprintf(`
	UPDATE activities
	   SET title = $2, resource_id = $3, updated_at = now()
	 WHERE id = $1
	RETURNING %s;`, activityColumns)
	if err := tx.Get(&a, q, id, title, resourceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		log.Error().Err(err).Str("activity_id", id).Msg("UpdateActivity failed")
		return nil, err
	}

	if err := replaceOccurrences(tx, id, occurrences); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	a.DatesAndTimes = occurrences
	return &a, nil
}

func DeleteActivity(id string) error {
	_, err := DB.Exec(`DELETE FROM activities WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("activity_id", id).Msg("DeleteActivity failed")
	}
	return err
}

func replaceOccurrences(tx *sqlx.Tx, activityID string, occurrences []model.Occurrence) error {
	if _, err := tx.Exec(`DELETE FROM activity_occurrences WHERE activity_id = $1;`, activityID); err != nil {
		log.Error().Err(err).Str("activity_id", activityID).Msg("clearing occurrences failed")
		return err
	}
	for i, o := range occurrences {
		var resourceID *string
		if o.ResourceID != "" {
			resourceID = &o.ResourceID
		}
		_, err := tx.Exec(`
		INSERT INTO activity_occurrences
		  (activity_id, idx, start_date, end_date, start_time, end_time, resource_id, capacity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			activityID, i, o.StartDate, o.EndDate, o.StartTime, o.EndTime, resourceID, o.Capacity)
		if err != nil {
			log.Error().Err(err).Str("activity_id", activityID).Int("idx", i).Msg("inserting occurrence failed")
			return err
		}
	}
	return nil
}
