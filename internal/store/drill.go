package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Drill event actions.
const (
	ActionMoveAccepted  = "move_accepted"
	ActionMoveRejected  = "move_rejected"
	ActionLineCompleted = "line_completed"
	ActionDrillFinished = "drill_finished"
	ActionHintRequested = "hint_requested"
)

// DrillStats aggregates the event log for one study.
type DrillStats struct {
	StudyHash      string
	MovesAccepted  int
	MovesRejected  int
	LinesCompleted int
	DrillsFinished int
	Hints          int
}

// Accuracy returns accepted moves as a fraction of all attempted moves,
// or 0 when nothing was attempted.
func (st DrillStats) Accuracy() float64 {
	total := st.MovesAccepted + st.MovesRejected
	if total == 0 {
		return 0
	}
	return float64(st.MovesAccepted) / float64(total)
}

// DrillRepo records and aggregates drill events.
type DrillRepo interface {
	// Append records one event for a session.
	Append(ctx context.Context, studyHash, sessionID, action, detail string) error

	// Stats aggregates events for one study.
	Stats(ctx context.Context, studyHash string) (DrillStats, error)
}

type drillRepo struct {
	db *sql.DB
}

func (r *drillRepo) Append(ctx context.Context, studyHash, sessionID, action, detail string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO drill_events (study_hash, session_id, action, detail) VALUES (?, ?, ?, ?)`,
		studyHash, sessionID, action, detail,
	)
	if err != nil {
		return fmt.Errorf("append drill event: %w", err)
	}
	return nil
}

func (r *drillRepo) Stats(ctx context.Context, studyHash string) (DrillStats, error) {
	stats := DrillStats{StudyHash: studyHash}

	rows, err := r.db.QueryContext(ctx,
		`SELECT action, COUNT(*) FROM drill_events WHERE study_hash = ? GROUP BY action`,
		studyHash,
	)
	if err != nil {
		return stats, fmt.Errorf("query drill stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			return stats, fmt.Errorf("scan drill stats: %w", err)
		}
		switch action {
		case ActionMoveAccepted:
			stats.MovesAccepted = n
		case ActionMoveRejected:
			stats.MovesRejected = n
		case ActionLineCompleted:
			stats.LinesCompleted = n
		case ActionDrillFinished:
			stats.DrillsFinished = n
		case ActionHintRequested:
			stats.Hints = n
		}
	}
	return stats, rows.Err()
}
