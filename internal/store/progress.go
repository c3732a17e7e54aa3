package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// StudyHash identifies a study by its normalized movetext, so the same text
// maps to the same stored progress regardless of where it came from.
func StudyHash(movetext string) string {
	normalized := strings.Join(strings.Fields(movetext), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:8])
}

// StudyProgress summarizes stored coverage for one study.
type StudyProgress struct {
	StudyHash    string
	VisitedCount int
	LastVisited  time.Time
}

// ProgressRepo manages the persisted visited-node identities.
type ProgressRepo interface {
	// SaveVisited upserts the visited node hashes for a study, preserving
	// first-visit order.
	SaveVisited(ctx context.Context, studyHash string, nodeHashes []string) error

	// Visited returns the stored node hashes for a study in visit order.
	Visited(ctx context.Context, studyHash string) ([]string, error)

	// Clear deletes all stored progress for one study.
	Clear(ctx context.Context, studyHash string) error

	// ClearAll deletes stored progress for every study.
	ClearAll(ctx context.Context) error

	// Studies lists every study with stored progress.
	Studies(ctx context.Context) ([]StudyProgress, error)
}

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) SaveVisited(ctx context.Context, studyHash string, nodeHashes []string) error {
	if len(nodeHashes) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for i, h := range nodeHashes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO visited_nodes (study_hash, node_hash, seq) VALUES (?, ?, ?)
			 ON CONFLICT (study_hash, node_hash) DO NOTHING`,
			studyHash, h, i,
		)
		if err != nil {
			return fmt.Errorf("insert visited node: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *progressRepo) Visited(ctx context.Context, studyHash string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT node_hash FROM visited_nodes WHERE study_hash = ? ORDER BY seq, rowid`,
		studyHash,
	)
	if err != nil {
		return nil, fmt.Errorf("query visited: %w", err)
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan visited: %w", err)
		}
		hashes = append(hashes, h)
	}
	return hashes, rows.Err()
}

func (r *progressRepo) Clear(ctx context.Context, studyHash string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM visited_nodes WHERE study_hash = ?`, studyHash)
	if err != nil {
		return fmt.Errorf("clear study: %w", err)
	}
	return nil
}

func (r *progressRepo) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM visited_nodes`)
	if err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	return nil
}

func (r *progressRepo) Studies(ctx context.Context) ([]StudyProgress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT study_hash, COUNT(*), MAX(visited_at)
		 FROM visited_nodes GROUP BY study_hash ORDER BY MAX(visited_at) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query studies: %w", err)
	}
	defer rows.Close()

	var out []StudyProgress
	for rows.Next() {
		var sp StudyProgress
		// MAX() loses the column decltype, so the driver hands back the
		// raw "YYYY-MM-DD HH:MM:SS" text rather than a time.Time.
		var last string
		if err := rows.Scan(&sp.StudyHash, &sp.VisitedCount, &last); err != nil {
			return nil, fmt.Errorf("scan study: %w", err)
		}
		sp.LastVisited, err = time.ParseInLocation("2006-01-02 15:04:05", last, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse visited_at %q: %w", last, err)
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}
