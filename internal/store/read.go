package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/trackbake/internal/anim"
	"github.com/roach88/trackbake/internal/merge"
	"github.com/roach88/trackbake/internal/timeline"
)

// Bake is a stored clip with its merge log.
type Bake struct {
	Seq  int64
	Clip *merge.BakedClip
	Logs []string
}

// BakeSummary is one row of ListBakes.
type BakeSummary struct {
	ID         string
	Seq        int64
	RunID      string
	Name       string
	Rig        timeline.RigRef
	FrameRate  float64
	CurveCount int
	KeyCount   int
}

// ReadBake returns the bake with the given clip ID.
// Returns sql.ErrNoRows (wrapped) if not found, and ErrIntegrity if the
// stored curves no longer hash to id.
func (s *Store) ReadBake(ctx context.Context, id string) (Bake, error) {
	clip := &merge.BakedClip{ID: id}
	var b Bake
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, run_id, name, rig_id, rig_name, frame_rate
		FROM bakes
		WHERE id = ?
	`, id).Scan(&b.Seq, &clip.RunID, &clip.Name, &clip.Rig.ID, &clip.Rig.Name, &clip.FrameRate)
	if err != nil {
		return Bake{}, fmt.Errorf("read bake %s: %w", id, err)
	}

	curves, err := s.readCurves(ctx, id)
	if err != nil {
		return Bake{}, fmt.Errorf("read bake %s: %w", id, err)
	}
	clip.Curves = curves

	logs, err := s.readLogs(ctx, id)
	if err != nil {
		return Bake{}, fmt.Errorf("read bake %s: %w", id, err)
	}

	if err := verifyClipID(clip); err != nil {
		return Bake{}, fmt.Errorf("read bake %s: %w", id, err)
	}

	b.Clip = clip
	b.Logs = logs
	return b, nil
}

// readCurves returns the curves of a bake in output order.
func (s *Store) readCurves(ctx context.Context, bakeID string) ([]merge.BakedCurve, error) {
	keys, err := s.readKeys(ctx, bakeID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, path, target, property, class, keyed
		FROM curves
		WHERE bake_id = ?
		ORDER BY idx ASC
	`, bakeID)
	if err != nil {
		return nil, fmt.Errorf("query curves: %w", err)
	}
	defer rows.Close()

	curves := []merge.BakedCurve{}
	for rows.Next() {
		var idx int
		var r curveRow
		if err := rows.Scan(&idx, &r.path, &r.target, &r.property, &r.class, &r.keyed); err != nil {
			return nil, fmt.Errorf("scan curve: %w", err)
		}
		bc, err := r.baked(keys[idx])
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", idx, err)
		}
		curves = append(curves, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate curves: %w", err)
	}
	return curves, nil
}

// readKeys returns the keyframes of a bake grouped by curve index.
func (s *Store) readKeys(ctx context.Context, bakeID string) (map[int][]anim.Keyframe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT curve_idx, time, value, in_tangent, out_tangent
		FROM keys
		WHERE bake_id = ?
		ORDER BY curve_idx ASC, idx ASC
	`, bakeID)
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[int][]anim.Keyframe)
	for rows.Next() {
		var idx int
		var k anim.Keyframe
		if err := rows.Scan(&idx, &k.Time, &k.Value, &k.InTangent, &k.OutTangent); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys[idx] = append(keys[idx], k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// readLogs returns the log entries of a bake in insertion order.
func (s *Store) readLogs(ctx context.Context, bakeID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message
		FROM bake_logs
		WHERE bake_id = ?
		ORDER BY idx ASC
	`, bakeID)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	logs := []string{}
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		logs = append(logs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return logs, nil
}

// ListBakes returns stored bakes in insert order. A non-empty rigID limits
// the list to that rig.
//
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if nothing is stored.
func (s *Store) ListBakes(ctx context.Context, rigID string) ([]BakeSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.seq, b.run_id, b.name, b.rig_id, b.rig_name, b.frame_rate,
			(SELECT COUNT(*) FROM curves c WHERE c.bake_id = b.id),
			(SELECT COUNT(*) FROM keys k WHERE k.bake_id = b.id)
		FROM bakes b
		WHERE ? = '' OR b.rig_id = ?
		ORDER BY b.seq ASC, b.id COLLATE BINARY ASC
	`, rigID, rigID)
	if err != nil {
		return nil, fmt.Errorf("list bakes: %w", err)
	}
	defer rows.Close()

	bakes := []BakeSummary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		bakes = append(bakes, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bakes: %w", err)
	}
	return bakes, nil
}

func scanSummary(rows *sql.Rows) (BakeSummary, error) {
	var b BakeSummary
	err := rows.Scan(
		&b.ID,
		&b.Seq,
		&b.RunID,
		&b.Name,
		&b.Rig.ID,
		&b.Rig.Name,
		&b.FrameRate,
		&b.CurveCount,
		&b.KeyCount,
	)
	if err != nil {
		return BakeSummary{}, fmt.Errorf("scan bake: %w", err)
	}
	return b, nil
}
