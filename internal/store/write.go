package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/trackbake/internal/ir"
	"github.com/roach88/trackbake/internal/merge"
)

// WriteBake stores the generated clip of res together with its logs.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: a clip whose content ID
// is already stored is silently skipped and inserted is false. The clip ID
// must match the clip's content.
func (s *Store) WriteBake(ctx context.Context, res *merge.MergeResult) (inserted bool, err error) {
	if res == nil || res.GeneratedClip == nil {
		return false, fmt.Errorf("write bake: %w", ErrNoClip)
	}
	clip := res.GeneratedClip

	identity, err := marshalIdentity(clip)
	if err != nil {
		return false, fmt.Errorf("write bake: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write bake: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM bakes`).Scan(&seq); err != nil {
		return false, fmt.Errorf("write bake: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO bakes
		(id, seq, run_id, name, rig_id, rig_name, frame_rate, identity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		clip.ID,
		seq,
		clip.RunID,
		clip.Name,
		clip.Rig.ID,
		clip.Rig.Name,
		clip.FrameRate,
		identity,
	)
	if err != nil {
		return false, fmt.Errorf("write bake: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write bake: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if err := writeCurves(ctx, tx, clip); err != nil {
		return false, fmt.Errorf("write bake: %w", err)
	}

	for i, msg := range res.Logs() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bake_logs (bake_id, idx, message, is_error)
			VALUES (?, ?, ?, ?)
		`, clip.ID, i, msg, strings.HasPrefix(msg, merge.ErrorLogPrefix)); err != nil {
			return false, fmt.Errorf("write bake: log %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write bake: commit: %w", err)
	}
	return true, nil
}

// writeCurves inserts the curve and key rows of clip.
func writeCurves(ctx context.Context, tx *sql.Tx, clip *merge.BakedClip) error {
	keyStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO keys (bake_id, curve_idx, idx, time, value, in_tangent, out_tangent)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare keys: %w", err)
	}
	defer keyStmt.Close()

	for i, bc := range clip.Curves {
		hash, err := ir.CurveHash(merge.CurveIdentity(bc))
		if err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO curves (bake_id, idx, path, target, property, class, keyed, curve_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			clip.ID,
			i,
			bc.Binding.Path,
			bc.Binding.Target.String(),
			bc.Binding.Property,
			bc.Class.String(),
			bc.Curve.Len() > 0,
			hash,
		); err != nil {
			return fmt.Errorf("curve %d: %w", i, err)
		}

		for j, k := range bc.Curve.Keys() {
			if _, err := keyStmt.ExecContext(ctx, clip.ID, i, j, k.Time, k.Value, k.InTangent, k.OutTangent); err != nil {
				return fmt.Errorf("curve %d key %d: %w", i, j, err)
			}
		}
	}
	return nil
}
