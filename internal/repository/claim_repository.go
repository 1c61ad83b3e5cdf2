package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

type ClaimFilter struct {
	UserID *uuid.UUID
	Status *skill.Status
}

type ClaimRepository interface {
	Exists(ctx context.Context, userID, skillID uuid.UUID) (bool, error)
	// Create inserts the claim and its projection entry in one transaction.
	Create(ctx context.Context, c skill.Claim) error
	GetByID(ctx context.Context, id uuid.UUID) (skill.Claim, error)
	List(ctx context.Context, f ClaimFilter) ([]skill.Claim, error)
	// Transition locks the claim, lets apply mutate it and persists the claim
	// together with the owner's projection entry. An error from apply aborts
	// the transaction and is returned unchanged.
	Transition(ctx context.Context, id uuid.UUID, apply func(c *skill.Claim) error) (skill.Claim, error)
}

type PostgresClaimRepository struct {
	db database.DB
}

func NewPostgresClaimRepository(db database.DB) *PostgresClaimRepository {
	return &PostgresClaimRepository{db: db}
}

const claimColumns = `id, user_id, skill_id, status, evidence, verified_by, verified_at, rejected_at, rejection_reason, created_at, updated_at`

func scanClaim(row database.Row) (skill.Claim, error) {
	var (
		c        skill.Claim
		status   string
		evidence []byte
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.SkillID, &status, &evidence,
		&c.VerifiedBy, &c.VerifiedAt, &c.RejectedAt, &c.RejectionReason,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return skill.Claim{}, err
	}
	c.Status = skill.ParseStatus(status)
	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &c.Evidence); err != nil {
			return skill.Claim{}, fmt.Errorf("decode evidence for claim %s: %w", c.ID, err)
		}
	}
	if c.Evidence == nil {
		c.Evidence = []skill.Evidence{}
	}
	return c, nil
}

func (r *PostgresClaimRepository) Exists(ctx context.Context, userID, skillID uuid.UUID) (bool, error) {
	if r.db == nil {
		return false, database.ErrNilDB
	}
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM skill_claims WHERE user_id = $1 AND skill_id = $2)`, userID, skillID)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresClaimRepository) Create(ctx context.Context, c skill.Claim) error {
	evidence, err := json.Marshal(nonNilEvidence(c.Evidence))
	if err != nil {
		return err
	}

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO skill_claims (id, user_id, skill_id, status, evidence, rejection_reason, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5::jsonb, '', $6, $7)`,
			c.ID, c.UserID, c.SkillID, string(c.Status), string(evidence), c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return writeProjectionEntry(ctx, tx, c.UserID, c.ProjectionEntry(), c.UpdatedAt)
	})
}

func (r *PostgresClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Claim, error) {
	if r.db == nil {
		return skill.Claim{}, database.ErrNilDB
	}
	c, err := scanClaim(r.db.QueryRow(ctx, `SELECT `+claimColumns+` FROM skill_claims WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return skill.Claim{}, ErrNotFound
		}
		return skill.Claim{}, err
	}
	return c, nil
}

func (r *PostgresClaimRepository) List(ctx context.Context, f ClaimFilter) ([]skill.Claim, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}

	var (
		where []string
		args  []any
	)
	if f.UserID != nil {
		args = append(args, *f.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + claimColumns + ` FROM skill_claims`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Claim, 0)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresClaimRepository) Transition(ctx context.Context, id uuid.UUID, apply func(c *skill.Claim) error) (skill.Claim, error) {
	var out skill.Claim
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		c, err := scanClaim(tx.QueryRow(ctx, `SELECT `+claimColumns+` FROM skill_claims WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if isNoRows(err) {
				return ErrNotFound
			}
			return err
		}

		if err := apply(&c); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE skill_claims
			 SET status = $2, verified_by = $3, verified_at = $4, rejected_at = $5, rejection_reason = $6, updated_at = $7
			 WHERE id = $1`,
			c.ID, string(c.Status), c.VerifiedBy, c.VerifiedAt, c.RejectedAt, c.RejectionReason, c.UpdatedAt,
		)
		if err != nil {
			return err
		}

		if err := writeProjectionEntry(ctx, tx, c.UserID, c.ProjectionEntry(), c.UpdatedAt); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return skill.Claim{}, err
	}
	return out, nil
}

// writeProjectionEntry replaces the owner's projection entry for the skill,
// creating a bare candidate profile first when none exists.
func writeProjectionEntry(ctx context.Context, tx database.Tx, userID uuid.UUID, entry skill.ProjectionEntry, now time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO candidate_profiles (user_id, email, created_at, updated_at)
		 SELECT id, email, $2, $2 FROM users WHERE id = $1
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, now,
	)
	if err != nil {
		return err
	}

	var raw []byte
	row := tx.QueryRow(ctx, `SELECT skills FROM candidate_profiles WHERE user_id = $1 FOR UPDATE`, userID)
	if err := row.Scan(&raw); err != nil {
		if isNoRows(err) {
			return fmt.Errorf("candidate profile %s: %w", userID, ErrNotFound)
		}
		return err
	}

	var projection skill.Projection
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &projection); err != nil {
			return fmt.Errorf("decode projection for %s: %w", userID, err)
		}
	}
	projection = projection.Normalize().Upsert(entry)

	encoded, err := json.Marshal(projection)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`UPDATE candidate_profiles SET skills = $2::jsonb, updated_at = $3 WHERE user_id = $1`,
		userID, string(encoded), now,
	)
	return err
}

func nonNilEvidence(in []skill.Evidence) []skill.Evidence {
	if in == nil {
		return []skill.Evidence{}
	}
	return in
}
