package repository

import (
	"context"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRepository interface {
	List(ctx context.Context) ([]skill.Skill, error)
	GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	Create(ctx context.Context, s skill.Skill) error
	Update(ctx context.Context, s skill.Skill) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresSkillRepository struct {
	db database.DB
}

func NewPostgresSkillRepository(db database.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

const skillColumns = `id, name, category, description, requires_evidence, accepted_file_types, created_at, updated_at`

func scanSkill(row database.Row) (skill.Skill, error) {
	var s skill.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.RequiresEvidence, &s.AcceptedFileTypes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresSkillRepository) List(ctx context.Context) ([]skill.Skill, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	rows, err := r.db.Query(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresSkillRepository) GetByID(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	if r.db == nil {
		return skill.Skill{}, database.ErrNilDB
	}
	s, err := scanSkill(r.db.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return skill.Skill{}, ErrNotFound
		}
		return skill.Skill{}, err
	}
	return s, nil
}

func (r *PostgresSkillRepository) Create(ctx context.Context, s skill.Skill) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO skills (id, name, category, description, requires_evidence, accepted_file_types, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Category, s.Description, s.RequiresEvidence, nonNil(s.AcceptedFileTypes), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PostgresSkillRepository) Update(ctx context.Context, s skill.Skill) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE skills
		 SET name = $2, category = $3, description = $4, requires_evidence = $5, accepted_file_types = $6, updated_at = $7
		 WHERE id = $1`,
		s.ID, s.Name, s.Category, s.Description, s.RequiresEvidence, nonNil(s.AcceptedFileTypes), s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the catalog entry only. Claims referencing it are left as they are.
func (r *PostgresSkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	affected, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
