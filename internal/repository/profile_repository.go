package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/profile"
	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

type CandidateProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.Candidate, error)
	// Upsert writes every field except Skills, which belongs to the claim ledger.
	Upsert(ctx context.Context, p profile.Candidate) error
	GetProjection(ctx context.Context, userID uuid.UUID) (skill.Projection, error)
	// GetProjections reads many projections in one query. Users without a
	// profile row are absent from the result.
	GetProjections(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]skill.Projection, error)
}

type FacilityProfileRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (profile.Facility, error)
	Upsert(ctx context.Context, p profile.Facility) error
}

type PostgresCandidateProfileRepository struct {
	db database.DB
}

func NewPostgresCandidateProfileRepository(db database.DB) *PostgresCandidateProfileRepository {
	return &PostgresCandidateProfileRepository{db: db}
}

func (r *PostgresCandidateProfileRepository) Get(ctx context.Context, userID uuid.UUID) (profile.Candidate, error) {
	if r.db == nil {
		return profile.Candidate{}, database.ErrNilDB
	}
	row := r.db.QueryRow(ctx,
		`SELECT user_id, first_name, last_name, email, phone, location, bio, skills, certifications,
		        availability, preferences, experience, created_at, updated_at
		 FROM candidate_profiles WHERE user_id = $1`,
		userID,
	)

	var (
		p                         profile.Candidate
		availability              string
		skills, prefs, experience []byte
	)
	err := row.Scan(
		&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Location, &p.Bio,
		&skills, &p.Certifications, &availability, &prefs, &experience, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return profile.Candidate{}, ErrNotFound
		}
		return profile.Candidate{}, err
	}
	p.Availability = profile.Availability(availability)

	if err := decodeJSON(skills, &p.Skills); err != nil {
		return profile.Candidate{}, fmt.Errorf("decode skills: %w", err)
	}
	p.Skills = p.Skills.Normalize()
	if err := decodeJSON(prefs, &p.Preferences); err != nil {
		return profile.Candidate{}, fmt.Errorf("decode preferences: %w", err)
	}
	if err := decodeJSON(experience, &p.Experience); err != nil {
		return profile.Candidate{}, fmt.Errorf("decode experience: %w", err)
	}
	return p, nil
}

func (r *PostgresCandidateProfileRepository) Upsert(ctx context.Context, p profile.Candidate) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	prefs, err := json.Marshal(p.Preferences)
	if err != nil {
		return err
	}
	experience := p.Experience
	if experience == nil {
		experience = []profile.Experience{}
	}
	exp, err := json.Marshal(experience)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO candidate_profiles
		   (user_id, first_name, last_name, email, phone, location, bio, certifications,
		    availability, preferences, experience, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12, $12)
		 ON CONFLICT (user_id) DO UPDATE SET
		   first_name = EXCLUDED.first_name,
		   last_name = EXCLUDED.last_name,
		   email = EXCLUDED.email,
		   phone = EXCLUDED.phone,
		   location = EXCLUDED.location,
		   bio = EXCLUDED.bio,
		   certifications = EXCLUDED.certifications,
		   availability = EXCLUDED.availability,
		   preferences = EXCLUDED.preferences,
		   experience = EXCLUDED.experience,
		   updated_at = EXCLUDED.updated_at`,
		p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.Location, p.Bio, nonNil(p.Certifications),
		string(p.Availability), string(prefs), string(exp), p.UpdatedAt,
	)
	return err
}

func (r *PostgresCandidateProfileRepository) GetProjection(ctx context.Context, userID uuid.UUID) (skill.Projection, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	var raw []byte
	if err := r.db.QueryRow(ctx, `SELECT skills FROM candidate_profiles WHERE user_id = $1`, userID).Scan(&raw); err != nil {
		if isNoRows(err) {
			return skill.Projection{}, nil
		}
		return nil, err
	}
	var p skill.Projection
	if err := decodeJSON(raw, &p); err != nil {
		return nil, err
	}
	return p.Normalize(), nil
}

func (r *PostgresCandidateProfileRepository) GetProjections(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]skill.Projection, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	out := make(map[uuid.UUID]skill.Projection, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `SELECT user_id, skills FROM candidate_profiles WHERE user_id = ANY($1::uuid[])`, uuidStrings(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  uuid.UUID
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		var p skill.Projection
		if err := decodeJSON(raw, &p); err != nil {
			return nil, fmt.Errorf("decode skills for %s: %w", id, err)
		}
		out[id] = p.Normalize()
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type PostgresFacilityProfileRepository struct {
	db database.DB
}

func NewPostgresFacilityProfileRepository(db database.DB) *PostgresFacilityProfileRepository {
	return &PostgresFacilityProfileRepository{db: db}
}

func (r *PostgresFacilityProfileRepository) Get(ctx context.Context, userID uuid.UUID) (profile.Facility, error) {
	if r.db == nil {
		return profile.Facility{}, database.ErrNilDB
	}
	row := r.db.QueryRow(ctx,
		`SELECT user_id, name, type, email, phone, address, website, description, facilities, amenities,
		        photos, operating_hours, created_at, updated_at
		 FROM facility_profiles WHERE user_id = $1`,
		userID,
	)

	var (
		p              profile.Facility
		typ            string
		address, hours []byte
	)
	err := row.Scan(
		&p.UserID, &p.Name, &typ, &p.Email, &p.Phone, &address, &p.Website, &p.Description,
		&p.Facilities, &p.Amenities, &p.Photos, &hours, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return profile.Facility{}, ErrNotFound
		}
		return profile.Facility{}, err
	}
	p.Type = profile.FacilityType(typ)
	if err := decodeJSON(address, &p.Address); err != nil {
		return profile.Facility{}, fmt.Errorf("decode address: %w", err)
	}
	if err := decodeJSON(hours, &p.OperatingHours); err != nil {
		return profile.Facility{}, fmt.Errorf("decode operating hours: %w", err)
	}
	return p, nil
}

func (r *PostgresFacilityProfileRepository) Upsert(ctx context.Context, p profile.Facility) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	address, err := json.Marshal(p.Address)
	if err != nil {
		return err
	}
	hours := p.OperatingHours
	if hours == nil {
		hours = map[string]profile.Hours{}
	}
	h, err := json.Marshal(hours)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO facility_profiles
		   (user_id, name, type, email, phone, address, website, description, facilities, amenities,
		    photos, operating_hours, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10, $11, $12::jsonb, $13, $13)
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = EXCLUDED.name,
		   type = EXCLUDED.type,
		   email = EXCLUDED.email,
		   phone = EXCLUDED.phone,
		   address = EXCLUDED.address,
		   website = EXCLUDED.website,
		   description = EXCLUDED.description,
		   facilities = EXCLUDED.facilities,
		   amenities = EXCLUDED.amenities,
		   photos = EXCLUDED.photos,
		   operating_hours = EXCLUDED.operating_hours,
		   updated_at = EXCLUDED.updated_at`,
		p.UserID, p.Name, string(p.Type), p.Email, p.Phone, string(address), p.Website, p.Description,
		nonNil(p.Facilities), nonNil(p.Amenities), nonNil(p.Photos), string(h), p.UpdatedAt,
	)
	return err
}

func decodeJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
