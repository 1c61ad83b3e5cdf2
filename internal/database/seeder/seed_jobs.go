package seeder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"turf-hire/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const DemoFacilityEmail = "demo-facility@turfhire.local"

// DemoJobsSeeder creates a facility account with one course and a handful of
// open listings whose required skills come from the default catalog. Run
// SkillsSeeder first.
type DemoJobsSeeder struct {
	Password string
}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (s DemoJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if strings.TrimSpace(s.Password) == "" {
		return errors.New("demo facility password is required")
	}
	if err := requireColumns(ctx, db, "job_listings", "id", "user_id", "facility_profile_id", "title", "required_skills", "salary", "status"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	skillsByName, err := loadSkillIDs(ctx, db)
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, 'facility')
			 ON CONFLICT (email) DO NOTHING`,
			uuid.New(), DemoFacilityEmail, string(hash),
		); err != nil {
			return fmt.Errorf("insert facility user: %w", err)
		}
		var facilityID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, DemoFacilityEmail).Scan(&facilityID); err != nil {
			return fmt.Errorf("load facility user: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO facility_profiles (user_id, name, type, email, description)
			 VALUES ($1, 'Moorside Golf Club', 'golf_course', $2, '18 hole parkland course')
			 ON CONFLICT (user_id) DO NOTHING`,
			facilityID, DemoFacilityEmail,
		); err != nil {
			return fmt.Errorf("insert facility profile: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO course_profiles (id, facility_profile_id, name, description, location, details, photos, status)
			 SELECT $1, $2, 'Moorside Old Course', 'Parkland layout with bentgrass greens', 'Harrogate', $3::jsonb, '{}', 'active'
			 WHERE NOT EXISTS (SELECT 1 FROM course_profiles WHERE facility_profile_id = $2 AND name = 'Moorside Old Course')`,
			uuid.New(), facilityID, `{"holes":18,"totalYardage":6420,"par":71}`,
		); err != nil {
			return fmt.Errorf("insert demo course: %w", err)
		}

		for _, j := range demoJobs {
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM job_listings WHERE user_id = $1 AND title = $2)`,
				facilityID, j.Title,
			).Scan(&exists); err != nil {
				return fmt.Errorf("check %s: %w", j.Title, err)
			}
			if exists {
				continue
			}

			salary, err := json.Marshal(j.Salary)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_listings (id, user_id, facility_profile_id, title, description, location, type, salary, requirements, required_skills, status)
				 VALUES ($1, $2, $2, $3, $4, $5, $6, $7::jsonb, $8, $9, 'open')`,
				uuid.New(), facilityID, j.Title, j.Description, j.Location, j.Type, string(salary), j.Requirements, requiredSkillIDs(j.Skills, skillsByName),
			); err != nil {
				return fmt.Errorf("insert %s: %w", j.Title, err)
			}
		}
		return nil
	})
}

func loadSkillIDs(ctx context.Context, db database.DB) (map[string]uuid.UUID, error) {
	rows, err := db.Query(ctx, `SELECT id, name FROM skills`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[strings.ToLower(name)] = id
	}
	return out, rows.Err()
}

// requiredSkillIDs resolves catalog names, skipping any the catalog lacks.
func requiredSkillIDs(names []string, byName map[string]uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(names))
	for _, n := range names {
		if id, ok := byName[strings.ToLower(n)]; ok {
			out = append(out, id)
		}
	}
	return out
}

type demoSalary struct {
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
}

type demoJob struct {
	Title        string
	Description  string
	Location     string
	Type         string
	Salary       demoSalary
	Requirements []string
	Skills       []string
}

var demoJobs = []demoJob{
	{
		Title:        "Assistant Greenkeeper",
		Description:  "Daily course presentation including greens mowing, bunker raking and divot repair.",
		Location:     "Harrogate",
		Type:         "full-time",
		Salary:       demoSalary{Amount: 26500, Type: "fixed", Currency: "GBP"},
		Requirements: []string{"Early starts", "Full driving licence"},
		Skills:       []string{"Greenkeeping", "Fine Turf Mowing", "Ride-on Machinery Operation"},
	},
	{
		Title:        "Irrigation Technician",
		Description:  "Maintain and programme the pop-up irrigation system across 18 holes.",
		Location:     "Harrogate",
		Type:         "contract",
		Salary:       demoSalary{Amount: 180, Type: "daily", Currency: "GBP"},
		Requirements: []string{"Own tools"},
		Skills:       []string{"Irrigation Systems", "Drainage Installation"},
	},
	{
		Title:        "Seasonal Groundsman",
		Description:  "Summer cover for the cricket square and outfield.",
		Location:     "Knaresborough",
		Type:         "temporary",
		Salary:       demoSalary{Amount: 13.5, Type: "hourly", Currency: "GBP"},
		Requirements: []string{"Weekend availability"},
		Skills:       []string{"Cricket Square Preparation", "Sports Pitch Line Marking"},
	},
}
