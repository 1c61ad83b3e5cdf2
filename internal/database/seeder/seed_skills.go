package seeder

import (
	"context"
	"fmt"

	"turf-hire/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "skills", "id", "name", "category", "description", "requires_evidence", "accepted_file_types", "created_at"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range defaultSkills {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (id, name, category, description, requires_evidence, accepted_file_types)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
				 ON CONFLICT (name) DO NOTHING`,
				it.Name,
				it.Category,
				it.Description,
				it.RequiresEvidence,
				it.AcceptedFileTypes,
			)
			if err != nil {
				return fmt.Errorf("insert %s: %w", it.Name, err)
			}
		}
		return nil
	})
}

type skillSeed struct {
	Name              string
	Category          string
	Description       string
	RequiresEvidence  bool
	AcceptedFileTypes []string
}

var certificateTypes = []string{".pdf", ".jpg", ".jpeg", ".png"}

var defaultSkills = []skillSeed{
	{Name: "Greenkeeping", Category: "Turf Management", Description: "Daily care of greens, tees and fairways"},
	{Name: "Fine Turf Mowing", Category: "Turf Management", Description: "Cylinder mowing of greens and tees to height of cut"},
	{Name: "Aeration and Scarification", Category: "Turf Management", Description: "Hollow tining, verti-draining and thatch removal"},
	{Name: "Top Dressing", Category: "Turf Management"},
	{Name: "Sports Pitch Line Marking", Category: "Sports Surfaces"},
	{Name: "Cricket Square Preparation", Category: "Sports Surfaces"},
	{Name: "Synthetic Surface Maintenance", Category: "Sports Surfaces"},
	{Name: "Irrigation Systems", Category: "Irrigation", Description: "Installation and scheduling of pop-up irrigation"},
	{Name: "Drainage Installation", Category: "Irrigation"},
	{Name: "Ride-on Machinery Operation", Category: "Machinery", RequiresEvidence: true, AcceptedFileTypes: certificateTypes},
	{Name: "Machinery Maintenance", Category: "Machinery"},
	{Name: "Chainsaw Operation", Category: "Machinery", RequiresEvidence: true, AcceptedFileTypes: certificateTypes},
	{Name: "Pesticide Application (PA1/PA6)", Category: "Certification", Description: "Safe use of pesticides", RequiresEvidence: true, AcceptedFileTypes: certificateTypes},
	{Name: "First Aid at Work", Category: "Certification", RequiresEvidence: true, AcceptedFileTypes: certificateTypes},
	{Name: "Soil Science", Category: "Agronomy"},
	{Name: "Turf Disease Identification", Category: "Agronomy"},
	{Name: "Team Supervision", Category: "Management"},
}
