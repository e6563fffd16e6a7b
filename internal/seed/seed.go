// Package seed loads a small demo dataset for local development.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	ledgerdomain "github.com/hosteldesk/messpro/internal/ledger/domain"
)

// EnsureDemoData inserts sample residents and meal plans so a fresh install
// has something to show. The seed only runs against an empty ledger and never
// touches a database that already holds residents.
func EnsureDemoData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ledgerdomain.Resident{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		plans := []ledgerdomain.Plan{
			{
				ID:           node.Generate(),
				Name:         "Full Mess",
				Meals:        []string{"breakfast", "lunch", "dinner"},
				MonthlyPrice: 4500,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
			{
				ID:           node.Generate(),
				Name:         "Dinner Only",
				Meals:        []string{"dinner"},
				MonthlyPrice: 2000,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		}
		if err := tx.Create(&plans).Error; err != nil {
			return err
		}

		residents := []ledgerdomain.Resident{
			{ID: node.Generate(), Name: "Rahul Sharma", Phone: "9876543210", Room: "A-101",
				Status: ledgerdomain.ResidentStatusActive, CreatedAt: now},
			{ID: node.Generate(), Name: "Priya Verma", Phone: "9876501234", Room: "B-204",
				Status: ledgerdomain.ResidentStatusActive, CreatedAt: now},
			{ID: node.Generate(), Name: "Amit Kumar", Phone: "9876512345", Room: "C-012",
				Status: ledgerdomain.ResidentStatusActive, CreatedAt: now},
		}
		if err := tx.Create(&residents).Error; err != nil {
			return err
		}

		// Give the first resident a current assignment so the dashboard is not
		// empty on first load.
		start := ledgerdomain.DateOf(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
		end := start.AddDate(0, 1, -1)
		assignment := ledgerdomain.Assignment{
			ID:         node.Generate(),
			ResidentID: residents[0].ID,
			PlanID:     plans[0].ID,
			StartDate:  start,
			EndDate:    end,
			Charge:     ledgerdomain.Prorate(plans[0].MonthlyPrice, start, end),
			Status:     ledgerdomain.AssignmentStatusActive,
			CreatedAt:  now,
		}
		return tx.Create(&assignment).Error
	})
}
