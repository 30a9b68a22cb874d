package draws

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/pkg/database"
)

// upsertBatchSize keeps sqlite under its bound-parameter limit.
const upsertBatchSize = 500

// Repository persists the draw archive.
type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&models.DrawRow{}); err != nil {
		return fmt.Errorf("failed to migrate draws: %w", err)
	}
	return nil
}

func (r *Repository) DropTables() error {
	if err := r.db.Migrator().DropTable(&models.DrawRow{}); err != nil {
		return fmt.Errorf("failed to drop draws: %w", err)
	}
	return nil
}

// Upsert inserts draws, overwriting date and balls of existing draw ids.
func (r *Repository) Upsert(ctx context.Context, records []models.DrawRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([]models.DrawRow, len(records))
	for i, rec := range records {
		rows[i] = models.NewDrawRow(rec)
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draw_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"draw_date", "ball1", "ball2", "ball3", "ball4", "ball5", "ball6", "updated_at"}),
	}).CreateInBatches(&rows, upsertBatchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to upsert draws: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// All returns every archived draw ordered by draw id. Rows that no longer
// form a valid draw are skipped.
func (r *Repository) All(ctx context.Context) ([]models.DrawRecord, error) {
	var rows []models.DrawRow
	if err := r.db.WithContext(ctx).Order("draw_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}

	records := make([]models.DrawRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.Record()
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.DrawRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return n, nil
}

// Latest returns the highest archived draw id, or 0 for an empty archive.
func (r *Repository) Latest(ctx context.Context) (int, error) {
	var row models.DrawRow
	err := r.db.WithContext(ctx).Order("draw_id DESC").Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find latest draw: %w", err)
	}
	return row.DrawID, nil
}
