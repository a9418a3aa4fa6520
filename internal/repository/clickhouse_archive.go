package repository

import (
	"context"
	"fmt"
	"time"

	"HomePulse/internal/domain/models"
	"HomePulse/pkg/clickhouse"
)

// ArchiveSchema creates the deal archive table. Passed to
// clickhouse.Client.InitSchema at startup.
var ArchiveSchema = []string{
	`CREATE TABLE IF NOT EXISTS deal_archive (
		collected_at  DateTime,
		apt_seq       String,
		region_code   String,
		apt_name      String,
		dong          String,
		jibun         String,
		deal_amount   String,
		deal_year     Int32,
		deal_month    Int32,
		deal_day      Int32,
		area_m2       Float64,
		floor         Int32
	) ENGINE = MergeTree()
	ORDER BY (region_code, deal_year, deal_month, deal_day)`,
}

// ClickHouseArchive implements repository.DealArchive. Collected batches are
// copied here for offline analytics; read paths never touch it.
type ClickHouseArchive struct {
	client *clickhouse.Client
}

// NewClickHouseArchive wraps an existing ClickHouse client.
func NewClickHouseArchive(client *clickhouse.Client) *ClickHouseArchive {
	return &ClickHouseArchive{client: client}
}

// ArchiveDeals inserts one collected batch inside a transaction.
func (a *ClickHouseArchive) ArchiveDeals(ctx context.Context, scope models.DealScope, deals []models.TradeRecord) error {
	if len(deals) == 0 {
		return nil
	}

	tx, err := a.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO deal_archive
			(collected_at, apt_seq, region_code, apt_name, dong, jibun,
			 deal_amount, deal_year, deal_month, deal_day, area_m2, floor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("archive prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, d := range deals {
		if _, err := stmt.ExecContext(ctx,
			now, scope.ApartmentID, scope.RegionCode, d.AptName, d.Dong, d.Jibun,
			d.DealAmount, d.DealYear, d.DealMonth, d.DealDay, d.ExclusiveAreaM2, d.Floor,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("archive insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("archive commit: %w", err)
	}
	return nil
}
