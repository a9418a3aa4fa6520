// Package repository holds the storage and messaging adapters behind the
// domain interfaces.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"HomePulse/internal/domain/models"
	domainrepo "HomePulse/internal/domain/repository"
)

// PostgresCatalog implements repository.ApartmentCatalog against the local
// housing registry.
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog opens the catalog database and verifies connectivity.
func NewPostgresCatalog(dsn string) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog ping: %w", err)
	}
	return &PostgresCatalog{db: db}, nil
}

// Lookup fetches one apartment by its registry sequence.
func (c *PostgresCatalog) Lookup(ctx context.Context, aptID string) (*models.Apartment, error) {
	const q = `
		SELECT apt_seq, apt_name, dong_name, lot_number, region_code,
		       latitude, longitude, COALESCE(build_year, 0)
		FROM house_infos
		WHERE apt_seq = $1`

	var apt models.Apartment
	err := c.db.QueryRowContext(ctx, q, aptID).Scan(
		&apt.ID, &apt.Name, &apt.DongName, &apt.LotNumber, &apt.RegionCode,
		&apt.Latitude, &apt.Longitude, &apt.BuildYear,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("catalog lookup %s: %w", aptID, err)
	}
	return &apt, nil
}

// ResolveRegion maps a sido/gugun/dong triple to the 5-digit legal district
// code used by the trade upstream.
func (c *PostgresCatalog) ResolveRegion(ctx context.Context, sido, gugun, dong string) (string, error) {
	const q = `
		SELECT code
		FROM region_codes
		WHERE sido_name = $1 AND gugun_name = $2 AND dong_name = $3
		LIMIT 1`

	var code string
	err := c.db.QueryRowContext(ctx, q, sido, gugun, dong).Scan(&code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domainrepo.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolve region %s/%s/%s: %w", sido, gugun, dong, err)
	}
	// trade upstream keys on the district prefix, not the full dong code
	if len(code) > 5 {
		code = code[:5]
	}
	return code, nil
}

// Close closes the underlying pool.
func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}
