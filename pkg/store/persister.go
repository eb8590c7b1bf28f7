package store

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/libvault/registry/pkg/registry"
)

// SaveLibrary upserts the library row, including license configuration.
func (s *SQLiteStore) SaveLibrary(ctx context.Context, info registry.LibraryInfo) error {
	tags, err := json.Marshal(info.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO libraries (name, owner, description, tags, language, is_private, license_fee, license_required)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			license_fee = excluded.license_fee,
			license_required = excluded.license_required`,
		info.Name, info.Owner.Hex(), info.Description, string(tags), info.Language,
		boolToInt(info.Private), info.LicenseFee.String(), boolToInt(info.LicenseRequired),
	)
	return err
}

// DeleteLibrary removes the library row and every associated row.
func (s *SQLiteStore) DeleteLibrary(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range []string{
		`DELETE FROM versions WHERE library = ?`,
		`DELETE FROM authorizations WHERE library = ?`,
		`DELETE FROM licenses WHERE library = ?`,
		`DELETE FROM libraries WHERE name = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, name); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// SaveVersion upserts one version row. Only the deprecated flag can change
// on conflict; everything else is immutable.
func (s *SQLiteStore) SaveVersion(ctx context.Context, info registry.VersionInfo) error {
	deps, err := json.Marshal(info.Dependencies)
	if err != nil {
		return fmt.Errorf("failed to encode dependencies: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO versions (library, version, content_ref, publisher, published_at, dependencies, deprecated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(library, version) DO UPDATE SET
			deprecated = excluded.deprecated`,
		info.Name, info.Version, info.ContentRef, info.Publisher.Hex(),
		info.Timestamp.UTC().Format(time.RFC3339Nano), string(deps), boolToInt(info.Deprecated),
	)
	return err
}

// SetAuthorization inserts or removes one authorization row.
func (s *SQLiteStore) SetAuthorization(ctx context.Context, name string, addr common.Address, granted bool) error {
	if granted {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO authorizations (library, address) VALUES (?, ?)`,
			name, addr.Hex())
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM authorizations WHERE library = ? AND address = ?`,
		name, addr.Hex())
	return err
}

// SetLicense records a purchased license. Licenses are never unset.
func (s *SQLiteStore) SetLicense(ctx context.Context, name string, addr common.Address) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO licenses (library, address) VALUES (?, ?)`,
		name, addr.Hex())
	return err
}

// SaveBalance upserts one ledger account balance.
func (s *SQLiteStore) SaveBalance(ctx context.Context, addr common.Address, balance *big.Int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (address, balance) VALUES (?, ?)
		ON CONFLICT(address) DO UPDATE SET balance = excluded.balance`,
		addr.Hex(), balance.String())
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
