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

// LoadState reads the full persisted snapshot back. Version rows come out
// in publish order (insertion sequence).
func (s *SQLiteStore) LoadState(ctx context.Context) (registry.State, error) {
	state := registry.State{
		Authorizations: make(map[string][]common.Address),
		Licenses:       make(map[string][]common.Address),
		Balances:       make(map[common.Address]*big.Int),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, owner, description, tags, language, is_private, license_fee, license_required
		FROM libraries`)
	if err != nil {
		return state, fmt.Errorf("failed to load libraries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			info              registry.LibraryInfo
			owner, tags, fee  string
			private, required int
		)
		if err := rows.Scan(&info.Name, &owner, &info.Description, &tags,
			&info.Language, &private, &fee, &required); err != nil {
			return state, fmt.Errorf("failed to scan library row: %w", err)
		}
		info.Owner = common.HexToAddress(owner)
		info.Private = private != 0
		info.LicenseRequired = required != 0
		if err := json.Unmarshal([]byte(tags), &info.Tags); err != nil {
			return state, fmt.Errorf("corrupt tags for library %q: %w", info.Name, err)
		}
		f, ok := new(big.Int).SetString(fee, 10)
		if !ok {
			return state, fmt.Errorf("corrupt license fee for library %q", info.Name)
		}
		info.LicenseFee = f
		state.Libraries = append(state.Libraries, info)
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	vrows, err := s.db.QueryContext(ctx, `
		SELECT library, version, content_ref, publisher, published_at, dependencies, deprecated
		FROM versions ORDER BY seq`)
	if err != nil {
		return state, fmt.Errorf("failed to load versions: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		var (
			info                 registry.VersionInfo
			publisher, published string
			deps                 string
			deprecated           int
		)
		if err := vrows.Scan(&info.Name, &info.Version, &info.ContentRef,
			&publisher, &published, &deps, &deprecated); err != nil {
			return state, fmt.Errorf("failed to scan version row: %w", err)
		}
		info.Publisher = common.HexToAddress(publisher)
		info.Deprecated = deprecated != 0
		ts, err := time.Parse(time.RFC3339Nano, published)
		if err != nil {
			return state, fmt.Errorf("corrupt timestamp for %s@%s: %w", info.Name, info.Version, err)
		}
		info.Timestamp = ts
		if err := json.Unmarshal([]byte(deps), &info.Dependencies); err != nil {
			return state, fmt.Errorf("corrupt dependencies for %s@%s: %w", info.Name, info.Version, err)
		}
		state.Versions = append(state.Versions, info)
	}
	if err := vrows.Err(); err != nil {
		return state, err
	}

	if err := s.loadAddressSet(ctx, `SELECT library, address FROM authorizations`, state.Authorizations); err != nil {
		return state, err
	}
	if err := s.loadAddressSet(ctx, `SELECT library, address FROM licenses`, state.Licenses); err != nil {
		return state, err
	}

	brows, err := s.db.QueryContext(ctx, `SELECT address, balance FROM balances`)
	if err != nil {
		return state, fmt.Errorf("failed to load balances: %w", err)
	}
	defer brows.Close()
	for brows.Next() {
		var addr, balance string
		if err := brows.Scan(&addr, &balance); err != nil {
			return state, fmt.Errorf("failed to scan balance row: %w", err)
		}
		b, ok := new(big.Int).SetString(balance, 10)
		if !ok {
			return state, fmt.Errorf("corrupt balance for account %s", addr)
		}
		state.Balances[common.HexToAddress(addr)] = b
	}
	return state, brows.Err()
}

func (s *SQLiteStore) loadAddressSet(ctx context.Context, query string, out map[string][]common.Address) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var library, address string
		if err := rows.Scan(&library, &address); err != nil {
			return err
		}
		out[library] = append(out[library], common.HexToAddress(address))
	}
	return rows.Err()
}
