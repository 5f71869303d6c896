package sqlite

import (
	"context"

	"github.com/fwojciec/servicedoc"
)

// Compile-time interface verification.
var _ servicedoc.PersonnelService = (*PersonnelService)(nil)

// PersonnelService implements servicedoc.PersonnelService using SQLite.
type PersonnelService struct {
	db *DB
}

// NewPersonnelService creates a new PersonnelService.
func NewPersonnelService(db *DB) *PersonnelService {
	return &PersonnelService{db: db}
}

// Roster returns the stored names in priority order.
func (s *PersonnelService) Roster(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM personnel ORDER BY position ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// ReplaceRoster replaces the stored roster in a single transaction.
func (s *PersonnelService) ReplaceRoster(ctx context.Context, names []string) error {
	names = servicedoc.NormalizeRoster(names)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM personnel"); err != nil {
		return err
	}

	for i, name := range names {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO personnel (position, name) VALUES (?, ?)", i, name,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
