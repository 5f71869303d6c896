package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/servicedoc"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ servicedoc.TemplateService = (*TemplateService)(nil)

// TemplateService implements servicedoc.TemplateService using SQLite.
// Template items are stored as a JSON array in a single column.
type TemplateService struct {
	db *DB
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(db *DB) *TemplateService {
	return &TemplateService{db: db}
}

// CreateTemplate creates a new template.
func (s *TemplateService) CreateTemplate(ctx context.Context, template *servicedoc.Template) error {
	if err := template.Validate(); err != nil {
		return err
	}
	if err := s.checkNameAvailable(ctx, template.Name, ""); err != nil {
		return err
	}

	items, err := encodeItems(template.Items)
	if err != nil {
		return err
	}

	template.ID = uuid.New().String()
	now := time.Now().UTC()
	template.CreatedAt = now
	template.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO templates (id, name, items, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, template.ID, template.Name, items,
		template.CreatedAt.Format(time.RFC3339), template.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindTemplateByID retrieves a template by ID.
func (s *TemplateService) FindTemplateByID(ctx context.Context, id string) (*servicedoc.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, items, created_at, updated_at
		FROM templates
		WHERE id = ?
	`, id)

	template, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, servicedoc.Errorf(servicedoc.ENOTFOUND, "template not found")
	}
	if err != nil {
		return nil, err
	}
	return template, nil
}

// FindTemplates retrieves templates matching the filter, oldest first so
// the first stored template stays the fallback base template.
func (s *TemplateService) FindTemplates(ctx context.Context, filter servicedoc.TemplateFilter) ([]*servicedoc.Template, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, items, created_at, updated_at FROM templates WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*servicedoc.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	return templates, rows.Err()
}

// UpdateTemplate updates an existing template.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, upd servicedoc.TemplateUpdate) (*servicedoc.Template, error) {
	template, err := s.FindTemplateByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		template.Name = *upd.Name
	}
	if upd.Items != nil {
		template.Items = *upd.Items
	}

	if err := template.Validate(); err != nil {
		return nil, err
	}
	if upd.Name != nil {
		if err := s.checkNameAvailable(ctx, template.Name, id); err != nil {
			return nil, err
		}
	}

	items, err := encodeItems(template.Items)
	if err != nil {
		return nil, err
	}

	template.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE templates
		SET name = ?, items = ?, updated_at = ?
		WHERE id = ?
	`, template.Name, items, template.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return template, nil
}

// DeleteTemplate permanently removes a template.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return servicedoc.Errorf(servicedoc.ENOTFOUND, "template not found")
	}

	return nil
}

// checkNameAvailable returns ECONFLICT when another template (other than
// exceptID) already uses name.
func (s *TemplateService) checkNameAvailable(ctx context.Context, name, exceptID string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM templates WHERE name = ? AND id != ?", name, exceptID,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return servicedoc.Errorf(servicedoc.ECONFLICT, "template %q already exists", name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*servicedoc.Template, error) {
	var template servicedoc.Template
	var items, createdAt, updatedAt string

	if err := row.Scan(&template.ID, &template.Name, &items, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(items), &template.Items); err != nil {
		return nil, fmt.Errorf("failed to decode template items: %w", err)
	}

	var err error
	if template.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if template.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &template, nil
}

func encodeItems(items []servicedoc.TemplateItem) (string, error) {
	if items == nil {
		items = []servicedoc.TemplateItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode template items: %w", err)
	}
	return string(b), nil
}
