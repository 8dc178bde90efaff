package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wrd-mh/pah-award-api/internal/models"
)

// WUARepository provides database access to the association registry.
type WUARepository struct {
	db *sqlx.DB
}

// NewWUARepository constructs the repository.
func NewWUARepository(db *sqlx.DB) *WUARepository {
	return &WUARepository{db: db}
}

const wuaColumns = `id, registration_number, name, district, circle, corporation, category, contact_email, contact_phone, active, created_at, updated_at`

// FindByID returns an association by identifier.
func (r *WUARepository) FindByID(ctx context.Context, id string) (*models.WUA, error) {
	query := fmt.Sprintf(`SELECT %s FROM wuas WHERE id = $1 LIMIT 1`, wuaColumns)
	var wua models.WUA
	if err := r.db.GetContext(ctx, &wua, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find wua by id: %w", err)
	}
	return &wua, nil
}

// FindByRegistrationNumber returns an association by registration number.
func (r *WUARepository) FindByRegistrationNumber(ctx context.Context, regNo string) (*models.WUA, error) {
	query := fmt.Sprintf(`SELECT %s FROM wuas WHERE registration_number = $1 LIMIT 1`, wuaColumns)
	var wua models.WUA
	if err := r.db.GetContext(ctx, &wua, query, regNo); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find wua by registration number: %w", err)
	}
	return &wua, nil
}

// List returns associations matching the filter.
func (r *WUARepository) List(ctx context.Context, filter models.WUAFilter) ([]models.WUA, error) {
	builder := strings.Builder{}
	args := make([]interface{}, 0, 6)
	builder.WriteString(`SELECT ` + wuaColumns + ` FROM wuas`)

	conditions := make([]string, 0, 6)
	if filter.District != "" {
		args = append(args, filter.District)
		conditions = append(conditions, fmt.Sprintf("district = $%d", len(args)))
	}
	if filter.Circle != "" {
		args = append(args, filter.Circle)
		conditions = append(conditions, fmt.Sprintf("circle = $%d", len(args)))
	}
	if filter.Corporation != "" {
		args = append(args, filter.Corporation)
		conditions = append(conditions, fmt.Sprintf("corporation = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR LOWER(registration_number) LIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY name ASC")

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	builder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset))

	var wuas []models.WUA
	if err := r.db.SelectContext(ctx, &wuas, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list wuas: %w", err)
	}
	return wuas, nil
}

// Create inserts a new association row.
func (r *WUARepository) Create(ctx context.Context, wua *models.WUA) error {
	if wua.ID == "" {
		wua.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if wua.CreatedAt.IsZero() {
		wua.CreatedAt = now
	}
	wua.UpdatedAt = now
	const query = `INSERT INTO wuas (id, registration_number, name, district, circle, corporation, category, contact_email, contact_phone, active, created_at, updated_at)
	VALUES (:id, :registration_number, :name, :district, :circle, :corporation, :category, :contact_email, :contact_phone, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, wua); err != nil {
		return fmt.Errorf("create wua: %w", err)
	}
	return nil
}

// Update persists mutable association fields. The registration number and
// category never change after creation.
func (r *WUARepository) Update(ctx context.Context, wua *models.WUA) error {
	wua.UpdatedAt = time.Now().UTC()
	const query = `UPDATE wuas SET name = :name, district = :district, circle = :circle, corporation = :corporation,
	contact_email = :contact_email, contact_phone = :contact_phone, active = :active, updated_at = :updated_at
	WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, wua); err != nil {
		return fmt.Errorf("update wua: %w", err)
	}
	return nil
}
