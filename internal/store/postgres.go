package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dom "github.com/Mahran1998/opsflow/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRequestStore is the durable backend. Identifier assignment rides on the
// bigserial column; status and priority are stored by symbolic name.
type PGRequestStore struct {
	db *pgxpool.Pool
}

func NewPGRequestStore(db *pgxpool.Pool) *PGRequestStore {
	return &PGRequestStore{db: db}
}

const requestColumns = "id, title, description, status, priority, notes, created_at, updated_at"

func (s *PGRequestStore) Create(ctx context.Context, in CreateInput) (dom.Request, error) {
	if errs := dom.ValidateCreate(in.Title, in.Description); len(errs) > 0 {
		return dom.Request{}, &ValidationError{Fields: errs}
	}

	query := `
		INSERT INTO requests (title, description, status, priority)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + requestColumns
	row := s.db.QueryRow(ctx, query,
		strings.TrimSpace(in.Title),
		dom.NormalizeOptional(in.Description),
		dom.StatusNew,
		in.Priority,
	)
	return scanRequest(row)
}

func (s *PGRequestStore) GetByID(ctx context.Context, id int64) (dom.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	r, err := scanRequest(s.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Request{}, &NotFoundError{ID: id}
	}
	return r, err
}

func (s *PGRequestStore) List(ctx context.Context, f ListFilter) ([]dom.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	var (
		conds []string
		args  []any
	)
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if needle := strings.TrimSpace(f.Query); needle != "" {
		args = append(args, "%"+needle+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC, id DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

// Update validates against the row as currently persisted: the row is locked
// for the duration of the transaction, so a concurrent update cannot slip a
// status change in between validation and the write.
func (s *PGRequestStore) Update(ctx context.Context, id int64, in UpdateInput) (dom.Request, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return dom.Request{}, err
	}
	defer tx.Rollback(ctx)

	current, err := scanRequest(tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.Request{}, &NotFoundError{ID: id}
	}
	if err != nil {
		return dom.Request{}, err
	}

	if errs := dom.ValidateUpdate(in.Status, in.Notes, current.Status); len(errs) > 0 {
		return dom.Request{}, &ValidationError{Fields: errs}
	}

	status := current.Status
	if in.Status != nil {
		status = *in.Status
	}
	notes := current.Notes
	if in.Notes != nil {
		notes = dom.NormalizeOptional(in.Notes)
	}

	query := `
		UPDATE requests SET status = $2, notes = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + requestColumns
	updated, err := scanRequest(tx.QueryRow(ctx, query, id, status, notes))
	if err != nil {
		return dom.Request{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return dom.Request{}, err
	}
	return updated, nil
}

func scanRequest(row pgx.Row) (dom.Request, error) {
	var r dom.Request
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Status, &r.Priority,
		&r.Notes, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}
