package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

type SQLRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func columns(s domain.Schema) string {
	cols := make([]string, 0, len(s.Fields)+1)
	cols = append(cols, quote(s.IDField))
	for _, f := range s.Fields {
		cols = append(cols, quote(f.Name))
	}
	return strings.Join(cols, ", ")
}

func (r *SQLRepository) List(ctx context.Context, s domain.Schema) ([]domain.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", columns(s), quote(s.Name), quote(s.IDField))
	rows, err := r.db.Conn.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Name, err)
	}
	defer rows.Close()

	out := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(s, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Name, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLRepository) Get(ctx context.Context, s domain.Schema, id string) (domain.Record, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.one(ctx, s, quote(s.IDField), n)
}

func (r *SQLRepository) FindBy(ctx context.Context, s domain.Schema, field, value string) (domain.Record, error) {
	if _, ok := s.Field(field); !ok {
		return nil, fmt.Errorf("%w: field %s", domain.ErrBadRequest, field)
	}
	return r.one(ctx, s, quote(field), value)
}

func (r *SQLRepository) one(ctx context.Context, s domain.Schema, col string, arg any) (domain.Record, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1", columns(s), quote(s.Name), col)
	rows, err := r.db.Conn.QueryContext(ctx, r.db.Rebind(q), arg)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.Name, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrNotFound
	}
	return scanRecord(s, rows)
}

func (r *SQLRepository) Insert(ctx context.Context, s domain.Schema, rec domain.Record) (string, error) {
	cols := make([]string, 0, len(s.Fields))
	marks := make([]string, 0, len(s.Fields))
	args := make([]any, 0, len(s.Fields))
	for _, f := range s.Fields {
		cols = append(cols, quote(f.Name))
		marks = append(marks, "?")
		args = append(args, rec[f.Name])
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quote(s.Name), strings.Join(cols, ", "), strings.Join(marks, ", "), quote(s.IDField))

	var id int64
	if err := r.db.Conn.QueryRowContext(ctx, r.db.Rebind(q), args...).Scan(&id); err != nil {
		return "", classify(fmt.Errorf("insert %s: %w", s.Name, err))
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *SQLRepository) Replace(ctx context.Context, s domain.Schema, id string, rec domain.Record) error {
	n, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	sets := make([]string, 0, len(s.Fields))
	args := make([]any, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		sets = append(sets, quote(f.Name)+" = ?")
		args = append(args, rec[f.Name])
	}
	args = append(args, n)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", quote(s.Name), strings.Join(sets, ", "), quote(s.IDField))

	res, err := r.db.Conn.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return classify(fmt.Errorf("update %s: %w", s.Name, err))
	}
	return affected(res)
}

func (r *SQLRepository) Delete(ctx context.Context, s domain.Schema, id string) error {
	n, ok := parseID(id)
	if !ok {
		return domain.ErrNotFound
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(s.Name), quote(s.IDField))
	res, err := r.db.Conn.ExecContext(ctx, r.db.Rebind(q), n)
	if err != nil {
		return fmt.Errorf("delete %s: %w", s.Name, err)
	}
	return affected(res)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanRecord(s domain.Schema, rows *sql.Rows) (domain.Record, error) {
	raw := make([]any, len(s.Fields)+1)
	ptrs := make([]any, len(raw))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	rec := make(domain.Record, len(raw))
	rec[s.IDField] = number(raw[0])
	for i, f := range s.Fields {
		rec[f.Name] = fromColumn(f.Kind, raw[i+1])
	}
	return rec, nil
}

// classify turns unique violations of either driver into ErrConflict.
const uniqueViolation = "23505"

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Join(domain.ErrConflict, err)
	}
	// modernc reports constraint failures only through the message
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Join(domain.ErrConflict, err)
	}
	return err
}
