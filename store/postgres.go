// server/store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vinizap/shelf/server/domain"
)

const (
	itemColumns   = `id, title, icon, folder_id, position, created_at, updated_at`
	folderColumns = `id, name, is_open, position, created_at, updated_at`
)

type Postgres struct {
	pool *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *Postgres) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+folderColumns+` FROM folders ORDER BY position ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []domain.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	return folders, nil
}

func (s *Postgres) CreateItem(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	if err := in.Validate(); err != nil {
		return domain.Item{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO items (id, title, icon, folder_id, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+itemColumns,
		uuid.NewString(), in.Title, string(in.Icon), in.FolderID, *in.Order)
	it, err := scanItem(row)
	if err != nil {
		return domain.Item{}, classify("create item", err)
	}
	return it, nil
}

func (s *Postgres) CreateFolder(ctx context.Context, in domain.NewFolder) (domain.Folder, error) {
	if err := in.Validate(); err != nil {
		return domain.Folder{}, err
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO folders (id, name, is_open, position)
		VALUES ($1, $2, $3, $4)
		RETURNING `+folderColumns,
		uuid.NewString(), in.Name, in.Open(), *in.Order)
	f, err := scanFolder(row)
	if err != nil {
		return domain.Folder{}, classify("create folder", err)
	}
	return f, nil
}

func (s *Postgres) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return domain.Item{}, err
	}
	var icon *string
	if patch.Icon != nil {
		v := string(*patch.Icon)
		icon = &v
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE items SET
			title      = COALESCE($2::text, title),
			icon       = COALESCE($3::text, icon),
			folder_id  = CASE WHEN $4::bool THEN $5::text ELSE folder_id END,
			position   = COALESCE($6::int, position),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+itemColumns,
		id, patch.Title, icon, patch.FolderID.Set, patch.FolderID.Value, patch.Order)
	it, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Item{}, ErrItemNotFound
	}
	if err != nil {
		return domain.Item{}, classify("update item", err)
	}
	return it, nil
}

func (s *Postgres) UpdateFolder(ctx context.Context, id string, patch domain.FolderPatch) (domain.Folder, error) {
	if err := patch.Validate(); err != nil {
		return domain.Folder{}, err
	}
	row := s.pool.QueryRow(ctx, `
		UPDATE folders SET
			name       = COALESCE($2::text, name),
			is_open    = COALESCE($3::bool, is_open),
			position   = COALESCE($4::int, position),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+folderColumns,
		id, patch.Name, patch.IsOpen, patch.Order)
	f, err := scanFolder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Folder{}, ErrFolderNotFound
	}
	if err != nil {
		return domain.Folder{}, classify("update folder", err)
	}
	return f, nil
}

// Reorder runs the whole batch in one transaction.
func (s *Postgres) Reorder(ctx context.Context, batch domain.Reorder) error {
	if err := batch.Validate(); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, o := range batch.Items {
			tag, err := tx.Exec(ctx, `
				UPDATE items SET
					position   = $2,
					folder_id  = CASE WHEN $3::bool THEN $4::text ELSE folder_id END,
					updated_at = NOW()
				WHERE id = $1`,
				o.ID, o.Order, o.FolderID.Set, o.FolderID.Value)
			if err != nil {
				return classify("reorder "+o.ID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("reorder %s: %w", o.ID, ErrItemNotFound)
			}
		}
		for _, o := range batch.Folders {
			tag, err := tx.Exec(ctx, `UPDATE folders SET position = $2, updated_at = NOW() WHERE id = $1`, o.ID, o.Order)
			if err != nil {
				return classify("reorder "+o.ID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("reorder %s: %w", o.ID, ErrFolderNotFound)
			}
		}
		return nil
	})
}

func (s *Postgres) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var it domain.Item
	var icon string
	err := row.Scan(&it.ID, &it.Title, &icon, &it.FolderID, &it.Order, &it.CreatedAt, &it.UpdatedAt)
	it.Icon = domain.Icon(icon)
	return it, err
}

func scanFolder(row pgx.Row) (domain.Folder, error) {
	var f domain.Folder
	err := row.Scan(&f.ID, &f.Name, &f.IsOpen, &f.Order, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// classify maps Postgres constraint failures onto store errors.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, ErrFolderNotFound)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return &domain.ValidationError{Field: pgErr.ColumnName, Message: pgErr.Message}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
