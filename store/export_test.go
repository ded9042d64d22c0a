package store

import "context"

func (s *Postgres) Truncate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE items, folders`)
	return err
}
