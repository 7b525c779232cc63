package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"rideconnect/internal/domain"
)

const followCols = `follow_id,follower_id,following_id,status,created_at`

func scanFollow(row pgx.Row) (*domain.Follow, error) {
	var f domain.Follow
	if err := row.Scan(&f.FollowID, &f.FollowerID, &f.FollowingID, &f.Status, &f.CreatedAt); err != nil {
		return nil, translate(err)
	}
	f.CreatedAt = f.CreatedAt.UTC()
	return &f, nil
}

func (s *Store) CreateFollow(ctx context.Context, f domain.Follow) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO follows (`+followCols+`) VALUES ($1,$2,$3,$4,$5)`,
		f.FollowID, f.FollowerID, f.FollowingID, f.Status, f.CreatedAt)
	return translate(err)
}

func (s *Store) FollowByID(ctx context.Context, id string) (*domain.Follow, error) {
	return scanFollow(s.db.QueryRow(ctx, `SELECT `+followCols+` FROM follows WHERE follow_id=$1`, id))
}

func (s *Store) FollowBetween(ctx context.Context, followerID, followingID string) (*domain.Follow, error) {
	return scanFollow(s.db.QueryRow(ctx,
		`SELECT `+followCols+` FROM follows WHERE follower_id=$1 AND following_id=$2`,
		followerID, followingID))
}

func (s *Store) UpdateFollowStatus(ctx context.Context, id, from, to string) error {
	return s.exec(ctx, `UPDATE follows SET status=$1 WHERE follow_id=$2 AND status=$3`, to, id, from)
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	return s.exec(ctx, `DELETE FROM follows WHERE follower_id=$1 AND following_id=$2`, followerID, followingID)
}

func followWhere(f domain.FollowFilter) *where {
	w := &where{}
	if f.FollowerID != "" {
		w.add("follower_id=$%d", f.FollowerID)
	}
	if f.FollowingID != "" {
		w.add("following_id=$%d", f.FollowingID)
	}
	if f.Status != "" {
		w.add("status=$%d", f.Status)
	}
	return w
}

func (s *Store) ListFollows(ctx context.Context, f domain.FollowFilter) ([]domain.Follow, error) {
	w := followWhere(f)
	q := `SELECT ` + followCols + ` FROM follows` + w.sql() + ` ORDER BY created_at`
	q += w.limit(f.Limit)

	rows, err := s.db.Query(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Follow
	for rows.Next() {
		e, err := scanFollow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) CountFollows(ctx context.Context, f domain.FollowFilter) (int64, error) {
	w := followWhere(f)
	return s.count(ctx, `SELECT COUNT(*) FROM follows`+w.sql(), w.args...)
}
