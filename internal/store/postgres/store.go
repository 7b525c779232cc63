// Package postgres is the pgx-backed domain.Store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rideconnect/internal/domain"
)

// Store runs raw SQL against a pgx pool.
type Store struct {
	db *pgxpool.Pool
}

var _ domain.Store = (*Store)(nil)

func New(db *pgxpool.Pool) *Store { return &Store{db: db} }

// translate maps driver errors to domain errors.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrConflict
	}
	return err
}

// where accumulates AND-ed conditions and their positional args.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, v any) {
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit appends a LIMIT clause when n > 0.
func (w *where) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains is an ILIKE pattern matching sub anywhere.
func contains(sub string) string { return "%" + likeEscaper.Replace(sub) + "%" }

// update builds an UPDATE of the patch's whitelisted columns. Keys are
// sorted so identical patches produce identical SQL.
func update(table, idCol, id string, p domain.Patch, allowed map[string]bool) (string, []any, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		if !allowed[k] {
			return "", nil, fmt.Errorf("%s: column %q is not updatable", table, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		args = append(args, p[k])
		sets[i] = fmt.Sprintf("%s=$%d", k, i+1)
	}
	args = append(args, id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s=$%d", table, strings.Join(sets, ", "), idCol, len(args))
	return q, args, nil
}

func (s *Store) exec(ctx context.Context, q string, args ...any) error {
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) count(ctx context.Context, q string, args ...any) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, q, args...).Scan(&n)
	return n, translate(err)
}

// ---- users ----

const userCols = `user_id,email,phone,name,profile_picture,bio,profile_type,is_public,auth_type,created_at`

var userUpdatable = map[string]bool{
	"name": true, "bio": true, "profile_picture": true, "profile_type": true, "is_public": true,
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.UserID, &u.Email, &u.Phone, &u.Name, &u.ProfilePicture, &u.Bio,
		&u.ProfileType, &u.IsPublic, &u.AuthType, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (`+userCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.UserID, u.Email, u.Phone, u.Name, u.ProfilePicture, u.Bio,
		u.ProfileType, u.IsPublic, u.AuthType, u.CreatedAt)
	return translate(err)
}

func (s *Store) UserByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE user_id=$1`, id))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (s *Store) UserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE phone=$1`, phone))
}

func (s *Store) UpdateUser(ctx context.Context, id string, p domain.Patch) error {
	if p.Empty() {
		_, err := s.UserByID(ctx, id)
		return err
	}
	q, args, err := update("users", "user_id", id, p, userUpdatable)
	if err != nil {
		return err
	}
	return s.exec(ctx, q, args...)
}

func (s *Store) SearchUsers(ctx context.Context, name string, n int) ([]domain.User, error) {
	var w where
	if name != "" {
		w.add("name ILIKE $%d", contains(name))
	}
	q := `SELECT ` + userCols + ` FROM users` + w.sql() + ` ORDER BY created_at`
	q += w.limit(n)

	rows, err := s.db.Query(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (s *Store) CountUsersByAuthType(ctx context.Context, authType string) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users WHERE auth_type=$1`, authType)
}

// ---- credentials ----

func (s *Store) CreateCredential(ctx context.Context, c domain.Credential) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO user_passwords (user_id,password_hash) VALUES ($1,$2)`, c.UserID, c.PasswordHash)
	return translate(err)
}

func (s *Store) CredentialByUserID(ctx context.Context, userID string) (*domain.Credential, error) {
	c := domain.Credential{UserID: userID}
	err := s.db.QueryRow(ctx,
		`SELECT password_hash FROM user_passwords WHERE user_id=$1`, userID).Scan(&c.PasswordHash)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// ---- sessions ----

func (s *Store) CreateSession(ctx context.Context, sess domain.Session) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (session_token,user_id,expires_at,created_at) VALUES ($1,$2,$3,$4)`,
		sess.SessionToken, sess.UserID, sess.ExpiresAt, sess.CreatedAt)
	return translate(err)
}

func (s *Store) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	sess := domain.Session{SessionToken: token}
	err := s.db.QueryRow(ctx,
		`SELECT user_id,expires_at,created_at FROM sessions WHERE session_token=$1`, token).
		Scan(&sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	sess.ExpiresAt = sess.ExpiresAt.UTC()
	sess.CreatedAt = sess.CreatedAt.UTC()
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE session_token=$1`, token)
	return err
}
