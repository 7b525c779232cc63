package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"rideconnect/internal/domain"
)

const rideCols = `ride_id,user_id,origin,destination,date_time,available_seats,price,car_details,preferences,ride_type,status,created_at`

var rideUpdatable = map[string]bool{
	"origin": true, "destination": true, "date_time": true, "available_seats": true,
	"price": true, "car_details": true, "preferences": true, "status": true,
}

func scanRide(row pgx.Row) (*domain.Ride, error) {
	var r domain.Ride
	err := row.Scan(&r.RideID, &r.UserID, &r.Origin, &r.Destination, &r.DateTime, &r.AvailableSeats,
		&r.Price, &r.CarDetails, &r.Preferences, &r.RideType, &r.Status, &r.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	r.DateTime = r.DateTime.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (s *Store) CreateRide(ctx context.Context, r domain.Ride) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO rides (`+rideCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.RideID, r.UserID, r.Origin, r.Destination, r.DateTime, r.AvailableSeats,
		r.Price, r.CarDetails, r.Preferences, r.RideType, r.Status, r.CreatedAt)
	return translate(err)
}

func (s *Store) RideByID(ctx context.Context, id string) (*domain.Ride, error) {
	return scanRide(s.db.QueryRow(ctx, `SELECT `+rideCols+` FROM rides WHERE ride_id=$1`, id))
}

func (s *Store) UpdateRide(ctx context.Context, id string, p domain.Patch) error {
	if p.Empty() {
		_, err := s.RideByID(ctx, id)
		return err
	}
	q, args, err := update("rides", "ride_id", id, p, rideUpdatable)
	if err != nil {
		return err
	}
	return s.exec(ctx, q, args...)
}

func (s *Store) DeleteRide(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM rides WHERE ride_id=$1`, id)
}

func rideWhere(f domain.RideFilter) *where {
	w := &where{}
	if f.OwnerID != "" {
		w.add("user_id=$%d", f.OwnerID)
	}
	if f.Status != "" {
		w.add("status=$%d", f.Status)
	}
	if f.RideType != "" {
		w.add("ride_type=$%d", f.RideType)
	}
	if f.Origin != "" {
		w.add("origin ILIKE $%d", contains(f.Origin))
	}
	if f.Destination != "" {
		w.add("destination ILIKE $%d", contains(f.Destination))
	}
	return w
}

func (s *Store) ListRides(ctx context.Context, f domain.RideFilter) ([]domain.Ride, error) {
	w := rideWhere(f)
	q := `SELECT ` + rideCols + ` FROM rides` + w.sql() + ` ORDER BY created_at DESC`
	q += w.limit(f.Limit)

	rows, err := s.db.Query(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CountRides(ctx context.Context, f domain.RideFilter) (int64, error) {
	w := rideWhere(f)
	return s.count(ctx, `SELECT COUNT(*) FROM rides`+w.sql(), w.args...)
}

// ---- ride requests ----

const requestCols = `request_id,ride_id,requester_id,status,message,created_at`

func scanRequest(row pgx.Row) (*domain.RideRequest, error) {
	var r domain.RideRequest
	if err := row.Scan(&r.RequestID, &r.RideID, &r.RequesterID, &r.Status, &r.Message, &r.CreatedAt); err != nil {
		return nil, translate(err)
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (s *Store) CreateRideRequest(ctx context.Context, r domain.RideRequest) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO ride_requests (`+requestCols+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		r.RequestID, r.RideID, r.RequesterID, r.Status, r.Message, r.CreatedAt)
	return translate(err)
}

func (s *Store) RideRequestByID(ctx context.Context, id string) (*domain.RideRequest, error) {
	return scanRequest(s.db.QueryRow(ctx, `SELECT `+requestCols+` FROM ride_requests WHERE request_id=$1`, id))
}

func (s *Store) OpenRideRequest(ctx context.Context, rideID, requesterID string) (*domain.RideRequest, error) {
	return scanRequest(s.db.QueryRow(ctx,
		`SELECT `+requestCols+` FROM ride_requests
		 WHERE ride_id=$1 AND requester_id=$2 AND status IN ('pending','accepted')
		 LIMIT 1`, rideID, requesterID))
}

func (s *Store) ListRideRequests(ctx context.Context, f domain.RideRequestFilter) ([]domain.RideRequest, error) {
	w := &where{}
	if f.RequesterID != "" {
		w.add("requester_id=$%d", f.RequesterID)
	}
	if f.RideIDs != nil {
		w.add("ride_id = ANY($%d)", f.RideIDs)
	}
	q := `SELECT ` + requestCols + ` FROM ride_requests` + w.sql() + ` ORDER BY created_at DESC`
	q += w.limit(f.Limit)

	rows, err := s.db.Query(ctx, q, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RideRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// RespondRideRequest settles the request and, on takeSeat, decrements the
// ride's seats in the same transaction. The decrement is conditional on
// seats being above zero.
func (s *Store) RespondRideRequest(ctx context.Context, requestID, status string, takeSeat bool) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var rideID string
	err = tx.QueryRow(ctx,
		`UPDATE ride_requests SET status=$1
		 WHERE request_id=$2 AND status='pending'
		 RETURNING ride_id`, status, requestID).Scan(&rideID)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM ride_requests WHERE request_id=$1)`, requestID).Scan(&exists); err != nil {
			return 0, err
		}
		if exists {
			return 0, domain.ErrConflict
		}
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, translate(err)
	}

	if takeSeat {
		if _, err := tx.Exec(ctx,
			`UPDATE rides SET available_seats = available_seats - 1
			 WHERE ride_id=$1 AND available_seats > 0`, rideID); err != nil {
			return 0, err
		}
	}

	var seats int
	err = tx.QueryRow(ctx, `SELECT available_seats FROM rides WHERE ride_id=$1`, rideID).Scan(&seats)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return seats, nil
}
