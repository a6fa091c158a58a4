package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planoraa/planoraa-api/internal/domain"
)

// TripRepo defines the persistence operations for trips and their rosters.
// Every trip returned carries its Members.
type TripRepo interface {
	// Create inserts the trip and its owner's roster entry (OWNER, ACCEPTED)
	// atomically.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListForUser returns every trip the user owns or is a member of,
	// newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// Update overwrites the mutable trip fields. The roster is untouched.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes the trip and, through the schema, everything it owns.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddMember appends a roster entry. Returns domain.ErrConflict when the
	// user is already on the roster.
	AddMember(ctx context.Context, tripID uuid.UUID, m domain.Member) (domain.Member, error)

	// UpdateMemberStatus sets the invitation status of one roster entry.
	UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status domain.MemberStatus) (domain.Member, error)
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, title, description, destination, start_date, end_date, cover_image,
	budget, currency, status, owner_id, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const insertTrip = `
		INSERT INTO trips (title, description, destination, start_date, end_date, cover_image,
		                   budget, currency, status, owner_id)
		VALUES (@title, @description, @destination, @start_date, @end_date, @cover_image,
		        @budget, @currency, @status, @owner_id)
		RETURNING ` + tripColumns

	const insertOwner = `
		INSERT INTO trip_members (trip_id, user_id, role, status)
		VALUES (@trip_id, @user_id, 'OWNER', 'ACCEPTED')
		RETURNING user_id, role, status, joined_at`

	var result domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		result, err = scanTrip(tx.QueryRow(ctx, insertTrip, tripArgs(trip)))
		if err != nil {
			return err
		}
		owner, err := scanMember(tx.QueryRow(ctx, insertOwner, pgx.NamedArgs{
			"trip_id": result.ID,
			"user_id": result.OwnerID,
		}))
		if err != nil {
			return err
		}
		result.Members = []domain.Member{owner}
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	q := `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	t, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", translate(err))
	}

	rosters, err := r.loadMembers(ctx, []uuid.UUID{t.ID})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	t.Members = rosters[t.ID]
	return t, nil
}

func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	q := `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @user_id
		   OR EXISTS (SELECT 1 FROM trip_members m WHERE m.trip_id = trips.id AND m.user_id = @user_id)
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}

	ids := make([]uuid.UUID, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}
	rosters, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	for i := range trips {
		trips[i].Members = rosters[trips[i].ID]
	}
	return trips, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title       = @title,
		    description = @description,
		    destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    cover_image = @cover_image,
		    budget      = @budget,
		    currency    = @currency,
		    status      = @status,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := tripArgs(trip)
	args["id"] = trip.ID

	t, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", translate(err))
	}

	rosters, err := r.loadMembers(ctx, []uuid.UUID{t.ID})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	t.Members = rosters[t.ID]
	return t, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) AddMember(ctx context.Context, tripID uuid.UUID, m domain.Member) (domain.Member, error) {
	// DO NOTHING returns no row on a duplicate, which is reported as a conflict
	// rather than not-found.
	const q = `
		INSERT INTO trip_members (trip_id, user_id, role, status)
		VALUES (@trip_id, @user_id, @role, @status)
		ON CONFLICT (trip_id, user_id) DO NOTHING
		RETURNING user_id, role, status, joined_at`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"user_id": m.UserID,
		"role":    string(m.Role),
		"status":  string(m.Status),
	}

	result, err := scanMember(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, fmt.Errorf("repo.TripRepo.AddMember: %w: user is already a member", domain.ErrConflict)
		}
		return domain.Member{}, fmt.Errorf("repo.TripRepo.AddMember: %w", translate(err))
	}
	return result, nil
}

func (r *pgTripRepo) UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status domain.MemberStatus) (domain.Member, error) {
	const q = `
		UPDATE trip_members
		SET status = @status
		WHERE trip_id = @trip_id AND user_id = @user_id
		RETURNING user_id, role, status, joined_at`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"user_id": userID,
		"status":  string(status),
	}

	result, err := scanMember(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.TripRepo.UpdateMemberStatus: %w", translate(err))
	}
	return result, nil
}

// loadMembers returns the rosters of the given trips keyed by trip ID, each
// in join order.
func (r *pgTripRepo) loadMembers(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID][]domain.Member, error) {
	rosters := make(map[uuid.UUID][]domain.Member, len(tripIDs))
	if len(tripIDs) == 0 {
		return rosters, nil
	}

	const q = `
		SELECT trip_id, user_id, role, status, joined_at
		FROM trip_members
		WHERE trip_id = ANY(@ids::uuid[])
		ORDER BY joined_at, user_id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": tripIDs})
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tripID uuid.UUID
			m      domain.Member
		)
		if err := rows.Scan(&tripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("load members: scan: %w", err)
		}
		rosters[tripID] = append(rosters[tripID], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load members: rows: %w", err)
	}
	return rosters, nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"title":       t.Title,
		"description": t.Description,
		"destination": t.Destination,
		"start_date":  t.StartDate,
		"end_date":    t.EndDate,
		"cover_image": t.CoverImage,
		"budget":      t.Budget, // nil becomes NULL
		"currency":    t.Currency,
		"status":      string(t.Status),
		"owner_id":    t.OwnerID,
	}
}

// scanTrip maps a single trips row into a domain.Trip. Members are loaded
// separately.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&t.ID, &t.Title, &t.Description, &t.Destination, &startDate, &endDate,
		&t.CoverImage, &t.Budget, &t.Currency, &t.Status, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, err
	}

	t.StartDate = startDate.Time
	t.EndDate = endDate.Time
	return t, nil
}

func scanMember(s scanner) (domain.Member, error) {
	var m domain.Member
	err := s.Scan(&m.UserID, &m.Role, &m.Status, &m.JoinedAt)
	return m, err
}
