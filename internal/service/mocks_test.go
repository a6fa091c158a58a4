package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/planoraa/planoraa-api/internal/auth"
	"github.com/planoraa/planoraa-api/internal/domain"
	"github.com/planoraa/planoraa-api/internal/events"
	"github.com/planoraa/planoraa-api/internal/repo"
	"github.com/planoraa/planoraa-api/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockUserRepo is a hand-written test double for repo.UserRepo.
type mockUserRepo struct {
	create     func(ctx context.Context, u domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
	update     func(ctx context.Context, u domain.User) (domain.User, error)
	listByIDs  func(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	return m.update(ctx, u)
}
func (m *mockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if m.listByIDs != nil {
		return m.listByIDs(ctx, ids)
	}
	return []domain.User{}, nil
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockTripRepo is a hand-written test double for repo.TripRepo.
type mockTripRepo struct {
	create             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listForUser        func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	update             func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete             func(ctx context.Context, id uuid.UUID) error
	addMember          func(ctx context.Context, tripID uuid.UUID, m domain.Member) (domain.Member, error)
	updateMemberStatus func(ctx context.Context, tripID, userID uuid.UUID, status domain.MemberStatus) (domain.Member, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) AddMember(ctx context.Context, tripID uuid.UUID, mem domain.Member) (domain.Member, error) {
	return m.addMember(ctx, tripID, mem)
}
func (m *mockTripRepo) UpdateMemberStatus(ctx context.Context, tripID, userID uuid.UUID, status domain.MemberStatus) (domain.Member, error) {
	return m.updateMemberStatus(ctx, tripID, userID, status)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// mockActivityRepo is a hand-written test double for repo.ActivityRepo.
type mockActivityRepo struct {
	create     func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Activity, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error)
	update     func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, id)
}
func (m *mockActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, a)
}
func (m *mockActivityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

// mockExpenseRepo is a hand-written test double for repo.ExpenseRepo.
type mockExpenseRepo struct {
	create     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Expense, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	update     func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, id)
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// mockPollRepo is a hand-written test double for repo.PollRepo.
type mockPollRepo struct {
	create     func(ctx context.Context, p domain.Poll) (domain.Poll, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Poll, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Poll, error)
	upsertVote func(ctx context.Context, pollID uuid.UUID, v domain.Vote) error
	close      func(ctx context.Context, id uuid.UUID) (domain.Poll, error)
}

func (m *mockPollRepo) Create(ctx context.Context, p domain.Poll) (domain.Poll, error) {
	return m.create(ctx, p)
}
func (m *mockPollRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	return m.getByID(ctx, id)
}
func (m *mockPollRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Poll, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockPollRepo) UpsertVote(ctx context.Context, pollID uuid.UUID, v domain.Vote) error {
	return m.upsertVote(ctx, pollID, v)
}
func (m *mockPollRepo) Close(ctx context.Context, id uuid.UUID) (domain.Poll, error) {
	return m.close(ctx, id)
}

var _ repo.PollRepo = (*mockPollRepo)(nil)

// ---- mock collaborators ----------------------------------------------------

// recordingPublisher captures every published event.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	msgs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.msgs = append(p.msgs, v)
	return p.err
}

var _ events.Publisher = (*recordingPublisher)(nil)

// plainHasher "hashes" by prefixing, so tests can assert on stored values.
type plainHasher struct{}

func (plainHasher) HashPassword(_ context.Context, pw string) (string, error) {
	return "hashed:" + pw, nil
}
func (plainHasher) VerifyPassword(_ context.Context, pw, hash string) (bool, error) {
	return hash == "hashed:"+pw, nil
}

var _ service.PasswordHasher = plainHasher{}

// mockTokens is a hand-written test double for service.TokenIssuer.
type mockTokens struct {
	issuePair     func(s auth.Subject) (auth.TokenPair, error)
	issueAccess   func(s auth.Subject) (string, error)
	verifyAccess  func(token string) (auth.Subject, error)
	verifyRefresh func(token string) (auth.Subject, error)
}

func (m *mockTokens) IssuePair(s auth.Subject) (auth.TokenPair, error) {
	if m.issuePair != nil {
		return m.issuePair(s)
	}
	return auth.TokenPair{AccessToken: "access-" + s.UserID.String(), RefreshToken: "refresh-" + s.UserID.String()}, nil
}
func (m *mockTokens) IssueAccess(s auth.Subject) (string, error) {
	if m.issueAccess != nil {
		return m.issueAccess(s)
	}
	return "access-" + s.UserID.String(), nil
}
func (m *mockTokens) VerifyAccess(token string) (auth.Subject, error) {
	return m.verifyAccess(token)
}
func (m *mockTokens) VerifyRefresh(token string) (auth.Subject, error) {
	return m.verifyRefresh(token)
}

var _ service.TokenIssuer = (*mockTokens)(nil)

// ---- helpers ---------------------------------------------------------------

// tripWithRoster builds a trip owned by owner with the given extra members.
func tripWithRoster(owner uuid.UUID, members ...domain.Member) domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Title:       "Lisbon Getaway",
		Destination: "Lisbon",
		StartDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
		Status:      domain.TripPlanning,
		OwnerID:     owner,
		Members: append([]domain.Member{
			{UserID: owner, Role: domain.RoleOwner, Status: domain.MemberAccepted},
		}, members...),
	}
}

// tripsReturning returns a trip repo whose GetByID always yields trip.
func tripsReturning(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}
