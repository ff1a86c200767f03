package forms

import "context"

// Storage persists form sessions keyed by (user, form). Values handed to
// Save must not be aliased by the backend and values returned by Load or
// AllActive must not alias stored state: mutating either side never corrupts
// the other. Backends must be safe for concurrent access on distinct keys;
// two racing writers on the same key are not serialized, the last Save wins.
type Storage interface {
	// Save persists a complete session snapshot.
	Save(ctx context.Context, state *State) error

	// Load returns the stored session, or nil when none exists.
	Load(ctx context.Context, userID int64, formID string) (*State, error)

	// Delete removes one session. Deleting a missing session is a no-op.
	Delete(ctx context.Context, userID int64, formID string) error

	// Clear removes every session of one user across all forms.
	Clear(ctx context.Context, userID int64) error

	// AllActive returns the user's non-complete sessions.
	AllActive(ctx context.Context, userID int64) ([]*State, error)
}

// StateRepository mirrors Storage onto the database layer.
type StateRepository interface {
	SaveFormState(ctx context.Context, state *State) error
	LoadFormState(ctx context.Context, userID int64, formID string) (*State, error)
	DeleteFormState(ctx context.Context, userID int64, formID string) error
	ClearFormStates(ctx context.Context, userID int64) error
	ActiveFormStates(ctx context.Context, userID int64) ([]*State, error)
}

// MongoStorage adapts a database repository to the Storage contract.
type MongoStorage struct {
	repo StateRepository
}

func NewMongoStorage(repo StateRepository) *MongoStorage {
	return &MongoStorage{repo: repo}
}

func (s *MongoStorage) Save(ctx context.Context, state *State) error {
	return s.repo.SaveFormState(ctx, state)
}

func (s *MongoStorage) Load(ctx context.Context, userID int64, formID string) (*State, error) {
	return s.repo.LoadFormState(ctx, userID, formID)
}

func (s *MongoStorage) Delete(ctx context.Context, userID int64, formID string) error {
	return s.repo.DeleteFormState(ctx, userID, formID)
}

func (s *MongoStorage) Clear(ctx context.Context, userID int64) error {
	return s.repo.ClearFormStates(ctx, userID)
}

func (s *MongoStorage) AllActive(ctx context.Context, userID int64) ([]*State, error) {
	return s.repo.ActiveFormStates(ctx, userID)
}

// StubStorage is a placeholder for backends that are configured but not yet
// wired (e.g. Redis). Every operation fails fast with ErrNotImplemented so
// callers can fall back to another backend instead of retrying.
type StubStorage struct{}

func (StubStorage) Save(context.Context, *State) error {
	return ErrNotImplemented
}

func (StubStorage) Load(context.Context, int64, string) (*State, error) {
	return nil, ErrNotImplemented
}

func (StubStorage) Delete(context.Context, int64, string) error {
	return ErrNotImplemented
}

func (StubStorage) Clear(context.Context, int64) error {
	return ErrNotImplemented
}

func (StubStorage) AllActive(context.Context, int64) ([]*State, error) {
	return nil, ErrNotImplemented
}
