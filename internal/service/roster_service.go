package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/roster"
	"github.com/stemsi/student-roster/internal/websocket"
)

var (
	// ErrNotLoaded is returned by mutations attempted before Load.
	ErrNotLoaded = errors.New("roster not loaded")
	// ErrDegraded is returned by mutations while the stored roster could not
	// be read, unless the service was built WithOverwriteUnreadable. The
	// first save would replace the unreadable payload.
	ErrDegraded = errors.New("stored roster is unreadable")
)

// Publisher receives an event after every successful mutation.
type Publisher interface {
	Publish(ev websocket.Event)
}

// RosterService owns the in-memory roster, keeps it in sync with the
// repository, and serializes access. Every mutation saves the whole roster
// before returning; if the save fails the mutation is undone.
type RosterService struct {
	mu      sync.RWMutex
	repo    roster.Repository
	roster  *roster.Roster
	loaded  bool
	loadErr error
	pub     Publisher
	newID   func() string
	log     zerolog.Logger

	overwriteUnreadable bool
}

// Option configures a RosterService.
type Option func(*RosterService)

// WithOverwriteUnreadable lets mutations proceed after a failed Load. The
// first successful save then replaces whatever was stored.
func WithOverwriteUnreadable(allow bool) Option {
	return func(s *RosterService) {
		s.overwriteUnreadable = allow
	}
}

// NewRosterService creates a RosterService. pub may be nil.
func NewRosterService(repo roster.Repository, pub Publisher, log zerolog.Logger, opts ...Option) *RosterService {
	s := &RosterService{
		repo:   repo,
		roster: roster.New(nil),
		pub:    pub,
		newID:  func() string { return uuid.New().String() },
		log:    log.With().Str("component", "roster_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted roster once. If the store is unavailable or the
// payload is corrupt the roster starts empty and a *roster.LoadError is
// returned. Reads keep working; writes fail with ErrDegraded until the
// stored value is replaced (see WithOverwriteUnreadable).
func (s *RosterService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	students, err := s.repo.Load(ctx)
	if err != nil {
		s.roster = roster.New(nil)
		s.loadErr = &roster.LoadError{Err: err}
		s.log.Warn().Err(err).Msg("Roster load failed, starting empty")
		return s.loadErr
	}

	s.roster = roster.New(s.normalize(students))
	s.loadErr = nil
	s.log.Info().Int("students", s.roster.Len()).Msg("Roster loaded")
	return nil
}

// normalize gives every record a unique id and recomputes derived fields,
// so records written by older clients or edited by hand come back consistent.
func (s *RosterService) normalize(students []model.Student) []model.Student {
	seen := make(map[string]struct{}, len(students))
	for i, st := range students {
		if _, dup := seen[st.ID]; st.ID == "" || dup {
			st.ID = s.newID()
		}
		seen[st.ID] = struct{}{}

		fixed := roster.Rederive(st)
		if fixed.Percentage != st.Percentage || fixed.Division != st.Division {
			s.log.Debug().Int("index", i).Str("id", st.ID).Msg("Recomputed stale derived fields")
		}
		students[i] = fixed
	}
	return students
}

// LoadError returns the error from the last Load, or nil.
func (s *RosterService) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Validate checks a draft without storing it. On success it returns the
// record as it would be saved, without an ID; otherwise the first
// *roster.ValidationError.
func (s *RosterService) Validate(d model.Draft) (model.Student, error) {
	return roster.Build(d)
}

// Create validates the draft, derives percentage and division, appends the
// record and saves. Duplicate names are allowed.
func (s *RosterService) Create(ctx context.Context, d model.Draft) (model.Student, error) {
	st, err := roster.Build(d)
	if err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return model.Student{}, err
	}

	st.ID = s.newID()
	idx := s.roster.Append(st)
	if err := s.save(ctx); err != nil {
		_, _ = s.roster.RemoveAt(idx)
		return model.Student{}, err
	}

	s.log.Debug().Str("id", st.ID).Int("index", idx).Msg("Student created")
	s.publish(websocket.ActionCreated, idx, &st)
	return st, nil
}

// Update replaces the record with the given id, keeping its position.
func (s *RosterService) Update(ctx context.Context, id string, d model.Draft) (model.Student, error) {
	st, err := roster.Build(d)
	if err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return model.Student{}, err
	}

	idx := s.roster.IndexOf(id)
	if idx < 0 {
		return model.Student{}, notFound(id)
	}
	return s.replace(ctx, idx, st)
}

// UpdateAt replaces the record at the given position. The index refers to
// the roster as it is now; positions shift after every delete.
func (s *RosterService) UpdateAt(ctx context.Context, index int, d model.Draft) (model.Student, error) {
	st, err := roster.Build(d)
	if err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return model.Student{}, err
	}
	return s.replace(ctx, index, st)
}

func (s *RosterService) replace(ctx context.Context, idx int, st model.Student) (model.Student, error) {
	old, err := s.roster.At(idx)
	if err != nil {
		return model.Student{}, err
	}

	st.ID = old.ID
	_, _ = s.roster.ReplaceAt(idx, st)
	if err := s.save(ctx); err != nil {
		_, _ = s.roster.ReplaceAt(idx, old)
		return model.Student{}, err
	}

	s.log.Debug().Str("id", st.ID).Int("index", idx).Msg("Student updated")
	s.publish(websocket.ActionUpdated, idx, &st)
	return st, nil
}

// Delete removes the record with the given id. Confirmation is the
// caller's concern.
func (s *RosterService) Delete(ctx context.Context, id string) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return model.Student{}, err
	}

	idx := s.roster.IndexOf(id)
	if idx < 0 {
		return model.Student{}, notFound(id)
	}
	return s.remove(ctx, idx)
}

// DeleteAt removes the record at the given position; later records shift
// down by one.
func (s *RosterService) DeleteAt(ctx context.Context, index int) (model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(); err != nil {
		return model.Student{}, err
	}
	return s.remove(ctx, index)
}

func (s *RosterService) remove(ctx context.Context, idx int) (model.Student, error) {
	old, err := s.roster.RemoveAt(idx)
	if err != nil {
		return model.Student{}, err
	}
	if err := s.save(ctx); err != nil {
		_ = s.roster.InsertAt(idx, old)
		return model.Student{}, err
	}

	s.log.Debug().Str("id", old.ID).Int("index", idx).Msg("Student deleted")
	s.publish(websocket.ActionDeleted, idx, &old)
	return old, nil
}

// Get returns the record with the given id.
func (s *RosterService) Get(id string) (model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.roster.IndexOf(id)
	if idx < 0 {
		return model.Student{}, notFound(id)
	}
	return s.roster.At(idx)
}

// List returns the records matching f with their current positions, in
// roster order. It never changes stored data.
func (s *RosterService) List(f roster.Filter) []model.StudentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := []model.StudentEntry{}
	for i, st := range s.roster.View(f) {
		entries = append(entries, model.StudentEntry{Index: i, Student: st})
	}
	return entries
}

// Len returns the number of records.
func (s *RosterService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster.Len()
}

// Writable reports whether mutations would be accepted right now, returning
// the error they would fail with otherwise.
func (s *RosterService) Writable() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writable()
}

// writable must be called with mu held.
func (s *RosterService) writable() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.loadErr != nil && !s.overwriteUnreadable {
		return fmt.Errorf("%w: %v", ErrDegraded, s.loadErr)
	}
	return nil
}

// save must be called with mu held. A successful save after a failed Load
// replaced the unreadable value, so the service is no longer degraded.
func (s *RosterService) save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.roster.Students()); err != nil {
		s.log.Error().Err(err).Msg("Roster save failed, mutation rolled back")
		return fmt.Errorf("save roster: %w", err)
	}
	if s.loadErr != nil {
		s.log.Warn().Err(s.loadErr).Msg("Unreadable stored roster replaced")
		s.loadErr = nil
	}
	return nil
}

func (s *RosterService) publish(action websocket.Action, idx int, st *model.Student) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(websocket.Event{
		Event:   websocket.EventRosterChanged,
		Action:  action,
		Index:   idx,
		Student: st,
		Size:    s.roster.Len(),
	})
}

// notFound wraps roster.ErrNotFound with the id that was looked up.
func notFound(id string) error {
	return fmt.Errorf("%w: %s", roster.ErrNotFound, id)
}
