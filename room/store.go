package room

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/emirpasic/gods/maps/treemap"

	"findfriends-server/roomerrors"
)

// Store is the registry of live rooms: create, lookup, dispose. It is passed
// to whatever needs rooms; there is no package-level registry.
type Store struct {
	lock  sync.RWMutex
	rooms *treemap.Map // room id -> *Room, iterated in id order
	opts  Options
	ids   *rand.Rand
	made  int64
}

// NewStore returns an empty store whose rooms are created with opts.
func NewStore(opts Options) *Store {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Store{
		rooms: treemap.NewWithStringComparator(),
		opts:  opts,
		ids:   rand.New(rand.NewSource(seed)),
	}
}

// Create opens a new room with a fresh six-digit id and starts its loop.
func (s *Store) Create() *Room {
	s.lock.Lock()
	id := s.newID()
	opts := s.opts
	if opts.Seed != 0 {
		opts.Seed += s.made
	}
	s.made++
	r := New(id, opts)
	s.rooms.Put(id, r)
	s.lock.Unlock()

	go r.Run()
	go func() {
		<-r.Done
		s.remove(id, r)
	}()
	return r
}

// newID picks an unused six-digit id. Callers hold the write lock.
func (s *Store) newID() string {
	for {
		id := fmt.Sprintf("%06d", 100000+s.ids.Intn(900000))
		if _, found := s.rooms.Get(id); !found {
			return id
		}
	}
}

// Lookup returns the live room with id.
func (s *Store) Lookup(id string) (*Room, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if v, found := s.rooms.Get(id); found {
		return v.(*Room), nil
	}
	return nil, roomerrors.ErrRoomNotFound
}

// Dispose closes a room. The room leaves the registry once its loop exits.
func (s *Store) Dispose(id string) error {
	r, err := s.Lookup(id)
	if err != nil {
		return err
	}
	r.Close()
	return nil
}

// remove drops r from the registry if it is still the room under id.
func (s *Store) remove(id string, r *Room) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if v, found := s.rooms.Get(id); found && v.(*Room) == r {
		s.rooms.Remove(id)
		slog.Debug("room removed", "tag", "room", "room", id, "live", s.rooms.Size())
	}
}

// List returns a summary of every live room, ordered by id.
func (s *Store) List() []Summary {
	s.lock.RLock()
	defer s.lock.RUnlock()
	out := make([]Summary, 0, s.rooms.Size())
	for _, v := range s.rooms.Values() {
		out = append(out, v.(*Room).Summary())
	}
	return out
}

// Len returns the number of live rooms.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.rooms.Size()
}

// Shutdown closes every room and waits for their loops to exit.
func (s *Store) Shutdown() {
	s.lock.RLock()
	rooms := make([]*Room, 0, s.rooms.Size())
	for _, v := range s.rooms.Values() {
		rooms = append(rooms, v.(*Room))
	}
	s.lock.RUnlock()

	for _, r := range rooms {
		r.Close()
	}
	for _, r := range rooms {
		<-r.Done
	}
}
