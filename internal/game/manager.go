package game

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const codeLength = 6

// RoomManager is the directory of live rooms. Lock order is manager, then room.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	opts  Options
}

func NewRoomManager(opts Options) *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room), opts: opts.withDefaults()}
}

// CreateRoom registers an empty room under id. hostID becomes host once they
// join.
func (rm *RoomManager) CreateRoom(id, hostID string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.rooms[id] != nil {
		return nil, ErrRoomExists
	}
	r := NewRoom(id, hostID, rm.opts)
	rm.rooms[id] = r
	log.Info().Str("room", id).Str("host", hostID).Msg("room created")
	return r, nil
}

// Create registers a room under a fresh short code.
func (rm *RoomManager) Create(hostID string) (*Room, error) {
	for {
		r, err := rm.CreateRoom(randomCode(), hostID)
		if err == nil {
			return r, nil
		}
	}
}

func (rm *RoomManager) Get(id string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[id]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// RoomOf finds the room playerID is currently in.
func (rm *RoomManager) RoomOf(playerID string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	for _, r := range rm.rooms {
		if r.HasPlayer(playerID) {
			return r, nil
		}
	}
	return nil, ErrPlayerNotFound
}

func (rm *RoomManager) RemoveRoom(id string) {
	rm.mu.Lock()
	r := rm.rooms[id]
	delete(rm.rooms, id)
	rm.mu.Unlock()
	if r != nil {
		r.Close()
		log.Info().Str("room", id).Msg("room removed")
	}
}

func (rm *RoomManager) IsSessionActive(id string) bool {
	r, err := rm.Get(id)
	if err != nil {
		return false
	}
	return r.Session().Status().Active()
}

// Join adds playerID to roomID. The read lock keeps a concurrent Leave from
// destroying the room halfway through.
func (rm *RoomManager) Join(roomID, playerID, name string) (*Room, Player, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[roomID]
	if r == nil {
		return nil, Player{}, ErrRoomNotFound
	}
	p, err := r.AddPlayer(playerID, name)
	if err != nil {
		return nil, Player{}, err
	}
	return r, p, nil
}

// Leave removes playerID from whatever room holds them and destroys the room
// once it is empty. It returns the room id, or "" when the player was in none.
func (rm *RoomManager) Leave(playerID string) string {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for id, r := range rm.rooms {
		if err := r.RemovePlayer(playerID); err != nil {
			continue
		}
		if r.Len() == 0 {
			delete(rm.rooms, id)
			r.Close()
			log.Info().Str("room", id).Msg("room removed")
		}
		return id
	}
	return ""
}

func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// PlayerCount sums the rosters of all rooms.
func (rm *RoomManager) PlayerCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	n := 0
	for _, r := range rm.rooms {
		n += r.Len()
	}
	return n
}

func randomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}
