package game

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/kiliankoe/scribbledash/internal/words"
)

// WordSource supplies candidate words. Pick returns n distinct words.
type WordSource interface {
	Pick(n int) []string
}

// Recorder receives finished games. It is called off the room lock.
type Recorder interface {
	RecordGame(GameResult) error
}

// Options carries the collaborators every room is built with.
type Options struct {
	Settings  Settings
	Words     WordSource
	Emitter   Emitter
	Scheduler Scheduler
	Recorder  Recorder
	Now       func() time.Time
	Seed      uint64 // 0 seeds each room randomly
}

func (o Options) withDefaults() Options {
	if o.Settings.TotalRounds == 0 {
		o.Settings = DefaultSettings()
	}
	if o.Words == nil {
		o.Words = words.Default()
	}
	if o.Emitter == nil {
		o.Emitter = discardEmitter{}
	}
	if o.Scheduler == nil {
		o.Scheduler = RealScheduler()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Room struct {
	mu sync.Mutex

	id       string
	hostID   string
	players  []*Player
	teamMode TeamModeConfig
	session  *Session
	limiters map[string]*rate.Limiter

	settings Settings
	emitter  Emitter
	words    WordSource
	sched    Scheduler
	recorder Recorder
	rng      *rand.Rand
	now      func() time.Time
}

func NewRoom(id, hostID string, opts Options) *Room {
	opts = opts.withDefaults()
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	r := &Room{
		id:       id,
		hostID:   hostID,
		teamMode: TeamModeConfig{SelectionMode: SelectionManual},
		limiters: make(map[string]*rate.Limiter),
		settings: opts.Settings,
		emitter:  opts.Emitter,
		words:    opts.Words,
		sched:    opts.Scheduler,
		recorder: opts.Recorder,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:      opts.Now,
	}
	r.session = newSession(r)
	return r
}

func (r *Room) ID() string { return r.id }

func (r *Room) Session() *Session { return r.session }

func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

func (r *Room) Players() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roster()
}

func (r *Room) Player(id string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.player(id); p != nil {
		return *p, true
	}
	return Player{}, false
}

func (r *Room) HasPlayer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.player(id) != nil
}

func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) AddPlayer(id, name string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player(id) != nil {
		return Player{}, ErrPlayerExists
	}
	if len(r.players) == 0 {
		r.hostID = id
	}
	p := &Player{
		ID:       id,
		Name:     name,
		IsHost:   id == r.hostID,
		Role:     RolePlayer,
		JoinedAt: r.now().UTC(),
	}
	r.players = append(r.players, p)
	if r.settings.GuessInterval > 0 {
		r.limiters[id] = rate.NewLimiter(rate.Every(r.settings.GuessInterval), 1)
	}
	r.session.playerJoined(id)

	log.Info().Str("room", r.id).Str("player", id).Int("players", len(r.players)).Msg("player joined")
	r.broadcast(PlayerJoined{Player: *p})
	if r.teamMode.Enabled {
		r.broadcast(TeamRosterUpdated{Players: r.roster()})
	}
	return *p, nil
}

// RemovePlayer drops id from the roster, promoting the first remaining player
// when the host leaves.
func (r *Room) RemovePlayer(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrPlayerNotFound
	}
	r.players = slices.Delete(r.players, i, i+1)
	delete(r.limiters, id)
	if id == r.hostID && len(r.players) > 0 {
		r.hostID = r.players[0].ID
		r.players[0].IsHost = true
		log.Info().Str("room", r.id).Str("host", r.hostID).Msg("host reassigned")
	}

	log.Info().Str("room", r.id).Str("player", id).Int("players", len(r.players)).Msg("player left")
	r.broadcast(PlayerLeft{PlayerID: id})
	if len(r.players) == 0 {
		r.session.cancelTimers()
		return nil
	}
	if r.teamMode.Enabled {
		r.broadcast(TeamRosterUpdated{Players: r.roster()})
	}
	r.session.playerLeft(id)
	return nil
}

// Say is the chat entry point. During DRAWING it doubles as a guess; anything
// that is not a credited guess is relayed to the room as chat.
func (r *Room) Say(playerID, text string) (GuessResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.player(playerID)
	if p == nil {
		return GuessResult{}, ErrPlayerNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return GuessResult{}, ErrEmptyMessage
	}
	if lim := r.limiters[playerID]; lim != nil && !lim.AllowN(r.now(), 1) {
		return GuessResult{}, ErrRateLimited
	}

	res, err := r.session.guess(playerID, text)
	if res.Correct {
		r.broadcast(r.chat("", "System", p.Name+" guessed the word!", true, "guess"))
		return res, nil
	}
	if err != nil && !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrUnauthorized) {
		return res, err
	}
	if r.knowsWord(playerID) && strings.Contains(strings.ToLower(text), strings.ToLower(r.session.word)) {
		return res, ErrRevealsWord
	}
	r.broadcast(r.chat(p.ID, p.Name, text, false, "chat"))
	return res, nil
}

func (r *Room) knowsWord(playerID string) bool {
	s := r.session
	if s.status != StatusDrawing || s.word == "" {
		return false
	}
	return playerID == s.drawerID || s.guessed[playerID]
}

func (r *Room) chat(playerID, name, text string, system bool, kind string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		PlayerID:  playerID,
		Username:  name,
		Text:      text,
		Timestamp: r.now().UnixMilli(),
		IsSystem:  system,
		Type:      kind,
	}
}

func (r *Room) JoinVoice(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.InVoice = true
	r.emitter.BroadcastExcept(r.id, playerID, VoiceReady{PlayerID: playerID})
	return nil
}

func (r *Room) SetMuted(playerID string, muted bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.Muted = muted
	r.broadcast(VoiceStateUpdate{PlayerID: playerID, Muted: muted, InVoice: p.InVoice})
	return nil
}

// RelaySignal forwards an opaque voice signaling payload to another member.
func (r *Room) RelaySignal(senderID, targetID string, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.player(senderID) == nil || r.player(targetID) == nil {
		return ErrPlayerNotFound
	}
	r.emitter.SendTo(targetID, Signal{SenderID: senderID, Signal: payload})
	return nil
}

// RelayStroke forwards the drawer's canvas data to everyone else.
func (r *Room) RelayStroke(senderID string, data json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session.status != StatusDrawing {
		return ErrInvalidState
	}
	if senderID != r.session.drawerID {
		return ErrNotDrawer
	}
	r.emitter.BroadcastExcept(r.id, senderID, Stroke{Data: data})
	return nil
}

func (r *Room) ClearCanvas(senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.session.status.Active() {
		return ErrInvalidState
	}
	if senderID != r.session.drawerID {
		return ErrNotDrawer
	}
	r.broadcast(CanvasCleared{})
	return nil
}

func (r *Room) Snapshot(viewerID string) RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomSnapshot{
		RoomID:   r.id,
		HostID:   r.hostID,
		Players:  r.roster(),
		TeamMode: r.teamMode,
		Game:     r.session.snapshot(viewerID),
	}
}

// Close stops all pending timers.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session.cancelTimers()
}

func (r *Room) player(id string) *Player {
	if i := r.index(id); i >= 0 {
		return r.players[i]
	}
	return nil
}

func (r *Room) index(id string) int {
	return slices.IndexFunc(r.players, func(p *Player) bool { return p.ID == id })
}

func (r *Room) roster() []Player {
	out := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, *p)
	}
	return out
}

func (r *Room) broadcast(ev Event) { r.emitter.Broadcast(r.id, ev) }

func (r *Room) sendTo(playerID string, ev Event) { r.emitter.SendTo(playerID, ev) }

func (r *Room) record(res GameResult) {
	if r.recorder == nil {
		return
	}
	go func() {
		if err := r.recorder.RecordGame(res); err != nil {
			log.Error().Err(err).Str("room", res.RoomID).Msg("failed to record game")
		}
	}()
}
