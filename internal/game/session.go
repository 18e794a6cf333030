package game

import (
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const tickInterval = time.Second

// Session is the turn/round state machine of one room. It shares the room's
// mutex: exported methods lock it, lower-case methods expect it held.
type Session struct {
	room *Room

	status      Status
	round       int
	totalRounds int
	turnIndex   int
	order       []string // roster snapshot taken at game start, late joiners appended
	drawerID    string
	word        string
	timeLeft    int
	guessed     map[string]bool
	revealed    map[int]bool
	offered     []string
	votes       map[string]bool
	played      []string

	// epoch moves on every time pending work is cancelled; callbacks scheduled
	// in an older epoch are dropped when they finally get the lock.
	epoch    uint64
	drawTick Task
	pending  Task
}

func newSession(r *Room) *Session {
	return &Session{
		room:        r,
		status:      StatusLobby,
		totalRounds: r.settings.TotalRounds,
		turnIndex:   -1,
		guessed:     make(map[string]bool),
		revealed:    make(map[int]bool),
		votes:       make(map[string]bool),
		drawTick:    noopTask{},
		pending:     noopTask{},
	}
}

// GuessResult tells the caller whether its guess was credited.
type GuessResult struct {
	Correct bool
	Points  int
}

func (s *Session) Status() Status {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.status
}

func (s *Session) DrawerID() string {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.drawerID
}

func (s *Session) Round() int {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.round
}

func (s *Session) TimeLeft() int {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.timeLeft
}

// Offered returns the words currently offered to the drawer.
func (s *Session) Offered() []string {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return slices.Clone(s.offered)
}

func (s *Session) Start(callerID string) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	if s.status != StatusLobby {
		return ErrGameInProgress
	}
	if callerID != s.room.hostID {
		return ErrNotHost
	}
	if err := s.checkStart(); err != nil {
		return err
	}
	s.begin()
	return nil
}

func (s *Session) Restart(callerID string) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	if s.status != StatusGameOver {
		return ErrInvalidState
	}
	if callerID != s.room.hostID {
		return ErrNotHost
	}
	if err := s.checkStart(); err != nil {
		return err
	}
	log.Info().Str("room", s.room.id).Msg("restarting game")
	clear(s.votes)
	s.room.broadcast(RestartVotesUpdated{Count: 0})
	s.begin()
	return nil
}

func (s *Session) VotePlayAgain(playerID string) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	if s.status != StatusGameOver {
		return ErrInvalidState
	}
	if s.room.player(playerID) == nil {
		return ErrPlayerNotFound
	}
	s.votes[playerID] = true
	s.room.broadcast(RestartVotesUpdated{Count: len(s.votes)})
	return nil
}

func (s *Session) SelectWord(callerID, word string) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	if s.status != StatusChoosingWord {
		return ErrInvalidState
	}
	if callerID != s.drawerID {
		return ErrNotDrawer
	}
	i := slices.IndexFunc(s.offered, func(w string) bool { return strings.EqualFold(w, strings.TrimSpace(word)) })
	if i < 0 {
		return ErrWordNotOffered
	}
	s.startDrawing(s.offered[i])
	return nil
}

// RequestWords re-delivers the current offer to the drawer.
func (s *Session) RequestWords(callerID string) error {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	if s.status != StatusChoosingWord {
		return ErrInvalidState
	}
	if callerID != s.drawerID {
		return ErrNotDrawer
	}
	s.room.sendTo(s.drawerID, WordChoices{Words: slices.Clone(s.offered)})
	return nil
}

func (s *Session) HandleGuess(playerID, text string) (GuessResult, error) {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.guess(playerID, text)
}

// Snapshot is the resync view for viewerID. The literal word is included only
// when the viewer is the drawer.
func (s *Session) Snapshot(viewerID string) SessionSnapshot {
	s.room.mu.Lock()
	defer s.room.mu.Unlock()
	return s.snapshot(viewerID)
}

func (s *Session) checkStart() error {
	if len(s.room.players) < s.room.settings.MinPlayers {
		return ErrNotEnoughPlayers
	}
	if s.room.teamMode.Enabled && !s.room.teamsReady() {
		return ErrTeamsNotReady
	}
	return nil
}

func (s *Session) begin() {
	s.cancelTimers()
	for _, p := range s.room.players {
		p.Score = 0
	}
	s.round = 1
	s.totalRounds = s.room.settings.TotalRounds
	s.turnIndex = -1
	s.order = s.order[:0]
	for _, p := range s.room.players {
		s.order = append(s.order, p.ID)
	}
	s.played = nil
	clear(s.votes)
	log.Info().Str("room", s.room.id).Int("players", len(s.order)).Int("rounds", s.totalRounds).Msg("game started")
	s.room.broadcast(GameStarted{})
	s.room.broadcast(ScoresUpdated{Players: s.room.roster()})
	s.nextTurn()
}

func (s *Session) nextTurn() {
	s.cancelTimers()
	if len(s.room.players) < s.room.settings.MinPlayers {
		s.abort("not enough players")
		return
	}

	s.turnIndex++
	for {
		if s.turnIndex >= len(s.order) {
			if s.round >= s.totalRounds {
				s.endGame()
				return
			}
			s.round++
			s.turnIndex = 0
			s.room.broadcast(NewRound{Round: s.round})
		}
		// players who left keep their slot in the snapshot but are skipped
		if s.room.player(s.order[s.turnIndex]) != nil {
			break
		}
		s.turnIndex++
	}

	s.drawerID = s.order[s.turnIndex]
	s.word = ""
	s.timeLeft = 0
	clear(s.guessed)
	clear(s.revealed)
	s.offered = s.room.words.Pick(s.room.settings.WordChoices)
	s.status = StatusChoosingWord

	log.Debug().Str("room", s.room.id).Str("drawer", s.drawerID).Int("round", s.round).Msg("turn started")
	s.room.broadcast(TurnStart{DrawerID: s.drawerID, CurrentRound: s.round, TotalRounds: s.totalRounds})

	drawer, words := s.drawerID, slices.Clone(s.offered)
	s.pending = s.schedule(s.room.settings.WordOfferDelay, StatusChoosingWord, false, func() {
		s.room.sendTo(drawer, WordChoices{Words: words})
	})
}

func (s *Session) startDrawing(word string) {
	s.cancelTimers()
	s.word = word
	s.offered = nil
	s.played = append(s.played, word)
	s.timeLeft = s.room.settings.DrawSeconds
	clear(s.revealed)
	s.status = StatusDrawing

	s.room.broadcast(WordSelected{Length: len([]rune(word))})
	s.room.broadcast(WordHint{Hint: Mask(word, s.revealed)})
	s.drawTick = s.schedule(tickInterval, StatusDrawing, true, s.tick)
}

func (s *Session) tick() {
	s.timeLeft--
	s.room.broadcast(TimerUpdate{SecondsLeft: s.timeLeft})
	if slices.Contains(s.room.settings.HintAt, s.timeLeft) {
		if revealOne(s.word, s.revealed, s.room.rng) {
			s.room.broadcast(WordHint{Hint: Mask(s.word, s.revealed)})
		}
	}
	if s.timeLeft <= 0 {
		s.endTurn()
	}
}

func (s *Session) guess(playerID, text string) (GuessResult, error) {
	if s.status != StatusDrawing {
		return GuessResult{}, ErrInvalidState
	}
	p := s.room.player(playerID)
	if p == nil {
		return GuessResult{}, ErrPlayerNotFound
	}
	if playerID == s.drawerID {
		return GuessResult{}, ErrDrawerCannotGuess
	}
	if s.guessed[playerID] {
		return GuessResult{}, ErrAlreadyGuessed
	}
	if !matchesWord(text, s.word) {
		return GuessResult{}, nil
	}

	s.guessed[playerID] = true
	points := GuessPoints(s.timeLeft)
	p.Score += points
	if drawer := s.room.player(s.drawerID); drawer != nil {
		drawer.Score += s.room.settings.DrawerBonus
	}
	s.room.broadcast(CorrectGuess{PlayerID: playerID, Word: s.word, Points: points})
	s.room.broadcast(ScoresUpdated{Players: s.room.roster()})

	if s.allGuessed() {
		s.endTurn()
	}
	return GuessResult{Correct: true, Points: points}, nil
}

// allGuessed reports whether every present non-drawer has been credited.
func (s *Session) allGuessed() bool {
	for _, p := range s.room.players {
		if p.ID != s.drawerID && !s.guessed[p.ID] {
			return false
		}
	}
	return true
}

func (s *Session) endTurn() {
	s.cancelTimers()
	s.status = StatusScoring
	s.room.broadcast(TurnEnd{Word: s.word, Scores: s.room.roster()})
	s.pending = s.schedule(s.room.settings.ScoringDelay, StatusScoring, false, s.nextTurn)
}

func (s *Session) endGame() {
	s.cancelTimers()
	s.status = StatusGameOver
	s.drawerID = ""
	s.word = ""
	s.offered = nil
	ranked := rank(s.room.roster())
	log.Info().Str("room", s.room.id).Int("rounds", s.totalRounds).Msg("game over")
	s.room.broadcast(GameOver{Ranked: ranked})
	s.room.record(GameResult{
		RoomID:      s.room.id,
		TotalRounds: s.totalRounds,
		Ranked:      ranked,
		Words:       slices.Clone(s.played),
		EndedAt:     s.room.now(),
	})
}

// abort drops an active game back to LOBBY.
func (s *Session) abort(reason string) {
	s.cancelTimers()
	log.Info().Str("room", s.room.id).Str("reason", reason).Msg("game aborted")
	s.status = StatusLobby
	s.round = 0
	s.turnIndex = -1
	s.drawerID = ""
	s.word = ""
	s.timeLeft = 0
	s.offered = nil
	clear(s.guessed)
	clear(s.revealed)
	s.room.broadcast(GameReset{Reason: reason})
}

// playerLeft runs after id was removed from the roster.
func (s *Session) playerLeft(id string) {
	delete(s.votes, id)
	if s.status == StatusGameOver {
		s.room.broadcast(RestartVotesUpdated{Count: len(s.votes)})
		return
	}
	if !s.status.Active() {
		return
	}
	if len(s.room.players) < s.room.settings.MinPlayers {
		s.abort("not enough players")
		return
	}
	// a drawer who never picked a word would stall the room: nothing is timed
	// in CHOOSING_WORD, so hand the turn to the next player
	if s.status == StatusChoosingWord && id == s.drawerID {
		s.nextTurn()
		return
	}
	if s.status == StatusDrawing && id != s.drawerID && s.allGuessed() {
		s.endTurn()
	}
}

func (s *Session) playerJoined(id string) {
	if s.status.Active() && !slices.Contains(s.order, id) {
		s.order = append(s.order, id)
	}
}

func (s *Session) snapshot(viewerID string) SessionSnapshot {
	snap := SessionSnapshot{
		Status:       s.status,
		Round:        s.round,
		TotalRounds:  s.totalRounds,
		DrawerID:     s.drawerID,
		TimeLeft:     s.timeLeft,
		RestartVotes: len(s.votes),
	}
	if s.word != "" {
		snap.WordLength = len([]rune(s.word))
		snap.Hint = Mask(s.word, s.revealed)
		if viewerID == s.drawerID {
			snap.Word = s.word
		}
	}
	return snap
}

func (s *Session) cancelTimers() {
	s.drawTick.Stop()
	s.pending.Stop()
	s.drawTick = noopTask{}
	s.pending = noopTask{}
	s.epoch++
}

// schedule runs f under the room lock, as long as nothing was cancelled in
// between and the session is still in want.
func (s *Session) schedule(d time.Duration, want Status, repeat bool, f func()) Task {
	epoch := s.epoch
	guarded := func() {
		s.room.mu.Lock()
		defer s.room.mu.Unlock()
		if s.epoch != epoch || s.status != want {
			return
		}
		f()
	}
	if repeat {
		return s.room.sched.Every(d, guarded)
	}
	return s.room.sched.After(d, guarded)
}
