package game

import (
	"time"
)

type Status string

const (
	StatusLobby        Status = "LOBBY"
	StatusChoosingWord Status = "CHOOSING_WORD"
	StatusDrawing      Status = "DRAWING"
	StatusScoring      Status = "SCORING"
	StatusGameOver     Status = "GAME_OVER"
)

// Active reports whether a game is in progress.
func (s Status) Active() bool {
	return s != StatusLobby && s != StatusGameOver
}

type Team string

const (
	TeamNone Team = ""
	TeamA    Team = "A"
	TeamB    Team = "B"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

type SelectionMode string

const (
	SelectionManual SelectionMode = "manual"
	SelectionRandom SelectionMode = "random"
)

func (m SelectionMode) valid() bool {
	return m == SelectionManual || m == SelectionRandom
}

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"username"`
	Score    int       `json:"score"`
	IsHost   bool      `json:"isHost"`
	Team     Team      `json:"team,omitempty"`
	Role     Role      `json:"role,omitempty"`
	InVoice  bool      `json:"isInVoice"`
	Muted    bool      `json:"isMuted"`
	JoinedAt time.Time `json:"joinedAt"`
}

type TeamModeConfig struct {
	Enabled       bool          `json:"enabled"`
	SelectionMode SelectionMode `json:"selectionMode"`
	Locked        bool          `json:"teamsLocked"`
}

// Settings are fixed for the lifetime of a room.
type Settings struct {
	TotalRounds    int
	DrawSeconds    int
	HintAt         []int // seconds left at which one more letter is revealed
	WordChoices    int
	WordOfferDelay time.Duration
	ScoringDelay   time.Duration
	MinPlayers     int
	MinTeamPlayers int
	DrawerBonus    int
	GuessInterval  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		TotalRounds:    3,
		DrawSeconds:    60,
		HintAt:         []int{30, 15},
		WordChoices:    3,
		WordOfferDelay: 200 * time.Millisecond,
		ScoringDelay:   5 * time.Second,
		MinPlayers:     2,
		MinTeamPlayers: 4,
		DrawerBonus:    5,
		GuessInterval:  500 * time.Millisecond,
	}
}

// SessionSnapshot is what a (re)joining participant needs to render the
// current game without replaying history.
type SessionSnapshot struct {
	Status       Status `json:"status"`
	Round        int    `json:"currentRound"`
	TotalRounds  int    `json:"totalRounds"`
	DrawerID     string `json:"drawerId,omitempty"`
	TimeLeft     int    `json:"timeLeft"`
	Hint         string `json:"hint,omitempty"`
	WordLength   int    `json:"wordLength,omitempty"`
	Word         string `json:"word,omitempty"` // drawer only
	RestartVotes int    `json:"restartVotes"`
}

type RoomSnapshot struct {
	RoomID   string          `json:"roomId"`
	HostID   string          `json:"hostId"`
	Players  []Player        `json:"players"`
	TeamMode TeamModeConfig  `json:"teamMode"`
	Game     SessionSnapshot `json:"gameState"`
}

// GameResult is handed to a Recorder when a game reaches GAME_OVER.
type GameResult struct {
	RoomID      string
	TotalRounds int
	Ranked      []Player
	Words       []string
	EndedAt     time.Time
}
