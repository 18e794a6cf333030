package game

import "encoding/json"

// Event is an outbound notification. The set is closed: only types in this
// file implement it. Payload is what goes over the wire under Name.
type Event interface {
	Name() string
	Payload() any
	event()
}

// Emitter fans events out to room members. Implementations must not call
// back into the Room: events are emitted while the room lock is held.
type Emitter interface {
	Broadcast(roomID string, ev Event)
	BroadcastExcept(roomID, exceptID string, ev Event)
	SendTo(playerID string, ev Event)
}

type PlayerJoined struct{ Player Player }

type PlayerLeft struct{ PlayerID string }

type GameStarted struct{}

type NewRound struct{ Round int }

type TurnStart struct {
	DrawerID     string `json:"drawerId"`
	CurrentRound int    `json:"currentRound"`
	TotalRounds  int    `json:"totalRounds"`
}

type WordChoices struct{ Words []string }

type WordSelected struct{ Length int }

type WordHint struct{ Hint string }

type TimerUpdate struct{ SecondsLeft int }

type CorrectGuess struct {
	PlayerID string `json:"playerId"`
	Word     string `json:"word"`
	Points   int    `json:"score"`
}

type ScoresUpdated struct{ Players []Player }

type TurnEnd struct {
	Word   string   `json:"word"`
	Scores []Player `json:"scores"`
}

type GameOver struct {
	Ranked []Player `json:"winner"`
}

type GameReset struct {
	Reason string `json:"reason"`
}

type RestartVotesUpdated struct{ Count int }

type TeamModeUpdated struct{ Config TeamModeConfig }

type TeamRosterUpdated struct{ Players []Player }

type ChatMessage struct {
	ID        string `json:"id"`
	PlayerID  string `json:"playerId"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	IsSystem  bool   `json:"isSystem,omitempty"`
	Type      string `json:"type"`
}

type VoiceReady struct{ PlayerID string }

type VoiceStateUpdate struct {
	PlayerID string `json:"userId"`
	Muted    bool   `json:"isMuted"`
	InVoice  bool   `json:"isInVoice"`
}

type Signal struct {
	SenderID string          `json:"senderId"`
	Signal   json.RawMessage `json:"signal"`
}

type Stroke struct{ Data json.RawMessage }

type CanvasCleared struct{}

func (PlayerJoined) Name() string        { return "player-joined" }
func (PlayerLeft) Name() string          { return "player-left" }
func (GameStarted) Name() string         { return "game-started" }
func (NewRound) Name() string            { return "new-round" }
func (TurnStart) Name() string           { return "turn-start" }
func (WordChoices) Name() string         { return "word-choices" }
func (WordSelected) Name() string        { return "word-selected" }
func (WordHint) Name() string            { return "word-hint" }
func (TimerUpdate) Name() string         { return "timer-update" }
func (CorrectGuess) Name() string        { return "correct-guess" }
func (ScoresUpdated) Name() string       { return "scores-updated" }
func (TurnEnd) Name() string             { return "turn-end" }
func (GameOver) Name() string            { return "game-over" }
func (GameReset) Name() string           { return "game-reset" }
func (RestartVotesUpdated) Name() string { return "restart-votes-updated" }
func (TeamModeUpdated) Name() string     { return "team-mode-updated" }
func (TeamRosterUpdated) Name() string   { return "team-roster-updated" }
func (ChatMessage) Name() string         { return "chat-message" }
func (VoiceReady) Name() string          { return "voice-ready" }
func (VoiceStateUpdate) Name() string    { return "voice-state-update" }
func (Signal) Name() string              { return "signal" }
func (Stroke) Name() string              { return "draw" }
func (CanvasCleared) Name() string       { return "clear-canvas" }

func (e PlayerJoined) Payload() any        { return e.Player }
func (e PlayerLeft) Payload() any          { return e.PlayerID }
func (GameStarted) Payload() any           { return nil }
func (e NewRound) Payload() any            { return e.Round }
func (e TurnStart) Payload() any           { return e }
func (e WordChoices) Payload() any         { return e.Words }
func (e WordSelected) Payload() any        { return e.Length }
func (e WordHint) Payload() any            { return e.Hint }
func (e TimerUpdate) Payload() any         { return e.SecondsLeft }
func (e CorrectGuess) Payload() any        { return e }
func (e ScoresUpdated) Payload() any       { return e.Players }
func (e TurnEnd) Payload() any             { return e }
func (e GameOver) Payload() any            { return e }
func (e GameReset) Payload() any           { return e }
func (e RestartVotesUpdated) Payload() any { return e.Count }
func (e TeamModeUpdated) Payload() any     { return e.Config }
func (e TeamRosterUpdated) Payload() any   { return e.Players }
func (e ChatMessage) Payload() any         { return e }
func (e VoiceReady) Payload() any          { return e.PlayerID }
func (e VoiceStateUpdate) Payload() any    { return e }
func (e Signal) Payload() any              { return e }
func (e Stroke) Payload() any              { return e.Data }
func (CanvasCleared) Payload() any         { return nil }

func (PlayerJoined) event()        {}
func (PlayerLeft) event()          {}
func (GameStarted) event()         {}
func (NewRound) event()            {}
func (TurnStart) event()           {}
func (WordChoices) event()         {}
func (WordSelected) event()        {}
func (WordHint) event()            {}
func (TimerUpdate) event()         {}
func (CorrectGuess) event()        {}
func (ScoresUpdated) event()       {}
func (TurnEnd) event()             {}
func (GameOver) event()            {}
func (GameReset) event()           {}
func (RestartVotesUpdated) event() {}
func (TeamModeUpdated) event()     {}
func (TeamRosterUpdated) event()   {}
func (ChatMessage) event()         {}
func (VoiceReady) event()          {}
func (VoiceStateUpdate) event()    {}
func (Signal) event()              {}
func (Stroke) event()              {}
func (CanvasCleared) event()       {}

type discardEmitter struct{}

func (discardEmitter) Broadcast(string, Event)               {}
func (discardEmitter) BroadcastExcept(string, string, Event) {}
func (discardEmitter) SendTo(string, Event)                  {}
