package game

import "encoding/json"

// Action is an inbound request from a participant. The caller's id travels
// next to it, never inside it.
type Action interface{ action() }

type StartGame struct{}
type SelectWord struct{ Word string }
type Guess struct{ Text string }
type RequestWords struct{}
type Restart struct{}
type VotePlayAgain struct{}
type EnableTeamMode struct{ Mode SelectionMode }
type DisableTeamMode struct{}
type SetTeamSelectionMode struct{ Mode SelectionMode }
type JoinTeam struct {
	Team Team
	Role Role
}
type LockTeams struct{}
type RandomizeTeams struct{}
type JoinVoice struct{}
type SetMuted struct{ Muted bool }
type SendSignal struct {
	TargetID string
	Payload  json.RawMessage
}
type Draw struct{ Data json.RawMessage }
type ClearCanvas struct{}

func (StartGame) action()            {}
func (SelectWord) action()           {}
func (Guess) action()                {}
func (RequestWords) action()         {}
func (Restart) action()              {}
func (VotePlayAgain) action()        {}
func (EnableTeamMode) action()       {}
func (DisableTeamMode) action()      {}
func (SetTeamSelectionMode) action() {}
func (JoinTeam) action()             {}
func (LockTeams) action()            {}
func (RandomizeTeams) action()       {}
func (JoinVoice) action()            {}
func (SetMuted) action()             {}
func (SendSignal) action()           {}
func (Draw) action()                 {}
func (ClearCanvas) action()          {}

// Dispatch routes an action to the room or its session. A nil error is an
// accepted action; any error is a rejection that left shared state untouched.
func (r *Room) Dispatch(playerID string, a Action) error {
	switch act := a.(type) {
	case StartGame:
		return r.session.Start(playerID)
	case SelectWord:
		return r.session.SelectWord(playerID, act.Word)
	case Guess:
		_, err := r.Say(playerID, act.Text)
		return err
	case RequestWords:
		return r.session.RequestWords(playerID)
	case Restart:
		return r.session.Restart(playerID)
	case VotePlayAgain:
		return r.session.VotePlayAgain(playerID)
	case EnableTeamMode:
		return r.EnableTeamMode(playerID, act.Mode)
	case DisableTeamMode:
		return r.DisableTeamMode(playerID)
	case SetTeamSelectionMode:
		return r.SetTeamSelectionMode(playerID, act.Mode)
	case JoinTeam:
		return r.JoinTeam(playerID, act.Team, act.Role)
	case LockTeams:
		return r.LockTeams(playerID)
	case RandomizeTeams:
		return r.RandomizeTeams(playerID)
	case JoinVoice:
		return r.JoinVoice(playerID)
	case SetMuted:
		return r.SetMuted(playerID, act.Muted)
	case SendSignal:
		return r.RelaySignal(playerID, act.TargetID, act.Payload)
	case Draw:
		return r.RelayStroke(playerID, act.Data)
	case ClearCanvas:
		return r.ClearCanvas(playerID)
	default:
		return ErrUnknownAction
	}
}
