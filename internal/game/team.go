package game

import (
	"github.com/rs/zerolog/log"
)

// CanUseTeamMode reports whether the roster is large enough for two teams.
// It is advisory; EnableTeamMode does not enforce it.
func (r *Room) CanUseTeamMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) >= r.settings.MinTeamPlayers
}

func (r *Room) TeamMode() TeamModeConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teamMode
}

// TeamsReady reports whether the current assignment would let a game start.
func (r *Room) TeamsReady() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.teamsReady()
}

func (r *Room) EnableTeamMode(callerID string, mode SelectionMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTeamAdmin(callerID); err != nil {
		return err
	}
	if !mode.valid() {
		return ErrInvalidMode
	}
	r.teamMode = TeamModeConfig{Enabled: true, SelectionMode: mode}
	r.resetTeams()
	log.Info().Str("room", r.id).Str("mode", string(mode)).Msg("team mode enabled")
	r.broadcastTeams()
	return nil
}

func (r *Room) DisableTeamMode(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTeamAdmin(callerID); err != nil {
		return err
	}
	r.teamMode = TeamModeConfig{SelectionMode: SelectionManual}
	r.resetTeams()
	log.Info().Str("room", r.id).Msg("team mode disabled")
	r.broadcastTeams()
	return nil
}

func (r *Room) SetTeamSelectionMode(callerID string, mode SelectionMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTeamAdmin(callerID); err != nil {
		return err
	}
	if !r.teamMode.Enabled {
		return ErrTeamModeDisabled
	}
	if r.teamMode.Locked {
		return ErrTeamsLocked
	}
	if !mode.valid() {
		return ErrInvalidMode
	}
	r.teamMode.SelectionMode = mode
	r.broadcast(TeamModeUpdated{Config: r.teamMode})
	return nil
}

// JoinTeam places playerID on team, or makes them the spectator when role is
// RoleSpectator. An odd roster has exactly one spectator seat.
func (r *Room) JoinTeam(playerID string, team Team, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.teamMode.Enabled {
		return ErrTeamModeDisabled
	}
	if r.teamMode.Locked {
		return ErrTeamsLocked
	}
	p := r.player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	switch role {
	case RoleSpectator:
		for _, other := range r.players {
			if other.ID != playerID && other.Role == RoleSpectator {
				return ErrSpectatorTaken
			}
		}
		p.Team = TeamNone
		p.Role = RoleSpectator
	case RolePlayer, "":
		if team != TeamA && team != TeamB {
			return ErrInvalidTeam
		}
		p.Team = team
		p.Role = RolePlayer
	default:
		return ErrInvalidTeam
	}
	r.broadcast(TeamRosterUpdated{Players: r.roster()})
	return nil
}

func (r *Room) LockTeams(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTeamAdmin(callerID); err != nil {
		return err
	}
	if !r.teamMode.Enabled {
		return ErrTeamModeDisabled
	}
	r.teamMode.Locked = true
	r.broadcast(TeamModeUpdated{Config: r.teamMode})
	return nil
}

// RandomizeTeams shuffles the roster into two balanced teams, seats one
// spectator when the roster is odd, and locks the result.
func (r *Room) RandomizeTeams(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkTeamAdmin(callerID); err != nil {
		return err
	}
	if !r.teamMode.Enabled {
		return ErrTeamModeDisabled
	}

	shuffled := make([]*Player, len(r.players))
	copy(shuffled, r.players)
	r.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	rest := shuffled
	if len(shuffled)%2 == 1 {
		shuffled[0].Team = TeamNone
		shuffled[0].Role = RoleSpectator
		rest = shuffled[1:]
	}
	var a, b int
	for _, p := range rest {
		p.Role = RolePlayer
		if a <= b {
			p.Team = TeamA
			a++
		} else {
			p.Team = TeamB
			b++
		}
	}
	r.teamMode.Locked = true

	log.Info().Str("room", r.id).Int("teamA", a).Int("teamB", b).Msg("teams randomized")
	r.broadcastTeams()
	return nil
}

func (r *Room) checkTeamAdmin(callerID string) error {
	if r.player(callerID) == nil {
		return ErrPlayerNotFound
	}
	if callerID != r.hostID {
		return ErrNotHost
	}
	if r.session.status.Active() {
		return ErrGameInProgress
	}
	return nil
}

func (r *Room) resetTeams() {
	for _, p := range r.players {
		p.Team = TeamNone
		p.Role = RolePlayer
	}
}

func (r *Room) broadcastTeams() {
	r.broadcast(TeamModeUpdated{Config: r.teamMode})
	r.broadcast(TeamRosterUpdated{Players: r.roster()})
}

// teamsReady: enough players, everyone assigned, a spectator only when the
// roster is odd, and team sizes within one of each other.
func (r *Room) teamsReady() bool {
	n := len(r.players)
	if n < r.settings.MinTeamPlayers {
		return false
	}
	var spectators, a, b int
	for _, p := range r.players {
		switch {
		case p.Role == RoleSpectator:
			spectators++
		case p.Team == TeamA:
			a++
		case p.Team == TeamB:
			b++
		default:
			return false
		}
	}
	if spectators != n%2 {
		return false
	}
	return a-b <= 1 && b-a <= 1
}
