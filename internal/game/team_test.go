package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func TestEnableTeamMode(t *testing.T) {
	f := newFixture(t, testSettings(), "alice", "bob", "carol")

	assert.False(t, f.room.CanUseTeamMode())
	_, err := f.room.AddPlayer("dave", "Dave")
	require.NoError(t, err)
	assert.True(t, f.room.CanUseTeamMode())

	assert.ErrorIs(t, f.room.JoinTeam("bob", TeamA, RolePlayer), ErrTeamModeDisabled)
	assert.ErrorIs(t, f.room.EnableTeamMode("bob", SelectionManual), ErrNotHost)
	assert.ErrorIs(t, f.room.EnableTeamMode("alice", "chaos"), ErrInvalidMode)
	assert.False(t, f.room.TeamMode().Enabled)

	f.em.reset()
	require.NoError(t, f.room.EnableTeamMode("alice", SelectionManual))
	assert.Equal(t, TeamModeConfig{Enabled: true, SelectionMode: SelectionManual}, f.room.TeamMode())
	assert.Equal(t, []string{"team-mode-updated", "team-roster-updated"}, f.em.names())
}

func TestTeamsReady(t *testing.T) {
	type seat struct {
		team Team
		role Role
	}
	a := seat{TeamA, RolePlayer}
	b := seat{TeamB, RolePlayer}
	spec := seat{TeamNone, RoleSpectator}
	none := seat{}

	cases := []struct {
		name  string
		seats []seat
		want  bool
	}{
		{"even split", []seat{a, a, b, b}, true},
		{"one off", []seat{a, a, a, b, b, spec}, false},
		{"lopsided", []seat{a, a, a, b}, false},
		{"odd with spectator", []seat{a, a, b, b, spec}, true},
		{"odd without spectator", []seat{a, a, b, b, b}, false},
		{"even with spectator", []seat{a, b, b, spec}, false},
		{"too few", []seat{a, b, spec}, false},
		{"unassigned", []seat{a, a, b, none}, false},
		{"six even", []seat{a, b, a, b, a, b}, true},
		{"seven", []seat{a, b, a, b, a, b, spec}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := playerIDs(len(tc.seats))
			f := newFixture(t, testSettings(), ids...)
			require.NoError(t, f.room.EnableTeamMode(ids[0], SelectionManual))
			for i, s := range tc.seats {
				if s == none {
					continue
				}
				require.NoError(t, f.room.JoinTeam(ids[i], s.team, s.role))
			}
			assert.Equal(t, tc.want, f.room.TeamsReady())
		})
	}
}

func TestJoinTeamRejections(t *testing.T) {
	f := newFixture(t, testSettings(), playerIDs(5)...)
	require.NoError(t, f.room.EnableTeamMode("p1", SelectionManual))

	require.NoError(t, f.room.JoinTeam("p2", "", RoleSpectator))
	err := f.room.JoinTeam("p3", "", RoleSpectator)
	assert.ErrorIs(t, err, ErrSpectatorTaken)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// the spectator can pick a side again, freeing the seat
	require.NoError(t, f.room.JoinTeam("p2", TeamB, RolePlayer))
	require.NoError(t, f.room.JoinTeam("p3", "", RoleSpectator))

	assert.ErrorIs(t, f.room.JoinTeam("p4", "C", RolePlayer), ErrInvalidTeam)
	assert.ErrorIs(t, f.room.JoinTeam("ghost", TeamA, RolePlayer), ErrPlayerNotFound)

	require.NoError(t, f.room.LockTeams("p1"))
	err = f.room.JoinTeam("p4", TeamA, RolePlayer)
	assert.ErrorIs(t, err, ErrTeamsLocked)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, f.room.SetTeamSelectionMode("p1", SelectionRandom), ErrTeamsLocked)
}

func TestRandomizeTeamsOddRoster(t *testing.T) {
	f := newFixture(t, testSettings(), playerIDs(5)...)
	require.NoError(t, f.room.EnableTeamMode("p1", SelectionRandom))
	assert.ErrorIs(t, f.room.RandomizeTeams("p2"), ErrNotHost)

	require.NoError(t, f.room.RandomizeTeams("p1"))

	var spectators, teamA, teamB int
	for _, p := range f.room.Players() {
		switch {
		case p.Role == RoleSpectator:
			spectators++
			assert.Equal(t, TeamNone, p.Team)
		case p.Team == TeamA:
			teamA++
		case p.Team == TeamB:
			teamB++
		}
	}
	assert.Equal(t, 1, spectators)
	assert.Equal(t, 2, teamA)
	assert.Equal(t, 2, teamB)
	assert.True(t, f.room.TeamMode().Locked)
	assert.True(t, f.room.TeamsReady())

	assert.ErrorIs(t, f.room.JoinTeam("p3", TeamA, RolePlayer), ErrInvalidState)

	require.NoError(t, f.room.Session().Start("p1"))
	assert.Equal(t, StatusChoosingWord, f.room.Session().Status())
}

func TestRandomizeTeamsEvenRoster(t *testing.T) {
	f := newFixture(t, testSettings(), playerIDs(6)...)
	require.NoError(t, f.room.EnableTeamMode("p1", SelectionRandom))
	require.NoError(t, f.room.RandomizeTeams("p1"))

	counts := map[Team]int{}
	for _, p := range f.room.Players() {
		assert.Equal(t, RolePlayer, p.Role)
		counts[p.Team]++
	}
	assert.Equal(t, map[Team]int{TeamA: 3, TeamB: 3}, counts)
}

func TestStartRequiresReadyTeams(t *testing.T) {
	f := newFixture(t, testSettings(), playerIDs(4)...)
	require.NoError(t, f.room.EnableTeamMode("p1", SelectionManual))
	require.NoError(t, f.room.JoinTeam("p1", TeamA, RolePlayer))
	require.NoError(t, f.room.JoinTeam("p2", TeamA, RolePlayer))
	require.NoError(t, f.room.JoinTeam("p3", TeamA, RolePlayer))
	require.NoError(t, f.room.JoinTeam("p4", TeamB, RolePlayer))

	s := f.room.Session()
	assert.ErrorIs(t, s.Start("p1"), ErrTeamsNotReady)
	assert.Equal(t, StatusLobby, s.Status())

	require.NoError(t, f.room.JoinTeam("p3", TeamB, RolePlayer))
	require.NoError(t, s.Start("p1"))

	assert.ErrorIs(t, f.room.DisableTeamMode("p1"), ErrGameInProgress)
	assert.ErrorIs(t, f.room.LockTeams("p1"), ErrGameInProgress)
}

func TestDisableTeamModeClearsTeams(t *testing.T) {
	f := newFixture(t, testSettings(), playerIDs(4)...)
	require.NoError(t, f.room.EnableTeamMode("p1", SelectionRandom))
	require.NoError(t, f.room.RandomizeTeams("p1"))

	require.NoError(t, f.room.DisableTeamMode("p1"))
	assert.False(t, f.room.TeamMode().Enabled)
	assert.False(t, f.room.TeamMode().Locked)
	for _, p := range f.room.Players() {
		assert.Equal(t, TeamNone, p.Team)
		assert.Equal(t, RolePlayer, p.Role)
	}
}
