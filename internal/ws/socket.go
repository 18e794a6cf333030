package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/scribbledash/internal/game"
	"github.com/kiliankoe/scribbledash/internal/metrics"
)

const maxNameLength = 20

var (
	errNotInRoom   = fmt.Errorf("not in a room: %w", game.ErrNotFound)
	errInvalidName = fmt.Errorf("username must be 1-%d characters: %w", maxNameLength, game.ErrPreconditionFailed)
)

// ConnCtx tracks which room a connection is seated in. The connection id
// doubles as the player id.
type ConnCtx struct {
	conn   socketio.Conn
	RoomID string
}

// Server bridges socket.io connections to rooms. It is the game's Emitter.
type Server struct {
	rm      *game.RoomManager
	metrics *metrics.Metrics
	io      *socketio.Server

	mu    sync.RWMutex
	conns map[string]*ConnCtx
}

func New(m *metrics.Metrics) *Server {
	return &Server{metrics: m, conns: make(map[string]*ConnCtx)}
}

// SetRoomManager completes construction; the manager needs the server as its
// emitter, so it can only be created afterwards.
func (srv *Server) SetRoomManager(rm *game.RoomManager) { srv.rm = rm }

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		srv.mu.Lock()
		srv.conns[s.ID()] = &ConnCtx{conn: s}
		srv.mu.Unlock()
		if srv.metrics != nil {
			srv.metrics.ConnectionOpened()
		}
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "create-room", func(s socketio.Conn, payload struct {
		Username string `json:"username"`
	}) map[string]any {
		start := time.Now()
		roomID, err := srv.createRoom(s, payload.Username)
		srv.observe("create-room", err, start)
		if err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"ok": true, "roomId": roomID}
	})

	io.OnEvent("/", "join-room", func(s socketio.Conn, payload struct {
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}) map[string]any {
		start := time.Now()
		err := srv.joinRoom(s, strings.ToUpper(strings.TrimSpace(payload.RoomID)), payload.Username)
		srv.observe("join-room", err, start)
		if err != nil {
			return srv.err(s, err)
		}
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "sync", func(s socketio.Conn) map[string]any {
		room, err := srv.roomFor(s)
		if err != nil {
			return srv.err(s, err)
		}
		snap := room.Snapshot(s.ID())
		s.Emit("sync-game-state", snap)
		return map[string]any{"ok": true, "state": snap}
	})

	io.OnEvent("/", "start-game", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "start-game", game.StartGame{})
	})

	io.OnEvent("/", "select-word", func(s socketio.Conn, payload struct {
		Word string `json:"word"`
	}) map[string]any {
		return srv.dispatch(s, "select-word", game.SelectWord{Word: payload.Word})
	})

	io.OnEvent("/", "guess", func(s socketio.Conn, payload struct {
		Text string `json:"text"`
	}) map[string]any {
		return srv.dispatch(s, "guess", game.Guess{Text: payload.Text})
	})

	io.OnEvent("/", "request-words", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "request-words", game.RequestWords{})
	})

	io.OnEvent("/", "request-restart", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "request-restart", game.Restart{})
	})

	io.OnEvent("/", "vote-play-again", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "vote-play-again", game.VotePlayAgain{})
	})

	io.OnEvent("/", "enable-team-mode", func(s socketio.Conn, payload struct {
		SelectionMode string `json:"selectionMode"`
	}) map[string]any {
		return srv.dispatch(s, "enable-team-mode", game.EnableTeamMode{Mode: game.SelectionMode(payload.SelectionMode)})
	})

	io.OnEvent("/", "disable-team-mode", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "disable-team-mode", game.DisableTeamMode{})
	})

	io.OnEvent("/", "set-team-selection-mode", func(s socketio.Conn, payload struct {
		SelectionMode string `json:"selectionMode"`
	}) map[string]any {
		return srv.dispatch(s, "set-team-selection-mode", game.SetTeamSelectionMode{Mode: game.SelectionMode(payload.SelectionMode)})
	})

	io.OnEvent("/", "join-team", func(s socketio.Conn, payload struct {
		Team string `json:"team"`
		Role string `json:"role"`
	}) map[string]any {
		return srv.dispatch(s, "join-team", game.JoinTeam{Team: game.Team(payload.Team), Role: game.Role(payload.Role)})
	})

	io.OnEvent("/", "lock-teams", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "lock-teams", game.LockTeams{})
	})

	io.OnEvent("/", "randomize-teams", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "randomize-teams", game.RandomizeTeams{})
	})

	io.OnEvent("/", "join-voice", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "join-voice", game.JoinVoice{})
	})

	io.OnEvent("/", "voice-mute-change", func(s socketio.Conn, payload struct {
		Muted bool `json:"isMuted"`
	}) map[string]any {
		return srv.dispatch(s, "voice-mute-change", game.SetMuted{Muted: payload.Muted})
	})

	io.OnEvent("/", "signal", func(s socketio.Conn, payload struct {
		TargetID string          `json:"targetId"`
		Signal   json.RawMessage `json:"signal"`
	}) map[string]any {
		return srv.dispatch(s, "signal", game.SendSignal{TargetID: payload.TargetID, Payload: payload.Signal})
	})

	io.OnEvent("/", "draw", func(s socketio.Conn, data json.RawMessage) map[string]any {
		return srv.dispatch(s, "draw", game.Draw{Data: data})
	})

	io.OnEvent("/", "clear-canvas", func(s socketio.Conn) map[string]any {
		return srv.dispatch(s, "clear-canvas", game.ClearCanvas{})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.leave(s)
		srv.mu.Lock()
		delete(srv.conns, s.ID())
		srv.mu.Unlock()
		if srv.metrics != nil {
			srv.metrics.ConnectionClosed()
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	return io
}

func (srv *Server) createRoom(s socketio.Conn, username string) (string, error) {
	name, err := cleanName(username)
	if err != nil {
		return "", err
	}
	srv.leave(s)
	room, err := srv.rm.Create(s.ID())
	if err != nil {
		return "", err
	}
	if err := srv.seat(s, room.ID(), name); err != nil {
		srv.rm.RemoveRoom(room.ID())
		return "", err
	}
	return room.ID(), nil
}

func (srv *Server) joinRoom(s socketio.Conn, roomID, username string) error {
	name, err := cleanName(username)
	if err != nil {
		return err
	}
	if current := srv.roomIDOf(s.ID()); current != "" && current != roomID {
		srv.leave(s)
	}
	return srv.seat(s, roomID, name)
}

// seat adds the connection to roomID and hands it the full room snapshot.
func (srv *Server) seat(s socketio.Conn, roomID, name string) error {
	room, p, err := srv.rm.Join(roomID, s.ID(), name)
	if err != nil {
		return err
	}
	s.Join(roomID)
	srv.mu.Lock()
	if c := srv.conns[s.ID()]; c != nil {
		c.RoomID = roomID
	}
	srv.mu.Unlock()
	srv.updateGauges()

	log.Info().Str("sid", s.ID()).Str("room", roomID).Bool("host", p.IsHost).Msg("joined room")
	s.Emit("room-joined", map[string]any{"player": p, "room": room.Snapshot(s.ID())})
	return nil
}

func (srv *Server) leave(s socketio.Conn) {
	roomID := srv.roomIDOf(s.ID())
	if roomID == "" {
		return
	}
	srv.rm.Leave(s.ID())
	s.Leave(roomID)
	srv.mu.Lock()
	if c := srv.conns[s.ID()]; c != nil {
		c.RoomID = ""
	}
	srv.mu.Unlock()
	srv.updateGauges()
	log.Info().Str("sid", s.ID()).Str("room", roomID).Msg("left room")
}

func (srv *Server) roomIDOf(playerID string) string {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	if c := srv.conns[playerID]; c != nil {
		return c.RoomID
	}
	return ""
}

func (srv *Server) roomFor(s socketio.Conn) (*game.Room, error) {
	roomID := srv.roomIDOf(s.ID())
	if roomID == "" {
		return nil, errNotInRoom
	}
	return srv.rm.Get(roomID)
}

func (srv *Server) dispatch(s socketio.Conn, event string, act game.Action) map[string]any {
	start := time.Now()
	room, err := srv.roomFor(s)
	if err == nil {
		err = room.Dispatch(s.ID(), act)
	}
	srv.observe(event, err, start)
	if err != nil {
		log.Debug().Str("sid", s.ID()).Str("event", event).Err(err).Msg("action rejected")
		return srv.err(s, err)
	}
	return map[string]any{"ok": true}
}

func (srv *Server) observe(event string, err error, start time.Time) {
	if srv.metrics != nil {
		srv.metrics.ObserveAction(event, game.Code(err), time.Since(start))
	}
}

func (srv *Server) updateGauges() {
	if srv.metrics == nil {
		return
	}
	srv.metrics.SetActiveRooms(srv.rm.Count())
	srv.metrics.SetOnlinePlayers(srv.rm.PlayerCount())
}

// err reports a rejection to the originating connection only.
func (srv *Server) err(s socketio.Conn, err error) map[string]any {
	payload := errorPayload(err)
	s.Emit("error", payload)
	return payload
}

func errorPayload(err error) map[string]any {
	return map[string]any{"error": err.Error(), "code": game.Code(err)}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return "", errInvalidName
	}
	return name, nil
}

// Broadcast implements game.Emitter.
func (srv *Server) Broadcast(roomID string, ev game.Event) {
	srv.emitted(ev)
	if srv.io == nil {
		return
	}
	srv.io.BroadcastToRoom("/", roomID, ev.Name(), eventArgs(ev)...)
}

// BroadcastExcept implements game.Emitter.
func (srv *Server) BroadcastExcept(roomID, exceptID string, ev game.Event) {
	srv.emitted(ev)
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for id, c := range srv.conns {
		if id != exceptID && c.RoomID == roomID {
			c.conn.Emit(ev.Name(), eventArgs(ev)...)
		}
	}
}

// SendTo implements game.Emitter.
func (srv *Server) SendTo(playerID string, ev game.Event) {
	srv.emitted(ev)
	srv.mu.RLock()
	c := srv.conns[playerID]
	srv.mu.RUnlock()
	if c == nil {
		return
	}
	c.conn.Emit(ev.Name(), eventArgs(ev)...)
}

func (srv *Server) emitted(ev game.Event) {
	if srv.metrics != nil {
		srv.metrics.EventEmitted(ev.Name())
	}
}

func eventArgs(ev game.Event) []any {
	if p := ev.Payload(); p != nil {
		return []any{p}
	}
	return nil
}
