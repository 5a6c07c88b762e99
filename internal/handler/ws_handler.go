package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tatami/academy-backend/internal/access"
	"github.com/tatami/academy-backend/internal/config"
	"github.com/tatami/academy-backend/internal/middleware"
	"github.com/tatami/academy-backend/internal/response"
	ws "github.com/tatami/academy-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams live attendance events.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AttendanceStream godoc
// WS /ws/v1/attendance/stream?token=...
// Pushes every attendance recorded in the caller's academy. Platform admins
// receive all academies unless they narrow with ?academy_id=.
func (h *WSHandler) AttendanceStream(c *gin.Context) {
	eff := middleware.GetAccess(c)
	if eff.FailClosed() {
		response.Fail(c, http.StatusForbidden, response.ErrNoAcademyLinked)
		return
	}
	academyID, ok := academyQuery(c)
	if !ok {
		return
	}
	scope := access.ScopeOf(eff, academyID)
	if scope.Empty() {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	// The hijacked connection outlives the request context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pubsub *redis.PubSub
	if scope.All() {
		pubsub = h.rdb.PSubscribe(ctx, config.CacheKey.AttendanceChannelPattern())
	} else {
		pubsub = h.rdb.Subscribe(ctx, config.CacheKey.AcademyAttendanceChannel(scope.AcademyID()))
	}
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		h.log.Error().Err(err).Msg("attendance subscription failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrInternal)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Str("user_id", eff.UserID).
		Str("academy_id", scope.AcademyID()).
		Logger()
	wsLog.Info().Msg("attendance stream attached")

	if err := ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, AcademyID: scope.AcademyID()}); err != nil {
		return
	}

	pongs := make(chan struct{}, 1)
	done := make(chan struct{})
	go h.readLoop(conn, wsLog, pongs, done)

	ticker := time.NewTicker(ws.PingInterval)
	defer ticker.Stop()

	events := pubsub.Channel()
	for {
		select {
		case <-done:
			wsLog.Debug().Msg("attendance stream closed by client")
			return
		case <-pongs:
			if err := ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong}); err != nil {
				return
			}
		case msg, ok := <-events:
			if !ok {
				_ = ws.WriteError(conn, "event stream ended")
				return
			}
			out := ws.AttendanceResponse{Event: ws.EventAttendance, Data: json.RawMessage(msg.Payload)}
			if err := ws.WriteTyped(conn, out); err != nil {
				wsLog.Debug().Err(err).Msg("attendance stream write failed")
				return
			}
		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}
		}
	}
}

// readLoop consumes client frames until the connection fails. It never
// writes; ping actions are forwarded to the writer through pongs.
func (h *WSHandler) readLoop(conn *websocket.Conn, wsLog zerolog.Logger, pongs chan<- struct{}, done chan<- struct{}) {
	defer close(done)
	ws.KeepAlive(conn)

	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("unexpected close")
			}
			return
		}

		switch msg.Action {
		case ws.ActionPing:
			select {
			case pongs <- struct{}{}:
			default:
			}
		default:
			wsLog.Debug().Str("action", string(msg.Action)).Msg("ignoring unknown action")
		}
	}
}
