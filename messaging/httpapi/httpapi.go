package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbd-wtf/go-nostr"

	"coinpot/engine/library"
	"coinpot/messaging/eventconductor"
	"coinpot/state/ledger"
	"coinpot/state/replay"
)

// Handler serves read-only ledger queries and accepts signed request events.
type Handler struct {
	engine    *ledger.Engine
	replay    *replay.Db
	conductor *eventconductor.Conductor
	clock     library.Clock
	decimals  int32
}

func NewHandler(engine *ledger.Engine, replayDb *replay.Db, conductor *eventconductor.Conductor, clock library.Clock, decimals int32) *Handler {
	return &Handler{
		engine:    engine,
		replay:    replayDb,
		conductor: conductor,
		clock:     clock,
		decimals:  decimals,
	}
}

// RegisterRoutes registers all the application routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/locks/:account", h.GetLock)
	router.GET("/pot", h.GetPot)
	router.GET("/winners", h.GetWinners)
	router.GET("/replay/:account", h.GetReplay)
	router.POST("/events", h.PostEvent)
}

// Router builds a gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) GetLock(c *gin.Context) {
	account := c.Param("account")
	lock, ok := h.engine.GetActiveLock(account)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("account %s has no active lock", account)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lock":      lock,
		"status":    lock.Status(h.clock()).String(),
		"formatted": library.FormatAmount(lock.Balance, h.decimals),
	})
}

func (h *Handler) GetPot(c *gin.Context) {
	p := h.engine.GetPot()
	now := h.clock()
	c.JSON(http.StatusOK, gin.H{
		"balance":       p.Balance,
		"formatted":     library.FormatAmount(p.Balance, h.decimals),
		"lastLotteryAt": p.LastLotteryAt,
		"nextRunAt":     p.NextRunAt(),
		"due":           p.IsDue(now),
	})
}

func (h *Handler) GetWinners(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.GetLotteryWinners())
}

func (h *Handler) GetReplay(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"replay": h.replay.GetCurrentHashForAccount(c.Param("account"))})
}

func (h *Handler) PostEvent(c *gin.Context) {
	var event nostr.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.conductor.HandleEvent(event)
	if err != nil {
		var lerr *ledger.Error
		switch {
		case errors.As(err, &lerr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": lerr.Kind.String()})
		case errors.Is(err, eventconductor.ErrInvalidEvent):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			library.LogCLI(err, 1)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// Server runs the router until Stop is called.
type Server struct {
	srv *http.Server
}

func Start(addr string, h *Handler) *Server {
	s := &Server{srv: &http.Server{Addr: addr, Handler: h.Router()}}
	go func() {
		library.LogCLI(fmt.Sprintf("http api listening on %s", addr), 4)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			library.LogCLI(err, 1)
		}
	}()
	return s
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
