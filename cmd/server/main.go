package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"warforge/server/internal/config"
	"warforge/server/internal/game"
	"warforge/server/internal/hub"
	"warforge/server/internal/identity"
	"warforge/server/internal/leaderboard"
	"warforge/server/internal/lobby"
	"warforge/server/internal/telemetry"
)

func main() {
	if err := config.Load("."); err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	counters := telemetry.New()

	var store leaderboard.Store
	if config.GetBool("leaderboard.persist") {
		sqlStore, err := leaderboard.OpenSQLite(config.GetString("leaderboard.sqlitePath"))
		if err != nil {
			log.Error().Err(err).Msg("leaderboard persistence unavailable, running in-memory")
		} else {
			store = sqlStore
		}
	}
	board := leaderboard.New(store, log)

	hubCfg := hub.Config{
		WriteWait:     time.Duration(config.GetInt("hub.writeWaitSeconds")) * time.Second,
		PongWait:      time.Duration(config.GetInt("hub.pongWaitSeconds")) * time.Second,
		SendQueueSize: config.GetInt("hub.sendQueueSize"),
	}
	hubCfg.PingPeriod = hubCfg.PongWait * 9 / 10

	h := hub.New(hubCfg, identity.HeaderResolver{}, board, counters, log)

	gameCfg := game.Config{
		TickRate:        config.GetInt("game.tickRate"),
		CommandCapacity: config.GetInt("game.commandCapacity"),
		MaxDuration:     time.Duration(config.GetInt("game.maxDurationSeconds")) * time.Second,
		TickObserver:    counters.RecordTickDuration,
	}
	mm := lobby.New(lobby.Config{
		PushInterval: time.Duration(config.GetInt("lobby.pushIntervalSeconds")) * time.Second,
		Game:         gameCfg,
	}, h, h, log)
	h.SetMatchmaker(mm)

	router := mux.NewRouter()
	router.HandleFunc("/ws", h.ServeWS)
	router.HandleFunc("/leaderboard", board.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/diagnostics", func(w http.ResponseWriter, r *http.Request) {
		payload := struct {
			Status     string             `json:"status"`
			ServerTime int64              `json:"serverTime"`
			Sessions   int                `json:"sessions"`
			TickRate   int                `json:"tickRate"`
			Telemetry  telemetry.Snapshot `json:"telemetry"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Sessions:   h.SessionCount(),
			TickRate:   gameCfg.TickRate,
			Telemetry:  counters.Snapshot(),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}).Methods(http.MethodGet)

	addr := config.GetString("listenAddr")
	server := &http.Server{Addr: addr, Handler: router}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		mm.Run()
		return nil
	})
	group.Go(func() error {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		mm.Stop()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
