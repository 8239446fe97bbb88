// Command debugserver drives one sim.World at a fixed tick rate and
// exposes it read-mostly over HTTP/WebSocket, for manual play-testing
// and observability. It is the only place in this module that performs
// I/O against the simulation core; internal/sim itself stays pure.
package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roguekeep/internal/config"
	"roguekeep/internal/debugapi"
	"roguekeep/internal/runner"
	"roguekeep/internal/sim"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 no .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ loaded environment from ../.env")
	}

	log.Println("🗡️ ================================")
	log.Println("🗡️  ROGUEKEEP - SIM DEBUG SERVER")
	log.Println("🗡️ ================================")

	appConfig := config.Load()
	runCfg := appConfig.Run
	serverCfg := appConfig.Server

	log.Printf("🎮 run config: seed=%d weapon=%d tick_rate=%d", runCfg.Seed, runCfg.StartWeapon, runCfg.TickRate)

	rn := runner.New(runCfg.Seed, sim.WeaponID(runCfg.StartWeapon), runCfg.TickRate)
	rn.OnTick(debugapi.RecordTick)
	rn.Start()

	debugapi.SetAllowedOrigins(serverCfg.AllowedOrigins)
	debugapi.StartDebugMux(serverCfg.DebugAddr)

	hub := debugapi.NewStateHub()
	hubStop := make(chan struct{})
	go hub.Run(hubStop)
	go hub.BroadcastLoop(rn, time.Second/time.Duration(runCfg.TickRate), hubStop)

	router := debugapi.NewRouter(debugapi.RouterConfig{
		Runner:         rn,
		AllowedOrigins: serverCfg.AllowedOrigins,
	})
	debugapi.MountWebSocket(router, hub)

	srv := &http.Server{Addr: serverCfg.Addr, Handler: router}
	go func() {
		log.Printf("🌐 debug server listening on http://localhost%s", serverCfg.Addr)
		log.Printf("   - state:  http://localhost%s/api/state", serverCfg.Addr)
		log.Printf("   - render: http://localhost%s/render.png", serverCfg.Addr)
		log.Printf("   - ws:     ws://localhost%s/ws", serverCfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("debug server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("✅ ready. Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 shutting down...")
	close(hubStop)
	rn.Stop()
	log.Println("👋 goodbye")
}
