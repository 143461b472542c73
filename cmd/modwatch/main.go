package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"modwatch/internal/audit"
	"modwatch/internal/config"
	"modwatch/internal/gateway"
	"modwatch/internal/moderation"
)

func main() {
	log.Println("modwatch - moderation workflow engine")
	log.Println("=====================================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		log.Fatalf("Failed to load policy: %v", err)
	}

	auditStore, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		log.Fatalf("Failed to open audit store: %v", err)
	}
	defer auditStore.Close()

	gw, err := gateway.New(gateway.Config{
		Token:            cfg.DiscordToken,
		ModChannelName:   cfg.ModChannelName,
		WatchChannelName: cfg.WatchChannelName,
		MuteDuration:     policy.MuteDuration(),
	})
	if err != nil {
		log.Fatalf("Failed to create gateway: %v", err)
	}

	// The gateway is both the transport and the action dispatcher; the
	// engine routes events back into it for every observable effect.
	registry := moderation.NewRegistry()
	engine := moderation.NewEngine(gw, gw, registry, auditStore, policy.EnginePolicy())
	gw.SetEngine(engine)

	if err := gw.Start(); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}

	log.Println("[main] Connected. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("[main] Shutting down...")
	if err := gw.Stop(); err != nil {
		log.Printf("[main] Gateway stop: %v", err)
	}
}
