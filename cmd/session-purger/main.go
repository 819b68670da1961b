package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	userpostgres "github.com/pawhaven/adoption-api-server/internal/domains/users/adapters/persistence/postgres"
	platformpostgres "github.com/pawhaven/adoption-api-server/internal/platform/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, cleanup := platformpostgres.ConnectFromEnv(connectCtx, logger)
	cancel()
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := userpostgres.NewSessionStore(db, sessionTTLFromEnv())

	// Without an interval the purge runs once and exits, for cron use.
	interval := purgeIntervalFromEnv()
	if interval <= 0 {
		if err := purgeOnce(store); err != nil {
			log.Fatalf("failed to purge sessions: %v", err)
		}
		log.Printf("session purge completed")
		return
	}

	log.Printf("purging expired sessions every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := purgeOnce(store); err != nil {
			logger.Error("session purge failed", slog.String("error", err.Error()))
		} else {
			logger.Info("session purge completed")
		}
		<-ticker.C
	}
}

func purgeOnce(store *userpostgres.SessionStore) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return store.PurgeExpired(ctx)
}

func sessionTTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TTL_HOURS"))
	if raw == "" {
		return userpostgres.DefaultSessionTTL
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		return userpostgres.DefaultSessionTTL
	}
	return time.Duration(hours) * time.Hour
}

func purgeIntervalFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_PURGE_INTERVAL_MINUTES"))
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
