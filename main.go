package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"tunebox/backend/httpd"
	"tunebox/backend/ipc"
	"tunebox/backend/library"
	"tunebox/backend/player"
	"tunebox/backend/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("Starting Tunebox Backend...")

	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: no .env file loaded: %v", err)
	}

	dbPath := envOr("TUNEBOX_DB", "tunebox.db")
	addr := envOr("TUNEBOX_ADDR", ":8080")
	socketPath := envOr("TUNEBOX_SOCKET", "/tmp/tunebox.sock")

	musicDirs := strings.Split(envOr("TUNEBOX_MUSIC_DIRS", defaultMusicDir()), ":")

	db, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	session := player.NewSession(db, nil)
	defer session.Close()

	// Restore persisted playback preferences.
	settings, err := db.LoadSettings(context.Background())
	if err != nil {
		log.Printf("WARN: loading settings: %v", err)
	} else {
		session.SetShuffle(settings.Shuffle)
		if mode, err := player.ParseRepeatMode(settings.RepeatMode); err == nil {
			session.SetRepeatMode(mode)
		}
	}

	scanner := library.NewScanner(db, musicDirs)

	ipcHandler := ipc.NewHandler(session, db)
	go func() {
		if err := ipcHandler.Serve(socketPath); err != nil {
			log.Printf("ERROR: ipc server: %v", err)
		}
	}()

	router := httpd.NewRouter(db, session, scanner)

	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func defaultMusicDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Music")
}
