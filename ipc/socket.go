package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"tunebox/backend/player"
	"tunebox/backend/store"
)

// Handler serves local clients (widgets, command-line remotes) over a unix
// socket: it accepts playback commands and broadcasts the session state once
// a second.
type Handler struct {
	mu      sync.Mutex
	clients []net.Conn
	session *player.Session
	store   *store.Store
}

func NewHandler(session *player.Session, st *store.Store) *Handler {
	return &Handler{
		session: session,
		store:   st,
	}
}

func (h *Handler) Serve(socketPath string) error {
	os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}
	defer listener.Close()

	go h.broadcastPlayerState()

	for {
		conn, err := listener.Accept()
		if err != nil {
			continue
		}
		go h.handleClient(conn)
	}
}

func (h *Handler) handleClient(conn net.Conn) {
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("WARN: ipc: closing client: %v", err)
		}
		h.removeClient(conn)
	}()

	h.mu.Lock()
	h.clients = append(h.clients, conn)
	h.mu.Unlock()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd Command
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			log.Printf("WARN: ipc: failed to parse command: %v", err)
			continue
		}
		h.handleCommand(cmd)
	}
}

func (h *Handler) removeClient(conn net.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.clients {
		if c == conn {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			break
		}
	}
}

func (h *Handler) handleCommand(cmd Command) {
	ctx := context.Background()

	switch cmd.Type {
	case CmdPlay:
		song, err := h.store.GetSong(ctx, cmd.SongID)
		if err != nil {
			log.Printf("WARN: ipc: play: %v", err)
			return
		}

		queue, err := h.resolveQueue(ctx, cmd)
		if err != nil {
			log.Printf("WARN: ipc: building queue: %v", err)
		}
		if err := h.session.PlaySong(*song, queue); err != nil {
			log.Printf("ERROR: ipc: play: %v", err)
		}
	case CmdPause:
		h.session.Pause()
	case CmdResume:
		h.session.Resume()
	case CmdToggle:
		h.session.TogglePlayPause()
	case CmdNext:
		if err := h.session.SkipToNext(); err != nil {
			log.Printf("ERROR: ipc: next: %v", err)
		}
	case CmdPrev:
		if err := h.session.SkipToPrevious(); err != nil {
			log.Printf("ERROR: ipc: prev: %v", err)
		}
	case CmdSeek:
		if err := h.session.SeekTo(cmd.Position); err != nil {
			log.Printf("WARN: ipc: seek: %v", err)
		}
	default:
		log.Printf("WARN: ipc: unknown command %q", cmd.Type)
	}
}

// resolveQueue picks the queue for a play command: the playlist when one is
// named, the whole library otherwise.
func (h *Handler) resolveQueue(ctx context.Context, cmd Command) ([]store.Song, error) {
	var queue []store.Song

	if cmd.PlaylistID != 0 {
		entries, err := h.store.GetSongsByPlaylist(ctx, cmd.PlaylistID)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			queue = append(queue, e.Song)
		}
		return queue, nil
	}

	songs, err := h.store.GetAllSongs(ctx)
	if err != nil {
		return nil, err
	}
	for _, song := range songs {
		queue = append(queue, *song)
	}
	return queue, nil
}

func (h *Handler) broadcastPlayerState() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		msg, err := StateMessage(h.session.Status())
		if err != nil {
			log.Printf("ERROR: ipc: encoding state: %v", err)
			continue
		}
		msg = append(msg, '\n')

		h.mu.Lock()
		conns := make([]net.Conn, len(h.clients))
		copy(conns, h.clients)
		h.mu.Unlock()

		for _, conn := range conns {
			if _, err := conn.Write(msg); err != nil {
				h.removeClient(conn)
			}
		}
	}
}
