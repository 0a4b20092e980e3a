package ipc

import (
	"encoding/json"

	"tunebox/backend/player"
)

type CommandType string

// What a client can send
const (
	CmdPlay   CommandType = "play"
	CmdPause  CommandType = "pause"
	CmdResume CommandType = "resume"
	CmdToggle CommandType = "toggle"
	CmdNext   CommandType = "next"
	CmdPrev   CommandType = "prev"
	CmdSeek   CommandType = "seek"
)

type Command struct {
	Type       CommandType `json:"type"`
	SongID     int64       `json:"song_id,omitempty"`
	PlaylistID int64       `json:"playlist_id,omitempty"`
	Position   float64     `json:"position,omitempty"`
}

type Message struct {
	Type string          `json:"type"` // "cmd", "pstate"
	Data json.RawMessage `json:"data"`
}

func NewMessage(payload any, msgType string) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{Type: msgType, Data: data}
	return json.Marshal(msg)
}

// StateMessage wraps a session snapshot for broadcast.
func StateMessage(status player.Status) ([]byte, error) {
	return NewMessage(status, "pstate")
}
