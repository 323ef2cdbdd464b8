package domain

import (
	"slices"
	"time"
)

type RoomPhase string

const (
	PhaseWaiting  RoomPhase = "waiting"
	PhasePlaying  RoomPhase = "playing"
	PhaseFinished RoomPhase = "finished"
)

// Question is immutable once generated. Correct is always one of Options.
type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
}

// Room is the authoritative document for one quiz session. It is the only
// shared mutable state of the system; every mutation is a full
// load-validate-compute-store cycle serialized per room key.
type Room struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	Host       string    `json:"host"`
	Players    []string  `json:"players"`
	MaxPlayers int       `json:"maxPlayers"`
	Phase      RoomPhase `json:"phase"`

	Questions       []Question `json:"questions"`
	CurrentQuestion int        `json:"currentQuestion"`

	// Scores and Answered always carry exactly one entry per player.
	// Answered[p][i] records whether p already submitted for question i.
	Scores   map[string]int    `json:"scores"`
	Answered map[string][]bool `json:"answered"`

	CreatedAt         time.Time `json:"createdAt"`
	StartedAt         time.Time `json:"startedAt"`
	QuestionStartedAt time.Time `json:"questionStartedAt"`
}

func (r *Room) HasPlayer(id string) bool {
	return slices.Contains(r.Players, id)
}
