package domain

import "time"

// UserProfile holds per-user cumulative stats. TotalScore and GamesPlayed
// only ever grow, and only at room completion.
type UserProfile struct {
	Id          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	TotalScore  int       `json:"totalScore"`
	GamesPlayed int       `json:"gamesPlayed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Credential maps a login email to the account it authenticates.
type Credential struct {
	UserId       string `json:"userId"`
	PasswordHash string `json:"passwordHash"`
}
