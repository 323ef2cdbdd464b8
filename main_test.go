package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizroom/config"
	"quizroom/storage"
)

const frontendOrigin = "http://localhost:3000"

// Answer key for the built-in candidate questions. Room payloads never
// expose the correct option, so the tests look answers up by prompt.
var answerKey = map[string]string{
	"What is the capital of South Korea?":              "Seoul",
	"What is 2 + 2?":                                   "4",
	"Which is the largest ocean on Earth?":             "Pacific",
	"Which component acts as the brain of a computer?": "CPU",
	"How many days are in a common year?":              "365",
	"Which planet is known as the Red Planet?":         "Mars",
	"What is the chemical formula of water?":           "H2O",
	"How many continents are there?":                   "7",
}

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		AllowedOrigins: []string{frontendOrigin},
		JWTKey:         "integration-test-signing-key",
		TokenAge:       time.Hour,
	}
	return NewRouter(cfg, storage.NewMemoryStore(), zerolog.Nop())
}

type apiResponse struct {
	status int
	body   map[string]any
}

func do(t *testing.T, router *gin.Engine, method, path, token, body string) apiResponse {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	out := apiResponse{status: recorder.Code}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out.body), "body: %s", recorder.Body.String())
	}
	return out
}

type player struct {
	id    string
	token string
}

func registerPlayer(t *testing.T, router *gin.Engine, name string) player {
	t.Helper()

	email := name + "@example.com"
	signup := do(t, router, http.MethodPost, "/signup", "",
		fmt.Sprintf(`{"email": %q, "password": "hunter2-but-longer", "name": %q}`, email, name))
	require.Equal(t, http.StatusOK, signup.status)

	login := do(t, router, http.MethodPost, "/login", "",
		fmt.Sprintf(`{"email": %q, "password": "hunter2-but-longer"}`, email))
	require.Equal(t, http.StatusOK, login.status)

	user := login.body["user"].(map[string]any)
	return player{
		id:    user["id"].(string),
		token: login.body["token"].(string),
	}
}

func roomFrom(t *testing.T, resp apiResponse) map[string]any {
	t.Helper()
	require.Contains(t, resp.body, "room")
	return resp.body["room"].(map[string]any)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	log := NewLogger(true)
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = NewLogger(false)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestServerSecurity(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	tests := []struct {
		name       string
		origin     string
		wantStatus int
	}{
		{"allowed origin", frontendOrigin, http.StatusOK},
		{"no origin header", "", http.StatusOK},
		{"unknown origin", "http://evil.example.com", http.StatusForbidden},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/rankings", nil)
			if test.origin != "" {
				req.Header.Set("Origin", test.origin)
			}
			router.ServeHTTP(recorder, req)

			assert.Equal(t, test.wantStatus, recorder.Code)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "healthy", recorder.Body.String())
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	host := registerPlayer(t, router, "naruto")

	t.Run("duplicate signup is rejected", func(t *testing.T) {
		resp := do(t, router, http.MethodPost, "/signup", "",
			`{"email": "naruto@example.com", "password": "hunter2-but-longer", "name": "impostor"}`)
		assert.Equal(t, http.StatusConflict, resp.status)
	})

	t.Run("wrong password is indistinguishable from unknown email", func(t *testing.T) {
		wrongPassword := do(t, router, http.MethodPost, "/login", "",
			`{"email": "naruto@example.com", "password": "not-the-password"}`)
		unknownEmail := do(t, router, http.MethodPost, "/login", "",
			`{"email": "nobody@example.com", "password": "hunter2-but-longer"}`)

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.status)
		assert.Equal(t, wrongPassword.body, unknownEmail.body)
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		resp := do(t, router, http.MethodGet, "/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.status)
	})

	t.Run("a fresh account has an empty record", func(t *testing.T) {
		resp := do(t, router, http.MethodGet, "/profile", host.token, "")
		require.Equal(t, http.StatusOK, resp.status)

		profile := resp.body["profile"].(map[string]any)
		assert.Equal(t, "naruto@example.com", profile["email"])
		assert.EqualValues(t, 0, profile["totalScore"])
		assert.EqualValues(t, 0, profile["gamesPlayed"])
	})
}

// The happy path: two players run a full quiz, the host answering
// everything right and the guest everything wrong, then both check the
// leaderboard.
func TestQuizLifecycle(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	host := registerPlayer(t, router, "naruto")
	guest := registerPlayer(t, router, "sasuke")

	created := do(t, router, http.MethodPost, "/rooms/create", host.token,
		`{"roomName": "Friday Quiz", "maxPlayers": 2}`)
	require.Equal(t, http.StatusOK, created.status)

	room := roomFrom(t, created)
	roomId := room["id"].(string)
	require.NotEmpty(t, roomId)
	assert.Equal(t, "waiting", room["phase"])
	assert.Equal(t, host.id, room["host"])

	joined := do(t, router, http.MethodPost, "/rooms/"+roomId+"/join", guest.token, "")
	require.Equal(t, http.StatusOK, joined.status)
	assert.Len(t, roomFrom(t, joined)["players"], 2)

	guestStart := do(t, router, http.MethodPost, "/rooms/"+roomId+"/start", guest.token, "")
	assert.Equal(t, http.StatusForbidden, guestStart.status)

	started := do(t, router, http.MethodPost, "/rooms/"+roomId+"/start", host.token, "")
	require.Equal(t, http.StatusOK, started.status)
	assert.Equal(t, "playing", roomFrom(t, started)["phase"])

	questions := roomFrom(t, started)["questions"].([]any)
	require.Len(t, questions, len(answerKey))

	for round := range questions {
		question := questions[round].(map[string]any)
		prompt := question["prompt"].(string)
		right, ok := answerKey[prompt]
		require.True(t, ok, "unexpected prompt %q", prompt)

		// The payload must never leak the answer.
		assert.NotContains(t, question, "correct")

		wrong := ""
		for _, option := range question["options"].([]any) {
			if option.(string) != right {
				wrong = option.(string)
				break
			}
		}
		require.NotEmpty(t, wrong)

		hostAnswer := do(t, router, http.MethodPost, "/rooms/"+roomId+"/answer", host.token,
			fmt.Sprintf(`{"answer": %q}`, right))
		require.Equal(t, http.StatusOK, hostAnswer.status)
		assert.Equal(t, true, hostAnswer.body["correct"])
		assert.EqualValues(t, (round+1)*10, hostAnswer.body["score"])

		guestAnswer := do(t, router, http.MethodPost, "/rooms/"+roomId+"/answer", guest.token,
			fmt.Sprintf(`{"answer": %q}`, wrong))
		require.Equal(t, http.StatusOK, guestAnswer.status)
		assert.Equal(t, false, guestAnswer.body["correct"])

		next := do(t, router, http.MethodPost, "/rooms/"+roomId+"/next", host.token, "")
		require.Equal(t, http.StatusOK, next.status)

		if round == len(questions)-1 {
			assert.Equal(t, "finished", roomFrom(t, next)["phase"])
		} else {
			assert.Equal(t, "playing", roomFrom(t, next)["phase"])
		}
	}

	// A finished room can't be advanced or answered any further.
	resp := do(t, router, http.MethodPost, "/rooms/"+roomId+"/next", host.token, "")
	assert.Equal(t, http.StatusBadRequest, resp.status)

	hostProfile := do(t, router, http.MethodGet, "/profile", host.token, "")
	require.Equal(t, http.StatusOK, hostProfile.status)
	stats := hostProfile.body["profile"].(map[string]any)
	assert.EqualValues(t, len(answerKey)*10, stats["totalScore"])
	assert.EqualValues(t, 1, stats["gamesPlayed"])

	rankings := do(t, router, http.MethodGet, "/rankings", "", "")
	require.Equal(t, http.StatusOK, rankings.status)
	board := rankings.body["rankings"].([]any)
	require.Len(t, board, 2)
	assert.Equal(t, host.id, board[0].(map[string]any)["id"])
	assert.Equal(t, guest.id, board[1].(map[string]any)["id"])
}

func TestFullRoomRejectsLateJoiner(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	host := registerPlayer(t, router, "u1")
	second := registerPlayer(t, router, "u2")
	third := registerPlayer(t, router, "u3")

	created := do(t, router, http.MethodPost, "/rooms/create", host.token,
		`{"roomName": "duo", "maxPlayers": 2}`)
	require.Equal(t, http.StatusOK, created.status)
	roomId := roomFrom(t, created)["id"].(string)

	resp := do(t, router, http.MethodPost, "/rooms/"+roomId+"/join", second.token, "")
	require.Equal(t, http.StatusOK, resp.status)

	resp = do(t, router, http.MethodPost, "/rooms/"+roomId+"/join", third.token, "")
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "room-full", resp.body["error"])

	// The roster is unchanged.
	resp = do(t, router, http.MethodGet, "/rooms/"+roomId, "", "")
	require.Equal(t, http.StatusOK, resp.status)
	assert.Len(t, roomFrom(t, resp)["players"], 2)
}

func TestAnswerBeforeStartIsRejected(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	host := registerPlayer(t, router, "u1")

	created := do(t, router, http.MethodPost, "/rooms/create", host.token,
		`{"roomName": "eager", "maxPlayers": 4}`)
	require.Equal(t, http.StatusOK, created.status)
	roomId := roomFrom(t, created)["id"].(string)

	resp := do(t, router, http.MethodPost, "/rooms/"+roomId+"/answer", host.token, `{"answer": "Seoul"}`)
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "game-not-in-progress", resp.body["error"])

	resp = do(t, router, http.MethodGet, "/rooms/"+roomId, "", "")
	require.Equal(t, http.StatusOK, resp.status)
	scores := roomFrom(t, resp)["scores"].(map[string]any)
	assert.EqualValues(t, 0, scores[host.id])
}

func TestChatFlow(t *testing.T) {
	t.Parallel()
	router := newTestApp(t)

	host := registerPlayer(t, router, "u1")

	created := do(t, router, http.MethodPost, "/rooms/create", host.token,
		`{"roomName": "chatty", "maxPlayers": 4}`)
	require.Equal(t, http.StatusOK, created.status)
	roomId := roomFrom(t, created)["id"].(string)

	resp := do(t, router, http.MethodPost, "/rooms/"+roomId+"/chat", "", `{"message": "anonymous"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.status)

	resp = do(t, router, http.MethodPost, "/rooms/"+roomId+"/chat", host.token, `{"message": "good luck everyone"}`)
	require.Equal(t, http.StatusOK, resp.status)

	resp = do(t, router, http.MethodGet, "/rooms/"+roomId+"/chat", "", "")
	require.Equal(t, http.StatusOK, resp.status)
	messages := resp.body["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "good luck everyone", messages[0].(map[string]any)["message"])
	assert.Equal(t, host.id, messages[0].(map[string]any)["userId"])
}
