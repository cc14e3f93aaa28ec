package models

import (
	"time"

	dbmodels "github.com/finquest/finquest/database/models"
	"github.com/finquest/finquest/services"
	"github.com/google/uuid"
)

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries a machine-readable code alongside the message.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// NewSuccessResponse creates a successful API response
func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates an error API response
func NewErrorResponse(code, message string, details map[string]string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
}

// UserResponse is the public view of a user. Level is derived from XP.
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	XP            int64     `json:"xp"`
	Coins         int64     `json:"coins"`
	Level         int       `json:"level"`
	XPForNext     int64     `json:"xp_for_next_level"`
	StreakCount   int       `json:"streak_count"`
	LongestStreak int       `json:"longest_streak"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewUserResponse(u *dbmodels.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		AvatarURL:     u.AvatarURL,
		XP:            u.XP,
		Coins:         u.Coins,
		Level:         services.LevelForXP(u.XP),
		XPForNext:     services.XPForNextLevel(u.XP),
		StreakCount:   u.StreakCount,
		LongestStreak: u.LongestStreak,
		CreatedAt:     u.CreatedAt,
	}
}

// LeaderboardEntry is one ranked row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank     int       `json:"rank"`
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	XP       int64     `json:"xp"`
	Level    int       `json:"level"`
}

func NewLeaderboard(users []*dbmodels.User) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			ID:       u.ID,
			Username: u.Username,
			XP:       u.XP,
			Level:    services.LevelForXP(u.XP),
		})
	}
	return entries
}

// TokenResponse is issued on a successful login.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

func NewTokenResponse(token string, ttl time.Duration, u *dbmodels.User) *TokenResponse {
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        NewUserResponse(u),
	}
}

// UserQuestResponse is the per-user progress view of a quest.
type UserQuestResponse struct {
	QuestID     uuid.UUID       `json:"quest_id"`
	Status      string          `json:"status"`
	Progress    int             `json:"progress"`
	IsCurrent   bool            `json:"is_current"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Quest       *dbmodels.Quest `json:"quest,omitempty"`
}

func NewUserQuestResponse(uq *dbmodels.UserQuest) *UserQuestResponse {
	return &UserQuestResponse{
		QuestID:     uq.QuestID,
		Status:      uq.Status,
		Progress:    uq.Progress,
		IsCurrent:   uq.IsCurrent,
		StartedAt:   uq.StartedAt,
		CompletedAt: uq.CompletedAt,
		Quest:       uq.Quest,
	}
}

func NewUserQuestList(rows []*dbmodels.UserQuest) []*UserQuestResponse {
	out := make([]*UserQuestResponse, 0, len(rows))
	for _, uq := range rows {
		out = append(out, NewUserQuestResponse(uq))
	}
	return out
}

// ChatResponse wraps the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// HealthResponse reports service and dependency status.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
