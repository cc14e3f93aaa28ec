package models

import "github.com/google/uuid"

// SignupRequest is the payload for local account creation.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest accepts a username or email plus password.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// ProgressUpdateRequest sets the caller's progress on a quest.
// Out-of-range values are clamped by the progress engine, not rejected.
type ProgressUpdateRequest struct {
	Progress int `json:"progress"`
}

// QuestCreateRequest defines a new quest.
type QuestCreateRequest struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description"`
	Category            string     `json:"category" validate:"required,max=64"`
	Difficulty          int        `json:"difficulty" validate:"min=1,max=5"`
	PositionX           float64    `json:"position_x"`
	PositionY           float64    `json:"position_y"`
	SequenceOrder       int        `json:"sequence_order"`
	PrerequisiteQuestID *uuid.UUID `json:"prerequisite_quest_id"`
	XPReward            int        `json:"xp_reward" validate:"min=0"`
	CoinReward          int        `json:"coin_reward" validate:"min=0"`
}

// QuestUpdateRequest updates an existing quest definition.
type QuestUpdateRequest struct {
	Title               string     `json:"title" validate:"required,max=200"`
	Description         string     `json:"description"`
	Category            string     `json:"category" validate:"required,max=64"`
	Difficulty          int        `json:"difficulty" validate:"min=1,max=5"`
	PositionX           float64    `json:"position_x"`
	PositionY           float64    `json:"position_y"`
	SequenceOrder       int        `json:"sequence_order"`
	PrerequisiteQuestID *uuid.UUID `json:"prerequisite_quest_id"`
	XPReward            int        `json:"xp_reward" validate:"min=0"`
	CoinReward          int        `json:"coin_reward" validate:"min=0"`
	Status              string     `json:"status" validate:"omitempty,oneof=active inactive"`
}

// GamePlayRequest records the outcome of a game session.
type GamePlayRequest struct {
	Completed bool `json:"completed"`
}

// ChatRequest is a tutoring question for the chat assistant.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
