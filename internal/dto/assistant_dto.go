package dto

import "github.com/google/uuid"

// ChatTurn is one prior message of the widget conversation. The whole history
// is sent on every streaming request; the server keeps no conversation state.
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

type StreamChatRequest struct {
	Messages []ChatTurn `json:"messages" validate:"required,min=1,dive"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// ProductStub is the minimal grounding reference attached to a structured
// answer. Every stub must resolve to a live catalog row at response time.
type ProductStub struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Price int64     `json:"price"`
	Image *string   `json:"image"`
}

type AskResponse struct {
	Success     bool          `json:"success"`
	Answer      string        `json:"answer,omitempty"`
	Products    []ProductStub `json:"products,omitempty"`
	Suggestions []string      `json:"suggestions,omitempty"`
}
