package dto

import "github.com/jsamuelsen/go-error-filters/internal/domain"

// RenderMessageRequest is the body of POST /api/v1/messages/render.
type RenderMessageRequest struct {
	Key        string         `json:"key"        validate:"required,notempty,max=128"`
	Properties map[string]any `json:"properties" validate:"omitempty,max=16"`
	RequestID  string         `json:"requestId"  validate:"omitempty,uuid"`
}

// MessageResponse is the body returned for a rendered message.
type MessageResponse struct {
	Key     string           `json:"key"`
	Message domain.Localized `json:"message"`
}
