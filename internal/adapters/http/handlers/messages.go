package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/dto"
	"github.com/jsamuelsen/go-error-filters/internal/adapters/http/errfilter"
	"github.com/jsamuelsen/go-error-filters/internal/domain"
	"github.com/jsamuelsen/go-error-filters/internal/ports"
)

// MessageCatalog is the message service plus a key existence check.
type MessageCatalog interface {
	ports.MessageService
	Exists(key string) bool
}

// MessageHandler serves catalog messages in the languages a client asks for.
type MessageHandler struct {
	messages MessageCatalog
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(messages MessageCatalog) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// GetMessage handles GET /api/v1/messages/:key.
// Query parameters are interpolated into the message as properties.
//
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param key path string true "Message key"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/messages/{key} [get]
func (h *MessageHandler) GetMessage(c *gin.Context) {
	msg := domain.Key(c.Param("key"))
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			msg = msg.WithProperty(name, values[0])
		}
	}

	h.respond(c, msg)
}

// RenderMessage handles POST /api/v1/messages/render.
//
// @Summary Render a message with properties
// @Tags messages
// @Accept json
// @Produce json
// @Param request body dto.RenderMessageRequest true "Message to render"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/messages/render [post]
func (h *MessageHandler) RenderMessage(c *gin.Context) {
	var req dto.RenderMessageRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		errfilter.Abort(c, err)
		return
	}

	msg := domain.Message{Key: req.Key, Properties: req.Properties}
	h.respond(c, msg)
}

func (h *MessageHandler) respond(c *gin.Context, msg domain.Message) {
	if !h.messages.Exists(msg.Key) {
		errfilter.Abort(c, domain.NewHTTPException(http.StatusNotFound,
			domain.Key(domain.MessageKeyMessageMissing).WithProperty("key", msg.Key)))

		return
	}

	localized, err := h.messages.Get(c.Request.Context(), msg, ports.MessageOptions{
		Languages: errfilter.RequestFrom(c).Languages(),
	})
	if err != nil {
		errfilter.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Key:     msg.Key,
		Message: localized,
	})
}

// RegisterMessageRoutes registers message routes on the given router group.
func (h *MessageHandler) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messages := rg.Group("/messages")
	messages.POST("/render", h.RenderMessage)
	messages.GET("/:key", h.GetMessage)
}
