package controller

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"ai-storefront-be/internal/dto"
	"ai-storefront-be/internal/pkg/logger"
	"ai-storefront-be/internal/pkg/ratelimit"
	"ai-storefront-be/internal/pkg/serverutils"
	"ai-storefront-be/internal/service"
	"ai-storefront-be/pkg/events"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	publisher        service.IPublisherService
	limiter          ratelimit.Limiter
	logger           logger.ILogger
	streamTimeout    time.Duration
}

func NewAssistantController(
	assistantService service.IAssistantService,
	publisher service.IPublisherService,
	limiter ratelimit.Limiter,
	sysLogger logger.ILogger,
	streamTimeout time.Duration,
) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		publisher:        publisher,
		limiter:          limiter,
		logger:           sysLogger,
		streamTimeout:    streamTimeout,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Use(c.rateLimitMiddleware)
	h.Post("stream", c.Stream)
	h.Post("ask", c.Ask)
}

func (c *assistantController) rateLimitMiddleware(ctx *fiber.Ctx) error {
	if c.limiter != nil && !c.limiter.Allow(ctx.IP()) {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse("Too many requests"))
	}
	return ctx.Next()
}

// Stream writes the model's reply to the response body as raw UTF-8 text
// fragments with no framing. Failures before the first fragment are an HTTP
// error status; failures after streaming starts truncate the body.
func (c *assistantController) Stream(ctx *fiber.Ctx) error {
	var req dto.StreamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if !c.assistantService.Ready() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "assistant is not configured"})
	}

	// The stream outlives this handler, so it gets its own context instead of
	// the recycled request one. The deadline is the hard cap on exchange
	// duration: a runaway generation must not hold the connection open.
	streamCtx, cancel := context.WithTimeout(context.Background(), c.streamTimeout)

	deltas, err := c.assistantService.StreamChat(streamCtx, &req)
	if err != nil {
		cancel()
		c.logger.Error("AssistantController", "Failed to open stream", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "assistant call failed"})
	}

	started := time.Now()
	turns := len(req.Messages)

	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		truncated := false
		for delta := range deltas {
			if delta.Err != nil {
				c.logger.Warn("AssistantController", "Stream truncated by provider error", map[string]interface{}{"error": delta.Err.Error()})
				truncated = true
				break
			}
			if delta.Content == "" {
				continue
			}
			if _, err := w.WriteString(delta.Content); err != nil {
				truncated = true
				break
			}
			// Flush per fragment so the client sees text as it is generated
			if err := w.Flush(); err != nil {
				truncated = true
				break
			}
		}
		if streamCtx.Err() != nil {
			truncated = true
		}

		c.publishExchange("stream", turns, time.Since(started), truncated)
	}))

	return nil
}

// Ask is the one-shot structured exchange. Anything that goes wrong maps to
// a success=false payload; the widget renders its own fallback message.
func (c *assistantController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.AskResponse{Success: false})
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(dto.AskResponse{Success: false})
	}

	if !c.assistantService.Ready() {
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.AskResponse{Success: false})
	}

	started := time.Now()
	res, err := c.assistantService.Ask(ctx.Context(), &req)
	if err != nil {
		c.logger.Error("AssistantController", "Structured exchange failed", map[string]interface{}{"error": err.Error()})
		c.publishExchange("ask", 1, time.Since(started), true)
		return ctx.JSON(dto.AskResponse{Success: false})
	}

	c.publishExchange("ask", 1, time.Since(started), false)
	return ctx.JSON(res)
}

func (c *assistantController) publishExchange(transport string, turns int, duration time.Duration, truncated bool) {
	if c.publisher == nil {
		return
	}
	event := events.NewAssistantExchange(transport, turns, duration.Milliseconds(), truncated)
	if err := c.publisher.Publish(context.Background(), event); err != nil {
		c.logger.Warn("AssistantController", "Failed to publish telemetry", map[string]interface{}{"error": err.Error()})
	}
}
