package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ai-storefront-be/internal/dto"
	"ai-storefront-be/internal/pkg/logger"
	"ai-storefront-be/internal/repository/contract"
	"ai-storefront-be/internal/repository/specification"
	"ai-storefront-be/pkg/llm"
	"ai-storefront-be/pkg/prompt"
)

const (
	snapshotCategoryCap = 10
	snapshotProductCap  = 5

	structuredProductCap    = 3
	structuredSuggestionCap = 3
)

// ErrAssistantUnavailable signals that no provider credential is configured.
// The controller maps it to 503 before any model call is attempted.
var ErrAssistantUnavailable = errors.New("assistant provider not configured")

// IAssistantService mediates between the widget transports and the model provider
type IAssistantService interface {
	// Ready reports whether a provider is configured at all
	Ready() bool

	// StreamChat opens a streaming completion for the given conversation.
	// The channel carries raw text fragments in provider emission order and
	// is closed on completion.
	StreamChat(ctx context.Context, req *dto.StreamChatRequest) (<-chan llm.Delta, error)

	// Ask runs the one-shot structured exchange: grounded answer, resolved
	// product stubs, follow-up suggestions.
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type assistantService struct {
	categoryRepo contract.CategoryRepository
	productRepo  contract.ProductRepository
	provider     llm.LLMProvider
	logger       logger.ILogger
}

func NewAssistantService(
	categoryRepo contract.CategoryRepository,
	productRepo contract.ProductRepository,
	provider llm.LLMProvider,
	sysLogger logger.ILogger,
) IAssistantService {
	return &assistantService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		provider:     provider,
		logger:       sysLogger,
	}
}

func (s *assistantService) Ready() bool {
	return s.provider != nil
}

// buildSnapshot assembles the bounded catalog view for one request. A failed
// catalog read degrades to an empty snapshot; it never fails the exchange.
func (s *assistantService) buildSnapshot(ctx context.Context) prompt.CatalogSnapshot {
	var snapshot prompt.CatalogSnapshot

	categories, err := s.categoryRepo.FindAll(ctx,
		specification.OrderBy{Field: "name", Desc: false},
		specification.Limit{N: snapshotCategoryCap},
	)
	if err != nil {
		s.logger.Warn("AssistantService", "Category read failed, degrading to context-free instruction", map[string]interface{}{"error": err.Error()})
		return prompt.CatalogSnapshot{}
	}
	for _, c := range categories {
		snapshot.Categories = append(snapshot.Categories, c.Name)
	}

	products, err := s.productRepo.FindAll(ctx,
		specification.InStockOnly{},
		specification.WithCategory{},
		specification.OrderBy{Field: "rating", Desc: true},
		specification.Limit{N: snapshotProductCap},
	)
	if err != nil {
		s.logger.Warn("AssistantService", "Product read failed, degrading to context-free instruction", map[string]interface{}{"error": err.Error()})
		return prompt.CatalogSnapshot{}
	}
	for _, p := range products {
		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		snapshot.PopularProducts = append(snapshot.PopularProducts, prompt.PopularProduct{
			Name:     p.Name,
			Slug:     p.Slug,
			Price:    p.Price,
			Category: categoryName,
		})
	}

	return snapshot
}

func (s *assistantService) StreamChat(ctx context.Context, req *dto.StreamChatRequest) (<-chan llm.Delta, error) {
	if s.provider == nil {
		return nil, ErrAssistantUnavailable
	}

	instruction := prompt.NewBuilder(s.buildSnapshot(ctx)).Build()

	history := make([]llm.Message, 0, len(req.Messages)+1)
	history = append(history, llm.Message{Role: "system", Content: instruction})
	for _, turn := range req.Messages {
		history = append(history, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	if streamer, ok := s.provider.(llm.StreamingProvider); ok {
		return streamer.ChatStream(ctx, history)
	}

	// Non-streaming provider: deliver the whole reply as a single fragment
	reply, err := s.provider.Chat(ctx, history)
	if err != nil {
		return nil, err
	}
	deltas := make(chan llm.Delta, 1)
	deltas <- llm.Delta{Content: reply}
	close(deltas)
	return deltas, nil
}

// structuredReply is the JSON shape the model is instructed to return
type structuredReply struct {
	Answer      string   `json:"answer"`
	Products    []string `json:"products"`
	Suggestions []string `json:"suggestions"`
}

func (s *assistantService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	if s.provider == nil {
		return nil, ErrAssistantUnavailable
	}

	builder := prompt.NewBuilder(s.buildSnapshot(ctx))
	out, err := s.provider.Generate(ctx, builder.BuildStructured(req.Question), llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("generate structured answer: %w", err)
	}

	raw := extractFirstJSONObject(out)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var reply structuredReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, fmt.Errorf("unmarshal model output: %w", err)
	}
	if strings.TrimSpace(reply.Answer) == "" {
		return nil, fmt.Errorf("model returned empty answer")
	}

	stubs, err := s.resolveProducts(ctx, reply.Products)
	if err != nil {
		// Grounding failed mid-lookup: still answer, just without product cards
		s.logger.Warn("AssistantService", "Product resolution failed", map[string]interface{}{"error": err.Error()})
		stubs = nil
	}

	suggestions := make([]string, 0, structuredSuggestionCap)
	for _, sg := range reply.Suggestions {
		sg = strings.TrimSpace(sg)
		if sg == "" {
			continue
		}
		suggestions = append(suggestions, sg)
		if len(suggestions) == structuredSuggestionCap {
			break
		}
	}

	return &dto.AskResponse{
		Success:     true,
		Answer:      reply.Answer,
		Products:    stubs,
		Suggestions: suggestions,
	}, nil
}

// resolveProducts maps model-cited slugs to live catalog rows. Slugs that do
// not resolve are dropped: a stub is never fabricated.
func (s *assistantService) resolveProducts(ctx context.Context, slugs []string) ([]dto.ProductStub, error) {
	cleaned := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		slug = strings.TrimSpace(slug)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		cleaned = append(cleaned, slug)
		if len(cleaned) == structuredProductCap {
			break
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}

	products, err := s.productRepo.FindAll(ctx, specification.BySlugs{Slugs: cleaned})
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]*dto.ProductStub, len(products))
	for _, p := range products {
		bySlug[p.Slug] = &dto.ProductStub{
			Id:    p.Id,
			Name:  p.Name,
			Slug:  p.Slug,
			Price: p.Price,
			Image: p.Image,
		}
	}

	// Keep the model's citation order
	stubs := make([]dto.ProductStub, 0, len(cleaned))
	for _, slug := range cleaned {
		if stub, ok := bySlug[slug]; ok {
			stubs = append(stubs, *stub)
		}
	}
	return stubs, nil
}
