package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-storefront-be/internal/dto"
	"ai-storefront-be/internal/entity"
	"ai-storefront-be/internal/repository/specification"
	"ai-storefront-be/pkg/llm"
)

type fakeCategoryRepo struct {
	categories []*entity.Category
	err        error
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	return nil
}

func (f *fakeCategoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.categories) == 0 {
		return nil, nil
	}
	return f.categories[0], nil
}

func (f *fakeCategoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCategoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.categories)), f.err
}

type fakeProductRepo struct {
	products []*entity.Product
	err      error
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }

func (f *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.products) == 0 {
		return nil, nil
	}
	return f.products[0], nil
}

// FindAll honors BySlugs so slug resolution behaves like the real store;
// everything else returns the fixture rows as-is.
func (f *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, spec := range specs {
		if bySlugs, ok := spec.(specification.BySlugs); ok {
			var out []*entity.Product
			for _, p := range f.products {
				for _, slug := range bySlugs.Slugs {
					if p.Slug == slug {
						out = append(out, p)
					}
				}
			}
			return out, nil
		}
	}
	return f.products, nil
}

func (f *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.products)), f.err
}

type fakeProvider struct {
	generateOut string
	generateErr error
	lastPrompt  string
	deltas      []llm.Delta
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.generateOut, f.generateErr
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	return f.generateOut, f.generateErr
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Delta, error) {
	out := make(chan llm.Delta, len(f.deltas))
	for _, d := range f.deltas {
		out <- d
	}
	close(out)
	return out, nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func fixtureProducts() []*entity.Product {
	return []*entity.Product{
		{Id: uuid.New(), Name: "Sony WH-1000XM5", Slug: "sony-wh-1000xm5", Price: 139990, Stock: 5},
		{Id: uuid.New(), Name: "AirPods Pro", Slug: "airpods-pro", Price: 89990, Stock: 10},
		{Id: uuid.New(), Name: "JBL Tune 510BT", Slug: "jbl-tune-510bt", Price: 14990, Stock: 3},
	}
}

func TestAskResolvesOnlyRealSlugs(t *testing.T) {
	provider := &fakeProvider{
		generateOut: `{"answer":"Az AirPods Pro remek választás.","products":["airpods-pro","nonexistent-slug"],"suggestions":["Mutass még fülhallgatót"]}`,
	}
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{products: fixtureProducts()}, provider, nopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "ajándék ötlet"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Az AirPods Pro remek választás.", res.Answer)
	// the invented slug is dropped, never fabricated into a stub
	require.Len(t, res.Products, 1)
	assert.Equal(t, "airpods-pro", res.Products[0].Slug)
	assert.Equal(t, int64(89990), res.Products[0].Price)
	assert.Equal(t, []string{"Mutass még fülhallgatót"}, res.Suggestions)
}

func TestAskKeepsCitationOrderAndCapsAtThree(t *testing.T) {
	provider := &fakeProvider{
		generateOut: `{"answer":"Íme.","products":["jbl-tune-510bt","airpods-pro","sony-wh-1000xm5","airpods-pro"],"suggestions":[]}`,
	}
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{products: fixtureProducts()}, provider, nopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "fülhallgatók"})
	require.NoError(t, err)

	require.Len(t, res.Products, 3)
	assert.Equal(t, "jbl-tune-510bt", res.Products[0].Slug)
	assert.Equal(t, "airpods-pro", res.Products[1].Slug)
	assert.Equal(t, "sony-wh-1000xm5", res.Products[2].Slug)
}

func TestAskExtractsJSONFromChattyOutput(t *testing.T) {
	provider := &fakeProvider{
		generateOut: "Here is my answer:\n```json\n{\"answer\":\"Rendben.\",\"products\":[],\"suggestions\":[]}\n```",
	}
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{}, provider, nopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "kérdés"})
	require.NoError(t, err)
	assert.Equal(t, "Rendben.", res.Answer)
}

func TestAskFailsOnUnparsableOutput(t *testing.T) {
	provider := &fakeProvider{generateOut: "no json here at all"}
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{}, provider, nopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "kérdés"})
	assert.Error(t, err)
}

func TestAskWithoutProviderReturnsUnavailable(t *testing.T) {
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{}, nil, nopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "kérdés"})
	assert.ErrorIs(t, err, ErrAssistantUnavailable)
	assert.False(t, svc.Ready())
}

func TestAskInjectsCatalogIntoPrompt(t *testing.T) {
	provider := &fakeProvider{
		generateOut: `{"answer":"ok","products":[],"suggestions":[]}`,
	}
	categoryRepo := &fakeCategoryRepo{categories: []*entity.Category{{Name: "Fülhallgatók", Slug: "fulhallgatok"}}}
	svc := NewAssistantService(categoryRepo, &fakeProductRepo{products: fixtureProducts()}, provider, nopLogger{})

	_, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "mit ajánlasz?"})
	require.NoError(t, err)

	assert.Contains(t, provider.lastPrompt, "Fülhallgatók")
	assert.Contains(t, provider.lastPrompt, "airpods-pro")
	assert.Contains(t, provider.lastPrompt, "mit ajánlasz?")
}

func TestAskDegradesWhenCatalogReadFails(t *testing.T) {
	provider := &fakeProvider{
		generateOut: `{"answer":"ok","products":[],"suggestions":[]}`,
	}
	categoryRepo := &fakeCategoryRepo{err: errors.New("db down")}
	svc := NewAssistantService(categoryRepo, &fakeProductRepo{}, provider, nopLogger{})

	res, err := svc.Ask(context.Background(), &dto.AskRequest{Question: "kérdés"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	// the exchange still ran, on a context-free instruction
	assert.True(t, strings.Contains(provider.lastPrompt, "kérdés"))
}

func TestStreamChatPrependsSystemInstruction(t *testing.T) {
	provider := &recordingStreamProvider{
		deltas: []llm.Delta{{Content: "Az "}, {Content: "iPhone 15"}, {Content: " ajánlott."}},
	}
	svc := NewAssistantService(&fakeCategoryRepo{}, &fakeProductRepo{products: fixtureProducts()}, provider, nopLogger{})

	deltas, err := svc.StreamChat(context.Background(), &dto.StreamChatRequest{
		Messages: []dto.ChatTurn{{Role: "user", Content: "Milyen telefont ajánlasz?"}},
	})
	require.NoError(t, err)

	var got string
	for d := range deltas {
		require.NoError(t, d.Err)
		got += d.Content
	}
	assert.Equal(t, "Az iPhone 15 ajánlott.", got)

	require.NotEmpty(t, provider.gotHistory)
	assert.Equal(t, "system", provider.gotHistory[0].Role)
	assert.Contains(t, provider.gotHistory[0].Content, "airpods-pro")
	assert.Equal(t, "Milyen telefont ajánlasz?", provider.gotHistory[len(provider.gotHistory)-1].Content)
}

type recordingStreamProvider struct {
	fakeProvider
	deltas     []llm.Delta
	gotHistory []llm.Message
}

func (r *recordingStreamProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.Delta, error) {
	r.gotHistory = history
	out := make(chan llm.Delta, len(r.deltas))
	for _, d := range r.deltas {
		out <- d
	}
	close(out)
	return out, nil
}
