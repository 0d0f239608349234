package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chefai/chefai/internal/application/ai"
	"github.com/chefai/chefai/internal/application/chef"
	"github.com/chefai/chefai/internal/application/recipe"
	"github.com/chefai/chefai/internal/application/user"
	"github.com/chefai/chefai/internal/infrastructure/persistence/memory"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/healthcheck"
)

type MockGenerativeClient struct {
	mock.Mock
}

func (m *MockGenerativeClient) GenerateStructured(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerativeClient) Describe(ctx context.Context, req outbound.StructuredRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGenerativeClient) Converse(ctx context.Context, req outbound.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

const pulaoJSON = `{"title":"Chicken Pulao","description":"One pot rice.","ingredients":["chicken","rice"],"instructions":["Brown the chicken","Add rice and water"],"cookingTime":"45 mins","difficulty":"Easy"}`

// harness runs each command against a fresh service over a shared store,
// the way separate invocations share the database file.
type harness struct {
	t      *testing.T
	store  outbound.KeyValueStore
	client *MockGenerativeClient
}

func newHarness(t *testing.T) *harness {
	return &harness{t: t, store: memory.NewKVStore(), client: &MockGenerativeClient{}}
}

func (h *harness) run(stdin string, args ...string) (int, string) {
	logger := zaptest.NewLogger(h.t)
	svc := chef.NewService(
		user.NewSessionService(h.store, nil, logger),
		recipe.NewCollectionService(h.store, nil, logger),
		ai.NewService(h.client, nil, logger),
		logger,
	)

	health := healthcheck.New(logger)
	health.Register("storage", healthcheck.NewStoreChecker(h.store))

	var out bytes.Buffer
	code := newCLI(svc, health, strings.NewReader(stdin), &out).run(context.Background(), args)
	return code, out.String()
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	code, out := h.run("", "whoami")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "anonymous\n", out)

	code, out = h.run("", "login", "  Cook@Example.com ")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Signed in as cook@example.com")

	// already signed in: switching accounts goes straight through
	code, out = h.run("", "login", "other@example.com")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Signed in as other@example.com")

	code, _ = h.run("", "logout")
	assert.Equal(t, exitOK, code)

	_, out = h.run("", "whoami")
	assert.Equal(t, "anonymous\n", out)
}

func TestLogin_BlankEmail(t *testing.T) {
	h := newHarness(t)

	code, out := h.run("", "login", "   ")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, out, "enter an email")
}

func TestMainScreensNeedSession(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{{"chat"}, {"saved"}, {"recipe", "eggs"}} {
		code, out := h.run("", args...)
		assert.Equal(t, exitError, code, args)
		assert.Contains(t, out, "sign in first", args)
	}
	h.client.AssertNotCalled(t, "GenerateStructured", mock.Anything, mock.Anything)
}

func TestRecipe_GenerateAndSave(t *testing.T) {
	h := newHarness(t)
	h.run("", "login", "cook@example.com")

	h.client.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req outbound.StructuredRequest) bool {
		return strings.Contains(req.Prompt, "chicken, rice") && strings.Contains(req.Prompt, ai.PreferencePantry)
	})).Return(pulaoJSON, nil).Twice()

	code, out := h.run("", "recipe", "-pantry", "-save", "chicken,", "rice")
	require.Equal(t, exitOK, code, out)
	assert.Contains(t, out, "Chicken Pulao")
	assert.Contains(t, out, "2. Add rice and water")
	assert.Contains(t, out, "Saved to your collection.")

	code, out = h.run("", "recipe", "-pantry", "-save", "chicken,", "rice")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "already in your collection")
	assert.NotContains(t, out, "Saved to your collection.")

	_, out = h.run("", "saved")
	assert.Equal(t, "1. Chicken Pulao (45 mins, Easy)\n", out)
	h.client.AssertExpectations(t)
}

// recipeWriteFailingStore rejects writes to saved-recipe keys.
type recipeWriteFailingStore struct {
	outbound.KeyValueStore
}

func (s recipeWriteFailingStore) Set(ctx context.Context, key string, value []byte) error {
	if strings.HasPrefix(key, recipe.RecipesKeyPrefix) {
		return errors.New("disk full")
	}
	return s.KeyValueStore.Set(ctx, key, value)
}

func TestRecipe_SaveFailure(t *testing.T) {
	h := newHarness(t)
	h.store = recipeWriteFailingStore{KeyValueStore: h.store}
	h.run("", "login", "cook@example.com")
	h.client.On("GenerateStructured", mock.Anything, mock.Anything).Return(pulaoJSON, nil).Once()

	code, out := h.run("", "recipe", "-save", "chicken", "rice")
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "Couldn't save")
	assert.NotContains(t, out, "already in your collection")

	_, out = h.run("", "saved")
	assert.NotContains(t, out, "Chicken Pulao")
}

func TestRecipe_ModelFailure(t *testing.T) {
	h := newHarness(t)
	h.run("", "login", "cook@example.com")
	h.client.On("GenerateStructured", mock.Anything, mock.Anything).Return("not json", nil).Once()

	code, out := h.run("", "recipe", "eggs")
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "try again")
}

func TestCalories(t *testing.T) {
	h := newHarness(t)
	h.run("", "login", "cook@example.com")

	path := filepath.Join(t.TempDir(), "plate.png")
	require.NoError(t, os.WriteFile(path, append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...), 0o600))

	h.client.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req outbound.StructuredRequest) bool {
		return req.Image != nil && req.Image.MIMEType == "image/png"
	})).Return(`{"items":[{"name":"Rice","calories":"200 kcal","protein":"4g","carbs":"44g","fat":"0g"}]}`, nil).Once()

	code, out := h.run("", "calories", path)
	require.Equal(t, exitOK, code, out)
	assert.Equal(t, "Rice: 200 kcal (protein 4g, carbs 44g, fat 0g)\n", out)
}

func TestCalories_NotAnImage(t *testing.T) {
	h := newHarness(t)
	h.run("", "login", "cook@example.com")

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("just text"), 0o600))

	code, out := h.run("", "calories", path)
	assert.Equal(t, exitError, code)
	assert.Contains(t, out, "is not an image")
}

func TestChat_KeepsHistory(t *testing.T) {
	h := newHarness(t)
	h.run("", "login", "cook@example.com")

	h.client.On("Converse", mock.Anything, mock.MatchedBy(func(req outbound.ChatRequest) bool {
		return req.Message == "daal banao" && len(req.History) == 0
	})).Return("Soak the lentils first.", nil).Once()
	h.client.On("Converse", mock.Anything, mock.MatchedBy(func(req outbound.ChatRequest) bool {
		return req.Message == "kitna namak?" && len(req.History) == 2
	})).Return("One teaspoon.", nil).Once()

	code, out := h.run("daal banao\n\nkitna namak?\nexit\nignored\n", "chat")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Soak the lentils first.")
	assert.Contains(t, out, "One teaspoon.")
	h.client.AssertExpectations(t)
}

func TestRate(t *testing.T) {
	h := newHarness(t)

	for _, bad := range []string{"0", "6", "four"} {
		code, _ := h.run("", "rate", bad)
		assert.Equal(t, exitUsage, code, bad)
	}

	code, out := h.run("", "rate", "5")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "5/5")
	assert.Contains(t, out, "1 ratings so far")
}

func TestStatus(t *testing.T) {
	h := newHarness(t)

	code, out := h.run("", "status")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "storage")
	assert.Contains(t, out, "overall: healthy")

	code, out = h.run("", "status", "-json")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, `"status": "healthy"`)
}

func TestUnknownCommand(t *testing.T) {
	code, out := newHarness(t).run("", "bake")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, out, `unknown command "bake"`)
}
