package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmachat/pharmachat/internal/config"
)

type fakeStore struct {
	created []*UserMemory
	err     error
}

func (f *fakeStore) Create(_ context.Context, mem *UserMemory) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, mem)
	return nil
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return f.vec, f.err
}

func setupService(t *testing.T, store Store, embedder Embedder) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(store, NewShortTermStore(client), embedder, config.MemoryConfig{
		MaxShortTermMsgs: 20,
		ShortTermTTL:     time.Hour,
	})
}

func exchange() []ConversationEntry {
	now := time.Now()
	return []ConversationEntry{
		{Role: "user", Content: "What do PBMs do?", Timestamp: now},
		{Role: "assistant", Content: "PBMs administer drug benefits for plan sponsors.", Timestamp: now},
	}
}

func TestCaptureExchange(t *testing.T) {
	store := &fakeStore{}
	svc := setupService(t, store, &fakeEmbedder{vec: []float32{0.1, 0.2}})

	err := svc.CaptureExchange(context.Background(), "u-1", exchange())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	mem := store.created[0]
	assert.Equal(t, "u-1", mem.UserID)
	assert.Equal(t, "User: What do PBMs do?\nAssistant: PBMs administer drug benefits for plan sponsors.", mem.Content)
	assert.Equal(t, []float32{0.1, 0.2}, mem.Embedding)

	recent, err := svc.RecentConversation(context.Background(), "u-1", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestCaptureExchange_EmbeddingFailureDegrades(t *testing.T) {
	store := &fakeStore{}
	svc := setupService(t, store, &fakeEmbedder{err: fmt.Errorf("provider down")})

	err := svc.CaptureExchange(context.Background(), "u-2", exchange())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Empty(t, store.created[0].Embedding)
}

func TestCaptureExchange_StoreFailure(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("db down")}
	svc := setupService(t, store, &fakeEmbedder{vec: []float32{0.1}})

	err := svc.CaptureExchange(context.Background(), "u-3", exchange())
	require.Error(t, err)
}

func TestCaptureExchange_RequiresUserAndTurns(t *testing.T) {
	svc := setupService(t, &fakeStore{}, nil)

	assert.Error(t, svc.CaptureExchange(context.Background(), "", exchange()))
	assert.Error(t, svc.CaptureExchange(context.Background(), "u-4", nil))
}
