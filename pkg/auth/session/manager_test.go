package session

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) AccessSessionKey(accessID string) string { return "session:access:" + accessID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestGenerateStoresToken(t *testing.T) {
	m, store := newTestManager()

	token, err := m.Generate(context.Background(), "access-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, store.data["session:access:access-1"])

	_, err = m.Generate(context.Background(), "  ")
	require.Error(t, err)
}

func TestRotateInvalidatesOldSession(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	token, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	newAccessID, newToken, err := m.Rotate(ctx, "access-1", token)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccessID)
	assert.NotEqual(t, token, newToken)
	assert.NotContains(t, store.data, "session:access:access-1")
	assert.Equal(t, newToken, store.data["session:access:"+newAccessID])
}

func TestRotateRejectsMismatchedToken(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, "access-1", "stolen-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, _, err = m.Rotate(ctx, "unknown-access", "whatever")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeAndHasSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	_, err := m.Generate(ctx, "access-1")
	require.NoError(t, err)

	ok, err := m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Revoke(ctx, "access-1"))

	ok, err = m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
