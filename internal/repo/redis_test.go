package repo_test

import (
	"Go_Stow/internal/repo"
	"Go_Stow/internal/repo/repotest"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLock(t *testing.T) {
	repotest.UseTestRedis(t)
	ctx := context.Background()

	first := repo.NewRedisLock(repo.Redis, "resend:a@x.com", time.Minute)
	require.NoError(t, first.Lock(ctx))

	second := repo.NewRedisLock(repo.Redis, "resend:a@x.com", time.Minute)
	assert.ErrorIs(t, second.Lock(ctx), repo.ErrLockBusy)
	// a lock that was never acquired must not release someone else's
	require.NoError(t, second.Unlock(ctx))
	assert.ErrorIs(t, second.Lock(ctx), repo.ErrLockBusy)

	require.NoError(t, first.Unlock(ctx))
	require.NoError(t, second.Lock(ctx))
}

func TestRedisLockExpires(t *testing.T) {
	mr := repotest.UseTestRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.NewRedisLock(repo.Redis, "k", time.Minute).Lock(ctx))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, repo.NewRedisLock(repo.Redis, "k", time.Minute).Lock(ctx))
}

func TestIncrWindow(t *testing.T) {
	mr := repotest.UseTestRedis(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, err := repo.IncrWindow(ctx, repo.Redis, "verify:fail:a@x.com", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	assert.Equal(t, 10*time.Minute, mr.TTL("verify:fail:a@x.com"))

	mr.FastForward(11 * time.Minute)
	n, err := repo.IncrWindow(ctx, repo.Redis, "verify:fail:a@x.com", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
