package service_test

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
	"github.com/dom/kick-danila/internal/repository/gormdb"
	"github.com/dom/kick-danila/internal/service"
	"github.com/dom/kick-danila/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []*domain.Status
}

func (n *recordingNotifier) NotifyStatus(status *domain.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.statuses)
}

func (n *recordingNotifier) newest() *domain.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	var newest *domain.Status
	for _, s := range n.statuses {
		if newest == nil || s.Version > newest.Version {
			newest = s
		}
	}
	return newest
}

func (n *recordingNotifier) last() *domain.Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.statuses) == 0 {
		return nil
	}
	return n.statuses[len(n.statuses)-1]
}

func setupKickService(t *testing.T) (*testutil.TestDB, *repository.Repositories, *service.KickService, *recordingNotifier) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := testDB.Repos()
	require.NoError(t, gormdb.Seed(context.Background(), repos))

	notifier := &recordingNotifier{}
	return testDB, repos, service.NewKickService(repos.Tx, notifier), notifier
}

func kickTypeByName(t *testing.T, repos *repository.Repositories, name string) *domain.KickType {
	t.Helper()
	kickType, err := repos.KickType.GetByName(context.Background(), name)
	require.NoError(t, err)
	return kickType
}

func TestKickService_ApplyKick(t *testing.T) {
	ctx := context.Background()

	t.Run("kick type damage is applied", func(t *testing.T) {
		_, repos, kickService, notifier := setupKickService(t)
		strike := kickTypeByName(t, repos, "Powerful strike")

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Vasya", KickTypeID: &strike.ID})
		require.NoError(t, err)

		assert.Equal(t, 95, result.Danila.Health)
		assert.Equal(t, 1, result.Danila.TotalKicksReceived)
		assert.NotNil(t, result.Danila.LastKicked)
		assert.False(t, result.Fatal)

		assert.Equal(t, "Vasya", result.Kick.KickerName)
		assert.Equal(t, 5, result.Kick.Power)
		require.NotNil(t, result.Kick.KickTypeID)
		assert.Equal(t, strike.ID, *result.Kick.KickTypeID)

		stored, err := repos.Danila.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 95, stored.Health)

		require.Equal(t, 1, notifier.count())
		assert.Equal(t, 95, notifier.last().Health)
	})

	t.Run("no kick type uses default damage", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Petya"})
		require.NoError(t, err)

		assert.Equal(t, 99, result.Danila.Health)
		assert.Equal(t, domain.DefaultDamage, result.Kick.Power)
		assert.Nil(t, result.Kick.KickTypeID)
	})

	t.Run("unknown kick type is treated as absent", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)
		missing := uint(9999)

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Petya", KickTypeID: &missing})
		require.NoError(t, err)

		assert.Equal(t, 99, result.Danila.Health)
		assert.Nil(t, result.Kick.KickTypeID)
	})

	t.Run("blank name becomes anonymous", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "   "})
		require.NoError(t, err)
		assert.Equal(t, domain.AnonymousKicker, result.Kick.KickerName)
	})

	t.Run("fatal kick clamps at zero", func(t *testing.T) {
		testDB, repos, kickService, _ := setupKickService(t)
		testutil.SetDanila(t, testDB.DB, 3, 12)
		super := kickTypeByName(t, repos, "Super kick")

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Boss", KickTypeID: &super.ID})
		require.NoError(t, err)

		assert.Equal(t, 0, result.Danila.Health)
		assert.Equal(t, 13, result.Danila.TotalKicksReceived)
		assert.True(t, result.Fatal)
	})

	t.Run("kicking a dead danila still records the kick", func(t *testing.T) {
		testDB, repos, kickService, _ := setupKickService(t)
		testutil.SetDanila(t, testDB.DB, 0, 20)

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Late"})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Danila.Health)
		assert.Equal(t, 21, result.Danila.TotalKicksReceived)

		count, err := repos.Kick.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing danila fails without recording", func(t *testing.T) {
		testDB, repos, kickService, notifier := setupKickService(t)
		testutil.DeleteDanila(t, testDB.DB)

		_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Nobody"})
		assert.ErrorIs(t, err, domain.ErrDanilaNotFound)

		count, err := repos.Kick.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, notifier.count())
	})

	t.Run("uses the injected clock", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)
		at := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)
		kickService.WithClock(func() time.Time { return at })

		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Clock"})
		require.NoError(t, err)
		assert.True(t, at.Equal(result.Kick.CreatedAt))
		require.NotNil(t, result.Danila.LastKicked)
		assert.True(t, at.Equal(*result.Danila.LastKicked))
	})
}

func TestKickService_ConcurrentKicksAreNotLost(t *testing.T) {
	_, repos, kickService, _ := setupKickService(t)
	ctx := context.Background()

	const kicks = 10
	var wg sync.WaitGroup
	for i := 0; i < kicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "crowd"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	danila, err := repos.Danila.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxHealth-kicks, danila.Health)
	assert.Equal(t, kicks, danila.TotalKicksReceived)
}

func TestKickService_NotificationVersionsFollowCommitOrder(t *testing.T) {
	_, repos, kickService, notifier := setupKickService(t)
	ctx := context.Background()

	_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "first"})
	require.NoError(t, err)
	_, err = kickService.ApplyHeal(ctx, 5)
	require.NoError(t, err)
	_, err = kickService.Reset(ctx)
	require.NoError(t, err)

	require.Equal(t, 3, notifier.count())
	for i := 1; i < len(notifier.statuses); i++ {
		assert.Greater(t, notifier.statuses[i].Version, notifier.statuses[i-1].Version)
	}

	const kicks = 10
	var wg sync.WaitGroup
	for i := 0; i < kicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "crowd"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, status := range notifier.statuses {
		assert.False(t, seen[status.Version], "version %d reused", status.Version)
		seen[status.Version] = true
	}

	// Whatever order the notifications arrived in, the newest version is
	// the committed state.
	stored, err := repos.Danila.Get(ctx)
	require.NoError(t, err)
	newest := notifier.newest()
	assert.Equal(t, stored.Health, newest.Health)
	assert.Equal(t, stored.TotalKicksReceived, newest.TotalKicks)
	assert.Equal(t, kicks, newest.TotalKicks)
}

func TestKickService_ApplyHeal(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		health     int
		amount     int
		wantHealth int
	}{
		{name: "clamps at max", health: 95, amount: 20, wantHealth: 100},
		{name: "partial heal", health: 40, amount: 20, wantHealth: 60},
		{name: "custom amount", health: 10, amount: 35, wantHealth: 45},
		{name: "revives from zero", health: 0, amount: 20, wantHealth: 20},
		{name: "max int amount clamps at max", health: 50, amount: math.MaxInt, wantHealth: 100},
		{name: "min int amount clamps at zero", health: 50, amount: math.MinInt, wantHealth: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB, _, kickService, notifier := setupKickService(t)
			testutil.SetDanila(t, testDB.DB, tt.health, 9)

			danila, err := kickService.ApplyHeal(ctx, tt.amount)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHealth, danila.Health)
			assert.Equal(t, 9, danila.TotalKicksReceived)
			assert.Equal(t, tt.wantHealth, notifier.last().Health)
		})
	}

	t.Run("missing danila", func(t *testing.T) {
		testDB, _, kickService, _ := setupKickService(t)
		testutil.DeleteDanila(t, testDB.DB)

		_, err := kickService.ApplyHeal(ctx, 20)
		assert.ErrorIs(t, err, domain.ErrDanilaNotFound)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestKickService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("restores existing danila", func(t *testing.T) {
		testDB, repos, kickService, notifier := setupKickService(t)
		_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Vasya"})
		require.NoError(t, err)
		testutil.SetDanila(t, testDB.DB, 0, 55)

		result, err := kickService.Reset(ctx)
		require.NoError(t, err)

		assert.False(t, result.Created)
		assert.Equal(t, domain.MaxHealth, result.Danila.Health)
		assert.Zero(t, result.Danila.TotalKicksReceived)
		assert.Nil(t, result.Danila.LastKicked)

		// Reset leaves the kick log alone.
		count, err := repos.Kick.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		assert.Equal(t, domain.MaxHealth, notifier.last().Health)
	})

	t.Run("creates missing danila", func(t *testing.T) {
		testDB, repos, kickService, _ := setupKickService(t)
		testutil.DeleteDanila(t, testDB.DB)

		result, err := kickService.Reset(ctx)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, domain.MaxHealth, result.Danila.Health)

		danila, err := repos.Danila.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DanilaID, danila.ID)
	})

	t.Run("twice keeps a single row", func(t *testing.T) {
		testDB, _, kickService, _ := setupKickService(t)
		testutil.DeleteDanila(t, testDB.DB)

		_, err := kickService.Reset(ctx)
		require.NoError(t, err)
		_, err = kickService.Reset(ctx)
		require.NoError(t, err)

		var rows int64
		require.NoError(t, testDB.DB.Model(&domain.Danila{}).Count(&rows).Error)
		assert.Equal(t, int64(1), rows)
	})
}

func TestKickService_AddKickType(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   string
		damage  int
		wantErr error
	}{
		{name: "valid", input: "Roundhouse", damage: 7},
		{name: "zero damage is allowed", input: "Feather", damage: 0},
		{name: "name is trimmed", input: "  Spin kick  ", damage: 4},
		{name: "empty name", input: "", damage: 4, wantErr: domain.ErrEmptyKickTypeName},
		{name: "blank name", input: "   ", damage: 4, wantErr: domain.ErrEmptyKickTypeName},
		{name: "negative damage", input: "Hug", damage: -1, wantErr: domain.ErrInvalidDamage},
		{name: "name too long", input: strings.Repeat("k", domain.MaxKickTypeNameLen+1), damage: 1, wantErr: domain.ErrKickTypeNameLong},
		{name: "duplicate of seeded type", input: "Super kick", damage: 99, wantErr: domain.ErrDuplicateKickType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, repos, kickService, _ := setupKickService(t)
			before, err := repos.KickType.Count(ctx)
			require.NoError(t, err)

			kickType, err := kickService.AddKickType(ctx, tt.input, tt.damage)

			after, countErr := repos.KickType.Count(ctx)
			require.NoError(t, countErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.KindValidation, domain.KindOf(err))
				assert.Equal(t, before, after, "failed add must not change kick types")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.input), kickType.Name)
			assert.Equal(t, tt.damage, kickType.Damage)
			assert.Equal(t, before+1, after)

			stored, err := repos.KickType.GetByID(ctx, kickType.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.damage, stored.Damage)
		})
	}
}

func TestKickService_DeleteKickType(t *testing.T) {
	ctx := context.Background()

	t.Run("unused type is removed", func(t *testing.T) {
		_, repos, kickService, _ := setupKickService(t)
		flick := kickTypeByName(t, repos, "Light flick")

		require.NoError(t, kickService.DeleteKickType(ctx, flick.ID))

		_, err := repos.KickType.GetByID(ctx, flick.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("referenced type is kept", func(t *testing.T) {
		_, repos, kickService, _ := setupKickService(t)
		flick := kickTypeByName(t, repos, "Light flick")
		_, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Vasya", KickTypeID: &flick.ID})
		require.NoError(t, err)

		err = kickService.DeleteKickType(ctx, flick.ID)
		assert.ErrorIs(t, err, domain.ErrKickTypeInUse)

		_, err = repos.KickType.GetByID(ctx, flick.ID)
		assert.NoError(t, err)
	})

	t.Run("missing type", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)
		assert.ErrorIs(t, kickService.DeleteKickType(ctx, 9999), domain.ErrKickTypeNotFound)
	})
}

func TestKickService_DeleteKick(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record only", func(t *testing.T) {
		_, repos, kickService, _ := setupKickService(t)
		result, err := kickService.ApplyKick(ctx, service.KickInput{KickerName: "Vasya"})
		require.NoError(t, err)

		require.NoError(t, kickService.DeleteKick(ctx, result.Kick.ID))

		count, err := repos.Kick.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		// Health and counters are historical and stay as they were.
		danila, err := repos.Danila.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, 99, danila.Health)
		assert.Equal(t, 1, danila.TotalKicksReceived)
	})

	t.Run("missing kick", func(t *testing.T) {
		_, _, kickService, _ := setupKickService(t)

		err := kickService.DeleteKick(ctx, 9999)
		assert.ErrorIs(t, err, domain.ErrKickNotFound)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}
