package gormdb_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
	"github.com/dom/kick-danila/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKickRepository_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.Repos()
	ctx := context.Background()

	light := testutil.NewKickTypeBuilder().WithName("Light").WithDamage(1).Build(t, testDB.DB)
	heavy := testutil.NewKickTypeBuilder().WithName("Heavy").WithDamage(10).Build(t, testDB.DB)

	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	testutil.NewKickBuilder().WithKickerName("Vasya").WithKickType(light).At(base).Build(t, testDB.DB)
	testutil.NewKickBuilder().WithKickerName("vasilisa").WithKickType(heavy).At(base.Add(time.Minute)).Build(t, testDB.DB)
	testutil.NewKickBuilder().WithKickerName("Petya").WithKickType(heavy).At(base.Add(2*time.Minute)).Build(t, testDB.DB)
	testutil.NewKickBuilder().WithKickerName("50%_off").At(base.Add(3*time.Minute)).Build(t, testDB.DB)

	heavyID := heavy.ID
	zero := uint(0)

	tests := []struct {
		name   string
		filter domain.KickFilter
		want   []string
	}{
		{name: "no filter returns newest first", filter: domain.KickFilter{}, want: []string{"50%_off", "Petya", "vasilisa", "Vasya"}},
		{name: "zero kick type means no filter", filter: domain.KickFilter{KickTypeID: &zero}, want: []string{"50%_off", "Petya", "vasilisa", "Vasya"}},
		{name: "by kick type", filter: domain.KickFilter{KickTypeID: &heavyID}, want: []string{"Petya", "vasilisa"}},
		{name: "case-insensitive substring", filter: domain.KickFilter{Query: "VAS"}, want: []string{"vasilisa", "Vasya"}},
		{name: "kick type and query combined", filter: domain.KickFilter{KickTypeID: &heavyID, Query: "vas"}, want: []string{"vasilisa"}},
		{name: "percent is literal", filter: domain.KickFilter{Query: "%"}, want: []string{"50%_off"}},
		{name: "underscore is literal", filter: domain.KickFilter{Query: "a_"}, want: []string{}},
		{name: "no match", filter: domain.KickFilter{Query: "nobody"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kicks, err := repos.Kick.List(ctx, tt.filter, domain.MaxKickListSize)
			require.NoError(t, err)

			names := make([]string, 0, len(kicks))
			for _, k := range kicks {
				names = append(names, k.KickerName)
			}
			assert.Equal(t, tt.want, names)
		})
	}

	t.Run("preloads kick type", func(t *testing.T) {
		kicks, err := repos.Kick.List(ctx, domain.KickFilter{KickTypeID: &heavyID}, 1)
		require.NoError(t, err)
		require.Len(t, kicks, 1)
		require.NotNil(t, kicks[0].KickType)
		assert.Equal(t, "Heavy", kicks[0].KickType.Name)
	})
}

func TestKickRepository_ListLimit(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.Repos()
	ctx := context.Background()

	base := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	testutil.SeedKicks(t, testDB.DB, domain.MaxKickListSize+10, base)

	kicks, err := repos.Kick.List(ctx, domain.KickFilter{}, domain.MaxKickListSize)
	require.NoError(t, err)
	require.Len(t, kicks, domain.MaxKickListSize)

	assert.Equal(t, fmt.Sprintf("Kicker %03d", domain.MaxKickListSize+9), kicks[0].KickerName)
	for i := 1; i < len(kicks); i++ {
		assert.False(t, kicks[i].CreatedAt.After(kicks[i-1].CreatedAt), "kicks must be newest first")
	}
}

func TestKickRepository_Counts(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.Repos()
	ctx := context.Background()

	kickType := testutil.NewKickTypeBuilder().Build(t, testDB.DB)

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	testutil.NewKickBuilder().At(day.Add(-time.Second)).Build(t, testDB.DB)
	testutil.NewKickBuilder().WithKickType(kickType).At(day).Build(t, testDB.DB)
	testutil.NewKickBuilder().WithKickType(kickType).At(day.Add(12*time.Hour)).Build(t, testDB.DB)
	testutil.NewKickBuilder().At(day.AddDate(0, 0, 1)).Build(t, testDB.DB)

	total, err := repos.Kick.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	inDay, err := repos.Kick.CountBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), inDay, "range is half-open")

	byType, err := repos.Kick.CountByKickTypeID(ctx, kickType.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byType)
}

func TestKickRepository_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.Repos()
	ctx := context.Background()

	kick := testutil.NewKickBuilder().Build(t, testDB.DB)

	require.NoError(t, repos.Kick.Delete(ctx, kick.ID))

	_, err := repos.Kick.GetByID(ctx, kick.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = repos.Kick.Delete(ctx, kick.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
