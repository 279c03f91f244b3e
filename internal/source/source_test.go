package source

import (
	"context"
	"errors"
	"testing"

	"github.com/aevon-lab/regpulse/internal/core/registration"
	sourcemocks "github.com/aevon-lab/regpulse/internal/mocks/source"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBuildStore(t *testing.T) {
	src := sourcemocks.NewSource(t)
	src.EXPECT().
		Load(mock.Anything).
		Return([]registration.Record{
			{Year: 2024, Quarter: registration.Q1, Category: "2W", Manufacturer: "HERO", Registrations: 10},
			{Year: 2023, Quarter: registration.Q1, Category: "4W", Manufacturer: "TATA", Registrations: 5},
		}, nil).
		Once()

	store, err := BuildStore(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	require.Equal(t, []int{2024, 2023}, store.DistinctYears())
}

func TestBuildStore_LoadError(t *testing.T) {
	loadErr := errors.New("connection refused")
	src := sourcemocks.NewSource(t)
	src.EXPECT().Load(mock.Anything).Return(nil, loadErr).Once()

	_, err := BuildStore(context.Background(), src)
	require.ErrorIs(t, err, loadErr)
	require.ErrorContains(t, err, "load records")
}

func TestBuildStore_InvalidRecord(t *testing.T) {
	src := sourcemocks.NewSource(t)
	src.EXPECT().
		Load(mock.Anything).
		Return([]registration.Record{
			{Year: 2024, Quarter: "Q9", Category: "2W", Manufacturer: "HERO", Registrations: 10},
		}, nil).
		Once()

	_, err := BuildStore(context.Background(), src)
	require.ErrorIs(t, err, registration.ErrInvalidRecord)
}
