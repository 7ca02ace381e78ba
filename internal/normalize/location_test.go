package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	t.Parallel()

	name, lat, lon, ok := ResolveLocation("Nowa farma wiatrowa w województwie pomorskie ruszyła")
	require.True(t, ok)
	assert.Equal(t, "Pomorskie", name)
	assert.InDelta(t, 54.25, lat, 0.01)
	assert.InDelta(t, 17.97, lon, 0.01)
}

func TestResolveLocationCaseInsensitive(t *testing.T) {
	t.Parallel()

	name, _, _, ok := ResolveLocation("Inwestycja w WIELKOPOLSKIE nabiera tempa")
	require.True(t, ok)
	assert.Equal(t, "Wielkopolskie", name)
}

func TestResolveLocationDiacritics(t *testing.T) {
	t.Parallel()

	name, _, _, ok := ResolveLocation("protesty w łódzkie przeciw wiatrakom")
	require.True(t, ok)
	assert.Equal(t, "Łódzkie", name)
}

func TestResolveLocationMiss(t *testing.T) {
	t.Parallel()

	_, _, _, ok := ResolveLocation("farma wiatrowa na Bałtyku")
	assert.False(t, ok)
}
