package geotag

import (
	"context"
	"math"
	"testing"

	"bitbucket.org/kleinnic74/photomap/domain/gps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "50.06572,19.94302", Key(50.065718, 19.943022))
	assert.Equal(t, "50.00000,19.00000", Key(50, 19))
	assert.Equal(t, "-33.86880,151.20930", Key(-33.8688, 151.2093))
	assert.Equal(t, "0.00000,0.00001", Key(0.0000001, 0.00001))
}

func TestGroupRoundingBoundary(t *testing.T) {
	groups := Group([]Record{
		record("a", 50.065718, 19.943022),
		record("b", 50.0657185, 19.9430224),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, ids(groups["50.06572,19.94302"]))

	groups = Group([]Record{
		record("a", 50.06571, 19.94302),
		record("b", 50.06573, 19.94302),
	})
	assert.Len(t, groups, 2)
	assert.Equal(t, []string{"a"}, ids(groups["50.06571,19.94302"]))
	assert.Equal(t, []string{"b"}, ids(groups["50.06573,19.94302"]))
}

func TestGroupExcludesMissingCoordinates(t *testing.T) {
	records := []Record{
		record("zero-lat", 0, 19),
		record("zero-lng", 50, 0),
		record("nan", math.NaN(), 19),
		{PhotoID: "none", URI: "u"},
		record("ok", 50, 19),
	}
	groups := Group(records)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"ok"}, ids(groups[Key(50, 19)]))
}

func TestGroupEmpty(t *testing.T) {
	assert.Empty(t, Group(nil))
	assert.Empty(t, Group([]Record{}).Markers())
}

func TestGroupIsDeterministic(t *testing.T) {
	records := []Record{
		record("p1", 50.1, 19.1),
		record("p2", 50.2, 19.2),
		record("p3", 50.1, 19.1),
		record("p4", 50.100001, 19.100001),
		record("p5", 50.2, 19.2),
	}
	first, second := Group(records), Group(records)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"p1", "p3", "p4"}, ids(first[Key(50.1, 19.1)]))
	assert.Equal(t, first.Markers(), second.Markers())
}

func TestScenarioSamePlace(t *testing.T) {
	ctx := context.Background()
	s, _ := storeWith(t)
	require.NoError(t, s.Append(ctx, record("p1", 50.00000, 19.00000)))
	require.NoError(t, s.Append(ctx, record("p2", 50.00000, 19.00000)))

	groups := Group(s.Load(ctx))
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"p1", "p2"}, ids(groups["50.00000,19.00000"]))
	assert.Equal(t, []string{"p1", "p2"}, ids(groups.At(50.000001, 19.000001)))
}

func TestMarkers(t *testing.T) {
	groups := Group([]Record{
		record("p1", 50.065718, 19.943022),
		record("p2", 51, 20),
		record("p3", 50.0657185, 19.9430224),
	})
	markers := groups.Markers()
	require.Len(t, markers, 2)
	assert.Equal(t, Marker{
		ID:        MarkerID("50.06572,19.94302"),
		Key:       "50.06572,19.94302",
		Latitude:  50.065718,
		Longitude: 19.943022,
		Count:     2,
	}, markers[0])
	assert.Equal(t, "51.00000,20.00000", markers[1].Key)
	assert.Len(t, markers[0].ID, 8)

	found, ok := groups.ByMarkerID(markers[1].ID)
	assert.True(t, ok)
	assert.Equal(t, []string{"p2"}, ids(found))
	_, ok = groups.ByMarkerID("ffffffff")
	assert.False(t, ok)
}

func TestWithin(t *testing.T) {
	groups := Group([]Record{
		record("krakow", 50.0647, 19.945),
		record("warsaw", 52.2297, 21.0122),
	})
	inside := groups.Within(gps.RectFrom(19.8, 49.9, 20.1, 50.2))
	require.Len(t, inside, 1)
	assert.Equal(t, 1, inside[0].Count)
	assert.Equal(t, Key(50.0647, 19.945), inside[0].Key)
}
