package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/blueprint"
)

func artist(name string, genres ...string) blueprint.Artist {
	return blueprint.Artist{ID: name, Name: name, Genres: genres}
}

func TestAggregateProfileGenreRanking(t *testing.T) {
	artists := []blueprint.Artist{
		artist("a", "rock", "indie"),
		artist("b", "rock", "pop"),
		artist("c", "rock", "pop", "indie"),
	}

	summary := AggregateProfile(artists, nil)

	require.Len(t, summary.TopGenres, 3)
	assert.Equal(t, blueprint.GenreCount{Name: "rock", Count: 3}, summary.TopGenres[0])
	// indie and pop tie at two, indie was seen first
	assert.Equal(t, blueprint.GenreCount{Name: "indie", Count: 2}, summary.TopGenres[1])
	assert.Equal(t, blueprint.GenreCount{Name: "pop", Count: 2}, summary.TopGenres[2])
}

func TestAggregateProfileGenreTruncation(t *testing.T) {
	artists := []blueprint.Artist{
		artist("a", "g1", "g2", "g3", "g4", "g5", "g6", "g7"),
	}
	summary := AggregateProfile(artists, nil)
	assert.Len(t, summary.TopGenres, TopGenreLimit)
}

func TestAggregateProfileTracks(t *testing.T) {
	tracks := []blueprint.Track{
		{Title: "one", Artists: []string{"alice", "bob"}, Cover: "c1"},
		{Title: "two"},
	}

	summary := AggregateProfile(nil, tracks)

	require.Len(t, summary.TopTracks, 2)
	assert.Equal(t, blueprint.TopTrack{Title: "one", Artist: "alice", Cover: "c1"}, summary.TopTracks[0])
	assert.Equal(t, "Unknown", summary.TopTracks[1].Artist)
	assert.Empty(t, summary.TopArtists)
	assert.Empty(t, summary.TopGenres)
}

func TestInsightsDiverseGenres(t *testing.T) {
	artists := []blueprint.Artist{
		artist("headliner", "rock", "indie", "pop"),
	}
	tracks := []blueprint.Track{{Title: "anthem", Artists: []string{"headliner"}}}

	summary := AggregateProfile(artists, tracks)
	insights := Insights(summary)

	require.Len(t, insights, 3)
	assert.Equal(t, "Your most played artist is headliner! You have great taste in music.", insights[0])
	assert.Equal(t, "You're into diverse music - your top genres are rock, indie, pop.", insights[1])
	assert.Equal(t, "Your current favorite track is 'anthem' by headliner.", insights[2])
}

func TestInsightsSingleGenreFallback(t *testing.T) {
	summary := AggregateProfile([]blueprint.Artist{artist("solo", "jazz")}, nil)
	insights := Insights(summary)

	require.Len(t, insights, 2)
	assert.Equal(t, "You're really into jazz music!", insights[1])
}

func TestInsightsEmptyProfile(t *testing.T) {
	assert.Empty(t, Insights(blueprint.ProfileSummary{}))
}

func TestInsightsTracksOnly(t *testing.T) {
	// top-artists fetch failed, top-tracks still came through
	summary := AggregateProfile(nil, []blueprint.Track{{Title: "hit", Artists: []string{"someone"}}})
	insights := Insights(summary)

	require.Len(t, insights, 1)
	assert.Equal(t, "Your current favorite track is 'hit' by someone.", insights[0])
}
