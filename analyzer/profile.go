package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"soundscope/blueprint"
)

// TopGenreLimit is how many ranked genres the profile summary keeps.
const TopGenreLimit = 5

// AggregateProfile reduces the top-artists and top-tracks lookups into
// a ProfileSummary. Either input may be empty; the dashboard fills
// each section independently, so a failed sub-fetch just leaves its
// section at the zero default.
func AggregateProfile(artists []blueprint.Artist, tracks []blueprint.Track) blueprint.ProfileSummary {
	summary := blueprint.ProfileSummary{
		TopArtists: lo.Map(artists, func(a blueprint.Artist, _ int) blueprint.TopArtist {
			return blueprint.TopArtist{Name: a.Name, Cover: a.Cover}
		}),
		TopGenres: topGenres(artists),
	}

	for _, track := range tracks {
		primary := "Unknown"
		if len(track.Artists) > 0 {
			primary = track.Artists[0]
		}
		summary.TopTracks = append(summary.TopTracks, blueprint.TopTrack{
			Title:  track.Title,
			Artist: primary,
			Cover:  track.Cover,
		})
	}

	return summary
}

// topGenres counts every genre tag across the top artists (an artist
// contributes to each genre it carries), ranks descending by count and
// truncates to TopGenreLimit. Ties keep first-seen order.
func topGenres(artists []blueprint.Artist) []blueprint.GenreCount {
	counts := map[string]int{}
	var order []string
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if counts[genre] == 0 {
				order = append(order, genre)
			}
			counts[genre]++
		}
	}

	genres := lo.Map(order, func(name string, _ int) blueprint.GenreCount {
		return blueprint.GenreCount{Name: name, Count: counts[name]}
	})
	sort.SliceStable(genres, func(i, j int) bool { return genres[i].Count > genres[j].Count })

	if len(genres) > TopGenreLimit {
		genres = genres[:TopGenreLimit]
	}
	return genres
}

// Insights renders the deterministic insight strings for a profile.
// This is a fixed, ordered rule table, not text generation: each rule
// fires at most once, against the already-computed summary.
func Insights(summary blueprint.ProfileSummary) []string {
	var insights []string

	if len(summary.TopArtists) > 0 {
		insights = append(insights,
			fmt.Sprintf("Your most played artist is %s! You have great taste in music.", summary.TopArtists[0].Name))
	}

	if len(summary.TopGenres) >= 3 {
		top3 := lo.Map(summary.TopGenres[:3], func(g blueprint.GenreCount, _ int) string { return g.Name })
		insights = append(insights,
			fmt.Sprintf("You're into diverse music - your top genres are %s.", strings.Join(top3, ", ")))
	} else if len(summary.TopGenres) > 0 {
		insights = append(insights,
			fmt.Sprintf("You're really into %s music!", summary.TopGenres[0].Name))
	}

	if len(summary.TopTracks) > 0 {
		favorite := summary.TopTracks[0]
		insights = append(insights,
			fmt.Sprintf("Your current favorite track is '%s' by %s.", favorite.Title, favorite.Artist))
	}

	return insights
}
