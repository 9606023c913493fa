// Package analyzer computes playlist and listening-profile aggregates.
// Everything here is a pure reduction over request-local data; nothing
// is cached or shared between requests.
package analyzer

import (
	"math"
	"strconv"
	"strings"

	"soundscope/blueprint"
)

// maxAlbumCovers caps how many unique album covers the extended summary
// carries.
const maxAlbumCovers = 16

// placeholder fills the most-popular/most-common fields when no track
// can supply them.
const placeholder = "N/A"

// Aggregate reduces playlist items (plus the separately fetched audio
// features, keyed by track ID) into a StatsSummary. Items whose Track
// is nil are skipped by every reduction except the raw total, which
// deliberately counts item slots, removed tracks included, to match
// the provider-facing behavior the frontend already relies on.
//
// All rounding is half away from zero (math.Round), uniformly across
// every percentage and average field.
func Aggregate(items []blueprint.PlaylistItem, features map[string]blueprint.AudioFeatures, level blueprint.DetailLevel) blueprint.StatsSummary {
	summary := blueprint.StatsSummary{
		TotalTracks:       len(items),
		MostPopularTrack:  placeholder,
		MostPopularArtist: placeholder,
		MostCommonArtist:  placeholder,
	}

	var (
		totalDurationMs int
		popularitySum   int
		presentCount    int
		explicitCount   int

		topPopularity = -1
		topTrack      *blueprint.Track

		artistCounts = map[string]int{}
		topArtist    string
		topArtistN   int
	)

	for _, item := range items {
		track := item.Track

		// absent tracks compare with popularity 0 so they only win the
		// most-popular slot when every track is absent
		popularity := 0
		if track != nil {
			popularity = track.Popularity
		}
		if popularity > topPopularity {
			topPopularity = popularity
			topTrack = track
		}

		if track == nil {
			continue
		}
		presentCount++
		totalDurationMs += track.DurationMillis
		popularitySum += track.Popularity
		if track.Explicit {
			explicitCount++
		}

		if len(track.Artists) > 0 {
			primary := track.Artists[0]
			artistCounts[primary]++
			// strictly-greater keeps the first artist to reach the max
			if artistCounts[primary] > topArtistN {
				topArtistN = artistCounts[primary]
				topArtist = primary
			}
		}
	}

	summary.TotalDurationHours = round2(float64(totalDurationMs) / (1000 * 60 * 60))

	if presentCount > 0 {
		summary.AvgPopularity = round(float64(popularitySum) / float64(presentCount))
	}

	if topTrack != nil {
		summary.MostPopularTrack = topTrack.Title
		if len(topTrack.Artists) > 0 {
			summary.MostPopularArtist = topTrack.Artists[0]
		}
	}

	if topArtist != "" {
		summary.MostCommonArtist = topArtist
		summary.ArtistCount = topArtistN
	}

	if len(items) > 0 {
		summary.ExplicitPercent = round(float64(explicitCount) / float64(len(items)) * 100)
	}

	if level != blueprint.DetailExtended {
		return summary
	}

	summary.AlbumCovers = albumCovers(items)
	summary.Decades, summary.ReleaseYearMin, summary.ReleaseYearMax = releaseYears(items)
	summary.Features = featureAverages(items, features)
	return summary
}

// albumCovers returns the first cover per distinct album, in playlist
// order, up to maxAlbumCovers albums.
func albumCovers(items []blueprint.PlaylistItem) []string {
	seen := map[string]bool{}
	var covers []string
	for _, item := range items {
		track := item.Track
		if track == nil || track.AlbumID == "" || track.Cover == "" {
			continue
		}
		if seen[track.AlbumID] {
			continue
		}
		seen[track.AlbumID] = true
		covers = append(covers, track.Cover)
		if len(covers) == maxAlbumCovers {
			break
		}
	}
	return covers
}

// releaseYears buckets album release years into decades and tracks the
// min/max year. Dates whose leading token is not a number are skipped.
func releaseYears(items []blueprint.PlaylistItem) (map[string]int, int, int) {
	decades := map[string]int{}
	minYear, maxYear := 0, 0
	for _, item := range items {
		track := item.Track
		if track == nil {
			continue
		}
		year, ok := leadingYear(track.Released)
		if !ok {
			continue
		}

		decade := year / 10 * 10
		decades[strconv.Itoa(decade)+"s"]++

		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	if len(decades) == 0 {
		return nil, 0, 0
	}
	return decades, minYear, maxYear
}

func leadingYear(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	token, _, _ := strings.Cut(date, "-")
	year, err := strconv.Atoi(token)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// featureAverages means the looked-up audio features over the present
// tracks that actually have an entry; IDs without features are excluded
// from the mean, never treated as zero. Energy, danceability and
// valence are scaled to 0-100.
func featureAverages(items []blueprint.PlaylistItem, features map[string]blueprint.AudioFeatures) *blueprint.FeatureAverages {
	var energy, dance, valence, tempo float64
	n := 0
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		f, ok := features[item.Track.ID]
		if !ok {
			continue
		}
		energy += f.Energy
		dance += f.Danceability
		valence += f.Valence
		tempo += f.Tempo
		n++
	}
	if n == 0 {
		return nil
	}

	return &blueprint.FeatureAverages{
		Energy:       round(energy / float64(n) * 100),
		Danceability: round(dance / float64(n) * 100),
		Valence:      round(valence / float64(n) * 100),
		Tempo:        round(tempo / float64(n)),
	}
}

// PresentTrackIDs returns the IDs of present tracks in playlist order,
// truncated to limit. This feeds the batch audio-feature lookup.
func PresentTrackIDs(items []blueprint.PlaylistItem, limit int) []string {
	var ids []string
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		ids = append(ids, item.Track.ID)
		if len(ids) == limit {
			break
		}
	}
	return ids
}

func round(v float64) int {
	return int(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
