// Package catalogapi implements the discovery-feed query contract against
// the catalog's public "get_web" endpoint: parameter construction and
// response parsing. Fetching individual album pages is intentionally left
// as an interface (AlbumFetcher) with no concrete implementation here —
// that collaborator's wire format is not specified.
package catalogapi

import "fmt"

// Genre is one of the catalog's fixed discovery-feed genre tags.
type Genre string

const (
	GenreAll          Genre = "all"
	GenreElectronic   Genre = "electronic"
	GenreRock         Genre = "rock"
	GenreMetal        Genre = "metal"
	GenreAlternative  Genre = "alternative"
	GenreHipHopRap    Genre = "hip-hop-rap"
	GenreExperimental Genre = "experimental"
	GenrePunk         Genre = "punk"
	GenreFolk         Genre = "folk"
	GenrePop          Genre = "pop"
	GenreAmbient      Genre = "ambient"
	GenreSoundtrack   Genre = "soundtrack"
	GenreWorld        Genre = "world"
	GenreJazz         Genre = "jazz"
	GenreAcoustic     Genre = "acoustic"
	GenreFunk         Genre = "funk"
	GenreRBSoul       Genre = "r-b-soul"
	GenreDevotional   Genre = "devotional"
	GenreClassical    Genre = "classical"
	GenreReggae       Genre = "reggae"
	GenrePodcasts     Genre = "podcasts"
	GenreCountry      Genre = "country"
	GenreSpokenWord   Genre = "spoken-word"
	GenreComedy       Genre = "comedy"
	GenreBlues        Genre = "blues"
	GenreKids         Genre = "kids"
	GenreAudiobooks   Genre = "audiobooks"
	GenreLatin        Genre = "latin"
)

// ParseGenre accepts both the canonical slug form and the handful of
// human-readable aliases the catalog's own site uses in its nav menu.
func ParseGenre(s string) (Genre, error) {
	switch s {
	case "hip-hop/rap":
		return GenreHipHopRap, nil
	case "r&b/soul":
		return GenreRBSoul, nil
	case "spoken word":
		return GenreSpokenWord, nil
	}
	g := Genre(s)
	switch g {
	case GenreAll, GenreElectronic, GenreRock, GenreMetal, GenreAlternative,
		GenreHipHopRap, GenreExperimental, GenrePunk, GenreFolk, GenrePop,
		GenreAmbient, GenreSoundtrack, GenreWorld, GenreJazz, GenreAcoustic,
		GenreFunk, GenreRBSoul, GenreDevotional, GenreClassical, GenreReggae,
		GenrePodcasts, GenreCountry, GenreSpokenWord, GenreComedy, GenreBlues,
		GenreKids, GenreAudiobooks, GenreLatin:
		return g, nil
	default:
		return "", fmt.Errorf("catalogapi: unknown genre %q", s)
	}
}

// DiscoveryType selects which discovery-feed slice to browse.
type DiscoveryType string

const (
	DiscoveryTop DiscoveryType = "top"
	DiscoveryNew DiscoveryType = "new"
	DiscoveryRec DiscoveryType = "rec"
)

// ParseDiscoveryType validates s as a DiscoveryType.
func ParseDiscoveryType(s string) (DiscoveryType, error) {
	switch DiscoveryType(s) {
	case DiscoveryTop, DiscoveryNew, DiscoveryRec:
		return DiscoveryType(s), nil
	default:
		return "", fmt.Errorf("catalogapi: unknown discovery type %q", s)
	}
}

// Format restricts the feed to a physical or digital release format.
type Format string

const (
	FormatAll      Format = "all"
	FormatDigital  Format = "digital"
	FormatVinyl    Format = "vinyl"
	FormatCD       Format = "cd"
	FormatCassette Format = "cassette"
)

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAll, FormatDigital, FormatVinyl, FormatCD, FormatCassette:
		return Format(s), nil
	default:
		return "", fmt.Errorf("catalogapi: unknown format %q", s)
	}
}

// RecommendedType further narrows DiscoveryRec ("rec") results. It is only
// meaningful, and only sent on the wire, when DiscoveryType is rec.
type RecommendedType string

const (
	RecommendedMost   RecommendedType = "most"
	RecommendedLatest RecommendedType = "latest"
)

// ParseRecommendedType validates s as a RecommendedType.
func ParseRecommendedType(s string) (RecommendedType, error) {
	switch RecommendedType(s) {
	case RecommendedMost, RecommendedLatest:
		return RecommendedType(s), nil
	default:
		return "", fmt.Errorf("catalogapi: unknown recommended type %q", s)
	}
}

// urlHints is the subset of a discovery-feed item used to compose the
// full album page URL, mirroring the catalog's own url_hints payload.
type urlHints struct {
	Subdomain string `json:"subdomain"`
	Slug      string `json:"slug"`
}

// feedItem is a single element of the discovery-feed "items" array. Only
// album-type items (type == "a") carry usable url_hints for our purposes;
// track-type items are skipped by the client.
type feedItem struct {
	Type     string   `json:"type"`
	URLHints urlHints `json:"url_hints"`
}

// feedResponse is the top-level shape of a get_web response.
type feedResponse struct {
	Items         []feedItem `json:"items"`
	MoreAvailable bool       `json:"more_available"`
}
