package catalogapi

import "strconv"

// DiscoveryQuery describes one page of the discovery-feed query: genre,
// slice type, format, and (only for the "rec" slice type) a recommended
// sub-type. It builds the exact parameter set the catalog's get_web
// endpoint expects.
type DiscoveryQuery struct {
	Genre           Genre
	DiscoveryType   DiscoveryType
	Format          Format
	RecommendedType RecommendedType
}

// Params returns the get_web query parameters for requesting page. The "r"
// parameter is only included when DiscoveryType is "rec" — the catalog
// rejects it otherwise.
func (q DiscoveryQuery) Params(page uint32) map[string]string {
	params := map[string]string{
		"g":  string(orDefault(q.Genre, GenreAll)),
		"s":  string(orDefaultDiscoveryType(q.DiscoveryType, DiscoveryTop)),
		"p":  strconv.FormatUint(uint64(page), 10),
		"gn": "0",
		"f":  string(orDefaultFormat(q.Format, FormatAll)),
		"w":  "0",
	}
	if q.DiscoveryType == DiscoveryRec {
		params["r"] = string(orDefaultRecommendedType(q.RecommendedType, RecommendedMost))
	}
	return params
}

func orDefault(g Genre, def Genre) Genre {
	if g == "" {
		return def
	}
	return g
}

func orDefaultDiscoveryType(d DiscoveryType, def DiscoveryType) DiscoveryType {
	if d == "" {
		return def
	}
	return d
}

func orDefaultFormat(f Format, def Format) Format {
	if f == "" {
		return def
	}
	return f
}

func orDefaultRecommendedType(r RecommendedType, def RecommendedType) RecommendedType {
	if r == "" {
		return def
	}
	return r
}
