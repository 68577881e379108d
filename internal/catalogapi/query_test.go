package catalogapi

import "testing"

func TestDiscoveryQueryParamsDefaults(t *testing.T) {
	q := DiscoveryQuery{}
	params := q.Params(3)

	want := map[string]string{
		"g":  "all",
		"s":  "top",
		"p":  "3",
		"gn": "0",
		"f":  "all",
		"w":  "0",
	}
	for k, v := range want {
		if params[k] != v {
			t.Errorf("params[%q] = %q, want %q", k, params[k], v)
		}
	}
	if _, present := params["r"]; present {
		t.Error("did not expect 'r' param for non-rec discovery type")
	}
}

func TestDiscoveryQueryParamsRecommended(t *testing.T) {
	q := DiscoveryQuery{
		Genre:           GenreMetal,
		DiscoveryType:   DiscoveryRec,
		Format:          FormatVinyl,
		RecommendedType: RecommendedLatest,
	}
	params := q.Params(0)

	if params["g"] != "metal" || params["s"] != "rec" || params["f"] != "vinyl" {
		t.Errorf("unexpected params: %+v", params)
	}
	if params["r"] != "latest" {
		t.Errorf("expected r=latest, got %q", params["r"])
	}
}

func TestParseGenreAliases(t *testing.T) {
	cases := map[string]Genre{
		"hip-hop-rap": GenreHipHopRap,
		"hip-hop/rap": GenreHipHopRap,
		"r-b-soul":    GenreRBSoul,
		"r&b/soul":    GenreRBSoul,
		"spoken-word": GenreSpokenWord,
		"spoken word": GenreSpokenWord,
		"metal":       GenreMetal,
	}
	for input, want := range cases {
		got, err := ParseGenre(input)
		if err != nil {
			t.Errorf("ParseGenre(%q) returned error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseGenre(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseGenreUnknown(t *testing.T) {
	if _, err := ParseGenre("not-a-genre"); err == nil {
		t.Error("expected error for unknown genre")
	}
}

func TestParseDiscoveryTypeAndFormat(t *testing.T) {
	if _, err := ParseDiscoveryType("rec"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseDiscoveryType("bogus"); err == nil {
		t.Error("expected error for unknown discovery type")
	}
	if _, err := ParseFormat("cassette"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseFormat("bogus"); err == nil {
		t.Error("expected error for unknown format")
	}
}
