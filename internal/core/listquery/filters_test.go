package listquery

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFilterStore_SetPrunesEmptyAndFalse(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, nil)

	fs.Set("siglaTipo", "PEC")
	fs.Set("scored", true)

	got, err := fs.Set("siglaTipo", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["siglaTipo"]; ok {
		t.Error("empty string should remove the key")
	}

	got, _ = fs.Set("scored", false)
	if _, ok := got["scored"]; ok {
		t.Error("false should remove the key")
	}
	if len(got) != 0 {
		t.Errorf("expected empty filter map, got %v", got)
	}
}

func TestFilterStore_NeverStoresPrunedValues(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, FilterMap{"siglaTipo": "", "scored": false, "scope": "Nacional"})

	values := fs.Values()
	if len(values) != 1 || values["scope"] != "Nacional" {
		t.Errorf("initial pruned values survived: %v", values)
	}
	for k, v := range values {
		if v == "" || v == false {
			t.Errorf("key %s stored with pruned value %v", k, v)
		}
	}
}

func TestFilterStore_SetReturnsCopy(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, nil)
	got, _ := fs.Set("siglaTipo", "PL")
	got["siglaTipo"] = "mutated"

	if fs.Values()["siglaTipo"] != "PL" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestFilterStore_RejectsUnknownKeyAndValue(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, nil)

	if _, err := fs.Set("magnitude", "Alto"); !errors.Is(err, ErrUnknownFilter) {
		t.Errorf("expected ErrUnknownFilter, got %v", err)
	}
	if _, err := fs.Set("siglaTipo", []string{"PL"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestFilterStore_NormalizesNumbers(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, nil)
	fs.Set("ano", json.Number("2025"))

	if v := fs.Values()["ano"]; v != int64(2025) {
		t.Errorf("expected int64 2025, got %#v", v)
	}
	if s := fs.Values().String("ano"); s != "2025" {
		t.Errorf("expected formatted 2025, got %q", s)
	}
}

func TestFilterStore_ReadsSearchFromURLOnMount(t *testing.T) {
	loc := NewURL("/dashboard/proposals", "search=educa%C3%A7%C3%A3o")
	fs := NewFilterStore(testSchema, loc, nil)

	if got := fs.Values()["search"]; got != "educação" {
		t.Errorf("expected search from URL, got %v", got)
	}
}

func TestFilterStore_URLWinsOverRestoredValue(t *testing.T) {
	loc := NewURL("/dashboard/proposals", "search=saude")
	fs := NewFilterStore(testSchema, loc, FilterMap{"search": "educação"})

	if got := fs.Values()["search"]; got != "saude" {
		t.Errorf("expected URL value, got %v", got)
	}
}

func TestFilterStore_DropsRestoredKeysOutsideSchema(t *testing.T) {
	fs := NewFilterStore(testSchema, nil, FilterMap{"relator": "x", "siglaTipo": "PEC"})

	values := fs.Values()
	if _, ok := values["relator"]; ok {
		t.Errorf("unknown key survived the mount: %v", values)
	}
	if values["siglaTipo"] != "PEC" {
		t.Errorf("allowed key lost: %v", values)
	}
}

func TestFilterStore_RestoredSearchIsWrittenToURL(t *testing.T) {
	loc := NewURL("/dashboard/proposals", "")
	NewFilterStore(testSchema, loc, FilterMap{"search": "saude"})

	if got := loc.Query().Get("search"); got != "saude" {
		t.Errorf("expected restored search mirrored to URL, got %q", got)
	}
}

func TestFilterStore_MirrorsSearchIntoURL(t *testing.T) {
	loc := NewURL("/dashboard/proposals", "tab=all")
	fs := NewFilterStore(testSchema, loc, nil)

	fs.Set("search", "educação")
	if got := loc.Query().Get("search"); got != "educação" {
		t.Errorf("expected search in URL, got %q", got)
	}

	fs.Set("search", "")
	q := loc.Query()
	if q.Has("search") {
		t.Error("clearing search should remove it from the URL")
	}
	if q.Get("tab") != "all" {
		t.Error("other URL parameters should be preserved")
	}
	if loc.String() != "/dashboard/proposals?tab=all" {
		t.Errorf("unexpected URL %q", loc.String())
	}
}

func TestFilterStore_OtherKeysStayLocal(t *testing.T) {
	loc := NewURL("/dashboard/proposals", "")
	fs := NewFilterStore(testSchema, loc, nil)

	fs.Set("siglaTipo", "PEC")
	if len(loc.Query()) != 0 {
		t.Errorf("non-search filters must not reach the URL, got %v", loc.Query())
	}
}

func TestFilterMap_Equal(t *testing.T) {
	a := FilterMap{"siglaTipo": "PEC", "ano": int64(2025)}
	b := FilterMap{"ano": int64(2025), "siglaTipo": "PEC"}
	if !a.Equal(b) {
		t.Error("maps with the same entries should be equal")
	}
	b["ano"] = int64(2024)
	if a.Equal(b) {
		t.Error("maps with different values should differ")
	}
	if a.Equal(FilterMap{"siglaTipo": "PEC"}) {
		t.Error("maps with different sizes should differ")
	}
}

func TestRequest_Params(t *testing.T) {
	q := QueryState{
		PageSpec: PageSpec{Page: 2, PageSize: 25},
		Sort:     SortSpec{Property: "impact_score", Order: Desc},
		Filters:  FilterMap{"search": "saúde", "scored": true, "ano": int64(2025)},
	}
	p := testSchema.Request(q).Params()

	checks := map[string]string{
		"skip":          "50",
		"limit":         "25",
		"sort":          "impact_score:desc",
		"ementa__ilike": "saúde",
		"scored":        "true",
		"ano":           "2025",
	}
	for k, want := range checks {
		if got := p.Get(k); got != want {
			t.Errorf("param %s = %q, want %q", k, got, want)
		}
	}
	if p.Has("search") {
		t.Error("renamed filter key should not be sent under its own name")
	}
}
