package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "curator.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBrandListRoundTripNormalizesTargetAndVariations(t *testing.T) {
	s := openTestStore(t)
	saved, err := s.SaveBrandList("https://Example.com/", []string{" Acme ", "acme", "", "Acme Inc"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Target != "example.com" {
		t.Fatalf("expected normalized target, got %q", saved.Target)
	}
	got, err := s.BrandList("example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"Acme", "Acme Inc"}
	if !reflect.DeepEqual(got.Variations, want) {
		t.Fatalf("expected deduplicated variations %v, got %v", want, got.Variations)
	}
}

func TestBrandListMissingTarget(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.BrandList("nobody.example"); !errors.Is(err, ErrBrandListNotFound) {
		t.Fatalf("expected ErrBrandListNotFound, got %v", err)
	}
}

func TestListBrandTargetsSorted(t *testing.T) {
	s := openTestStore(t)
	for _, target := range []string{"zeta.example", "alpha.example"} {
		if _, err := s.SaveBrandList(target, []string{"x"}); err != nil {
			t.Fatalf("save %s: %v", target, err)
		}
	}
	targets, err := s.ListBrandTargets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"alpha.example", "zeta.example"}
	if !reflect.DeepEqual(targets, want) {
		t.Fatalf("expected %v, got %v", want, targets)
	}
}

func TestUIStatePersists(t *testing.T) {
	s := openTestStore(t)
	empty, err := s.UIState()
	if err != nil {
		t.Fatalf("initial state: %v", err)
	}
	if empty.ActiveGroupID != 0 {
		t.Fatalf("expected empty initial state, got %+v", empty)
	}
	if err := s.SaveUIState(&UIState{ActiveGroupID: 7, LastTarget: "example.com", LastLocale: "UA"}); err != nil {
		t.Fatalf("save state: %v", err)
	}
	got, err := s.UIState()
	if err != nil {
		t.Fatalf("reload state: %v", err)
	}
	if got.ActiveGroupID != 7 || got.LastTarget != "example.com" || got.LastLocale != "UA" {
		t.Fatalf("unexpected state %+v", got)
	}
}
