package favorites

import "testing"

func TestAddAndList(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore error = %v", err)
	}

	if err := s.Add("spotify", Entry{Title: "despacito"}); err != nil {
		t.Fatalf("Add error = %v", err)
	}
	if err := s.Add("spotify", Entry{Title: "bohemian rhapsody"}); err != nil {
		t.Fatalf("Add error = %v", err)
	}

	got, err := s.List("spotify")
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "despacito" || got[1].Title != "bohemian rhapsody" {
		t.Fatalf("order wrong: %+v", got)
	}
	if got[0].AddedAt.IsZero() {
		t.Fatalf("AddedAt not set")
	}
}

func TestListEmptyService(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore error = %v", err)
	}
	got, err := s.List("youtube")
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestLastPlayedRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore error = %v", err)
	}

	if got, err := s.LastPlayed("apple_music"); err != nil || got != nil {
		t.Fatalf("LastPlayed before set = (%+v, %v), want (nil, nil)", got, err)
	}

	if err := s.SetLastPlayed("apple_music", Entry{Title: "take five"}); err != nil {
		t.Fatalf("SetLastPlayed error = %v", err)
	}
	got, err := s.LastPlayed("apple_music")
	if err != nil {
		t.Fatalf("LastPlayed error = %v", err)
	}
	if got == nil || got.Title != "take five" {
		t.Fatalf("LastPlayed = %+v", got)
	}
}
