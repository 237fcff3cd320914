package state

import "testing"

func labelsOf(items []Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestMatchKeepsOrder(t *testing.T) {
	items := ItemsFromLines([]string{"Power Off", "Scan for Devices", "Devices", "Exit"})
	got := labelsOf(Match(items, " dvc "))
	if len(got) != 2 || got[0] != "Scan for Devices" || got[1] != "Devices" {
		t.Fatalf("unexpected matches %v", got)
	}
	if len(Match(items, "")) != 4 {
		t.Fatalf("an empty query keeps everything")
	}
	if len(Match(items, "xyz")) != 0 {
		t.Fatalf("expected no matches")
	}
}

func TestMatchIgnoresCaseAndAccents(t *testing.T) {
	items := ItemsFromLines([]string{"Café Speaker", "Mouse"})
	if got := labelsOf(Match(items, "cafe")); len(got) != 1 || got[0] != "Café Speaker" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestBestMatch(t *testing.T) {
	items := ItemsFromLines([]string{"Scan for Devices", "Devices", "Disconnect", "dev"})
	cases := map[string]int{
		"":     0,
		"dev":  3,
		"Dev":  3,
		"devi": 1,
		"for":  0,
		"dsc":  2,
		"zzz":  0,
	}
	for query, want := range cases {
		if got := BestMatch(items, query); got != want {
			t.Fatalf("BestMatch(%q) = %d, want %d", query, got, want)
		}
	}
	if BestMatch(nil, "dev") != 0 {
		t.Fatalf("expected 0 for no items")
	}
}
