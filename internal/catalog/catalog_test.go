package catalog

import "testing"

func TestMetricOrder(t *testing.T) {
	want := []string{
		"tf_passage", "tf_item", "tf_total", "df", "num_passages", "coverage",
		"idf", "tfidf", "dispersion", "general_score", "passage_frac",
		"passage_priority_score", "passage_df",
	}
	keys := Keys()
	if len(keys) != len(want) {
		t.Fatalf("expected %d metrics, got %d", len(want), len(keys))
	}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("metric %d: expected %q, got %q", i, key, keys[i])
		}
	}
}

func TestBounded01Flags(t *testing.T) {
	bounded := map[string]bool{"coverage": true, "dispersion": true, "passage_frac": true}
	for _, m := range Metrics {
		if m.Bounded01 != bounded[m.Key] {
			t.Fatalf("metric %q: Bounded01=%v", m.Key, m.Bounded01)
		}
	}
}

func TestByKey(t *testing.T) {
	m, ok := ByKey("general_score")
	if !ok {
		t.Fatalf("expected general_score to exist")
	}
	if m.Label == "" || m.Long == "" {
		t.Fatalf("expected label and long description for %q", m.Key)
	}
	if _, ok := ByKey("nope"); ok {
		t.Fatalf("expected lookup miss for unknown key")
	}
}

func TestColors(t *testing.T) {
	if CurriculumColor(3) != "#d62728" || CurriculumColor(2) != "#1f77b4" || CurriculumColor(0) != "#7f7f7f" {
		t.Fatalf("unexpected curriculum colors")
	}
	if CEFRColor(0) != "#7f7f7f" {
		t.Fatalf("expected grey for unspecified CEFR")
	}
	if CEFRColor(1) == CEFRColor(6) {
		t.Fatalf("expected distinct ramp endpoints")
	}
	if CEFRColor(9) != CEFRColor(6) || CEFRColor(-1) != CEFRColor(1) {
		t.Fatalf("expected out-of-range CEFR codes to clamp")
	}
}
