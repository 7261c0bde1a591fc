// Package catalog declares the fixed metric catalog and level legends.
package catalog

// Metric describes one derived statistic of the vocabulary table.
type Metric struct {
	// Key is the column identifier. Exported file names and chart titles
	// key off it, so the set and order must stay fixed.
	Key string
	// Label is a short human-readable description.
	Label string
	// Long is the full explanation shown in the description expander.
	Long string
	// Bounded01 marks ratio metrics whose axis is capped at 1.0.
	Bounded01 bool
}

// Metrics is the ordered catalog of the thirteen metrics.
var Metrics = []Metric{
	{
		Key:   "tf_passage",
		Label: "passage term frequency",
		Long: "Total occurrences of the word inside passage bodies. Repeats within " +
			"one passage accumulate. High tf_passage with low coverage/df suggests the " +
			"word clusters in a few passages rather than being a general word.",
	},
	{
		Key:   "tf_item",
		Label: "item term frequency",
		Long: "Occurrences in question stems and options, counted at most once per " +
			"item to avoid inflation from near-duplicate items. High tf_item with low " +
			"tf_passage marks an answering word rather than a reading word.",
	},
	{
		Key:   "tf_total",
		Label: "passage + item term frequency",
		Long: "tf_passage + tf_item: the overall occurrence strength. Read it " +
			"together with coverage/df; high tf_total plus wide coverage marks a " +
			"genuinely common word.",
	},
	{
		Key:   "df",
		Label: "document frequency (passages + items)",
		Long: "Number of distinct passages the word appears in, merging each " +
			"passage's body with its items. High df means common and general; low df " +
			"suggests a topic-bound word.",
	},
	{
		Key:   "num_passages",
		Label: "total passages counted",
		Long: "The total number of passages in the corpus, used as the denominator " +
			"for ratio metrics such as coverage. Not a ranking signal by itself.",
	},
	{
		Key:       "coverage",
		Label:     "fraction of passages containing the word",
		Bounded01: true,
		Long: "df / num_passages: the share of passages covered. Close to 1 means a " +
			"general-purpose word. High coverage with low tf_total means seen " +
			"everywhere but rarely; the reverse means dense in a few passages.",
	},
	{
		Key:   "idf",
		Label: "inverse document frequency",
		Long: "log((num_passages+1)/(df+1)) + 1. Larger means rarer. Used inside " +
			"tfidf to balance common against rare; not suitable on its own for " +
			"picking general words.",
	},
	{
		Key:   "tfidf",
		Label: "frequency balanced by rarity",
		Long: "tf_total x idf. Scores words that occur often within few passages. " +
			"The low end is filler words, the high end is overly specialized ones; " +
			"the middle band is the core vocabulary.",
	},
	{
		Key:       "dispersion",
		Label:     "uniformity across year/region strata",
		Bounded01: true,
		Long: "Occurrences are bucketed per (region, year) cell; dispersion is " +
			"1/(1+CV) of that distribution. Near 1 means evenly spread across years " +
			"and regions, near 0 means a one-off spike. Pair with coverage for " +
			"stability.",
	},
	{
		Key:   "general_score",
		Label: "composite general-vocabulary score",
		Long: "(coverage^beta) x (normalized tf_total^alpha) x dispersion, with " +
			"beta=2 emphasizing coverage and alpha=1 keeping frequency in play. The " +
			"primary ordering for a general teaching word list.",
	},
	{
		Key:       "passage_frac",
		Label:     "passage share of the weighted total",
		Bounded01: true,
		Long: "After weighting passage occurrences above item occurrences, the " +
			"fraction of the total contributed by passages. Larger means more " +
			"reading-driven; set a floor to bias a list toward real reading text.",
	},
	{
		Key:   "passage_priority_score",
		Label: "passage-weighted composite score",
		Long: "general_score x passage_frac^gamma (gamma=1), further favoring words " +
			"whose evidence comes from passage bodies. Use for a general list that " +
			"leans toward reading vocabulary.",
	},
	{
		Key:   "passage_df",
		Label: "document frequency (passages only)",
		Long: "Number of distinct passages covered counting bodies only, ignoring " +
			"items. Useful for filtering out words that mostly live in questions.",
	},
}

// ByKey looks up a metric by its identifier.
func ByKey(key string) (Metric, bool) {
	for _, m := range Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Keys returns the metric identifiers in catalog order.
func Keys() []string {
	keys := make([]string, len(Metrics))
	for i, m := range Metrics {
		keys[i] = m.Key
	}
	return keys
}

// Curriculum level codes. Level 3 tags words added at level 3 only; it does
// not include level-2 words.
const (
	CurriculumNone   = 0
	CurriculumLevel2 = 2
	CurriculumLevel3 = 3
)

// CurriculumLevels lists the valid curriculum codes in display order.
var CurriculumLevels = []int{0, 2, 3}

// CEFRLevels lists the valid CEFR codes in display order (0 = unspecified).
var CEFRLevels = []int{0, 1, 2, 3, 4, 5, 6}

// CurriculumLabel returns the legend text for a curriculum code.
func CurriculumLabel(level int) string {
	switch level {
	case CurriculumLevel3:
		return "3 = Level 3 (exclude Level 2; added in L3)"
	case CurriculumLevel2:
		return "2 = Level 2"
	default:
		return "0 = Not in curriculum"
	}
}

var cefrNames = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// CEFRLabel returns the legend text for a CEFR code.
func CEFRLabel(n int) string {
	if n >= 1 && n <= 6 {
		return cefrNames[n-1]
	}
	return "Unspecified"
}

// CurriculumColor returns the chart hex color for a curriculum code.
func CurriculumColor(level int) string {
	switch level {
	case CurriculumLevel3:
		return "#d62728"
	case CurriculumLevel2:
		return "#1f77b4"
	default:
		return "#7f7f7f"
	}
}

var cefrShades = []string{"#c7c1f0", "#a89ee9", "#8a7be2", "#6a5acd", "#4f3fb4", "#392a99"}

// CEFRColor returns the chart hex color for a CEFR code. Out-of-range values
// clamp into the 1..6 ramp; 0 is grey.
func CEFRColor(n int) string {
	if n == 0 {
		return "#7f7f7f"
	}
	if n < 1 {
		n = 1
	}
	if n > 6 {
		n = 6
	}
	return cefrShades[n-1]
}
