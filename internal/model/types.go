// Package model defines shared data structures.
package model

import "time"

// WordRecord is one row of the vocabulary table. All thirteen metric fields
// are always present; columns absent from the source default to zero.
type WordRecord struct {
	Word        string
	POS         string
	Curriculum  int
	CEFRNumeric int
	CEFRLevel   string

	TFPassage            float64
	TFItem               float64
	TFTotal              float64
	DF                   float64
	NumPassages          float64
	Coverage             float64
	IDF                  float64
	TFIDF                float64
	Dispersion           float64
	GeneralScore         float64
	PassageFrac          float64
	PassagePriorityScore float64
	PassageDF            float64
}

// Metric returns the value of the named metric field. Unknown keys yield 0.
func (r WordRecord) Metric(key string) float64 {
	switch key {
	case "tf_passage":
		return r.TFPassage
	case "tf_item":
		return r.TFItem
	case "tf_total":
		return r.TFTotal
	case "df":
		return r.DF
	case "num_passages":
		return r.NumPassages
	case "coverage":
		return r.Coverage
	case "idf":
		return r.IDF
	case "tfidf":
		return r.TFIDF
	case "dispersion":
		return r.Dispersion
	case "general_score":
		return r.GeneralScore
	case "passage_frac":
		return r.PassageFrac
	case "passage_priority_score":
		return r.PassagePriorityScore
	case "passage_df":
		return r.PassageDF
	}
	return 0
}

// SetMetric stores a value into the named metric field. Unknown keys are ignored.
func (r *WordRecord) SetMetric(key string, v float64) {
	switch key {
	case "tf_passage":
		r.TFPassage = v
	case "tf_item":
		r.TFItem = v
	case "tf_total":
		r.TFTotal = v
	case "df":
		r.DF = v
	case "num_passages":
		r.NumPassages = v
	case "coverage":
		r.Coverage = v
	case "idf":
		r.IDF = v
	case "tfidf":
		r.TFIDF = v
	case "dispersion":
		r.Dispersion = v
	case "general_score":
		r.GeneralScore = v
	case "passage_frac":
		r.PassageFrac = v
	case "passage_priority_score":
		r.PassagePriorityScore = v
	case "passage_df":
		r.PassageDF = v
	}
}

// Selection holds the level-based inclusion filters.
type Selection struct {
	Curriculum map[int]bool
	CEFR       map[int]bool
}

// SortOrder is the ranking direction.
type SortOrder int

// Sort directions.
const (
	Descending SortOrder = iota
	Ascending
)

func (o SortOrder) String() string {
	if o == Ascending {
		return "ASC"
	}
	return "DESC"
}

// SelectMode chooses between Top-N and range slicing.
type SelectMode int

// Selection modes.
const (
	ModeTopN SelectMode = iota
	ModeRange
)

func (m SelectMode) String() string {
	if m == ModeRange {
		return "Range"
	}
	return "Top N"
}

// ViewState is the session-scoped view configuration. RowsMax and FilterSig
// are derived: RowsMax freezes at the filtered row count whenever the filter
// signature changes.
type ViewState struct {
	Metric    string
	Order     SortOrder
	Mode      SelectMode
	TopN      int
	From      int
	To        int
	RowsMax   int
	FilterSig string
}

// ExportRun records one export for the history database.
type ExportRun struct {
	ID       int64
	At       time.Time
	Source   string
	Metric   string
	Order    string
	Mode     string
	TopN     int
	From     int
	To       int
	RowCount int
	Output   string
	Format   string
}
