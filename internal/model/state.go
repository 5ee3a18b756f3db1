package model

// PipelineState is the aggregate record updated once per successful
// publish. It lives in a single global state.json file, not keyed by date.
//
// Design decision: counters are folded into this one record instead of
// being recomputed from the note index because the index may be truncated
// or rewritten independently (e.g. pruning old notes from the site) while
// lifetime totals must survive.
type PipelineState struct {
	// LastPublishDate is the date of the most recent publish (YYYY-MM-DD).
	LastPublishDate string `json:"lastPublishDate"`

	// TotalNotes is the lifetime count of published notes. It increments
	// by exactly one per successful publish.
	TotalNotes int `json:"totalNotes"`

	// Topics accumulates every tag seen across publishes, without
	// duplicates. Insertion order is preserved but not meaningful.
	Topics []string `json:"topics"`

	// MonthlyStats counts publishes per "YYYY-MM" bucket.
	MonthlyStats map[string]int `json:"monthlyStats"`
}

// NewPipelineState returns an empty state with initialized containers.
func NewPipelineState() *PipelineState {
	return &PipelineState{
		Topics:       []string{},
		MonthlyStats: map[string]int{},
	}
}

// RecordPublish folds one published note into the state: bumps the total,
// updates the last publish date, merges tags into Topics, and increments
// the monthly bucket derived from the date.
func (s *PipelineState) RecordPublish(date string, tags ...Tag) {
	s.LastPublishDate = date
	s.TotalNotes++

	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if !s.hasTopic(string(tag)) {
			s.Topics = append(s.Topics, string(tag))
		}
	}

	if s.MonthlyStats == nil {
		s.MonthlyStats = map[string]int{}
	}
	if len(date) >= 7 {
		s.MonthlyStats[date[:7]]++
	}
}

// hasTopic reports whether the topic is already recorded.
func (s *PipelineState) hasTopic(topic string) bool {
	for _, t := range s.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
