package survey

import (
	"sync"

	"survey-assessment-backend/internal/model"
)

// Instrument is an immutable survey definition with its bound scoring
// strategy. Guide and Interpret are optional.
type Instrument struct {
	ID        int
	Name      string
	Type      model.SurveyType
	Questions []model.Question
	Strategy  ScoringStrategy
	Guide     string
	Interpret func(scores map[string]float64) string
}

// QuestionIDs returns the set of question ids the instrument requires.
func (in *Instrument) QuestionIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(in.Questions))
	for _, q := range in.Questions {
		ids[q.ID] = struct{}{}
	}
	return ids
}

// Interpretation returns the human readable reading of scores, if the
// instrument defines one.
func (in *Instrument) Interpretation(scores map[string]float64) (string, bool) {
	if in.Interpret == nil {
		return "", false
	}
	return in.Interpret(scores), true
}

// Registry holds instruments keyed by id, in registration order.
// It is populated at startup and read concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	surveys map[int]*Instrument
	order   []int
}

func NewRegistry() *Registry {
	return &Registry{surveys: make(map[int]*Instrument)}
}

// Register adds survey, replacing any instrument with the same id while
// keeping its original position.
func (r *Registry) Register(survey *Instrument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.surveys[survey.ID]; !exists {
		r.order = append(r.order, survey.ID)
	}
	r.surveys[survey.ID] = survey
}

func (r *Registry) Get(id int) (*Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surveys[id]
	return s, ok
}

// List returns the instruments in registration order.
func (r *Registry) List() []*Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instrument, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.surveys[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// DefaultCatalog returns the built-in instruments in display order.
func DefaultCatalog() []*Instrument {
	return []*Instrument{
		happinessInstrument(),
		stressInstrument(),
	}
}

// NewDefaultRegistry returns a registry holding DefaultCatalog.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, in := range DefaultCatalog() {
		r.Register(in)
	}
	return r
}
