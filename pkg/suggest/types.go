package suggest

// Source tags where a suggestion came from.
type Source string

const (
	SourceDictionary        Source = "dictionary"
	SourceContraction       Source = "contraction"
	SourceKeyboardProximity Source = "keyboard-proximity"
	SourceFrequency         Source = "frequency"
	SourcePersonal          Source = "personal"
	SourceContext           Source = "context"
)

// priority orders sources ahead of confidence when ranking. Contractions
// always come first.
func (s Source) priority() int {
	if s == SourceContraction {
		return 0
	}
	return 1
}

// Metadata explains how a suggestion was scored.
type Metadata struct {
	EditDistance   int
	Language       string
	ProximityScore float64
	IsContraction  bool
}

// Suggestion is one candidate correction. Suggestions are built per call
// and never persisted.
type Suggestion struct {
	Original    string
	Replacement string
	Confidence  float64
	Source      Source
	Metadata    Metadata
}
