// Package rubric defines the four-criterion evaluation score value type.
package rubric

// Score bounds for a single criterion.
const (
	MinScore = 1
	MaxScore = 10
)

// criterionCount is the number of rubric criteria; weights are equal, so
// the weighted score is always Total divided by this.
const criterionCount = 4

// Scores holds one evaluation's four criterion scores. The type performs
// no bounds checking of its own; validity is enforced by the evaluation
// service before a Scores value is persisted.
type Scores struct {
	Content      int `json:"content" validate:"min=1,max=10"`
	Organization int `json:"organization" validate:"min=1,max=10"`
	Delivery     int `json:"delivery" validate:"min=1,max=10"`
	Engagement   int `json:"engagement" validate:"min=1,max=10"`
}

// New constructs a Scores from the four criterion values in declaration order.
func New(content, organization, delivery, engagement int) Scores {
	return Scores{
		Content:      content,
		Organization: organization,
		Delivery:     delivery,
		Engagement:   engagement,
	}
}

// Total is the sum of the four criterion scores (4 to 40 for valid input).
func (s Scores) Total() int {
	return s.Content + s.Organization + s.Delivery + s.Engagement
}

// Weighted is the equal-weight (0.25 each) mean of the four criteria,
// which by construction equals Total()/4.
func (s Scores) Weighted() float64 {
	return float64(s.Total()) / criterionCount
}

// IsValidScore reports whether a single criterion score is in range.
func IsValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}
