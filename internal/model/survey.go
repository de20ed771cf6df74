package model

import "time"

// Modifier tags a question group with rendering/validation behavior
type Modifier string

const (
	ModifierGrid   Modifier = "grid"   // All questions in one matrix, shared option labels
	ModifierUnique Modifier = "unique" // No two questions may hold the same answer
)

// Survey is the immutable document the wizard walks
type Survey struct {
	ID             int64           `json:"id" bson:"_id" yaml:"id"`
	Name           string          `json:"name" bson:"name" yaml:"name"`
	Instructions   string          `json:"instructions" bson:"instructions" yaml:"instructions"`
	QuestionGroups []QuestionGroup `json:"question_groups" bson:"question_groups" yaml:"question_groups"`
	CreatedAt      time.Time       `json:"created_at" bson:"created_at" yaml:"-"`
	UpdatedAt      time.Time       `json:"updated_at" bson:"updated_at" yaml:"-"`
}

// QuestionGroup is one topic screen. Its index in Survey.QuestionGroups is its screen order.
type QuestionGroup struct {
	ID               int64      `json:"id" bson:"id" yaml:"id"`
	Name             string     `json:"name" bson:"name" yaml:"name"`
	Details          string     `json:"details" bson:"details" yaml:"details"`
	SurveyPercentage float64    `json:"survey_percentage" bson:"survey_percentage" yaml:"survey_percentage"`
	Questions        []Question `json:"questions" bson:"questions" yaml:"questions"`
	Modifiers        []Modifier `json:"modifiers" bson:"modifiers" yaml:"modifiers"`
}

// Question is a single-choice question
type Question struct {
	ID      int64    `json:"id" bson:"id" yaml:"id"`
	Text    string   `json:"text" bson:"text" yaml:"text"`
	Details string   `json:"details" bson:"details" yaml:"details"`
	Options []Option `json:"options" bson:"options" yaml:"options"`
}

// Option is one selectable answer of a question
type Option struct {
	ID   int64  `json:"id" bson:"id" yaml:"id"`
	Text string `json:"text" bson:"text" yaml:"text"`
}

// HasModifier reports whether the group carries modifier m
func (g *QuestionGroup) HasModifier(m Modifier) bool {
	for _, mod := range g.Modifiers {
		if mod == m {
			return true
		}
	}
	return false
}

// QuestionIDs returns the set of question ids belonging to the group
func (g *QuestionGroup) QuestionIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(g.Questions))
	for _, q := range g.Questions {
		ids[q.ID] = struct{}{}
	}
	return ids
}

// Option looks up an option of the question by id
func (q *Question) Option(id int64) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// FindQuestion locates a question anywhere in the survey
func (s *Survey) FindQuestion(id int64) (*Question, bool) {
	for gi := range s.QuestionGroups {
		for qi := range s.QuestionGroups[gi].Questions {
			if s.QuestionGroups[gi].Questions[qi].ID == id {
				return &s.QuestionGroups[gi].Questions[qi], true
			}
		}
	}
	return nil, false
}

// AllQuestions returns every question in screen order
func (s *Survey) AllQuestions() []Question {
	var out []Question
	for _, g := range s.QuestionGroups {
		out = append(out, g.Questions...)
	}
	return out
}
