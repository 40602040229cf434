package domain

import (
	"strings"
	"time"
)

// QuestionType distinguishes how a question is answered.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionDescriptive    QuestionType = "descriptive"
)

// IsValid reports whether t is one of the known question types.
func (t QuestionType) IsValid() bool {
	return t == QuestionMultipleChoice || t == QuestionDescriptive
}

// Question is a single generated practice question.
// Options are present and non-empty iff Type is multiple-choice.
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Hints    []string     `json:"hints"`
	Solution string       `json:"solution"`
}

// Validate validates the question
func (q Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewInvalidInputError("question text is required")
	}
	if !q.Type.IsValid() {
		return NewInvalidInputError("unknown question type: " + string(q.Type))
	}
	if q.Type == QuestionMultipleChoice && len(q.Options) == 0 {
		return NewInvalidInputError("multiple-choice question requires options")
	}
	if q.Type != QuestionMultipleChoice && len(q.Options) > 0 {
		return NewInvalidInputError("only multiple-choice questions carry options")
	}
	return nil
}

// Topic is the leaf of the syllabus tree that owns generated questions.
type Topic struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Questions          []Question `json:"questions"`
	QuestionsGenerated bool       `json:"questionsGenerated"`
	IsLoading          bool       `json:"isLoading"`
}

// Validate validates the topic
func (t Topic) Validate() error {
	if t.ID == "" {
		return NewInvalidInputError("topic ID is required")
	}
	if t.QuestionsGenerated && t.IsLoading {
		return NewInvalidInputError("topic cannot be generated and loading at the same time")
	}
	for _, q := range t.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Chapter groups topics.
type Chapter struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Topics []Topic `json:"topics"`
}

// Subject groups chapters.
type Subject struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Chapters []Chapter `json:"chapters"`
}

// SyllabusRecord is one uploaded and classified syllabus document.
type SyllabusRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Subjects   []Subject `json:"subjects"`
	UploadDate time.Time `json:"uploadDate"`
}

// Library is the ordered collection of every syllabus the user uploaded.
type Library []SyllabusRecord

// TopicPatch is a partial update for a Topic. Nil fields are left untouched.
type TopicPatch struct {
	Name               *string
	Questions          []Question
	SetQuestions       bool
	QuestionsGenerated *bool
	IsLoading          *bool
}

// Apply returns t with the patch merged over it.
func (p TopicPatch) Apply(t Topic) Topic {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.SetQuestions {
		t.Questions = p.Questions
	}
	if p.QuestionsGenerated != nil {
		t.QuestionsGenerated = *p.QuestionsGenerated
	}
	if p.IsLoading != nil {
		t.IsLoading = *p.IsLoading
	}
	return t
}

// LoadingPatch marks a topic as having a generation call in flight.
func LoadingPatch() TopicPatch {
	return TopicPatch{IsLoading: boolPtr(true)}
}

// GeneratedPatch stores a successful generation result.
func GeneratedPatch(questions []Question) TopicPatch {
	if questions == nil {
		questions = []Question{}
	}
	return TopicPatch{
		Questions:          questions,
		SetQuestions:       true,
		QuestionsGenerated: boolPtr(true),
		IsLoading:          boolPtr(false),
	}
}

// FailedPatch clears the loading flag after a failed generation call.
func FailedPatch() TopicPatch {
	return TopicPatch{IsLoading: boolPtr(false)}
}

// ResetPatch drops generated questions so the topic can be generated again.
func ResetPatch() TopicPatch {
	return TopicPatch{
		Questions:          []Question{},
		SetQuestions:       true,
		QuestionsGenerated: boolPtr(false),
	}
}

func boolPtr(b bool) *bool {
	return &b
}
