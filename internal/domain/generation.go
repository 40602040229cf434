package domain

import "context"

// Document is an uploaded syllabus file handed to the classifier.
// Base64Data holds the file bytes in standard base64 encoding.
type Document struct {
	Name       string
	MIMEType   string
	Base64Data string
}

// ClassifiedChapter is a chapter as returned by the classifier.
type ClassifiedChapter struct {
	Name   string   `json:"name"`
	Topics []string `json:"topics"`
}

// ClassifiedSubject is a subject as returned by the classifier.
type ClassifiedSubject struct {
	Name     string              `json:"name"`
	Chapters []ClassifiedChapter `json:"chapters"`
}

// GeneratedQuestion is a question as returned by the generator, before ids are assigned.
type GeneratedQuestion struct {
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Hints    []string     `json:"hints"`
	Solution string       `json:"solution"`
}

// SyllabusClassifier turns a syllabus document into subjects, chapters and topic names.
type SyllabusClassifier interface {
	// Classify must fail with a descriptive error on malformed or unparseable input.
	Classify(ctx context.Context, doc Document) ([]ClassifiedSubject, error)
}

// QuestionGenerator produces practice questions for a topic.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, topicName, level, region string) ([]GeneratedQuestion, error)
}
