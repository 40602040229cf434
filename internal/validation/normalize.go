package validation

import (
	"strings"
	"syllabus-buddy/internal/domain"
)

// NormalizeQuestions enforces the structural shape of generated questions.
// Blank questions are dropped, multiple-choice questions without options become
// descriptive, options are removed from every other type, and unknown types
// are treated by whether options are present.
func NormalizeQuestions(in []domain.GeneratedQuestion) []domain.GeneratedQuestion {
	out := make([]domain.GeneratedQuestion, 0, len(in))
	for _, q := range in {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		q.Options = nonBlank(q.Options)
		q.Hints = nonBlank(q.Hints)
		if q.Hints == nil {
			q.Hints = []string{}
		}
		q.Solution = strings.TrimSpace(q.Solution)

		switch {
		case q.Type == domain.QuestionMultipleChoice && len(q.Options) > 0:
		case !q.Type.IsValid() && len(q.Options) > 0:
			q.Type = domain.QuestionMultipleChoice
		default:
			q.Type = domain.QuestionDescriptive
			q.Options = nil
		}
		out = append(out, q)
	}
	return out
}

// NormalizeClassification trims names and drops blank topics, chapters without
// topics, and subjects without chapters.
func NormalizeClassification(in []domain.ClassifiedSubject) []domain.ClassifiedSubject {
	out := make([]domain.ClassifiedSubject, 0, len(in))
	for _, subj := range in {
		subj.Name = strings.TrimSpace(subj.Name)
		chapters := make([]domain.ClassifiedChapter, 0, len(subj.Chapters))
		for _, ch := range subj.Chapters {
			ch.Name = strings.TrimSpace(ch.Name)
			ch.Topics = nonBlank(ch.Topics)
			if len(ch.Topics) == 0 {
				continue
			}
			if ch.Name == "" {
				ch.Name = "General"
			}
			chapters = append(chapters, ch)
		}
		if len(chapters) == 0 {
			continue
		}
		if subj.Name == "" {
			subj.Name = "General"
		}
		subj.Chapters = chapters
		out = append(out, subj)
	}
	return out
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
