package service

import (
	"syllabus-buddy/internal/domain"
	"syllabus-buddy/internal/library"
	"syllabus-buddy/internal/util"
)

// SelectPracticeQuestions draws min(count, len(questions)) distinct questions
// from a uniformly shuffled copy of questions. The input is not modified.
func SelectPracticeQuestions(questions []domain.Question, count int, intn util.IntnFunc) []domain.Question {
	pool := library.CloneQuestions(questions)
	if pool == nil {
		return []domain.Question{}
	}
	util.Shuffle(pool, intn)
	if count < len(pool) {
		pool = pool[:count]
	}
	return pool
}
