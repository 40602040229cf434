package library

import "syllabus-buddy/internal/domain"

// SyllabusStats summarises a syllabus for the dashboard.
type SyllabusStats struct {
	Subjects        int `json:"subjects"`
	Chapters        int `json:"chapters"`
	Topics          int `json:"topics"`
	GeneratedTopics int `json:"generatedTopics"`
	Questions       int `json:"questions"`
}

// Stats counts the nodes of rec.
func Stats(rec domain.SyllabusRecord) SyllabusStats {
	var s SyllabusStats
	s.Subjects = len(rec.Subjects)
	for _, subj := range rec.Subjects {
		s.Chapters += len(subj.Chapters)
		for _, ch := range subj.Chapters {
			s.Topics += len(ch.Topics)
			for _, t := range ch.Topics {
				if t.QuestionsGenerated {
					s.GeneratedTopics++
				}
				s.Questions += len(t.Questions)
			}
		}
	}
	return s
}
