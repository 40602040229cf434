// Package library implements copy-on-write operations over the syllabus tree.
//
// Every operation returns a freshly allocated Library. Nothing reachable from
// the result shares backing arrays with the input, so callers may hand the old
// value to readers while publishing the new one.
package library

import (
	"syllabus-buddy/internal/domain"
)

// UpdateTopic returns a copy of lib in which the topic identified by topicID has
// patch merged over it. Every ancestor of that topic is rebuilt, and untouched
// siblings are cloned in place so order and content are preserved. When no
// topic matches, the result is a content-equal copy.
func UpdateTopic(lib domain.Library, topicID string, patch domain.TopicPatch) domain.Library {
	out := make(domain.Library, len(lib))
	for i, rec := range lib {
		out[i] = updateSyllabus(rec, topicID, patch)
	}
	return out
}

func updateSyllabus(rec domain.SyllabusRecord, topicID string, patch domain.TopicPatch) domain.SyllabusRecord {
	if rec.Subjects == nil {
		return rec
	}
	subjects := make([]domain.Subject, len(rec.Subjects))
	for i, subj := range rec.Subjects {
		subjects[i] = updateSubject(subj, topicID, patch)
	}
	rec.Subjects = subjects
	return rec
}

func updateSubject(subj domain.Subject, topicID string, patch domain.TopicPatch) domain.Subject {
	if subj.Chapters == nil {
		return subj
	}
	chapters := make([]domain.Chapter, len(subj.Chapters))
	for i, ch := range subj.Chapters {
		chapters[i] = updateChapter(ch, topicID, patch)
	}
	subj.Chapters = chapters
	return subj
}

func updateChapter(ch domain.Chapter, topicID string, patch domain.TopicPatch) domain.Chapter {
	if ch.Topics == nil {
		return ch
	}
	topics := make([]domain.Topic, len(ch.Topics))
	for i, t := range ch.Topics {
		if t.ID == topicID {
			t = patch.Apply(t)
		}
		topics[i] = cloneTopic(t)
	}
	ch.Topics = topics
	return ch
}

// AddSyllabus returns a copy of lib with rec appended.
func AddSyllabus(lib domain.Library, rec domain.SyllabusRecord) domain.Library {
	out := Clone(lib)
	return append(out, CloneSyllabus(rec))
}

// DeleteSyllabus returns a copy of lib without the syllabus identified by syllabusID.
// The order of the remaining records is unchanged.
func DeleteSyllabus(lib domain.Library, syllabusID string) domain.Library {
	out := make(domain.Library, 0, len(lib))
	for _, rec := range lib {
		if rec.ID == syllabusID {
			continue
		}
		out = append(out, CloneSyllabus(rec))
	}
	return out
}

// FindTopic searches subjects, then chapters, then topics in stored order and
// returns the first topic whose id matches along with its owning subject.
func FindTopic(lib domain.Library, topicID string) (domain.Topic, domain.Subject, bool) {
	for _, rec := range lib {
		for _, subj := range rec.Subjects {
			for _, ch := range subj.Chapters {
				for _, t := range ch.Topics {
					if t.ID == topicID {
						return cloneTopic(t), cloneSubject(subj), true
					}
				}
			}
		}
	}
	return domain.Topic{}, domain.Subject{}, false
}

// FindSyllabus returns the syllabus identified by syllabusID.
func FindSyllabus(lib domain.Library, syllabusID string) (domain.SyllabusRecord, bool) {
	for _, rec := range lib {
		if rec.ID == syllabusID {
			return CloneSyllabus(rec), true
		}
	}
	return domain.SyllabusRecord{}, false
}

// Clone deep-copies lib. A nil library clones to an empty one.
func Clone(lib domain.Library) domain.Library {
	if lib == nil {
		return domain.Library{}
	}
	out := make(domain.Library, len(lib))
	for i, rec := range lib {
		out[i] = CloneSyllabus(rec)
	}
	return out
}

// CloneSyllabus deep-copies a single syllabus record.
func CloneSyllabus(rec domain.SyllabusRecord) domain.SyllabusRecord {
	if rec.Subjects == nil {
		return rec
	}
	subjects := make([]domain.Subject, len(rec.Subjects))
	for i, subj := range rec.Subjects {
		subjects[i] = cloneSubject(subj)
	}
	rec.Subjects = subjects
	return rec
}

func cloneSubject(subj domain.Subject) domain.Subject {
	if subj.Chapters == nil {
		return subj
	}
	chapters := make([]domain.Chapter, len(subj.Chapters))
	for i, ch := range subj.Chapters {
		chapters[i] = cloneChapter(ch)
	}
	subj.Chapters = chapters
	return subj
}

func cloneChapter(ch domain.Chapter) domain.Chapter {
	if ch.Topics == nil {
		return ch
	}
	topics := make([]domain.Topic, len(ch.Topics))
	for i, t := range ch.Topics {
		topics[i] = cloneTopic(t)
	}
	ch.Topics = topics
	return ch
}

func cloneTopic(t domain.Topic) domain.Topic {
	t.Questions = CloneQuestions(t.Questions)
	return t
}

// CloneQuestions deep-copies a question list, including options and hints.
func CloneQuestions(qs []domain.Question) []domain.Question {
	if qs == nil {
		return nil
	}
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		q.Options = cloneStrings(q.Options)
		q.Hints = cloneStrings(q.Hints)
		out[i] = q
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// ClearLoading returns a copy of lib with every isLoading flag cleared.
// Used at startup, when no generation call can still be in flight.
func ClearLoading(lib domain.Library) domain.Library {
	out := Clone(lib)
	for i := range out {
		for j := range out[i].Subjects {
			for k := range out[i].Subjects[j].Chapters {
				topics := out[i].Subjects[j].Chapters[k].Topics
				for t := range topics {
					topics[t].IsLoading = false
				}
			}
		}
	}
	return out
}
