package aigen

import "fmt"

const classifyPrompt = `You are an academic syllabus analyst. Read the attached syllabus document named %q and
organize its content into subjects, chapters and topics.

Respond with ONLY a JSON object in the following format:
{
  "subjects": [
    {
      "name": "subject name",
      "chapters": [
        { "name": "chapter name", "topics": ["topic one", "topic two"] }
      ]
    }
  ]
}

Rules:
1. Use the names as they appear in the document, shortened only when they are very long
2. Every chapter must list at least one topic
3. Do not invent material that is not in the document
4. If the document is not a syllabus or cannot be read, respond with {"error": "short reason"}`

const generatePrompt = `You are an expert tutor writing practice questions.
Write %d questions about the topic %q for a student at the %q level studying in %s.
Use terminology, units and examples customary for that region's curriculum.

Respond with ONLY a JSON object in the following format:
{
  "questions": [
    {
      "text": "question text",
      "type": "multiple-choice",
      "options": ["option A", "option B", "option C", "option D"],
      "hints": ["a first nudge", "a stronger hint"],
      "solution": "the worked answer"
    }
  ]
}

Rules:
1. "type" is either "multiple-choice" or "descriptive"
2. Only multiple-choice questions have "options", with 3 to 5 entries
3. Give every question 1 to 3 progressive hints and a complete solution
4. Mix both types and vary the difficulty within the level`

func buildClassifyPrompt(docName string) string {
	return fmt.Sprintf(classifyPrompt, docName)
}

func buildGeneratePrompt(count int, topic, level, region string) string {
	return fmt.Sprintf(generatePrompt, count, topic, level, region)
}
