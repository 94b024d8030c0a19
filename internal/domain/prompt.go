package domain

// Task names the kind of text an Answerer is asked to produce.
type Task int

const (
	TaskQuestion Task = iota
	TaskArticleSummary
	TaskComparison
	TaskReadability
)

// Section is one titled block of source material.
type Section struct {
	Title string
	Text  string
}

// Prompt is a structured generation request. Answerers that talk to a
// language model render it to text; offline answerers read Sections.
type Prompt struct {
	Task     Task
	Lang     Lang
	Question string
	Sections []Section
}
