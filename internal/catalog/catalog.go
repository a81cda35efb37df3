// Package catalog holds the static curriculum data offered in the UI:
// levels, subjects, topics, question formats and difficulty options.
package catalog

import (
	"github.com/samber/lo"
)

const (
	Mixed          = "Mixed"
	GeneralTopic   = "General Curriculum"
	DefaultCount   = 3
	MinCount       = 1
	MaxCount       = 10
	DefaultFormat  = Mixed
	DefaultDiff    = Mixed
	DefaultLevel   = "IGCSE"
	DefaultSubject = "Mathematics"
)

var levels = []string{"IGCSE", "A-Level"}

var subjects = map[string][]string{
	"IGCSE": {
		"Mathematics", "Physics", "Chemistry", "Biology",
		"English Language", "English Literature", "Computer Science",
		"Business Studies", "Economics", "Geography", "History",
	},
	"A-Level": {
		"Mathematics", "Further Mathematics", "Physics", "Chemistry", "Biology",
		"English Literature", "Computer Science", "Economics",
		"Business", "Psychology", "Sociology", "Geography", "History",
	},
}

// topics 以 "<level> <subject>" 为键，未收录的组合回退到 GeneralTopic
var topics = map[string][]string{
	"IGCSE Mathematics": {
		"Number", "Algebra", "Geometry", "Statistics and Probability",
		"Functions", "Vectors and Transformations", "Calculus",
	},
	"IGCSE Physics": {
		"Mechanics", "Thermal Physics", "Waves", "Electricity and Magnetism",
		"Modern Physics", "Energy", "Radioactivity",
	},
	"IGCSE Chemistry": {
		"Atomic Structure", "Bonding", "Periodic Table", "Chemical Reactions",
		"Acids and Bases", "Organic Chemistry", "Quantitative Chemistry",
	},
	"IGCSE Biology": {
		"Cell Biology", "Human Biology", "Plant Biology", "Ecology",
		"Genetics", "Evolution", "Microbiology",
	},
	"A-Level Mathematics": {
		"Pure Mathematics", "Calculus", "Mechanics", "Statistics",
		"Probability", "Vectors", "Differential Equations",
	},
	"A-Level Physics": {
		"Mechanics", "Materials", "Waves", "Electricity", "Magnetism",
		"Nuclear Physics", "Particle Physics", "Quantum Physics", "Thermodynamics",
	},
	"A-Level Chemistry": {
		"Physical Chemistry", "Inorganic Chemistry", "Organic Chemistry",
		"Analytical Chemistry", "Thermodynamics", "Electrochemistry", "Kinetics",
	},
	"A-Level Biology": {
		"Cell Biology", "Molecular Biology", "Genetics", "Ecology",
		"Human Physiology", "Plant Biology", "Evolution", "Biochemistry",
	},
}

// Format is a question style together with the instruction sentence sent to
// the model when every question must use it.
type Format struct {
	Name        string `json:"name"`
	Instruction string `json:"instruction"`
}

var formats = []Format{
	{"Multiple Choice", "Generate a multiple choice question with 4 options (A, B, C, D) and one correct answer."},
	{"Short Answer", "Generate a question requiring a short answer (1-2 sentences)."},
	{"Calculation", "Generate a question requiring mathematical calculation and working."},
	{"Extended Response", "Generate a question requiring an extended response (paragraph or essay)."},
	{"Practical", "Generate a question about experimental design or interpretation of results."},
}

var difficulties = []string{Mixed, "Easy", "Medium", "Hard"}

func Levels() []string {
	return append([]string(nil), levels...)
}

// Subjects returns the subjects offered at a level, or nil for an unknown level.
func Subjects(level string) []string {
	list, ok := subjects[level]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}

func Key(level, subject string) string {
	return level + " " + subject
}

// Topics returns the syllabus topics for a level and subject. Combinations
// without a curated list get a single general topic.
func Topics(level, subject string) []string {
	list, ok := topics[Key(level, subject)]
	if !ok {
		return []string{GeneralTopic}
	}
	return append([]string(nil), list...)
}

// Formats 按展示顺序返回，Mixed 不在其中
func Formats() []Format {
	return append([]Format(nil), formats...)
}

func FormatNames() []string {
	return append([]string{Mixed}, lo.Map(formats, func(f Format, _ int) string { return f.Name })...)
}

// FormatInstruction returns the prompt sentence for a named format.
func FormatInstruction(name string) (string, bool) {
	f, ok := lo.Find(formats, func(f Format) bool { return f.Name == name })
	return f.Instruction, ok
}

func Difficulties() []string {
	return append([]string(nil), difficulties...)
}

func IsLevel(level string) bool {
	return lo.Contains(levels, level)
}

func IsSubject(level, subject string) bool {
	return lo.Contains(subjects[level], subject)
}

func IsDifficulty(d string) bool {
	return lo.Contains(difficulties, d)
}

func IsFormat(name string) bool {
	return name == Mixed || lo.ContainsBy(formats, func(f Format) bool { return f.Name == name })
}

// FilterTopics keeps the requested topics that belong to the level and
// subject, in request order and without duplicates.
func FilterTopics(level, subject string, requested []string) []string {
	allowed := Topics(level, subject)
	return lo.Uniq(lo.Filter(requested, func(t string, _ int) bool {
		return lo.Contains(allowed, t)
	}))
}
