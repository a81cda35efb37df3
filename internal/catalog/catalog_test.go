package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopics(t *testing.T) {
	assert.Contains(t, Topics("IGCSE", "Physics"), "Radioactivity")
	assert.Equal(t, []string{GeneralTopic}, Topics("IGCSE", "History"))
	assert.Equal(t, []string{GeneralTopic}, Topics("Nope", "Nothing"))
}

func TestTopics_ReturnsCopy(t *testing.T) {
	list := Topics("A-Level", "Biology")
	list[0] = "mutated"
	assert.Equal(t, "Cell Biology", Topics("A-Level", "Biology")[0])
}

func TestSubjects(t *testing.T) {
	assert.Contains(t, Subjects("A-Level"), "Further Mathematics")
	assert.NotContains(t, Subjects("IGCSE"), "Further Mathematics")
	assert.Nil(t, Subjects("GCSE"))
	assert.True(t, IsSubject("IGCSE", "Business Studies"))
	assert.False(t, IsSubject("A-Level", "Business Studies"))
}

func TestFormats(t *testing.T) {
	names := FormatNames()
	assert.Equal(t, Mixed, names[0])
	assert.Len(t, names, 6)

	sentence, ok := FormatInstruction("Calculation")
	assert.True(t, ok)
	assert.Equal(t, "Generate a question requiring mathematical calculation and working.", sentence)

	_, ok = FormatInstruction(Mixed)
	assert.False(t, ok)

	assert.True(t, IsFormat(Mixed))
	assert.True(t, IsFormat("Practical"))
	assert.False(t, IsFormat("Essay"))
}

func TestDifficulties(t *testing.T) {
	assert.Equal(t, []string{"Mixed", "Easy", "Medium", "Hard"}, Difficulties())
	assert.True(t, IsDifficulty("Hard"))
	assert.False(t, IsDifficulty("hard"))
}

func TestFilterTopics(t *testing.T) {
	got := FilterTopics("IGCSE", "Mathematics", []string{"Algebra", "Quantum Physics", "Number", "Algebra"})
	assert.Equal(t, []string{"Algebra", "Number"}, got)

	assert.Equal(t, []string{GeneralTopic}, FilterTopics("IGCSE", "History", []string{GeneralTopic}))
	assert.Empty(t, FilterTopics("IGCSE", "Mathematics", nil))
}
