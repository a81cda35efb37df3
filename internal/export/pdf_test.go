package export

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/internal/diagram"
	"examprep-backend/internal/model"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testExporter() *Exporter {
	e := NewExporter(config.ExportConfig{PageSize: "Letter", ImageWidth: 300, ImageHeight: 200})
	e.now = func() time.Time { return time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC) }
	return e
}

func renderDiagram(t *testing.T, desc string, index int) *diagram.Diagram {
	t.Helper()
	r, err := diagram.NewRenderer(diagram.Options{})
	require.NoError(t, err)
	d, err := r.Render(diagram.Request{Description: desc, Index: index}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return d
}

func pageCount(t *testing.T, b []byte) int {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	return r.NumPage()
}

func TestExport_WritesReadablePDF(t *testing.T) {
	questions := []model.Question{
		{
			Question:   "Calculate the resistance of the circuit. [See Diagram 1]",
			Topic:      "Electricity",
			Difficulty: "Hard",
			MarkScheme: "V = IR [1]\nR = 6 Ω [1]",
			Diagrams:   []*diagram.Diagram{renderDiagram(t, "circuit with a battery and resistor", 1)},
		},
		{Question: "Define speed."},
	}

	b, err := testExporter().Export(questions)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
	assert.GreaterOrEqual(t, pageCount(t, b), 1)
}

func TestExport_EmptyList(t *testing.T) {
	b, err := testExporter().Export(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(t, b))
}

func TestExport_DiagramsFlowOntoNewPages(t *testing.T) {
	var diagrams []*diagram.Diagram
	for i := 1; i <= 4; i++ {
		diagrams = append(diagrams, renderDiagram(t, "graph of a quadratic", i))
	}
	questions := []model.Question{{Question: strings.Repeat("Long question text. ", 40), Diagrams: diagrams}}

	b, err := testExporter().Export(questions)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(t, b), 2)
}

func TestExport_SkipsUndecodableImage(t *testing.T) {
	questions := []model.Question{{
		Question: "Broken image",
		Diagrams: []*diagram.Diagram{{Index: 1, PNG: []byte("not a png")}},
	}}
	b, err := testExporter().Export(questions)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestDifficultyInk(t *testing.T) {
	assert.Equal(t, inkGreen, difficultyInk("Easy"))
	assert.Equal(t, inkOrange, difficultyInk("Medium"))
	assert.Equal(t, inkRed, difficultyInk("Hard"))
	assert.Equal(t, inkBlack, difficultyInk("Impossible"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "IGCSE_Physics_questions.pdf", FileName("IGCSE", "Physics"))
}
