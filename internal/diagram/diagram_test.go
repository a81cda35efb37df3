package diagram

import (
	"bytes"
	"image/png"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(Options{})
	require.NoError(t, err)
	return r
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestRender_EveryStrategyProducesPNG(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		desc      string
		strategy  Strategy
		wantTitle string
	}{
		{"graph of a cosine curve", StrategyPlot, "Diagram 1: Cosine Wave"},
		{"bar graph of rainfall", StrategyPlot, "Diagram 1: Bar Chart"},
		{"pie chart plot of votes", StrategyPlot, "Diagram 1: Pie Chart"},
		{"scatter plot of heights", StrategyPlot, "Diagram 1: Scatter Plot"},
		{"plot of a straight line", StrategyPlot, "Diagram 1: Linear Function"},
		{"circuit with battery, resistor, lamp and switch", StrategyCircuit, "Circuit Diagram 1"},
		{"equilateral triangle", StrategyGeometry, "Diagram 1: Equilateral Triangle"},
		{"right triangle", StrategyGeometry, "Diagram 1: Right-angled Triangle"},
		{"a square", StrategyGeometry, "Diagram 1: Square"},
		{"a rectangle", StrategyGeometry, "Diagram 1: Rectangle"},
		{"circle with radius", StrategyGeometry, "Diagram 1: Circle"},
		{"plant cell", StrategyBiology, "Cell Diagram 1"},
		{"animal cell", StrategyBiology, "Cell Diagram 1"},
		{"heart organ", StrategyBiology, "Heart Diagram 1"},
		{"brain organ", StrategyBiology, "Brain Diagram 1"},
		{"liver organ", StrategyBiology, "Organ Diagram 1"},
		{"flowering plant", StrategyBiology, "Plant Diagram 1"},
		{"animal migration", StrategyBiology, "Biology Diagram 1"},
		{"sodium atom", StrategyChemistry, "Sodium Atom Diagram 1"},
		{"carbon dioxide molecule", StrategyChemistry, "Carbon dioxide (CO2) Molecule Diagram 1"},
		{"glucose compound", StrategyChemistry, "Glucose (C6H12O6) Molecule Diagram 1"},
		{"combustion reaction", StrategyChemistry, "Chemical Reaction Diagram 1"},
		{"acid base reaction", StrategyChemistry, "Chemical Reaction Diagram 1"},
		{"precipitation reaction", StrategyChemistry, "Chemical Reaction Diagram 1"},
		{"a map of the coastline", StrategyText, "Diagram 1"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d, err := r.Render(Request{Description: tt.desc, Index: 1}, seeded(7))
			require.NoError(t, err)

			assert.Equal(t, tt.strategy, d.Strategy)
			assert.Equal(t, tt.wantTitle, d.Title)

			img, err := png.Decode(bytes.NewReader(d.PNG))
			require.NoError(t, err)
			assert.Equal(t, DefaultWidth, img.Bounds().Dx())
			assert.Equal(t, DefaultHeight, img.Bounds().Dy())
		})
	}
}

func TestRender_SizeAndIndexDefaults(t *testing.T) {
	r, err := NewRenderer(Options{Width: 320, Height: 240})
	require.NoError(t, err)

	d, err := r.Render(Request{Description: "anything", Index: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Index)
	assert.Equal(t, 320, d.Width)
	assert.Equal(t, 240, d.Height)

	d, err = r.Render(Request{Description: "anything", Index: 4, Width: 800, Height: 500}, nil)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(d.PNG))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())
	assert.Equal(t, "Diagram 4", d.Title)
}

func TestRender_StableStrategyAndTitle(t *testing.T) {
	r := newTestRenderer(t)

	for _, desc := range []string{"bar graph", "liver organ", "plant cell", "flowering plant"} {
		first, err := r.Render(Request{Description: desc, Index: 3}, seeded(1))
		require.NoError(t, err)
		second, err := r.Render(Request{Description: desc, Index: 3}, seeded(2))
		require.NoError(t, err)

		assert.Equal(t, first.Strategy, second.Strategy, desc)
		assert.Equal(t, first.Title, second.Title, desc)
	}
}

func TestRender_SameSeedSameImage(t *testing.T) {
	r := newTestRenderer(t)

	a, err := r.Render(Request{Description: "pie chart plot", Index: 1}, seeded(11))
	require.NoError(t, err)
	b, err := r.Render(Request{Description: "pie chart plot", Index: 1}, seeded(11))
	require.NoError(t, err)
	assert.Equal(t, a.PNG, b.PNG)
}

func TestNewRenderer_MissingFont(t *testing.T) {
	_, err := NewRenderer(Options{FontPath: "/nonexistent/font.ttf"})
	assert.Error(t, err)
}

func TestLookupElement(t *testing.T) {
	name, shells := LookupElement("Draw an oxygen atom")
	assert.Equal(t, "Oxygen", name)
	assert.Equal(t, []int{2, 6}, shells)

	name, shells = LookupElement("an atom")
	assert.Equal(t, "Carbon", name)
	assert.Equal(t, []int{2, 4}, shells)

	name, shells = LookupElement("MAGNESIUM atom")
	assert.Equal(t, "Magnesium", name)
	assert.Equal(t, []int{2, 8, 2}, shells)
}

func TestLookupMolecule(t *testing.T) {
	name, formula := LookupMolecule("ammonia molecule")
	assert.Equal(t, "Ammonia", name)
	assert.Equal(t, "NH3", formula)

	name, formula = LookupMolecule("some compound")
	assert.Equal(t, "Water", name)
	assert.Equal(t, "H2O", formula)
}

func TestAngleDegrees(t *testing.T) {
	assert.Equal(t, 60, AngleDegrees("angle of 60"))
	assert.Equal(t, 120, AngleDegrees("an angle of 120 degrees"))
	assert.Equal(t, 45, AngleDegrees("an acute angle"))

	r := newTestRenderer(t)
	d, err := r.Render(Request{Description: "angle of 60", Index: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Diagram 2: Angle 60°", d.Title)
}

func TestChooseCurve(t *testing.T) {
	tests := []struct {
		desc string
		name string
		at   map[float64]float64
	}{
		{"sine wave", "Sine Wave", map[float64]float64{0: 0, math.Pi / 2: 1}},
		{"cosine wave", "Cosine Wave", map[float64]float64{0: 1, math.Pi: -1}},
		{"exponential growth", "Exponential Function", map[float64]float64{0: math.Exp(-2), 10: 1}},
		{"log curve", "Logarithmic Function", map[float64]float64{0: 0, math.E - 1: 1}},
		{"a parabola", "Quadratic Function", map[float64]float64{0: 0, 10: 10}},
		{"speed vs time", "Linear Function", map[float64]float64{0: 0, 10: 5}},
		// 先命中者胜出
		{"exponential and parabola", "Exponential Function", nil},
		{"log of a quadratic", "Logarithmic Function", nil},
		{"sine then exponential", "Sine Wave", nil},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cv := chooseCurve(tt.desc)
			assert.Equal(t, tt.name, cv.name)
			for x, want := range tt.at {
				assert.InDelta(t, want, cv.fn(x), 1e-9, "f(%v)", x)
			}
		})
	}
}

type countingSource struct {
	src   rand.Source
	draws int
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

func TestScatterPlotUsesThirtyPoints(t *testing.T) {
	xs, ys := scatterSample(seeded(5))
	require.Len(t, xs, 30)
	require.Len(t, ys, 30)
	for i := range xs {
		assert.True(t, xs[i] >= 0 && xs[i] < 1)
		assert.True(t, ys[i] >= 0 && ys[i] < 1)
	}

	src := &countingSource{src: rand.NewPCG(1, 2)}
	_, err := newTestRenderer(t).Render(Request{Description: "scatter plot", Index: 1}, rand.New(src))
	require.NoError(t, err)
	assert.Equal(t, 60, src.draws, "one x and one y per point")
}

func TestMoleculeFigure(t *testing.T) {
	assert.Equal(t, figureWater, chooseMoleculeFigure("water molecule"))
	assert.Equal(t, figureCarbonDioxide, chooseMoleculeFigure("carbon dioxide molecule"))
	assert.Equal(t, figureStar, chooseMoleculeFigure("methane molecule"))
	assert.Equal(t, figureStar, chooseMoleculeFigure("some compound"))

	r := newTestRenderer(t)
	unknown, err := r.Render(Request{Description: "some compound", Index: 1}, seeded(9))
	require.NoError(t, err)
	water, err := r.Render(Request{Description: "water molecule", Index: 1}, seeded(9))
	require.NoError(t, err)

	// 未识别的分子沿用水的标题，但不画水分子
	assert.Equal(t, water.Title, unknown.Title)
	assert.NotEqual(t, water.PNG, unknown.PNG)
}

func TestRender_ClampsOversizedCanvas(t *testing.T) {
	r := newTestRenderer(t)
	assert.Equal(t, DefaultMaxSide, r.MaxSide())

	d, err := r.Render(Request{Description: "a circle", Width: 6000, Height: 300}, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSide, d.Width)
	assert.Equal(t, 300, d.Height)

	small, err := NewRenderer(Options{Width: 800, Height: 600, MaxSide: 300})
	require.NoError(t, err)
	d, err = small.Render(Request{Description: "a circle"}, seeded(1))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(d.PNG))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestBarValuesAndPieShares(t *testing.T) {
	rng := seeded(3)
	for _, v := range barValues(rng) {
		assert.GreaterOrEqual(t, v, 10.0)
		assert.Less(t, v, 100.0)
	}

	var sum float64
	for _, s := range pieShares(rng) {
		sum += s
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNiceTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, niceTicks(0, 10, 6))
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1}, niceTicks(-1.1, 1.1, 6))
}

func TestSplitFormula(t *testing.T) {
	assert.Equal(t, []formulaSegment{
		{"2H", false}, {"2", true}, {"O", false},
	}, splitFormula("2H2O"))
	assert.Equal(t, []formulaSegment{
		{"C", false}, {"6", true}, {"H", false}, {"12", true}, {"O", false}, {"6", true},
	}, splitFormula("C6H12O6"))
}
