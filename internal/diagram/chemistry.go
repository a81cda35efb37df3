package diagram

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type element struct {
	name   string
	symbol string
	shells []int
}

// 按列表顺序匹配，先出现者优先
var elements = []element{
	{"Hydrogen", "H", []int{1}},
	{"Helium", "He", []int{2}},
	{"Lithium", "Li", []int{2, 1}},
	{"Beryllium", "Be", []int{2, 2}},
	{"Boron", "B", []int{2, 3}},
	{"Carbon", "C", []int{2, 4}},
	{"Nitrogen", "N", []int{2, 5}},
	{"Oxygen", "O", []int{2, 6}},
	{"Fluorine", "F", []int{2, 7}},
	{"Neon", "Ne", []int{2, 8}},
	{"Sodium", "Na", []int{2, 8, 1}},
	{"Magnesium", "Mg", []int{2, 8, 2}},
}

var shellRadii = []float64{70, 120, 170}

// LookupElement finds the first known element named in the description and
// returns its electron shell occupancy. Carbon is the fallback.
func LookupElement(description string) (string, []int) {
	e := findElement(description)
	return e.name, append([]int(nil), e.shells...)
}

func findElement(description string) element {
	lower := strings.ToLower(description)
	for _, e := range elements {
		if strings.Contains(lower, strings.ToLower(e.name)) {
			return e
		}
	}
	return elements[5]
}

type molecule struct {
	key     string
	formula string
}

var molecules = []molecule{
	{"water", "H2O"},
	{"carbon dioxide", "CO2"},
	{"methane", "CH4"},
	{"glucose", "C6H12O6"},
	{"ammonia", "NH3"},
	{"oxygen", "O2"},
}

// LookupMolecule returns the display name and formula of the first known
// molecule named in the description, defaulting to water.
func LookupMolecule(description string) (string, string) {
	lower := strings.ToLower(description)
	for _, m := range molecules {
		if strings.Contains(lower, m.key) {
			return strings.ToUpper(m.key[:1]) + m.key[1:], m.formula
		}
	}
	return "Water", "H2O"
}

type reactionKind int

const (
	reactionGeneric reactionKind = iota
	reactionCombustion
	reactionAcidBase
	reactionPrecipitation
)

func chooseReaction(lower string) reactionKind {
	switch {
	case containsAny(lower, "combustion"):
		return reactionCombustion
	case containsAny(lower, "acid") && containsAny(lower, "base"):
		return reactionAcidBase
	case containsAny(lower, "precipitation"):
		return reactionPrecipitation
	default:
		return reactionGeneric
	}
}

func drawChemistry(c *canvas, s scene) string {
	c.border()

	var title string
	switch {
	case containsAny(s.lower, "atom"):
		e := findElement(s.lower)
		title = fmt.Sprintf("%s Atom Diagram %d", e.name, s.index)
		drawAtom(c, e)
	case containsAny(s.lower, "molecule", "compound"):
		name, formula := LookupMolecule(s.lower)
		title = fmt.Sprintf("%s (%s) Molecule Diagram %d", name, formula, s.index)
		drawMolecule(c, chooseMoleculeFigure(s.lower))
		w := c.formulaWidth(formula, c.title, c.normal)
		c.formula(formula, c.w/2-w/2, c.h-40, c.title, c.normal, black)
	case containsAny(s.lower, "reaction"):
		title = fmt.Sprintf("Chemical Reaction Diagram %d", s.index)
		drawReaction(c, chooseReaction(s.lower))
		c.centered("Reaction conditions: Standard temp & pressure", c.w/2, c.h-40, c.normal, black)
	default:
		title = fmt.Sprintf("Chemistry Diagram %d", s.index)
		c.paragraph(s.desc, c.w/2-150, c.h/2, c.w/2+120, 25, c.normal)
	}

	c.heading(title)
	return title
}

// drawAtom 画玻尔模型：核、至多三层轨道、每层电子均匀分布
func drawAtom(c *canvas, e element) {
	ax, ay := c.w/2, c.h/2

	for i, n := range e.shells {
		if i >= len(shellRadii) {
			break
		}
		r := shellRadii[i]
		c.ellipse(ax-r, ay-r, ax+r, ay+r, nil, blue, 2)
		for k := 0; k < n; k++ {
			angle := float64(k) * 2 * math.Pi / float64(n)
			ex, ey := ax+r*math.Cos(angle), ay+r*math.Sin(angle)
			c.ellipse(ex-5, ey-5, ex+5, ey+5, blue, black, 1)
		}
	}

	c.ellipse(ax-25, ay-25, ax+25, ay+25, red, black, 2)
	c.centered(e.symbol, ax, ay, c.normal, white)

	config := strings.Join(lo.Map(e.shells, func(n int, _ int) string { return strconv.Itoa(n) }), " - ")
	c.centered("Electron configuration: "+config, c.w/2, c.h-40, c.normal, black)
}

func atom(c *canvas, x, y, r float64, fill color.Color, symbol string, ink color.Color) {
	c.ellipse(x-r, y-r, x+r, y+r, fill, black, 2)
	c.centered(symbol, x, y, c.normal, ink)
}

type moleculeFigure int

const (
	figureStar moleculeFigure = iota
	figureWater
	figureCarbonDioxide
)

// chooseMoleculeFigure 只有描述中明确提到 water / carbon dioxide 才画专用图；
// 未识别的分子标题仍回退为水，但图形是通用星形
func chooseMoleculeFigure(lower string) moleculeFigure {
	switch {
	case strings.Contains(lower, "water"):
		return figureWater
	case strings.Contains(lower, "carbon dioxide"):
		return figureCarbonDioxide
	default:
		return figureStar
	}
}

func drawMolecule(c *canvas, figure moleculeFigure) {
	mx, my := c.w/2, c.h/2

	switch figure {
	case figureWater:
		h1x, h1y := mx-60, my-20
		h2x, h2y := mx-60, my+20
		c.line(mx-25, my-10, h1x+15, h1y, 2, black)
		c.line(mx-25, my+10, h2x+15, h2y, 2, black)
		atom(c, mx, my, 25, red, "O", white)
		atom(c, h1x, h1y, 15, lightBlue, "H", black)
		atom(c, h2x, h2y, 15, lightBlue, "H", black)
	case figureCarbonDioxide:
		o1x, o2x := mx-70, mx+70
		// 双键
		for _, dy := range []float64{-5, 5} {
			c.line(mx-20, my+dy, o1x+20, my+dy, 2, black)
			c.line(mx+20, my+dy, o2x-20, my+dy, 2, black)
		}
		atom(c, mx, my, 20, gray, "C", white)
		atom(c, o1x, my, 20, red, "O", white)
		atom(c, o2x, my, 20, red, "O", white)
	default:
		// 其他分子统一画成中心原子加四个配位原子
		ligands := []struct {
			dx, dy float64
			fill   color.Color
			symbol string
		}{
			{0, -80, red, "O"},
			{-70, 40, blue, "N"},
			{70, 40, lightBlue, "H"},
			{0, 80, red, "O"},
		}
		for _, l := range ligands {
			c.line(mx, my, mx+l.dx, my+l.dy, 2, black)
		}
		c.ellipse(mx-30, my-30, mx+30, my+30, gray, black, 2)
		for _, l := range ligands {
			atom(c, mx+l.dx, my+l.dy, 20, l.fill, l.symbol, white)
		}
	}
}

type term struct {
	formula string
	ink     color.Color
	// precipitate 在式子后画向下箭头
	precipitate bool
}

func reactionTerms(kind reactionKind) ([]term, []term) {
	switch kind {
	case reactionCombustion:
		return []term{{"CH4", black, false}, {"2O2", black, false}},
			[]term{{"CO2", black, false}, {"2H2O", black, false}}
	case reactionAcidBase:
		return []term{{"HCl", red, false}, {"NaOH", blue, false}},
			[]term{{"NaCl", black, false}, {"H2O", black, false}}
	case reactionPrecipitation:
		return []term{{"AgNO3", black, false}, {"NaCl", black, false}},
			[]term{{"AgCl", brown, true}, {"NaNO3", black, false}}
	default:
		return []term{{"A", blue, false}, {"B", red, false}},
			[]term{{"C", green, false}, {"D", purple, false}}
	}
}

// drawReaction lays the equation out on one centred line with an arrow
// between reactants and products, then adds the per-kind decorations.
func drawReaction(c *canvas, kind reactionKind) {
	reactants, products := reactionTerms(kind)
	const (
		gap      = 16.0
		arrowLen = 90.0
		arrowCap = 14.0
	)
	y := 150.0

	c.SetFontFace(c.title)
	plusW, _ := c.MeasureString("+")
	termWidth := func(t term) float64 {
		w := c.formulaWidth(t.formula, c.title, c.normal)
		if t.precipitate {
			w += arrowCap
		}
		return w
	}
	side := func(ts []term) float64 {
		w := plusW + 2*gap
		for _, t := range ts {
			w += termWidth(t)
		}
		return w
	}
	total := side(reactants) + 2*gap + arrowLen + side(products)
	x := (c.w - total) / 2

	drawSide := func(ts []term) {
		for i, t := range ts {
			if i > 0 {
				c.centered("+", x+gap+plusW/2, y, c.title, black)
				x += plusW + 2*gap
			}
			x += c.formula(t.formula, x, y, c.title, c.normal, t.ink)
			if t.precipitate {
				c.arrow(x+arrowCap/2, y-12, x+arrowCap/2, y+12, 2, t.ink)
				for j := 0; j < 8; j++ {
					px := x - 30 + float64(j*5)
					py := y + 70 + float64((j%3)*10)
					c.rect(px-3, py-3, px+3, py+3, brown, nil, 0)
				}
				x += arrowCap
			}
		}
	}

	drawSide(reactants)
	x += gap
	arrowStart := x
	c.arrow(x, y, x+arrowLen, y, 3, black)
	x += arrowLen + gap
	drawSide(products)

	if kind == reactionCombustion {
		mid := arrowStart + arrowLen/2
		c.centered("heat", mid, y-25, c.normal, red)
		for i := 0; i < 5; i++ {
			fx := mid - 20 + float64(i*10)
			c.line(fx, y+30, fx, y+50, 2, red)
			c.line(fx, y+30, fx-5, y+20, 2, orange)
			c.line(fx, y+30, fx+5, y+20, 2, orange)
		}
	}
}
