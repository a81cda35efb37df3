package diagram

import (
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"
)

type plotKind int

const (
	plotLine plotKind = iota
	plotBar
	plotPie
	plotScatter
)

func choosePlot(lower string) plotKind {
	switch {
	case containsAny(lower, "bar", "histogram"):
		return plotBar
	case containsAny(lower, "pie"):
		return plotPie
	case containsAny(lower, "scatter"):
		return plotScatter
	default:
		return plotLine
	}
}

type curve struct {
	name string
	fn   func(float64) float64
}

// 按顺序匹配，先命中者胜出。cosine 必须先于 sine 判断，否则 "cosine" 会命中子串 "sin"
var curves = []struct {
	keywords []string
	curve    curve
}{
	{[]string{"cosine", "cos"}, curve{"Cosine Wave", math.Cos}},
	{[]string{"sine", "sin"}, curve{"Sine Wave", math.Sin}},
	{[]string{"exponential", "exp"}, curve{"Exponential Function", func(x float64) float64 { return math.Exp(x/5) / math.Exp(2) }}},
	{[]string{"log", "logarithm"}, curve{"Logarithmic Function", func(x float64) float64 { return math.Log(x + 1) }}},
	{[]string{"parabola", "quadratic"}, curve{"Quadratic Function", func(x float64) float64 { return x * x / 10 }}},
}

var linearCurve = curve{"Linear Function", func(x float64) float64 { return x / 2 }}

func chooseCurve(lower string) curve {
	for _, entry := range curves {
		if containsAny(lower, entry.keywords...) {
			return entry.curve
		}
	}
	return linearCurve
}

var categories = []string{"A", "B", "C", "D", "E"}

// barValues 为每个类别取 [10, 99] 的整数
func barValues(rng interface{ IntN(int) int }) []float64 {
	values := make([]float64, len(categories))
	for i := range values {
		values[i] = float64(10 + rng.IntN(90))
	}
	return values
}

// pieShares returns four random proportions that sum to one.
func pieShares(rng interface{ Float64() float64 }) []float64 {
	shares := make([]float64, 4)
	var total float64
	for i := range shares {
		shares[i] = rng.Float64()
		total += shares[i]
	}
	if total == 0 {
		for i := range shares {
			shares[i] = 0.25
		}
		return shares
	}
	for i := range shares {
		shares[i] /= total
	}
	return shares
}

const scatterPoints = 30

// scatterSample 取 scatterPoints 个 [0,1) 均匀随机点，先 x 后 y
func scatterSample(rng interface{ Float64() float64 }) ([]float64, []float64) {
	xs, ys := make([]float64, scatterPoints), make([]float64, scatterPoints)
	for i := range xs {
		xs[i] = rng.Float64()
	}
	for i := range ys {
		ys[i] = rng.Float64()
	}
	return xs, ys
}

func drawPlot(c *canvas, s scene) string {
	kind := choosePlot(s.lower)

	var name string
	switch kind {
	case plotBar:
		name = "Bar Chart"
		values := barValues(s.rng)
		ax := newAxes(c, -0.6, float64(len(values))-0.4, 0, maxOf(values)*1.05)
		ax.frame(c, "Categories", "Values", false, false)
		for i, v := range values {
			c.SetHexColor(palette[0])
			x0, x1 := ax.px(float64(i)-0.4), ax.px(float64(i)+0.4)
			c.DrawRectangle(x0, ax.py(v), x1-x0, ax.py(0)-ax.py(v))
			c.Fill()
			c.centered(categories[i], ax.px(float64(i)), ax.bottom+14, c.small, black)
		}
	case plotPie:
		name = "Pie Chart"
		drawPie(c, pieShares(s.rng))
	case plotScatter:
		name = "Scatter Plot"
		xs, ys := scatterSample(s.rng)
		ax := newAxes(c, minOf(xs), maxOf(xs), minOf(ys), maxOf(ys)).padded()
		ax.frame(c, "X-axis", "Y-axis", true, true)
		c.SetHexColor(palette[0])
		for i := range xs {
			c.DrawCircle(ax.px(xs[i]), ax.py(ys[i]), 3)
			c.Fill()
		}
	default:
		cv := chooseCurve(s.lower)
		name = cv.name
		const samples = 100
		xs, ys := make([]float64, samples), make([]float64, samples)
		for i := range xs {
			xs[i] = 10 * float64(i) / (samples - 1)
			ys[i] = cv.fn(xs[i])
		}
		ax := newAxes(c, 0, 10, minOf(ys), maxOf(ys)).padded()
		ax.frame(c, "X-axis", "Y-axis", true, true)
		c.SetHexColor(palette[0])
		c.SetLineWidth(2)
		c.NewSubPath()
		for i := range xs {
			if i == 0 {
				c.MoveTo(ax.px(xs[i]), ax.py(ys[i]))
				continue
			}
			c.LineTo(ax.px(xs[i]), ax.py(ys[i]))
		}
		c.Stroke()
	}

	title := fmt.Sprintf("Diagram %d: %s", s.index, name)
	c.heading(title)
	return title
}

func drawPie(c *canvas, shares []float64) {
	cx, cy := c.w/2, (c.h+40)/2
	r := math.Min(c.w, c.h-60) * 0.35
	// 从 12 点方向开始逆时针排布
	angle := -math.Pi / 2
	for i, share := range shares {
		sweep := share * 2 * math.Pi
		next := angle - sweep

		c.SetHexColor(palette[i%len(palette)])
		c.NewSubPath()
		c.MoveTo(cx, cy)
		c.DrawArc(cx, cy, r, angle, next)
		c.ClosePath()
		c.Fill()

		mid := angle - sweep/2
		c.centered(fmt.Sprintf("Category %s", categories[i]), cx+1.2*r*math.Cos(mid), cy+1.2*r*math.Sin(mid), c.small, black)
		c.centered(fmt.Sprintf("%.1f%%", share*100), cx+0.6*r*math.Cos(mid), cy+0.6*r*math.Sin(mid), c.small, black)
		angle = next
	}
}

// axes maps data coordinates onto the plotting rectangle of a canvas.
type axes struct {
	left, top, right, bottom float64
	xmin, xmax, ymin, ymax   float64
}

func newAxes(c *canvas, xmin, xmax, ymin, ymax float64) axes {
	if xmax <= xmin {
		xmin, xmax = xmin-1, xmax+1
	}
	if ymax <= ymin {
		ymin, ymax = ymin-1, ymax+1
	}
	return axes{
		left: 70, top: 60, right: c.w - 30, bottom: c.h - 60,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
	}
}

// padded 四周各留 5% 边距
func (a axes) padded() axes {
	dx, dy := (a.xmax-a.xmin)*0.05, (a.ymax-a.ymin)*0.05
	a.xmin, a.xmax = a.xmin-dx, a.xmax+dx
	a.ymin, a.ymax = a.ymin-dy, a.ymax+dy
	return a
}

func (a axes) px(x float64) float64 {
	return a.left + (x-a.xmin)/(a.xmax-a.xmin)*(a.right-a.left)
}

func (a axes) py(y float64) float64 {
	return a.bottom - (y-a.ymin)/(a.ymax-a.ymin)*(a.bottom-a.top)
}

func (a axes) frame(c *canvas, xLabel, yLabel string, xTicks, grid bool) {
	for _, v := range niceTicks(a.ymin, a.ymax, 6) {
		y := a.py(v)
		if grid {
			c.line(a.left, y, a.right, y, 0.5, lightGray)
		}
		c.line(a.left-4, y, a.left, y, 1, black)
		c.SetFontFace(c.small)
		c.SetColor(black)
		c.DrawStringAnchored(tickLabel(v), a.left-8, y, 1, 0.5)
	}
	if xTicks {
		for _, v := range niceTicks(a.xmin, a.xmax, 6) {
			x := a.px(v)
			if grid {
				c.line(x, a.top, x, a.bottom, 0.5, lightGray)
			}
			c.line(x, a.bottom, x, a.bottom+4, 1, black)
			c.centered(tickLabel(v), x, a.bottom+14, c.small, black)
		}
	}

	c.rect(a.left, a.top, a.right, a.bottom, nil, black, 1)
	c.centered(xLabel, (a.left+a.right)/2, a.bottom+38, c.normal, black)

	c.Push()
	c.RotateAbout(gg.Radians(-90), 20, (a.top+a.bottom)/2)
	c.centered(yLabel, 20, (a.top+a.bottom)/2, c.normal, black)
	c.Pop()
}

// niceTicks 取 1/2/5×10^n 步长的刻度
func niceTicks(lo, hi float64, maxTicks int) []float64 {
	if hi <= lo || maxTicks < 2 {
		return []float64{lo}
	}
	step := niceNum((hi - lo) / float64(maxTicks-1))
	var ticks []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step*1e-9; v += step {
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

func niceNum(x float64) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case f < 1.5:
		nf = 1
	case f < 3:
		nf = 2
	case f < 7:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

func tickLabel(v float64) string {
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

func minOf(values []float64) float64 {
	m := math.Inf(1)
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
