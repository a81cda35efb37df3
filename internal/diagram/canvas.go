package diagram

import (
	"bytes"
	"image/color"
	"math"
	"unicode"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

var (
	black      = color.RGBA{0, 0, 0, 255}
	white      = color.RGBA{255, 255, 255, 255}
	red        = color.RGBA{255, 0, 0, 255}
	green      = color.RGBA{0, 128, 0, 255}
	blue       = color.RGBA{0, 0, 255, 255}
	purple     = color.RGBA{128, 0, 128, 255}
	brown      = color.RGBA{165, 42, 42, 255}
	gray       = color.RGBA{128, 128, 128, 255}
	lightGray  = color.RGBA{220, 220, 220, 255}
	orange     = color.RGBA{255, 165, 0, 255}
	yellow     = color.RGBA{255, 255, 0, 255}
	lightGreen = color.RGBA{144, 238, 144, 255}
	lightBlue  = color.RGBA{173, 216, 230, 255}
)

// tab10 配色，用于统计图
var palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b", "#e377c2", "#7f7f7f"}

// canvas wraps a gg context with the three font sizes every strategy uses.
// Faces are built per canvas because truetype faces cache glyphs and are not
// safe for concurrent use.
type canvas struct {
	*gg.Context
	w, h   float64
	title  font.Face
	normal font.Face
	small  font.Face
}

func (r *Renderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func (r *Renderer) newCanvas(width, height int) *canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(white)
	dc.Clear()
	return &canvas{
		Context: dc,
		w:       float64(width),
		h:       float64(height),
		title:   r.face(24),
		normal:  r.face(18),
		small:   r.face(14),
	}
}

func (c *canvas) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *canvas) border() {
	c.rect(10, 10, c.w-10, c.h-10, nil, black, 2)
}

// text 以左上角为锚点绘制
func (c *canvas) text(s string, x, y float64, face font.Face, col color.Color) {
	c.SetFontFace(face)
	c.SetColor(col)
	c.DrawStringAnchored(s, x, y, 0, 1)
}

func (c *canvas) centered(s string, x, y float64, face font.Face, col color.Color) {
	c.SetFontFace(face)
	c.SetColor(col)
	c.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

func (c *canvas) heading(s string) {
	c.SetFontFace(c.title)
	c.SetColor(black)
	c.DrawStringAnchored(s, c.w/2, 20, 0.5, 1)
}

// paragraph 按画布宽度折行，返回下一行的 y
func (c *canvas) paragraph(s string, x, y, maxWidth, lineHeight float64, face font.Face) float64 {
	c.SetFontFace(face)
	for _, line := range c.WordWrap(s, maxWidth) {
		c.text(line, x, y, face, black)
		y += lineHeight
	}
	return y
}

func (c *canvas) line(x1, y1, x2, y2, width float64, col color.Color) {
	c.SetColor(col)
	c.SetLineWidth(width)
	c.DrawLine(x1, y1, x2, y2)
	c.Stroke()
}

func (c *canvas) rect(x0, y0, x1, y1 float64, fill, outline color.Color, width float64) {
	if fill != nil {
		c.SetColor(fill)
		c.DrawRectangle(x0, y0, x1-x0, y1-y0)
		c.Fill()
	}
	if outline != nil {
		c.SetColor(outline)
		c.SetLineWidth(width)
		c.DrawRectangle(x0, y0, x1-x0, y1-y0)
		c.Stroke()
	}
}

// ellipse 接受外接矩形
func (c *canvas) ellipse(x0, y0, x1, y1 float64, fill, outline color.Color, width float64) {
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2, (y1-y0)/2
	if fill != nil {
		c.SetColor(fill)
		c.DrawEllipse(cx, cy, rx, ry)
		c.Fill()
	}
	if outline != nil {
		c.SetColor(outline)
		c.SetLineWidth(width)
		c.DrawEllipse(cx, cy, rx, ry)
		c.Stroke()
	}
}

func (c *canvas) polygon(pts []gg.Point, fill, outline color.Color, width float64) {
	trace := func() {
		c.NewSubPath()
		for i, p := range pts {
			if i == 0 {
				c.MoveTo(p.X, p.Y)
				continue
			}
			c.LineTo(p.X, p.Y)
		}
		c.ClosePath()
	}
	if fill != nil {
		c.SetColor(fill)
		trace()
		c.Fill()
	}
	if outline != nil {
		c.SetColor(outline)
		c.SetLineWidth(width)
		trace()
		c.Stroke()
	}
}

// arc draws the part of the bounding-box ellipse between two angles given in
// degrees clockwise from three o'clock. An end angle below the start wraps a
// full turn.
func (c *canvas) arc(x0, y0, x1, y1, start, end float64, col color.Color, width float64) {
	for end < start {
		end += 360
	}
	c.NewSubPath()
	c.SetColor(col)
	c.SetLineWidth(width)
	c.DrawEllipticalArc((x0+x1)/2, (y0+y1)/2, (x1-x0)/2, (y1-y0)/2, gg.Radians(start), gg.Radians(end))
	c.Stroke()
}

// arrow 画带实心箭头的线段
func (c *canvas) arrow(x1, y1, x2, y2, width float64, col color.Color) {
	c.line(x1, y1, x2, y2, width, col)
	angle := math.Atan2(y2-y1, x2-x1)
	const head = 10.0
	left := gg.Point{X: x2 - head*math.Cos(angle-math.Pi/7), Y: y2 - head*math.Sin(angle-math.Pi/7)}
	right := gg.Point{X: x2 - head*math.Cos(angle+math.Pi/7), Y: y2 - head*math.Sin(angle+math.Pi/7)}
	c.polygon([]gg.Point{{X: x2, Y: y2}, left, right}, col, nil, 0)
}

// formulaWidth 与 formula 的排版规则一致
func (c *canvas) formulaWidth(f string, face, sub font.Face) float64 {
	var w float64
	for _, seg := range splitFormula(f) {
		if seg.sub {
			c.SetFontFace(sub)
		} else {
			c.SetFontFace(face)
		}
		sw, _ := c.MeasureString(seg.text)
		w += sw
	}
	return w
}

// formula draws a chemical formula with its counts lowered as subscripts,
// left edge at x and vertically centred on y. It returns the drawn width.
func (c *canvas) formula(f string, x, y float64, face, sub font.Face, col color.Color) float64 {
	start := x
	c.SetColor(col)
	for _, seg := range splitFormula(f) {
		if seg.sub {
			c.SetFontFace(sub)
			c.DrawStringAnchored(seg.text, x, y+6, 0, 0.5)
		} else {
			c.SetFontFace(face)
			c.DrawStringAnchored(seg.text, x, y, 0, 0.5)
		}
		w, _ := c.MeasureString(seg.text)
		x += w
	}
	return x - start
}

type formulaSegment struct {
	text string
	sub  bool
}

// splitFormula 把 "2H2O" 拆成 2 / H / 2(下标) / O；系数不算下标
func splitFormula(f string) []formulaSegment {
	var segs []formulaSegment
	var prev rune
	for _, r := range f {
		sub := unicode.IsDigit(r) && (unicode.IsLetter(prev) || prev == ')' || (unicode.IsDigit(prev) && len(segs) > 0 && segs[len(segs)-1].sub))
		if n := len(segs); n > 0 && segs[n-1].sub == sub {
			segs[n-1].text += string(r)
		} else {
			segs = append(segs, formulaSegment{text: string(r), sub: sub})
		}
		prev = r
	}
	return segs
}
