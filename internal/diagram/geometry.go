package diagram

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// 几何图形在 0..10 的正方形坐标系里绘制
type plane struct {
	x0, y0, scale float64
}

func newPlane(c *canvas) plane {
	side := math.Min(c.w-40, c.h-70)
	return plane{
		x0:    (c.w - side) / 2,
		y0:    60 + side,
		scale: side / 10,
	}
}

func (p plane) pt(x, y float64) gg.Point {
	return gg.Point{X: p.x0 + x*p.scale, Y: p.y0 - y*p.scale}
}

var shapeFill = color.RGBA{31, 119, 180, 77}

// AngleDegrees extracts the angle a description asks for. Only the literal
// values 30, 45, 60, 90 and 120 are recognised; anything else is 45.
func AngleDegrees(description string) int {
	for _, deg := range []int{30, 45, 60, 90, 120} {
		if strings.Contains(description, strconv.Itoa(deg)) {
			return deg
		}
	}
	return 45
}

type shape struct {
	name string
	xs   []float64
	ys   []float64
}

// 等边和等腰三角形共用同一组顶点
func chooseTriangle(lower string) shape {
	switch {
	case containsAny(lower, "equilateral"):
		return shape{"Equilateral Triangle", []float64{5, 3, 7}, []float64{8, 4, 4}}
	case containsAny(lower, "isosceles"):
		return shape{"Isosceles Triangle", []float64{5, 3, 7}, []float64{8, 4, 4}}
	case containsAny(lower, "right"):
		return shape{"Right-angled Triangle", []float64{2, 2, 7}, []float64{2, 7, 2}}
	default:
		return shape{"Triangle", []float64{2, 5, 8}, []float64{2, 8, 3}}
	}
}

func chooseQuad(lower string) shape {
	if containsAny(lower, "square") {
		return shape{"Square", []float64{2, 2, 7, 7}, []float64{2, 7, 7, 2}}
	}
	return shape{"Rectangle", []float64{2, 2, 8, 8}, []float64{2, 6, 6, 2}}
}

func drawGeometry(c *canvas, s scene) string {
	p := newPlane(c)

	var name string
	switch {
	case containsAny(s.lower, "triangle"):
		tri := chooseTriangle(s.lower)
		name = tri.name
		drawShape(c, p, tri, [][2]float64{{-0.5, -0.5}, {-0.5, 0.5}, {0.5, -0.5}})
		if name == "Right-angled Triangle" {
			c.line(p.pt(2.5, 2).X, p.pt(2.5, 2).Y, p.pt(2.5, 2.5).X, p.pt(2.5, 2.5).Y, 1, black)
			c.line(p.pt(2, 2.5).X, p.pt(2, 2.5).Y, p.pt(2.5, 2.5).X, p.pt(2.5, 2.5).Y, 1, black)
		}
	case containsAny(s.lower, "square", "rectangle"):
		quad := chooseQuad(s.lower)
		name = quad.name
		drawShape(c, p, quad, [][2]float64{{-0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}, {0.5, -0.5}})
	case containsAny(s.lower, "circle"):
		name = "Circle"
		center := p.pt(5, 5)
		c.SetColor(black)
		c.SetLineWidth(2)
		c.DrawCircle(center.X, center.Y, 3*p.scale)
		c.Stroke()
		c.DrawCircle(center.X, center.Y, 4)
		c.Fill()
		edge := p.pt(8, 5)
		c.line(center.X, center.Y, edge.X, edge.Y, 1, black)
		label(c, p, "O", 5.3, 5.3)
		label(c, p, "r", 6.5, 5.3)
	case containsAny(s.lower, "angle"):
		deg := AngleDegrees(s.lower)
		name = fmt.Sprintf("Angle %d°", deg)
		drawAngle(c, p, deg)
	default:
		name = "Shape"
		c.paragraph(s.desc, 30, 80, c.w-60, 25, c.normal)
	}

	title := fmt.Sprintf("Diagram %d: %s", s.index, name)
	c.heading(title)
	return title
}

// drawShape 填充、描边并按偏移标注顶点 A、B、C...
func drawShape(c *canvas, p plane, sh shape, offsets [][2]float64) {
	pts := make([]gg.Point, len(sh.xs))
	for i := range sh.xs {
		pts[i] = p.pt(sh.xs[i], sh.ys[i])
	}
	c.polygon(pts, shapeFill, black, 2)
	for i := range pts {
		label(c, p, string(rune('A'+i)), sh.xs[i]+offsets[i][0], sh.ys[i]+offsets[i][1])
	}
}

func drawAngle(c *canvas, p plane, deg int) {
	rad := gg.Radians(float64(deg))
	vertex := p.pt(5, 5)
	base := p.pt(9, 5)
	arm := p.pt(5+4*math.Cos(rad), 5+4*math.Sin(rad))

	c.line(vertex.X, vertex.Y, base.X, base.Y, 2, black)
	c.line(vertex.X, vertex.Y, arm.X, arm.Y, 2, black)

	// 屏幕坐标 y 轴向下，逆时针角取负
	c.NewSubPath()
	c.SetColor(black)
	c.SetLineWidth(1.5)
	c.DrawArc(vertex.X, vertex.Y, p.scale, 0, -rad)
	c.Stroke()

	label(c, p, fmt.Sprintf("%d°", deg), 5+0.7*math.Cos(rad/2), 5+0.7*math.Sin(rad/2))
}

func label(c *canvas, p plane, text string, x, y float64) {
	at := p.pt(x, y)
	c.SetFontFace(c.normal)
	c.SetColor(black)
	c.DrawStringAnchored(text, at.X, at.Y, 0, 0)
}
