package diagram

import (
	"fmt"

	"github.com/fogleman/gg"
)

// drawCircuit draws a rectangular loop and overlays each component the
// description mentions. Components sit at reserved spots on the loop so any
// combination can be drawn together.
func drawCircuit(c *canvas, s scene) string {
	c.border()
	title := fmt.Sprintf("Circuit Diagram %d", s.index)
	c.heading(title)

	left, right := 100.0, c.w-100
	top, bottom := 100.0, c.h-100

	c.line(left, top, right, top, 3, black)
	c.line(right, top, right, bottom, 3, black)
	c.line(right, bottom, left, bottom, 3, black)
	c.line(left, bottom, left, top, 3, black)

	if containsAny(s.lower, "battery", "cell") {
		drawBattery(c, left, top+50)
	}
	if containsAny(s.lower, "resistor") {
		drawResistor(c, left+100, top)
	}
	if containsAny(s.lower, "bulb", "lamp") {
		drawLamp(c, right, bottom-80)
	}
	if containsAny(s.lower, "switch") {
		drawSwitch(c, left+150, bottom)
	}
	return title
}

// drawBattery 在左侧导线上画长短两极板
func drawBattery(c *canvas, x, y float64) {
	c.line(x-15, y, x+15, y, 3, black)
	c.line(x, y-10, x, y+10, 3, black)
	c.line(x-15, y+40, x+15, y+40, 3, black)
	c.text("Battery", x-30, y+20, c.normal, black)
}

func drawResistor(c *canvas, x, y float64) {
	const (
		length = 100.0
		amp    = 15.0
	)
	// 白色覆盖导线，避免锯齿和直线重叠
	c.line(x, y, x+length, y, 5, white)

	pts := []gg.Point{{X: x, Y: y}}
	for dx := 0.0; dx < length; dx += 10 {
		offset := amp
		if int(dx)%20 >= 10 {
			offset = -amp
		}
		pts = append(pts, gg.Point{X: x + dx, Y: y + offset})
	}
	pts = append(pts, gg.Point{X: x + length, Y: y})

	c.SetColor(black)
	c.SetLineWidth(3)
	c.NewSubPath()
	c.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.LineTo(p.X, p.Y)
	}
	c.Stroke()

	c.text("Resistor", x+30, y-40, c.normal, black)
}

func drawLamp(c *canvas, x, y float64) {
	c.ellipse(x-25, y-25, x+25, y+25, white, black, 3)
	c.line(x-15, y, x+15, y, 2, black)
	c.line(x-15, y-15, x+15, y+15, 2, black)
	c.line(x-15, y+15, x+15, y-15, 2, black)
	c.text("Lamp", x+30, y, c.normal, black)
}

// drawSwitch 画断开状态的开关
func drawSwitch(c *canvas, x, y float64) {
	const length = 80.0
	c.line(x+20, y, x+length-20, y, 5, white)
	c.line(x, y, x+20, y, 3, black)
	c.line(x+length-20, y, x+length, y, 3, black)
	c.line(x+20, y, x+length-30, y-30, 3, black)
	c.text("Switch", x+20, y+10, c.normal, black)
}
