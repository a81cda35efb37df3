package diagram

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
)

func drawBiology(c *canvas, s scene) string {
	c.border()

	var title string
	switch {
	case containsAny(s.lower, "cell"):
		title = fmt.Sprintf("Cell Diagram %d", s.index)
		if containsAny(s.lower, "plant") {
			drawPlantCell(c, s)
		} else {
			drawAnimalCell(c)
		}
	case containsAny(s.lower, "organ"):
		switch {
		case containsAny(s.lower, "heart"):
			title = fmt.Sprintf("Heart Diagram %d", s.index)
			drawHeart(c)
		case containsAny(s.lower, "brain"):
			title = fmt.Sprintf("Brain Diagram %d", s.index)
			drawBrain(c)
		default:
			title = fmt.Sprintf("Organ Diagram %d", s.index)
			drawOrganBlob(c, s)
		}
	case containsAny(s.lower, "plant"):
		title = fmt.Sprintf("Plant Diagram %d", s.index)
		drawPlant(c, s)
	default:
		title = fmt.Sprintf("Biology Diagram %d", s.index)
		c.paragraph(s.desc, c.w/2-150, c.h/2, c.w/2+120, 25, c.normal)
	}

	c.heading(title)
	return title
}

func drawPlantCell(c *canvas, s scene) {
	cx, cy := c.w/2, c.h/2
	const halfW, halfH = 150.0, 100.0

	c.rect(cx-halfW-10, cy-halfH-10, cx+halfW+10, cy+halfH+10, nil, green, 3)
	c.rect(cx-halfW, cy-halfH, cx+halfW, cy+halfH, nil, black, 2)

	nx, ny := cx-50, cy
	c.ellipse(nx-30, ny-25, nx+30, ny+25, nil, black, 2)
	c.text("Nucleus", nx-25, ny-10, c.small, black)

	// 叶绿体位置带随机抖动，只给第一个加标注
	for i := 0; i < 5; i++ {
		px := cx + float64(s.rng.IntN(201)-100)
		py := cy + float64(s.rng.IntN(141)-70)
		c.ellipse(px-20, py-10, px+20, py+10, lightGreen, green, 1)
		if i == 0 {
			c.text("Chloroplast", px-15, py+15, c.small, green)
		}
	}

	vx, vy := cx+50, cy
	c.ellipse(vx-50, vy-40, vx+50, vy+40, nil, blue, 2)
	c.text("Vacuole", vx-30, vy, c.small, blue)

	c.text("Cell wall", cx-halfW-75, cy, c.small, green)
}

func drawAnimalCell(c *canvas) {
	cx, cy := c.w/2, c.h/2
	const radius = 150.0

	c.ellipse(cx-radius, cy-radius, cx+radius, cy+radius, nil, black, 2)

	nx, ny := cx-30, cy
	c.ellipse(nx-30, ny-25, nx+30, ny+25, nil, black, 2)
	c.text("Nucleus", nx-25, ny-10, c.small, black)

	// 线粒体用上下两段弧拼出豆形
	mx, my := cx+50, cy-40
	c.arc(mx-25, my-15, mx+25, my+15, 0, 180, red, 2)
	c.arc(mx-25, my-5, mx+25, my+25, 180, 360, red, 2)
	c.text("Mitochondrion", mx-15, my+25, c.small, red)

	ex, ey := cx-70, cy+50
	for i := 0; i < 4; i++ {
		y := ey - 10 + float64(i*8)
		c.line(ex-40, y, ex+40, y, 2, purple)
	}
	c.text("Endoplasmic Reticulum", ex-40, ey+30, c.small, purple)
}

func drawHeart(c *canvas) {
	hx, hy := c.w/2, c.h/2

	c.arc(hx-100, hy-100, hx, hy, 180, 0, red, 3)
	c.arc(hx, hy-100, hx+100, hy, 180, 0, red, 3)
	c.polygon([]gg.Point{
		{X: hx - 100, Y: hy - 50},
		{X: hx + 100, Y: hy - 50},
		{X: hx, Y: hy + 100},
	}, nil, red, 3)

	c.text("Left Atrium", hx-85, hy-80, c.small, black)
	c.text("Right Atrium", hx+15, hy-80, c.small, black)
	c.text("Left Ventricle", hx-85, hy+20, c.small, black)
	c.text("Right Ventricle", hx+15, hy+20, c.small, black)

	c.line(hx, hy-100, hx, hy-150, 4, blue)
	c.text("Aorta", hx+10, hy-140, c.small, blue)
}

func drawBrain(c *canvas) {
	bx, by := c.w/2, c.h/2

	c.ellipse(bx-120, by-80, bx+120, by+100, nil, gray, 3)
	c.line(bx, by-80, bx, by+50, 2, black)
	c.ellipse(bx-60, by+60, bx+60, by+120, nil, gray, 2)

	c.text("Left Hemisphere", bx-115, by-50, c.small, black)
	c.text("Right Hemisphere", bx+10, by-50, c.small, black)
	c.text("Cerebellum", bx-35, by+80, c.small, black)
	c.text("Frontal Lobe", bx-100, by+20, c.small, black)
}

// drawOrganBlob 每 20 度取一个半径在 80..120 之间的点连成轮廓
func drawOrganBlob(c *canvas, s scene) {
	ox, oy := c.w/2, c.h/2
	var pts []gg.Point
	for deg := 0; deg < 360; deg += 20 {
		r := 100 + float64(s.rng.IntN(41)-20)
		rad := gg.Radians(float64(deg))
		pts = append(pts, gg.Point{X: ox + r*math.Cos(rad), Y: oy + r*math.Sin(rad)})
	}
	c.polygon(pts, nil, brown, 3)
	c.centered("Organ Structure", ox, oy, c.normal, black)
}

func drawPlant(c *canvas, s scene) {
	px, py := c.w/2, c.h-100

	c.line(px, py, px, py-200, 5, green)

	for i := 0; i < 5; i++ {
		rad := gg.Radians(float64(30 + i*30))
		length := 30 + float64(s.rng.IntN(31))
		c.line(px, py, px+length*math.Cos(rad), py+length*math.Sin(rad), 2, brown)
	}

	for i := 0; i < 3; i++ {
		y := py - 80 - float64(i*60)
		c.ellipse(px-80, y-20, px, y+20, nil, green, 2)
		c.ellipse(px, y-20, px+80, y+20, nil, green, 2)
	}

	fy := py - 220
	for deg := 0; deg < 360; deg += 45 {
		rad := gg.Radians(float64(deg))
		c.Push()
		c.RotateAbout(rad, px, fy)
		c.ellipse(px+15, fy-10, px+45, fy+10, yellow, orange, 1)
		c.Pop()
	}
	c.ellipse(px-15, fy-15, px+15, fy+15, orange, orange, 1)

	c.text("Stem", px+10, py-150, c.small, black)
	c.text("Roots", px+10, py+20, c.small, black)
	c.text("Leaf", px+50, py-100, c.small, black)
	c.text("Flower", px+50, fy-40, c.small, black)
}
