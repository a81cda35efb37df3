package diagram

import "fmt"

// drawText 兜底策略：边框、标题、折行后的原始描述
func drawText(c *canvas, s scene) string {
	c.border()
	title := fmt.Sprintf("Diagram %d", s.index)
	c.heading(title)
	c.paragraph(s.desc, 30, 80, c.w-60, 25, c.normal)
	return title
}
