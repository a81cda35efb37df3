package diagram

import (
	"fmt"
	"regexp"
	"strings"
)

// 非贪婪匹配到第一个右方括号
var diagramTag = regexp.MustCompile(`\[DIAGRAM:([^\]]+)\]`)

// ExtractDiagramTags replaces every [DIAGRAM: ...] tag with a numbered
// "[See Diagram k]" back-reference, counting from 1, and returns the trimmed
// descriptions in order of appearance. Repeated descriptions get their own
// number.
func ExtractDiagramTags(text string) (string, []string) {
	return ExtractDiagramTagsFrom(text, 1)
}

// ExtractDiagramTagsFrom is ExtractDiagramTags with the numbering starting at
// first, for text whose diagrams follow ones already numbered elsewhere.
func ExtractDiagramTagsFrom(text string, first int) (string, []string) {
	var descriptions []string
	cleaned := diagramTag.ReplaceAllStringFunc(text, func(tag string) string {
		m := diagramTag.FindStringSubmatch(tag)
		descriptions = append(descriptions, strings.TrimSpace(m[1]))
		return fmt.Sprintf("[See Diagram %d]", first+len(descriptions)-1)
	})
	return cleaned, descriptions
}
