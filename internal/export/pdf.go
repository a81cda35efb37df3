// Package export lays generated questions out as a printable PDF.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"examprep-backend/internal/config"
	"examprep-backend/internal/model"
	"examprep-backend/pkg/logger"

	"github.com/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	family = "Go"
	margin = 54.0 // 0.75in
)

type rgb struct{ r, g, b int }

var (
	inkBlack  = rgb{0, 0, 0}
	inkGray   = rgb{96, 96, 96}
	inkGreen  = rgb{0, 128, 0}
	inkOrange = rgb{255, 165, 0}
	inkRed    = rgb{255, 0, 0}
)

func difficultyInk(difficulty string) rgb {
	switch difficulty {
	case model.DifficultyEasy:
		return inkGreen
	case model.DifficultyMedium:
		return inkOrange
	case model.DifficultyHard:
		return inkRed
	default:
		return inkBlack
	}
}

// Exporter renders question sets to PDF. Sizes are in points.
type Exporter struct {
	pageSize    string
	imageWidth  float64
	imageHeight float64
	now         func() time.Time
}

func NewExporter(cfg config.ExportConfig) *Exporter {
	e := &Exporter{
		pageSize:    cfg.PageSize,
		imageWidth:  cfg.ImageWidth,
		imageHeight: cfg.ImageHeight,
		now:         time.Now,
	}
	if e.pageSize == "" {
		e.pageSize = "Letter"
	}
	if e.imageWidth <= 0 || e.imageHeight <= 0 {
		e.imageWidth, e.imageHeight = 300, 200
	}
	return e
}

// FileName 下载文件名
func FileName(level, subject string) string {
	return fmt.Sprintf("%s_%s_questions.pdf", level, subject)
}

// Export writes the PDF for questions into a byte slice.
func (e *Exporter) Export(questions []model.Question) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Write(&buf, questions); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) Write(w io.Writer, questions []model.Question) error {
	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitPoint, e.pageSize, "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddUTF8FontFromBytes(family, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(family, "I", goitalic.TTF)
	pdf.SetTitle("Generated Exam Questions", true)
	pdf.AddPage()

	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(0, 26, "Generated Exam Questions", "", 1, "C", false, 0, "")
	pdf.SetFont(family, "I", 10)
	setInk(pdf, inkGray)
	pdf.CellFormat(0, 14, "Generated on: "+e.now().Format("January 02, 2006"), "", 1, "C", false, 0, "")
	setInk(pdf, inkBlack)
	pdf.Ln(18)

	for i := range questions {
		e.writeQuestion(pdf, i+1, &questions[i])
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logger.WithFields(logrus.Fields{"questions": len(questions), "pages": pdf.PageCount()}).Info("PDF exported")
	return nil
}

func (e *Exporter) writeQuestion(pdf *fpdf.Fpdf, number int, q *model.Question) {
	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 20, fmt.Sprintf("Question %d", number), "", 1, "L", false, 0, "")

	pdf.SetFont(family, "", 11)
	pdf.CellFormat(0, 15, "Topic: "+q.DisplayTopic(), "", 1, "L", false, 0, "")
	difficulty := q.DisplayDifficulty()
	setInk(pdf, difficultyInk(difficulty))
	pdf.CellFormat(0, 15, "Difficulty: "+difficulty, "", 1, "L", false, 0, "")
	setInk(pdf, inkBlack)
	pdf.Ln(6)

	pdf.MultiCell(0, 15, q.Question, "", "L", false)
	pdf.Ln(6)

	for j, d := range q.Diagrams {
		if d == nil || len(d.PNG) == 0 {
			continue
		}
		e.writeDiagram(pdf, fmt.Sprintf("q%d-d%d", number, j+1), d.PNG, j+1)
	}

	pdf.SetFont(family, "B", 12)
	pdf.CellFormat(0, 18, "Mark Scheme:", "", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 10)
	left, _, _, _ := pdf.GetMargins()
	pdf.SetLeftMargin(left + 20)
	pdf.SetX(left + 20)
	pdf.MultiCell(0, 13, q.DisplayMarkScheme(), "", "L", false)
	pdf.SetLeftMargin(left)
	pdf.Ln(20)
}

// writeDiagram 居中放置图片，放不下时换页
func (e *Exporter) writeDiagram(pdf *fpdf.Fpdf, name string, png []byte, index int) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if !pdf.Ok() {
		logger.Warnf("skipping %s: %v", name, pdf.Error())
		pdf.ClearError()
		return
	}

	pageW, pageH := pdf.GetPageSize()
	if pdf.GetY()+e.imageHeight+20 > pageH-margin {
		pdf.AddPage()
	}
	x := (pageW - e.imageWidth) / 2
	pdf.ImageOptions(name, x, pdf.GetY(), e.imageWidth, e.imageHeight, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + e.imageHeight + 4)

	pdf.SetFont(family, "I", 10)
	pdf.CellFormat(0, 14, fmt.Sprintf("Diagram %d", index), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 11)
	pdf.Ln(8)
}

func setInk(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}
