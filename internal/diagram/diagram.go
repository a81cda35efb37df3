// Package diagram turns free-text diagram descriptions into placeholder PNG
// illustrations. A description is classified by keyword into one of six
// strategies and the strategy draws a canned figure, labelled with the
// diagram's sequence number.
package diagram

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	DefaultWidth  = 600
	DefaultHeight = 400
	// 单边像素上限，防止请求方申请超大画布
	DefaultMaxSide = 2000
)

// Request 是一次渲染的输入，Index 只用于标注 "Diagram N"
type Request struct {
	Description string
	Index       int
	Width       int
	Height      int
}

// Diagram 是渲染结果，PNG 归调用方所有
type Diagram struct {
	Index       int      `json:"index"`
	Description string   `json:"description"`
	Strategy    Strategy `json:"strategy"`
	Title       string   `json:"title"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	PNG         []byte   `json:"-"`
}

type Options struct {
	Width    int
	Height   int
	MaxSide  int
	FontPath string
}

// Renderer holds the parsed font and default canvas size. It keeps no
// per-render state, so one Renderer serves every session.
type Renderer struct {
	font    *truetype.Font
	width   int
	height  int
	maxSide int
}

func NewRenderer(opts Options) (*Renderer, error) {
	ttf := goregular.TTF
	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		ttf = data
	}

	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}

	r := &Renderer{font: parsed, width: opts.Width, height: opts.Height, maxSide: opts.MaxSide}
	if r.maxSide <= 0 {
		r.maxSide = DefaultMaxSide
	}
	r.width, r.height = min(r.width, r.maxSide), min(r.height, r.maxSide)
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.height <= 0 {
		r.height = DefaultHeight
	}
	return r, nil
}

// scene 是绘制策略看到的输入
type scene struct {
	desc  string
	lower string
	index int
	rng   *rand.Rand
}

type drawFunc func(c *canvas, s scene) string

var painters = map[Strategy]drawFunc{
	StrategyText:      drawText,
	StrategyPlot:      drawPlot,
	StrategyCircuit:   drawCircuit,
	StrategyGeometry:  drawGeometry,
	StrategyBiology:   drawBiology,
	StrategyChemistry: drawChemistry,
}

// Render classifies the description and draws it. Any description yields an
// image; unrecognised text falls back to the captioned text strategy.
// Sizes above MaxSide are clamped. A nil rng draws from a time-seeded source.
func (r *Renderer) Render(req Request, rng *rand.Rand) (*Diagram, error) {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = r.width
	}
	if height <= 0 {
		height = r.height
	}
	width, height = min(width, r.maxSide), min(height, r.maxSide)
	index := req.Index
	if index < 1 {
		index = 1
	}

	strategy := Classify(req.Description)
	c := r.newCanvas(width, height)
	title := painters[strategy](c, scene{
		desc:  req.Description,
		lower: strings.ToLower(req.Description),
		index: index,
		rng:   rng,
	})

	data, err := c.encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return &Diagram{
		Index:       index,
		Description: req.Description,
		Strategy:    strategy,
		Title:       title,
		Width:       width,
		Height:      height,
		PNG:         data,
	}, nil
}

// MaxSide is the largest width or height Render will draw.
func (r *Renderer) MaxSide() int {
	return r.maxSide
}
