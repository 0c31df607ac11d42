package ocr

import (
	"fmt"
	"image"
	"math"
	"strings"
	"unicode"

	"github.com/disintegration/imaging"
)

// Match is the label chosen for one glyph and its correlation score.
type Match struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Reading is the recognized text of one plate.
type Reading struct {
	Text       string  `json:"text"`
	Characters []Match `json:"characters"`
	Boundary   int     `json:"boundary"`
}

// MatchConfig controls how matched labels are joined.
type MatchConfig struct {
	// Separator is inserted between the region code and the plate number.
	Separator string `yaml:"separator"`
}

// DefaultMatchConfig joins the two plate parts with a hyphen.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{Separator: "-"}
}

// Recognize labels every glyph with its best-scoring template.
//
// Glyphs are compared only against templates of their own width class, and
// glyphs before the boundary never match digit templates since region codes
// are letters. Scores use normalized cross-correlation; the first template in
// label order wins ties.
func Recognize(seg *Segmentation, set *TemplateSet, cfg MatchConfig) (*Reading, error) {
	if seg == nil || len(seg.Glyphs) == 0 {
		return nil, ErrNoCharactersDetected
	}
	if set == nil {
		return nil, ErrNoTemplates
	}

	reading := &Reading{
		Characters: make([]Match, 0, len(seg.Glyphs)),
		Boundary:   seg.Boundary,
	}
	var text strings.Builder

	for i, g := range seg.Glyphs {
		best := Match{Score: math.Inf(-1)}
		for _, tpl := range set.Templates(g.Width) {
			if i < seg.Boundary && isDigitLabel(tpl.Label) {
				continue
			}
			if score := Score(g.Mask, tpl.Mask); score > best.Score {
				best = Match{Label: tpl.Label, Score: score}
			}
		}
		if best.Label == "" {
			return nil, fmt.Errorf("%w for %s glyph %d", ErrNoTemplates, g.Width, i)
		}

		if i == seg.Boundary && i > 0 {
			text.WriteString(cfg.Separator)
		}
		text.WriteString(best.Label)
		reading.Characters = append(reading.Characters, best)
	}

	reading.Text = text.String()
	return reading, nil
}

func isDigitLabel(label string) bool {
	if label == "" {
		return false
	}
	for _, r := range label {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Score returns the best normalized cross-correlation coefficient (in
// [-1, 1]) of the smaller image slid over the larger one. When neither image
// contains the other, the template is resized to the glyph first. A constant
// image has no defined correlation and scores 0.
func Score(glyph, template *image.Gray) float64 {
	if glyph == nil || template == nil || glyph.Bounds().Empty() || template.Bounds().Empty() {
		return 0
	}

	gw, gh := glyph.Bounds().Dx(), glyph.Bounds().Dy()
	tw, th := template.Bounds().Dx(), template.Bounds().Dy()

	search, patch := glyph, template
	switch {
	case tw <= gw && th <= gh:
	case tw >= gw && th >= gh:
		search, patch = template, glyph
	default:
		patch = grayFrom(imaging.Resize(template, gw, gh, imaging.Linear))
	}
	return maxCorrelation(search, patch)
}

// maxCorrelation slides patch over every position inside search and returns
// the highest correlation coefficient.
func maxCorrelation(search, patch *image.Gray) float64 {
	sw, sh := search.Bounds().Dx(), search.Bounds().Dy()
	pw, ph := patch.Bounds().Dx(), patch.Bounds().Dy()
	n := float64(pw * ph)

	var pSum, pSq float64
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			v := float64(patch.Pix[patch.PixOffset(x+patch.Rect.Min.X, y+patch.Rect.Min.Y)])
			pSum += v
			pSq += v * v
		}
	}
	pMean := pSum / n
	pVar := pSq - pSum*pMean

	best := math.Inf(-1)
	for oy := 0; oy+ph <= sh; oy++ {
		for ox := 0; ox+pw <= sw; ox++ {
			var sSum, sSq, cross float64
			for y := 0; y < ph; y++ {
				for x := 0; x < pw; x++ {
					s := float64(search.Pix[search.PixOffset(search.Rect.Min.X+ox+x, search.Rect.Min.Y+oy+y)])
					p := float64(patch.Pix[patch.PixOffset(x+patch.Rect.Min.X, y+patch.Rect.Min.Y)])
					sSum += s
					sSq += s * s
					cross += s * p
				}
			}
			sVar := sSq - sSum*sSum/n
			denom := math.Sqrt(sVar * pVar)

			score := 0.0
			if denom > 1e-9 {
				score = (cross - sSum*pMean) / denom
			}
			if score > best {
				best = score
			}
		}
	}
	return best
}

// grayFrom takes the red channel of an NRGBA produced from a gray source.
func grayFrom(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = img.Pix[y*img.Stride+x*4]
		}
	}
	return out
}
