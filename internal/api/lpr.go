package api

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// PlateReader is the part of pipeline.Reader the handlers need.
type PlateReader interface {
	Read(img image.Image) (*pipeline.Result, error)
}

// LPRRequest carries a base64 encoded photo.
type LPRRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// LPRResponse returns the recognized plate. ErrorMessage is set instead of
// DetectedPlate when the photo was valid but no plate could be read.
type LPRResponse struct {
	DetectedPlate string  `json:"detected_plate"`
	Confidence    float32 `json:"confidence,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
}

// LPRHandler serves plate recognition requests.
type LPRHandler struct {
	reader PlateReader
	logger *log.Logger
}

// NewLPRHandler creates a handler reading plates with reader.
func NewLPRHandler(reader PlateReader, logger *log.Logger) *LPRHandler {
	return &LPRHandler{reader: reader, logger: logger}
}

// ProcessImage handles POST /api/v1/lpr/process-image.
func (h *LPRHandler) ProcessImage(c *gin.Context) {
	var req LPRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty image data"})
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image data", "details": err.Error()})
		return
	}

	res, err := h.reader.Read(img)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Printf("[%s] No plate read from %d byte upload: %v", c.GetString(RequestIDHeader), len(data), err)
		c.JSON(http.StatusOK, LPRResponse{ErrorMessage: err.Error()})
		return
	}

	c.JSON(http.StatusOK, LPRResponse{
		DetectedPlate: res.Text,
		Confidence:    confidence(res),
	})
}

// confidence is the mean correlation score of the matched characters, or
// zero when the engine reports no scores.
func confidence(res *pipeline.Result) float32 {
	if res.Reading == nil || len(res.Reading.Characters) == 0 {
		return 0
	}
	sum := 0.0
	for _, m := range res.Reading.Characters {
		sum += m.Score
	}
	return float32(sum / float64(len(res.Reading.Characters)))
}
