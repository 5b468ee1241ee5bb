package star

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid reports a record that cannot be stored: no id or no text.
var ErrInvalid = errors.New("invalid star data")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate reports whether the record carries the fields a store needs.
// Reading fields are not checked here; Normalize repairs those.
func (r Record) Validate() error {
	err := validatorInstance().StructPartial(r, "ID", "Text")
	if err == nil {
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Text) == "" {
			return ErrInvalid
		}
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Errorf("%w: %s is %s", ErrInvalid, fields[0].Field(), fields[0].Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// Normalize returns a copy with every malformed reading field replaced by
// its default, so nothing downstream sees NaN or an unparseable color.
func (r Record) Normalize() Record {
	r.Reading.SentimentColor = strings.TrimSpace(r.Reading.SentimentColor)
	r.Reading.Category = strings.TrimSpace(r.Reading.Category)

	err := validatorInstance().Struct(r)
	if err == nil {
		return r
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		// Not a field error; repair everything we know how to.
		r.Reading.Brightness = clampBrightness(r.Reading.Brightness)
		return r
	}
	for _, fe := range fields {
		switch fe.StructField() {
		case "Brightness":
			r.Reading.Brightness = clampBrightness(r.Reading.Brightness)
		case "SentimentColor":
			r.Reading.SentimentColor = DefaultColor
		case "Category":
			r.Reading.Category = DefaultCategory
		}
	}
	return r
}

func clampBrightness(b float64) float64 {
	switch {
	case math.IsNaN(b), math.IsInf(b, 0), b <= 0:
		return DefaultBrightness
	case b < MinBrightness:
		return MinBrightness
	case b > MaxBrightness:
		return MaxBrightness
	}
	return b
}
