// Package vision is the boundary to image recognition: identifying a
// vehicle from photos and reading a VIN plate.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lemonexport/quote-engine/internal/reference"
)

var (
	ErrVINNotFound   = errors.New("vision: no 17-character VIN found")
	ErrNotRecognized = errors.New("vision: vehicle not recognized")
	ErrNoImages      = errors.New("vision: at least one image is required")
)

// VINLength is the length of a valid vehicle identification number.
const VINLength = 17

// Image is one photo sent for recognition.
type Image struct {
	MIMEType string
	Data     []byte
}

// VehicleGuess is a best-effort make, model and year reading.
type VehicleGuess struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  string `json:"year"`
}

// Provider recognises vehicles and VINs. IdentifyVehicle returns nil when it
// cannot tell; IdentifyVIN returns the raw text it read.
type Provider interface {
	IdentifyVehicle(ctx context.Context, images []Image) (*VehicleGuess, error)
	IdentifyVIN(ctx context.Context, image Image) (string, error)
}

// Selector receives a recognised vehicle. Each setter may start lookups
// downstream of it.
type Selector interface {
	SetBrand(brand string) error
	SetModel(name string) error
	SetYear(year string) error
}

// NormalizeVIN upper-cases text and strips everything but letters and
// digits. Anything but exactly 17 characters left is ErrVINNotFound.
func NormalizeVIN(text string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(text) {
		if alnum(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() != VINLength {
		return "", ErrVINNotFound
	}
	return b.String(), nil
}

func alnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ReadVIN asks p for the VIN on image and normalises it.
func ReadVIN(ctx context.Context, p Provider, image Image) (string, error) {
	text, err := p.IdentifyVIN(ctx, image)
	if err != nil {
		return "", fmt.Errorf("identify vin: %w", err)
	}
	return NormalizeVIN(text)
}

// Identify asks p to recognise the vehicle in images. The brand is mapped
// onto a known brand value when one matches; otherwise it is kept as read.
func Identify(ctx context.Context, p Provider, images []Image) (VehicleGuess, error) {
	if len(images) == 0 {
		return VehicleGuess{}, ErrNoImages
	}
	g, err := p.IdentifyVehicle(ctx, images)
	if err != nil {
		return VehicleGuess{}, fmt.Errorf("identify vehicle: %w", err)
	}
	if g == nil || strings.TrimSpace(g.Brand) == "" {
		return VehicleGuess{}, ErrNotRecognized
	}
	out := VehicleGuess{
		Brand: strings.TrimSpace(g.Brand),
		Model: strings.TrimSpace(g.Model),
		Year:  strings.TrimSpace(g.Year),
	}
	if b, ok := reference.MatchBrand(out.Brand); ok {
		out.Brand = b.Value
	}
	return out, nil
}

// Apply sets brand, then model, then year on sel, so each stage triggers
// the normal chain of lookups. Blank model or year are skipped.
func Apply(sel Selector, g VehicleGuess) error {
	if err := sel.SetBrand(g.Brand); err != nil {
		return fmt.Errorf("apply brand: %w", err)
	}
	if g.Model != "" {
		if err := sel.SetModel(g.Model); err != nil {
			return fmt.Errorf("apply model: %w", err)
		}
	}
	if g.Year != "" {
		if err := sel.SetYear(g.Year); err != nil {
			return fmt.Errorf("apply year: %w", err)
		}
	}
	return nil
}
