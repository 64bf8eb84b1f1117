// Package config loads editor settings from TOML files.
//
// Decoding starts from [Default], so a file only needs to name the settings
// it changes. Unknown keys are rejected, and the result is validated before
// it is returned.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"honnef.co/go/vgc"
	"honnef.co/go/vgc/camera"
	"honnef.co/go/vgc/scene"
)

// ErrInvalid is returned when settings fail validation.
var ErrInvalid = errors.New("invalid settings")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Settings struct {
	Camera    camera.Settings   `toml:"camera"`
	Selection SelectionSettings `toml:"selection"`
	History   HistorySettings   `toml:"history"`
	Scene     SceneSettings     `toml:"scene"`
	Log       LogSettings       `toml:"log"`
}

// SelectionSettings are distances in screen pixels.
type SelectionSettings struct {
	// PickRadius is how close the pointer has to be to a coordinate to
	// select or hover it.
	PickRadius float64 `toml:"pick_radius" validate:"gt=0"`
	// InsertRadius is how close the pointer has to be to an outline for a
	// click to insert an anchor.
	InsertRadius float64 `toml:"insert_radius" validate:"gt=0"`
	// NewShapeRadius is the radius of newly drawn circles at a scaling of 1.
	NewShapeRadius float64 `toml:"new_shape_radius" validate:"gt=0"`
}

type HistorySettings struct {
	// Limit is the number of undoable commands kept. Zero keeps all of them.
	Limit int `toml:"limit" validate:"gte=0"`
}

type SceneSettings struct {
	// StrictLookups makes layer reordering report unknown identifiers
	// instead of ignoring them.
	StrictLookups bool     `toml:"strict_lookups"`
	Background    vgc.Rgba `toml:"background"`
}

type LogSettings struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

func Default() Settings {
	return Settings{
		Camera: camera.DefaultSettings(),
		Selection: SelectionSettings{
			PickRadius:     12,
			InsertRadius:   10,
			NewShapeRadius: 50,
		},
		Scene: SceneSettings{
			Background: scene.DefaultBackground,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Decode reads settings from TOML, filling in defaults for missing keys.
func Decode(r io.Reader) (Settings, error) {
	s := Default()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Settings{}, fmt.Errorf("decoding settings: %s: %w", strict.String(), ErrInvalid)
		}
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads settings from a TOML file.
func Load(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Encode writes s as TOML.
func (s Settings) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Validate checks every setting against its constraints.
func (s Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, e := range verrs {
		msgs[i] = fieldError(e)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func fieldError(e validator.FieldError) string {
	// drop the name of the root struct
	_, field, _ := strings.Cut(e.Namespace(), ".")
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// SceneOptions returns the options for creating a scene with these
// settings.
func (s Settings) SceneOptions() []scene.Option {
	policy := scene.Ignore
	if s.Scene.StrictLookups {
		policy = scene.Report
	}
	return []scene.Option{
		scene.WithBackground(s.Scene.Background),
		scene.WithMissingIDPolicy(policy),
	}
}
