package payload

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/leofalp/jsonrescue/core/parse"
)

// Journey is a customer journey map.
type Journey struct {
	Name        string  `json:"name" jsonschema:"required" jsonschema_description:"Short title of the journey"`
	Description string  `json:"description,omitempty"`
	Stages      []Stage `json:"stages" jsonschema:"required,minItems=1"`
}

// Stage is one ordered step of a Journey.
type Stage struct {
	Name        string   `json:"name" jsonschema:"required"`
	Description string   `json:"description,omitempty"`
	Moments     []Moment `json:"meaningfulMoments" jsonschema:"required"`
}

// Moment is a meaningful moment inside a Stage.
type Moment struct {
	Type        string `json:"type" jsonschema:"required,enum=pain_point,enum=delight,enum=decision,enum=moment_of_truth"`
	Severity    string `json:"severity" jsonschema:"required,enum=low,enum=medium,enum=high,enum=critical"`
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
}

// Playbook groups recommendations by journey stage.
type Playbook struct {
	Name   string                 `json:"name,omitempty"`
	Stages []StageRecommendations `json:"stages" jsonschema:"required,minItems=1"`
}

// StageRecommendations lists the recommendations for one stage.
type StageRecommendations struct {
	Stage           string           `json:"stage" jsonschema:"required" jsonschema_description:"Name of the journey stage the recommendations apply to"`
	Recommendations []Recommendation `json:"recommendations" jsonschema:"required"`
}

// Recommendation is a single playbook entry.
type Recommendation struct {
	Title       string `json:"title" jsonschema:"required"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty" jsonschema:"enum=low,enum=medium,enum=high"`
}

// Shape names a payload type.
type Shape string

const (
	ShapeJourney  Shape = "journey"
	ShapePlaybook Shape = "playbook"
)

func newReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
}

// JourneySchema returns the inlined JSON schema of Journey, suitable for
// structured-output requests.
func JourneySchema() *jsonschema.Schema {
	return newReflector().Reflect(&Journey{})
}

// PlaybookSchema returns the inlined JSON schema of Playbook.
func PlaybookSchema() *jsonschema.Schema {
	return newReflector().Reflect(&Playbook{})
}

// SchemaFor returns the schema of the named shape.
func SchemaFor(shape Shape) (*jsonschema.Schema, error) {
	switch shape {
	case ShapeJourney:
		return JourneySchema(), nil
	case ShapePlaybook:
		return PlaybookSchema(), nil
	}
	return nil, fmt.Errorf("payload: unknown shape %q", shape)
}

// DecodeJourney coerces a recovered value into a Journey.
func DecodeJourney(value any) (*Journey, error) {
	j, err := parse.DecodeAs[Journey](value)
	if err != nil {
		return nil, fmt.Errorf("decode journey: %w", err)
	}
	return &j, nil
}

// DecodePlaybook coerces a recovered value into a Playbook.
func DecodePlaybook(value any) (*Playbook, error) {
	p, err := parse.DecodeAs[Playbook](value)
	if err != nil {
		return nil, fmt.Errorf("decode playbook: %w", err)
	}
	return &p, nil
}

// Decode coerces value into the named shape and returns a *Journey or
// *Playbook.
func Decode(shape Shape, value any) (any, error) {
	switch shape {
	case ShapeJourney:
		return DecodeJourney(value)
	case ShapePlaybook:
		return DecodePlaybook(value)
	}
	return nil, fmt.Errorf("payload: unknown shape %q", shape)
}
