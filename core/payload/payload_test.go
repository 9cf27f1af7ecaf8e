package payload

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/leofalp/jsonrescue/core/parse"
	"github.com/leofalp/jsonrescue/core/recovery"
)

func TestJourneySchema(t *testing.T) {
	s := JourneySchema()
	if s.Type != "object" {
		t.Fatalf("Type = %q, want object", s.Type)
	}
	if want := []string{"name", "stages"}; !slices.Equal(s.Required, want) {
		t.Errorf("Required = %v, want %v", s.Required, want)
	}

	stages, ok := s.Properties.Get("stages")
	if !ok || stages.Items == nil {
		t.Fatal("stages property missing or not an array")
	}
	moments, ok := stages.Items.Properties.Get("meaningfulMoments")
	if !ok || moments.Items == nil {
		t.Fatal("meaningfulMoments property missing")
	}
	severity, ok := moments.Items.Properties.Get("severity")
	if !ok {
		t.Fatal("severity property missing")
	}
	if diff := cmp.Diff([]any{"low", "medium", "high", "critical"}, severity.Enum); diff != "" {
		t.Errorf("severity enum mismatch (-want +got):\n%s", diff)
	}

	if _, err := json.Marshal(s); err != nil {
		t.Errorf("schema does not marshal: %v", err)
	}
}

func TestPlaybookSchema(t *testing.T) {
	s := PlaybookSchema()
	if want := []string{"stages"}; !slices.Equal(s.Required, want) {
		t.Errorf("Required = %v, want %v", s.Required, want)
	}
	stages, ok := s.Properties.Get("stages")
	if !ok || stages.Items == nil {
		t.Fatal("stages property missing")
	}
	if want := []string{"stage", "recommendations"}; !slices.Equal(stages.Items.Required, want) {
		t.Errorf("stage Required = %v, want %v", stages.Items.Required, want)
	}
}

func TestSchemaFor(t *testing.T) {
	for _, shape := range []Shape{ShapeJourney, ShapePlaybook} {
		if s, err := SchemaFor(shape); err != nil || s == nil {
			t.Errorf("SchemaFor(%q) = %v, %v", shape, s, err)
		}
	}
	if _, err := SchemaFor("itinerary"); err == nil {
		t.Error("SchemaFor(itinerary) error = nil")
	}
}

func TestDecodeJourney_FromTruncatedResponse(t *testing.T) {
	text := "```json\n" + `{"name": "Checkout", "stages": [{"name": "Cart", "meaningfulMoments": [{"type": "pain_point", "severity": "high", "title": "Shipping cost surprise", "description": "Shown only at the last step`

	res, err := recovery.Recover(recovery.RawResponse{Text: text, WasTruncated: true})
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	got, err := DecodeJourney(res.Value)
	if err != nil {
		t.Fatalf("DecodeJourney() error = %v", err)
	}

	want := &Journey{
		Name: "Checkout",
		Stages: []Stage{{
			Name: "Cart",
			Moments: []Moment{{
				Type:        "pain_point",
				Severity:    "high",
				Title:       "Shipping cost surprise",
				Description: "Shown only at the last step",
			}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeJourney() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePlaybook(t *testing.T) {
	value := map[string]any{
		"stages": []any{
			map[string]any{
				"stage": "Onboarding",
				"recommendations": []any{
					map[string]any{"title": "Shorten the form", "priority": "high"},
				},
			},
		},
	}
	got, err := DecodePlaybook(value)
	if err != nil {
		t.Fatalf("DecodePlaybook() error = %v", err)
	}
	want := &Playbook{Stages: []StageRecommendations{{
		Stage:           "Onboarding",
		Recommendations: []Recommendation{{Title: "Shorten the form", Priority: "high"}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodePlaybook() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	v, err := Decode(ShapePlaybook, map[string]any{"stages": []any{}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(*Playbook); !ok {
		t.Errorf("Decode(playbook) = %T, want *Playbook", v)
	}

	_, err = Decode(ShapeJourney, map[string]any{"stages": "none"})
	if !errors.Is(err, parse.ErrTypeMismatch) {
		t.Errorf("Decode(journey) error = %v, want ErrTypeMismatch", err)
	}

	if _, err := Decode("itinerary", nil); err == nil {
		t.Error("Decode(itinerary) error = nil")
	}
}
