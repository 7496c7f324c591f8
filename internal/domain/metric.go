package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
	"unicode/utf8"
)

// Kind is the tag naming one tracked biometric.
type Kind string

const (
	KindWeight            Kind = "weights"
	KindHeight            Kind = "heights"
	KindWaterConsumption  Kind = "water_consumption"
	KindBodyFatPercentage Kind = "body_fat_percentage"
	KindDailySteps        Kind = "daily_steps"
	KindExercise          Kind = "exercises"
	KindBodyComposition   Kind = "body_composition"
)

// DateSource is the source column holding the sample timestamp for every kind.
const DateSource = "fecha"

type ValueType int

const (
	Float ValueType = iota
	Int
	Text
)

// Column maps one source column of an uploaded file to a table column.
type Column struct {
	Source string
	Target string
	Label  string
	Type   ValueType
	// Min is inclusive unless MinOpen is set. Max of zero means unbounded.
	Min     float64
	MinOpen bool
	Max     float64
	// MaxLen bounds Text values in characters; zero means unbounded.
	MaxLen int
}

// Check validates a parsed value against the column bounds.
func (c Column) Check(v any) error {
	if c.Type == Text {
		s, _ := v.(string)
		if s == "" {
			return fmt.Errorf("%s must not be empty", c.Source)
		}
		if c.MaxLen > 0 && utf8.RuneCountInString(s) > c.MaxLen {
			return fmt.Errorf("%s must be at most %d characters", c.Source, c.MaxLen)
		}
		return nil
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int64:
		f = float64(n)
	default:
		return fmt.Errorf("%s has unexpected value %v", c.Source, v)
	}

	if c.MinOpen && f <= c.Min {
		return fmt.Errorf("%s must be greater than %g, got %g", c.Source, c.Min, f)
	}
	if !c.MinOpen && f < c.Min {
		return fmt.Errorf("%s must be at least %g, got %g", c.Source, c.Min, f)
	}
	if c.Max != 0 && f > c.Max {
		return fmt.Errorf("%s must be at most %g, got %g", c.Source, c.Max, f)
	}
	return nil
}

// KindSpec describes how one metric kind is stored and charted.
type KindSpec struct {
	Kind    Kind
	Table   string
	Columns []Column
	// LabelColumn names a Text column whose value labels the history points
	// instead of the per-column Label.
	LabelColumn string
}

var kinds = map[Kind]KindSpec{
	KindWeight: {
		Kind:    KindWeight,
		Table:   "weights",
		Columns: []Column{{Source: "peso", Target: "weight", Label: "Peso (kg)", Type: Float, MinOpen: true}},
	},
	KindHeight: {
		Kind:    KindHeight,
		Table:   "heights",
		Columns: []Column{{Source: "altura", Target: "height", Label: "Altura (cm)", Type: Float, MinOpen: true}},
	},
	KindWaterConsumption: {
		Kind:    KindWaterConsumption,
		Table:   "water_consumption",
		Columns: []Column{{Source: "vasosDeAgua", Target: "water_amount", Label: "Vasos de agua", Type: Int, MinOpen: true, Max: math.MaxInt32}},
	},
	KindBodyFatPercentage: {
		Kind:    KindBodyFatPercentage,
		Table:   "body_fat_percentage",
		Columns: []Column{{Source: "porcentajeGrasa", Target: "fat_percentage", Label: "Grasa corporal (%)", Type: Float, Max: 100}},
	},
	KindDailySteps: {
		Kind:    KindDailySteps,
		Table:   "daily_steps",
		Columns: []Column{{Source: "cantidadPasos", Target: "steps_amount", Label: "Pasos", Type: Int, Max: math.MaxInt32}},
	},
	KindExercise: {
		Kind:  KindExercise,
		Table: "exercises",
		Columns: []Column{
			{Source: "nombreEjercicio", Target: "exercise_name", Type: Text, MaxLen: 255},
			{Source: "duracion", Target: "duration", Label: "Duración (min)", Type: Int, MinOpen: true, Max: math.MaxInt32},
		},
		LabelColumn: "exercise_name",
	},
	KindBodyComposition: {
		Kind:  KindBodyComposition,
		Table: "body_composition",
		Columns: []Column{
			{Source: "grasa", Target: "fat", Label: "Grasa (%)", Type: Float, Max: 100},
			{Source: "musculo", Target: "muscle", Label: "Músculo (%)", Type: Float, Max: 100},
			{Source: "agua", Target: "water", Label: "Agua (%)", Type: Float, Max: 100},
		},
	},
}

// LookupKind resolves a kind tag. Unknown tags wrap ErrInvalidArgument.
func LookupKind(tag string) (KindSpec, error) {
	spec, ok := kinds[Kind(tag)]
	if !ok {
		return KindSpec{}, fmt.Errorf("%w: unknown data type %q", ErrInvalidArgument, tag)
	}
	return spec, nil
}

// MustKind is LookupKind for the constants above.
func MustKind(k Kind) KindSpec {
	spec, err := LookupKind(string(k))
	if err != nil {
		panic(err)
	}
	return spec
}

// Kinds returns every registered kind sorted by tag.
func Kinds() []KindSpec {
	out := make([]KindSpec, 0, len(kinds))
	for _, spec := range kinds {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Index returns the position of the target column in Columns, or -1.
func (s KindSpec) Index(target string) int {
	for i, c := range s.Columns {
		if c.Target == target {
			return i
		}
	}
	return -1
}

// Sample is one stored row of a metric table. Values line up with KindSpec.Columns
// and hold float64, int64 or string according to the column type.
type Sample struct {
	Date   time.Time
	UserID int64
	Values []any
}

func (s Sample) Float(i int) float64 {
	switch v := s.Values[i].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (s Sample) Int(i int) int64 {
	switch v := s.Values[i].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func (s Sample) Text(i int) string {
	v, _ := s.Values[i].(string)
	return v
}

// Measurement pairs a sample with the kind it belongs to.
type Measurement struct {
	Spec   KindSpec
	Sample Sample
}

// SampleView is the JSON form of a single sample, keyed by table column.
type SampleView struct {
	Kind   Kind           `json:"kind"`
	Date   time.Time      `json:"date"`
	Values map[string]any `json:"values"`
}

func (s KindSpec) View(sample Sample) SampleView {
	values := make(map[string]any, len(s.Columns))
	for i, c := range s.Columns {
		values[c.Target] = sample.Values[i]
	}
	return SampleView{Kind: s.Kind, Date: sample.Date, Values: values}
}

type HistoryPoint struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Value float64   `json:"value"`
}

// Points charts a sample: one point per numeric column.
func (s KindSpec) Points(sample Sample) []HistoryPoint {
	label := ""
	if s.LabelColumn != "" {
		label = sample.Text(s.Index(s.LabelColumn))
	}

	points := make([]HistoryPoint, 0, len(s.Columns))
	for i, c := range s.Columns {
		if c.Type == Text {
			continue
		}
		p := HistoryPoint{Date: sample.Date, Label: c.Label, Value: sample.Float(i)}
		if s.LabelColumn != "" {
			p.Label = label
		}
		points = append(points, p)
	}
	return points
}

type ImportResult struct {
	Kind Kind `json:"data_type"`
	Rows int  `json:"rows"`
}
