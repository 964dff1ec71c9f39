package transform

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

func validPayload() models.RawPayload {
	return models.RawPayload{
		"name": "San Jose",
		"sys": map[string]any{
			"country": "CR",
			"sunrise": float64(1700000000),
			"sunset":  float64(1700040000),
		},
		"main": map[string]any{
			"temp":       22.1,
			"feels_like": 21.5,
			"temp_min":   20.0,
			"temp_max":   24.0,
			"humidity":   float64(80),
			"pressure":   float64(1012),
		},
		"weather": []any{
			map[string]any{"description": "clear sky", "icon": "01d"},
		},
		"clouds": map[string]any{"all": float64(5)},
		"coord":  map[string]any{"lat": 9.93, "lon": -84.08},
	}
}

func TestTransform_ValidPayload(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	tr := NewWithClock(func() time.Time { return fixed })

	record, err := tr.Transform(validPayload())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	if record.City != "San Jose" {
		t.Errorf("City = %q, want San Jose", record.City)
	}
	if record.Country != "CR" {
		t.Errorf("Country = %q, want CR", record.Country)
	}
	if record.Temperature != 22.1 {
		t.Errorf("Temperature = %v, want 22.1", record.Temperature)
	}
	if record.FeelsLike != 21.5 {
		t.Errorf("FeelsLike = %v, want 21.5", record.FeelsLike)
	}
	if record.TempMin != 20 || record.TempMax != 24 {
		t.Errorf("TempMin/TempMax = %v/%v, want 20/24", record.TempMin, record.TempMax)
	}
	if record.Humidity != 80 {
		t.Errorf("Humidity = %d, want 80", record.Humidity)
	}
	if record.Pressure != 1012 {
		t.Errorf("Pressure = %d, want 1012", record.Pressure)
	}
	if record.Description != "clear sky" || record.Icon != "01d" {
		t.Errorf("Description/Icon = %q/%q, want clear sky/01d", record.Description, record.Icon)
	}
	if record.Cloudiness != 5 {
		t.Errorf("Cloudiness = %d, want 5", record.Cloudiness)
	}
	if record.Coordinates.Latitude != 9.93 || record.Coordinates.Longitude != -84.08 {
		t.Errorf("Coordinates = %+v, want {9.93 -84.08}", record.Coordinates)
	}
	if record.GeneratedAt != fixed.Format(time.RFC3339) {
		t.Errorf("GeneratedAt = %q, want %q", record.GeneratedAt, fixed.Format(time.RFC3339))
	}
	if record.Sunrise == "" || record.Sunset == "" {
		t.Errorf("Sunrise/Sunset = %q/%q, want HH:MM:SS values", record.Sunrise, record.Sunset)
	}
	if len(strings.Split(record.Sunrise, ":")) != 3 {
		t.Errorf("Sunrise = %q, want HH:MM:SS shape", record.Sunrise)
	}
}

func TestTransform_OptionalFieldsDefaultToZero(t *testing.T) {
	record, err := New().Transform(validPayload())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if record.WindSpeed != 0 || record.WindDirection != 0 {
		t.Errorf("wind defaults = %v/%v, want 0/0", record.WindSpeed, record.WindDirection)
	}
	if record.Visibility != 0 {
		t.Errorf("Visibility = %d, want 0", record.Visibility)
	}
}

func TestTransform_OptionalFieldsUsedWhenPresent(t *testing.T) {
	payload := validPayload()
	payload["wind"] = map[string]any{"speed": 3.6, "deg": float64(270)}
	payload["visibility"] = float64(10000)

	record, err := New().Transform(payload)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if record.WindSpeed != 3.6 {
		t.Errorf("WindSpeed = %v, want 3.6", record.WindSpeed)
	}
	if record.WindDirection != 270 {
		t.Errorf("WindDirection = %v, want 270", record.WindDirection)
	}
	if record.Visibility != 10000 {
		t.Errorf("Visibility = %d, want 10000", record.Visibility)
	}
}

func TestTransform_MissingSections(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(models.RawPayload)
		wantProblem string
	}{
		{name: "missing coord", mutate: func(p models.RawPayload) { delete(p, "coord") }, wantProblem: "coord"},
		{name: "missing name", mutate: func(p models.RawPayload) { delete(p, "name") }, wantProblem: "name"},
		{name: "missing sys", mutate: func(p models.RawPayload) { delete(p, "sys") }, wantProblem: "sys"},
		{name: "missing main", mutate: func(p models.RawPayload) { delete(p, "main") }, wantProblem: "main"},
		{name: "missing clouds", mutate: func(p models.RawPayload) { delete(p, "clouds") }, wantProblem: "clouds"},
		{name: "missing weather", mutate: func(p models.RawPayload) { delete(p, "weather") }, wantProblem: "weather"},
		{name: "empty weather list", mutate: func(p models.RawPayload) { p["weather"] = []any{} }, wantProblem: "weather"},
		{
			name: "missing nested country",
			mutate: func(p models.RawPayload) {
				delete(p["sys"].(map[string]any), "country")
			},
			wantProblem: "sys.country",
		},
		{
			name: "malformed temp",
			mutate: func(p models.RawPayload) {
				p["main"].(map[string]any)["temp"] = "22.1"
			},
			wantProblem: "main.temp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			tt.mutate(payload)

			_, err := New().Transform(payload)
			if err == nil {
				t.Fatal("Transform() expected error, got nil")
			}
			if !errors.Is(err, task.ErrValidation) {
				t.Errorf("Transform() error = %v, want ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantProblem) {
				t.Errorf("Transform() error = %v, want mention of %q", err, tt.wantProblem)
			}
		})
	}
}

func TestTransform_ReportsEveryMissingField(t *testing.T) {
	payload := validPayload()
	delete(payload, "coord")
	delete(payload, "clouds")
	delete(payload["sys"].(map[string]any), "sunrise")

	_, err := New().Transform(payload)
	if err == nil {
		t.Fatal("Transform() expected error, got nil")
	}
	for _, want := range []string{"coord", "clouds", "sys.sunrise"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Transform() error = %v, want mention of %q", err, want)
		}
	}
}

func TestTransform_DeterministicExceptTimestamp(t *testing.T) {
	fixed := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	tr := NewWithClock(func() time.Time { return fixed })

	first, err := tr.Transform(validPayload())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	second, err := tr.Transform(validPayload())
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if first != second {
		t.Errorf("Transform() not deterministic with a fixed clock:\n%+v\n%+v", first, second)
	}
}
