package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

func sampleRecord() models.WeatherRecord {
	return models.WeatherRecord{
		City:          "San José",
		Country:       "CR",
		Temperature:   22.1,
		FeelsLike:     21.5,
		TempMin:       20,
		TempMax:       24,
		Humidity:      80,
		Pressure:      1012,
		Description:   "cielo claro",
		Icon:          "01d",
		Cloudiness:    5,
		WindSpeed:     3.6,
		WindDirection: 270,
		Visibility:    10000,
		Sunrise:       "05:45:00",
		Sunset:        "17:30:00",
		Coordinates:   models.Coordinates{Latitude: 9.93, Longitude: -84.08},
		GeneratedAt:   "2024-03-15T12:30:00Z",
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clima_data.json")
	record := sampleRecord()

	savedPath, err := Sink{}.Save(record, path)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if savedPath != path {
		t.Errorf("Save() = %q, want %q", savedPath, path)
	}

	got, err := Source{}.Load(savedPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != record {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, record)
	}
}

func TestSave_FormatsReadableJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clima_data.json")
	if _, err := (Sink{}).Save(sampleRecord(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "\n  \"city\": \"San José\"") {
		t.Errorf("expected 2-space indent and unescaped non-ASCII, got:\n%s", text)
	}
	if strings.Contains(text, `\u`) {
		t.Errorf("expected non-ASCII preserved rather than escaped, got:\n%s", text)
	}
}

func TestSave_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clima_data.json")
	if err := os.WriteFile(path, []byte(`{"stale": true}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := (Sink{}).Save(sampleRecord(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Source{}.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.City != "San José" {
		t.Errorf("City = %q, want the overwritten record", got.City)
	}
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantKind error
	}{
		{name: "empty object", content: `{}`, wantKind: task.ErrValidation},
		{name: "array", content: `[{"city":"x"}]`, wantKind: task.ErrValidation},
		{name: "scalar", content: `42`, wantKind: task.ErrValidation},
		{name: "not JSON", content: `city: nope`, wantKind: task.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "clima_data.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			_, err := Source{}.Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("Load() error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestLoad_MissingFileIsPersistenceError(t *testing.T) {
	_, err := Source{}.Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
	if !errors.Is(err, task.ErrPersistence) {
		t.Errorf("Load() error = %v, want ErrPersistence", err)
	}
}
