package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// The checkpoint is a deliberate boundary between transformation and
// persistence: a resumed run can reload a previously transformed record from
// disk without re-calling the external API.

// Sink writes a WeatherRecord to a JSON file, overwriting existing content.
type Sink struct{}

// Save serializes record as 2-space-indented UTF-8 JSON with HTML escaping
// off so non-ASCII text (city names, descriptions) is stored as-is. Returns
// the path written.
func (Sink) Save(record models.WeatherRecord, path string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return "", fmt.Errorf("%w: encode record: %v", task.ErrPersistence, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", task.ErrPersistence, path, err)
	}
	return path, nil
}

// Source reads a WeatherRecord back from a JSON file.
type Source struct{}

// Load reads the file at path and decodes it into a WeatherRecord. The file
// must hold a non-empty JSON object; arrays, scalars, and empty objects are
// validation failures, while I/O failures are retryable persistence errors.
func (Source) Load(path string) (models.WeatherRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.WeatherRecord{}, fmt.Errorf("%w: read %s: %v", task.ErrPersistence, path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.WeatherRecord{}, fmt.Errorf("%w: %s is not a JSON object: %v", task.ErrValidation, path, err)
	}
	if len(doc) == 0 {
		return models.WeatherRecord{}, fmt.Errorf("%w: %s holds an empty object", task.ErrValidation, path)
	}

	var record models.WeatherRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return models.WeatherRecord{}, fmt.Errorf("%w: %s does not decode as a weather record: %v", task.ErrValidation, path, err)
	}
	return record, nil
}
