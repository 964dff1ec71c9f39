package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// Transformer maps the provider's raw document into the canonical
// WeatherRecord. It validates the whole payload up front and reports every
// missing or malformed field in one error, so a record is either fully
// populated or not produced at all. A malformed payload never gets better on
// retry; callers run this stage with a single attempt.
type Transformer struct {
	now func() time.Time
}

func New() *Transformer {
	return &Transformer{now: time.Now}
}

// NewWithClock pins the generated_at stamp; everything else in Transform is
// deterministic given the same payload.
func NewWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

func (t *Transformer) Transform(payload models.RawPayload) (models.WeatherRecord, error) {
	var problems []string

	city := stringField(payload, "name", &problems)
	sys := objectField(payload, "sys", &problems)
	main := objectField(payload, "main", &problems)
	clouds := objectField(payload, "clouds", &problems)
	coord := objectField(payload, "coord", &problems)

	country := stringField(sys, "sys.country", &problems)
	sunrise := epochField(sys, "sys.sunrise", &problems)
	sunset := epochField(sys, "sys.sunset", &problems)

	temp := floatField(main, "main.temp", &problems)
	feelsLike := floatField(main, "main.feels_like", &problems)
	tempMin := floatField(main, "main.temp_min", &problems)
	tempMax := floatField(main, "main.temp_max", &problems)
	humidity := intField(main, "main.humidity", &problems)
	pressure := intField(main, "main.pressure", &problems)

	description, icon := weatherFields(payload, &problems)

	cloudiness := intField(clouds, "clouds.all", &problems)
	latitude := floatField(coord, "coord.lat", &problems)
	longitude := floatField(coord, "coord.lon", &problems)

	if len(problems) > 0 {
		return models.WeatherRecord{}, fmt.Errorf("%w: payload missing required fields: %s",
			task.ErrValidation, strings.Join(problems, ", "))
	}

	windSpeed, windDirection := 0.0, 0.0
	if wind, ok := payload["wind"].(map[string]any); ok {
		windSpeed = optionalFloat(wind, "speed")
		windDirection = optionalFloat(wind, "deg")
	}
	visibility := int(optionalFloat(payload, "visibility"))

	return models.WeatherRecord{
		City:          city,
		Country:       country,
		Temperature:   temp,
		FeelsLike:     feelsLike,
		TempMin:       tempMin,
		TempMax:       tempMax,
		Humidity:      humidity,
		Pressure:      pressure,
		Description:   description,
		Icon:          icon,
		Cloudiness:    cloudiness,
		WindSpeed:     windSpeed,
		WindDirection: windDirection,
		Visibility:    visibility,
		Sunrise:       time.Unix(sunrise, 0).Format("15:04:05"),
		Sunset:        time.Unix(sunset, 0).Format("15:04:05"),
		Coordinates: models.Coordinates{
			Latitude:  latitude,
			Longitude: longitude,
		},
		GeneratedAt: t.now().Format(time.RFC3339),
	}, nil
}

// weatherFields pulls description and icon from the first entry of the
// weather list. An absent, empty, or wrong-shaped list is one "weather"
// problem; field-level problems inside the first entry get their own paths.
func weatherFields(payload models.RawPayload, problems *[]string) (description, icon string) {
	raw, ok := payload["weather"]
	if !ok {
		*problems = append(*problems, "weather")
		return "", ""
	}
	list, ok := raw.([]any)
	if !ok || len(list) == 0 {
		*problems = append(*problems, "weather")
		return "", ""
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		*problems = append(*problems, "weather[0]")
		return "", ""
	}
	description = stringField(first, "weather[0].description", problems)
	icon = stringField(first, "weather[0].icon", problems)
	return description, icon
}

// objectField returns doc[path's last segment] as a nested object, recording
// path when absent or not an object. A nil doc means the parent was already
// reported; nested lookups stay silent then.
func objectField(doc map[string]any, path string, problems *[]string) map[string]any {
	if doc == nil {
		return nil
	}
	raw, ok := doc[lastSegment(path)]
	if !ok {
		*problems = append(*problems, path)
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		*problems = append(*problems, path)
		return nil
	}
	return obj
}

func stringField(doc map[string]any, path string, problems *[]string) string {
	if doc == nil {
		return ""
	}
	raw, ok := doc[lastSegment(path)]
	if !ok {
		*problems = append(*problems, path)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		*problems = append(*problems, path)
		return ""
	}
	return s
}

func floatField(doc map[string]any, path string, problems *[]string) float64 {
	if doc == nil {
		return 0
	}
	raw, ok := doc[lastSegment(path)]
	if !ok {
		*problems = append(*problems, path)
		return 0
	}
	f, ok := toFloat(raw)
	if !ok {
		*problems = append(*problems, path)
		return 0
	}
	return f
}

func intField(doc map[string]any, path string, problems *[]string) int {
	return int(floatField(doc, path, problems))
}

func epochField(doc map[string]any, path string, problems *[]string) int64 {
	return int64(floatField(doc, path, problems))
}

// optionalFloat reads a numeric field with a documented default of 0 when the
// field is absent or non-numeric.
func optionalFloat(doc map[string]any, key string) float64 {
	if f, ok := toFloat(doc[key]); ok {
		return f
	}
	return 0
}

// toFloat accepts the numeric shapes a decoded JSON document (float64) or a
// hand-built test payload (int variants) can carry.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, ".]"); i >= 0 {
		return path[i+1:]
	}
	return path
}
