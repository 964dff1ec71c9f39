package models

// RawPayload is the untyped document returned by the weather provider. The
// provider guarantees nothing about its shape; every field must be validated
// before use.
type RawPayload = map[string]any

// Coordinates is the lat/lon pair of the observed location.
type Coordinates struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// WeatherRecord is the canonical observation schema. A record is built in one
// shot by the transformer and never mutated afterwards; the JSON checkpoint and
// the Mongo document carry exactly this field set.
type WeatherRecord struct {
	City          string      `json:"city" bson:"city"`
	Country       string      `json:"country" bson:"country"`
	Temperature   float64     `json:"temperature" bson:"temperature"`
	FeelsLike     float64     `json:"feels_like" bson:"feels_like"`
	TempMin       float64     `json:"temp_min" bson:"temp_min"`
	TempMax       float64     `json:"temp_max" bson:"temp_max"`
	Humidity      int         `json:"humidity" bson:"humidity"`
	Pressure      int         `json:"pressure" bson:"pressure"`
	Description   string      `json:"description" bson:"description"`
	Icon          string      `json:"icon" bson:"icon"`
	Cloudiness    int         `json:"cloudiness" bson:"cloudiness"`
	WindSpeed     float64     `json:"wind_speed" bson:"wind_speed"`
	WindDirection float64     `json:"wind_direction" bson:"wind_direction"`
	Visibility    int         `json:"visibility" bson:"visibility"`
	Sunrise       string      `json:"sunrise" bson:"sunrise"`
	Sunset        string      `json:"sunset" bson:"sunset"`
	Coordinates   Coordinates `json:"coordinates" bson:"coordinates"`
	GeneratedAt   string      `json:"generated_at" bson:"generated_at"`
}
