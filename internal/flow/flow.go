package flow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/observability"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// State is the orchestrator's position in the pipeline. Failed is absorbing:
// any stage error moves there and the remaining stages never run.
type State string

const (
	StateStart        State = "start"
	StateExtracting   State = "extracting"
	StateTransforming State = "transforming"
	StateSaving       State = "saving"
	StateReloading    State = "reloading"
	StateLoading      State = "loading"
	StateSuccess      State = "success"
	StateFailed       State = "failed"
)

type Extractor interface {
	Fetch(ctx context.Context, location string) (models.RawPayload, error)
}

type Transformer interface {
	Transform(payload models.RawPayload) (models.WeatherRecord, error)
}

type Sink interface {
	Save(record models.WeatherRecord, path string) (string, error)
}

type Source interface {
	Load(path string) (models.WeatherRecord, error)
}

type Loader interface {
	Insert(ctx context.Context, record models.WeatherRecord) (string, error)
	Target() string
}

// Policies holds the per-stage retry policies.
type Policies struct {
	Extract  task.Policy
	SaveJSON task.Policy
	ReadJSON task.Policy
	Load     task.Policy
}

// DefaultPolicies matches the original pipeline: network and store stages get
// bounded retries with fixed delays; the transform stage is run once because a
// malformed payload will not become valid by repetition.
func DefaultPolicies() Policies {
	return Policies{
		Extract:  task.Policy{MaxAttempts: 3, Delay: 5 * time.Second},
		SaveJSON: task.Policy{MaxAttempts: 2, Delay: 2 * time.Second},
		ReadJSON: task.Policy{MaxAttempts: 2, Delay: 2 * time.Second},
		Load:     task.Policy{MaxAttempts: 3, Delay: 5 * time.Second},
	}
}

// transformPolicy is fixed, not configurable: one attempt, no delay.
var transformPolicy = task.Policy{MaxAttempts: 1}

// Flow runs the linear pipeline extract → transform → save_json → read_json →
// load, handing each stage's output to the next and stopping on the first
// unrecovered failure. No compensation happens on failure; a checkpoint file
// already written stays in place.
type Flow struct {
	logger      *zap.Logger
	extractor   Extractor
	transformer Transformer
	sink        Sink
	source      Source
	loader      Loader
	policies    Policies
	state       State
}

func New(logger *zap.Logger, extractor Extractor, transformer Transformer, sink Sink, source Source, loader Loader, policies Policies) *Flow {
	return &Flow{
		logger:      logger,
		extractor:   extractor,
		transformer: transformer,
		sink:        sink,
		source:      source,
		loader:      loader,
		policies:    policies,
		state:       StateStart,
	}
}

// State reports the flow's current (or terminal) state.
func (f *Flow) State() State {
	return f.state
}

// Run executes the whole pipeline once for the given location and checkpoint
// path, returning the loader's confirmation. The terminal error of a failed
// stage is returned unchanged, after the flow_error and flow_time events.
func (f *Flow) Run(ctx context.Context, location, jsonPath string) (string, error) {
	logger := f.logger.With(zap.String("run_id", uuid.New().String()))

	start := time.Now()
	f.state = StateStart
	logger.Info("flow_start",
		zap.String("location", location),
		zap.String("json_path", jsonPath))

	result, err := f.run(ctx, logger, location, jsonPath)

	seconds := time.Since(start).Seconds()
	if err != nil {
		f.state = StateFailed
		logger.Error("flow_error", zap.Error(err))
		observability.FlowRunsTotal.WithLabelValues("error").Inc()
	} else {
		observability.FlowRunsTotal.WithLabelValues("success").Inc()
	}
	logger.Info("flow_time", zap.Float64("seconds", seconds))
	observability.FlowDuration.Observe(seconds)

	return result, err
}

func (f *Flow) run(ctx context.Context, logger *zap.Logger, location, jsonPath string) (string, error) {
	locLogger := logger.With(zap.String("location", location))
	pathLogger := logger.With(zap.String("path", jsonPath))

	f.state = StateExtracting
	payload, err := task.Run(ctx, locLogger, "extract", f.policies.Extract,
		func(ctx context.Context) (models.RawPayload, error) {
			return f.extractor.Fetch(ctx, location)
		})
	if err != nil {
		return "", err
	}

	f.state = StateTransforming
	record, err := task.Run(ctx, logger, "transform", transformPolicy,
		func(context.Context) (models.WeatherRecord, error) {
			return f.transformer.Transform(payload)
		})
	if err != nil {
		return "", err
	}

	f.state = StateSaving
	savedPath, err := task.Run(ctx, pathLogger, "save_json", f.policies.SaveJSON,
		func(context.Context) (string, error) {
			return f.sink.Save(record, jsonPath)
		})
	if err != nil {
		return "", err
	}

	f.state = StateReloading
	reloaded, err := task.Run(ctx, pathLogger, "read_json", f.policies.ReadJSON,
		func(context.Context) (models.WeatherRecord, error) {
			return f.source.Load(savedPath)
		})
	if err != nil {
		return "", err
	}

	f.state = StateLoading
	result, err := task.Run(ctx, logger.With(zap.String("target", f.loader.Target())), "load", f.policies.Load,
		func(ctx context.Context) (string, error) {
			return f.loader.Insert(ctx, reloaded)
		})
	if err != nil {
		return "", err
	}

	f.state = StateSuccess
	logger.Info("flow_success",
		zap.String("city", record.City),
		zap.Float64("temperature", record.Temperature),
		zap.String("result", result))
	return result, nil
}
