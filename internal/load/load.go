package load

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/GuissellB/Tarea-2-orquestador/internal/models"
	"github.com/GuissellB/Tarea-2-orquestador/internal/task"
)

// Loader inserts WeatherRecords into a MongoDB collection. The connection is
// scoped to one Insert call: every attempt connects, inserts, and disconnects
// on all exit paths, so no client outlives a failed attempt.
type Loader struct {
	uri            string
	database       string
	collection     string
	connectTimeout time.Duration
}

func New(uri, database, collection string, connectTimeout time.Duration) (*Loader, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: mongo URI is required", task.ErrConfiguration)
	}
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	return &Loader{
		uri:            uri,
		database:       database,
		collection:     collection,
		connectTimeout: connectTimeout,
	}, nil
}

// Target names the destination namespace for log events.
func (l *Loader) Target() string {
	return l.database + "." + l.collection
}

// Insert writes record as a single document and returns a confirmation
// containing the store-generated id. Connection and insert failures are
// transient; the runner decides whether another attempt is allowed.
func (l *Loader) Insert(ctx context.Context, record models.WeatherRecord) (string, error) {
	connectCtx, cancel := context.WithTimeout(ctx, l.connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(l.uri).
		SetServerSelectionTimeout(l.connectTimeout))
	if err != nil {
		return "", fmt.Errorf("%w: mongo connect: %v", task.ErrTransient, err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	coll := client.Database(l.database).Collection(l.collection)
	res, err := coll.InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("%w: mongo insert: %v", task.ErrTransient, err)
	}

	return fmt.Sprintf("document inserted with _id=%v", res.InsertedID), nil
}
