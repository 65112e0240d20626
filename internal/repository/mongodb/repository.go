package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/domain/models"
)

const logsCollection = "checklist_logs"

// archivedLog is the stored shape: the exported log plus when it was archived.
type archivedLog struct {
	models.LogEntry `bson:",inline"`
	ArchivedAt      time.Time `bson:"archived_at"`
}

// Repository keeps a copy of every exported checklist log in MongoDB.
type Repository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{
		client:   client,
		dbName:   dbName,
		collName: logsCollection,
		logger:   logger,
	}, nil
}

// ArchiveLog stores one exported log.
func (r *Repository) ArchiveLog(ctx context.Context, entry models.LogEntry) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	doc := archivedLog{LogEntry: entry, ArchivedAt: time.Now().UTC()}
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to archive checklist log: %w", err)
	}
	r.logger.Debug("checklist log archived", zap.Int64("log_id", entry.ID))
	return nil
}

// ArchivedLogs returns archived logs of one submitter, newest first. An empty
// submitter matches every log.
func (r *Repository) ArchivedLogs(ctx context.Context, submittedBy string) ([]models.LogEntry, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

	filter := bson.M{}
	if submittedBy != "" {
		filter["submitted_by"] = submittedBy
	}

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived logs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []archivedLog
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode archived logs: %w", err)
	}

	out := make([]models.LogEntry, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.LogEntry)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
