// Package platform persists submitted jobs and their results in
// MongoDB, so the HTTP API can hand a client a job ID immediately and
// let them poll its status and results. Within this repository only
// CreateJob and Get have callers; SetRunning, Complete and Fail are not
// called, so jobs created through the HTTP API stay pending.
package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"goflix/pkg/types"
)

// ErrMissingMongoURI indicates that the expected environment variable is not set.
var ErrMissingMongoURI = errors.New("platform: missing MONGODB_URI environment variable")

const (
	dbName       = "goflix"
	jobsCollName = "jobs"
)

// Service wraps a MongoDB client with the job-persistence operations
// the HTTP API needs.
type Service struct {
	client *mongo.Client
}

// NewClient connects to MONGODB_URI and verifies the connection with a ping.
func NewClient(ctx context.Context) (*Service, error) {
	uri := strings.TrimSpace(os.Getenv("MONGODB_URI"))
	if uri == "" {
		return nil, fmt.Errorf("%w", ErrMissingMongoURI)
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opt := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opt)
	if err != nil {
		return nil, fmt.Errorf("platform: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("platform: ping: %w", err)
	}

	return &Service{client: client}, nil
}

func (s *Service) jobs() *mongo.Collection {
	return s.client.Database(dbName).Collection(jobsCollName)
}

// GetUsersCollection returns the users collection backing the auth package.
func (s *Service) GetUsersCollection() *mongo.Collection {
	return s.client.Database(dbName).Collection("users")
}

// CreateJob inserts a new pending job under the caller-supplied id.
func (s *Service) CreateJob(ctx context.Context, id string) error {
	job := types.Job{
		ID:        id,
		Status:    types.JobPending,
		Submitted: time.Now().UnixMilli(),
	}
	_, err := s.jobs().InsertOne(ctx, job)
	if err != nil {
		return fmt.Errorf("platform: create job: %w", err)
	}
	return nil
}

// SetRunning marks a job as actively being processed by the engine.
func (s *Service) SetRunning(ctx context.Context, id string) error {
	_, err := s.jobs().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": types.JobRunning}})
	return err
}

// Complete stores the accumulated output records and marks the job done.
func (s *Service) Complete(ctx context.Context, id string, results []types.OutputRecord) error {
	update := bson.M{"$set": bson.M{"status": types.JobDone, "results": results}}
	_, err := s.jobs().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Fail marks a job as failed with the given error message.
func (s *Service) Fail(ctx context.Context, id string, cause error) error {
	update := bson.M{"$set": bson.M{"status": types.JobFailed, "error": cause.Error()}}
	_, err := s.jobs().UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Get fetches a job by ID.
func (s *Service) Get(ctx context.Context, id string) (types.Job, error) {
	var job types.Job
	err := s.jobs().FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		return types.Job{}, fmt.Errorf("platform: get job %s: %w", id, err)
	}
	return job, nil
}

// Disconnect closes the underlying client.
func (s *Service) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies the connection is still alive, for health checks.
func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}
