// Package mongosink writes customers to a MongoDB collection.
package mongosink

import (
	"context"
	"net"
	"net/url"
	"strconv"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/laurel-etl/laurel/pkg/constants"
	"github.com/laurel-etl/laurel/pkg/customer"
	"github.com/laurel-etl/laurel/pkg/errors"
	"github.com/laurel-etl/laurel/pkg/logging"
	"github.com/laurel-etl/laurel/pkg/sink"
)

// DefaultCollection is the collection customers are written to.
const DefaultCollection = "customer"

// Config selects the server and target collection.
type Config struct {
	URI        string
	Database   string
	Collection string
}

// Sink replaces the contents of one collection. Customers are written to a
// staging collection which is then renamed over the target, so readers see
// either the previous pass or the new one.
type Sink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// URI builds a mongodb:// connection string.
func URI(host string, port int, user, password string) string {
	u := url.URL{Scheme: "mongodb", Host: net.JoinHostPort(host, strconv.Itoa(port))}
	switch {
	case user != "" && password != "":
		u.User = url.UserPassword(user, password)
	case user != "":
		u.User = url.User(user)
	}
	return u.String()
}

// Open connects and pings the server.
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Database == "" {
		return nil, errors.NewValidationError("db_name", cfg.Database, "required for mongodb")
	}
	name := cfg.Collection
	if name == "" {
		name = DefaultCollection
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(constants.ConnectTimeout))
	if err != nil {
		return nil, errors.WrapSink(sink.MongoDB.String(), "connect", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.WrapSink(sink.MongoDB.String(), "connect", err)
	}

	return &Sink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(name),
	}, nil
}

// Driver returns MongoDB.
func (s *Sink) Driver() sink.Driver { return sink.MongoDB }

// ReplaceAll fills a fresh staging collection with customers and renames it
// over the target collection, dropping the previous contents in the same
// server-side step.
func (s *Sink) ReplaceAll(ctx context.Context, customers []customer.Customer) (int, error) {
	db := s.collection.Database()
	staging := db.Collection(stagingName(s.collection.Name()))

	// leftovers of an interrupted pass
	if err := staging.Drop(ctx); err != nil {
		return 0, errors.WrapSink(sink.MongoDB.String(), "stage", err)
	}
	// an empty pass still needs a collection to rename
	if err := db.CreateCollection(ctx, staging.Name()); err != nil {
		return 0, errors.WrapSink(sink.MongoDB.String(), "stage", err)
	}

	inserted := 0
	if len(customers) > 0 {
		rows := sink.AssignIDs(customers)
		docs := make([]any, len(rows))
		for i := range rows {
			docs[i] = rows[i]
		}
		res, err := staging.InsertMany(ctx, docs)
		if err != nil {
			_ = staging.Drop(context.WithoutCancel(ctx))
			return 0, errors.WrapSink(sink.MongoDB.String(), "insert", err)
		}
		inserted = len(res.InsertedIDs)
	}

	cmd := renameCommand(db.Name(), staging.Name(), s.collection.Name())
	if err := s.client.Database("admin").RunCommand(ctx, cmd).Err(); err != nil {
		_ = staging.Drop(context.WithoutCancel(ctx))
		return 0, errors.WrapSink(sink.MongoDB.String(), "swap", err)
	}
	logging.FromContext(ctx).Debug().
		Int("documents", inserted).
		Str("collection", s.collection.Name()).
		Msg("Replaced customers")
	return inserted, nil
}

func stagingName(collection string) string {
	return collection + "_staging"
}

// renameCommand moves from over to within db, replacing to if it exists.
func renameCommand(db, from, to string) bson.D {
	return bson.D{
		{Key: "renameCollection", Value: db + "." + from},
		{Key: "to", Value: db + "." + to},
		{Key: "dropTarget", Value: true},
	}
}

// Close disconnects the client.
func (s *Sink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ConnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
