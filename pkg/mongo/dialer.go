package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ClientOptions builds driver options from the configuration.
func ClientOptions(cfg Config) *options.ClientOptions {
	cfg = cfg.withDefaults()
	return options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetTimeout(cfg.SocketTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetRetryWrites(cfg.RetryWrites).
		SetRetryReads(cfg.RetryReads)
}

// Dial is the default Dialer. It creates a driver client and pings the primary,
// disconnecting the client again when the ping fails so no partial handle leaks.
func Dial(ctx context.Context, cfg Config) (Client, error) {
	client, err := mongo.Connect(ClientOptions(cfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if derr := client.Disconnect(context.WithoutCancel(ctx)); derr != nil {
			return nil, errors.Join(err, derr)
		}
		return nil, err
	}
	return client, nil
}
