package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrNotConnected           = errors.New("mongo client is not connected")
	ErrUnsupportedClient      = errors.New("mongo client does not expose databases")
	ErrClosed                 = errors.New("mongo manager closed during connect")
)
