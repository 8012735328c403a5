// Package config loads typed configuration from the environment.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Every package owns its
// configuration struct, for example mongo.Config or httpserver.Config, and the
// binary loads each one with Load:
//
//	var mcfg mongo.Config
//	if err := config.Load(&mcfg); err != nil {
//		return err
//	}
//
// Parsed structs are cached per type, so repeated loads are cheap and
// consistent. Reset clears the cache in tests.
//
// Presence answers "is this variable configured?" without exposing values,
// which is what the health endpoint reports for secrets.
package config
