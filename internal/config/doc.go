// Package config loads the bambushain configuration.
//
// Load starts from Default and overlays every BAMBOO_ environment
// variable. The first underscore after the prefix separates the group
// from the field:
//
//	BAMBOO_SERVER_PORT=8080          -> Server.Port
//	BAMBOO_DB_PASSWORD=secret        -> Database.Password
//	BAMBOO_AUTH_TOKEN_TTL=720h       -> Auth.TokenTTL
//	BAMBOO_SERVER_ALLOWED_ORIGINS=https://a.example,https://b.example
//
// Durations use time.ParseDuration syntax and lists are comma separated.
// A .env file in the working directory is loaded before the environment
// is read.
//
// # Validation
//
// Validate checks the struct tags with go-playground/validator and then
// the rules spanning fields. Production additionally requires a secure
// cookie, a mail API key and a database password other than the default.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
