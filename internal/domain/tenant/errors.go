package tenant

import "errors"

var (
	// ErrConfigRead means the config file is missing or unreadable.
	ErrConfigRead = errors.New("failed to read config file")
	// ErrConfigParse means the config file is malformed or does not match the schema.
	ErrConfigParse = errors.New("failed to parse config")
	// ErrNoTenant means the tenant map is empty.
	ErrNoTenant = errors.New("no tenant configuration found")
)
