package config

import "errors"

var (
	ErrParseEnv      = errors.New("config: failed to parse environment")
	ErrReadFile      = errors.New("config: failed to read config file")
	ErrParseFile     = errors.New("config: failed to parse config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
