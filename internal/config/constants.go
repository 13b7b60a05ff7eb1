package config

import "time"

// Document store layout.
const (
	UsersCollection = "remixUsers"
	DappsCollection = "dapps"
)

// Fixed delays when no config is present.
const (
	DefaultStatusReset   = 10 * time.Second
	DefaultAlertDuration = 5 * time.Second
	StoreTimeout         = 15 * time.Second
)
