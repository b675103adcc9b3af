package domain

import "time"

// Config is the runtime configuration shared by the request pipeline.
type Config struct {
	TokenSecret string
	TokenTTL    time.Duration
	ImageDir    string
}
