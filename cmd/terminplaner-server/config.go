package main

import (
	"os"

	"terminplaner-backend/lib/configutil"
)

type Config struct {
	// address the http server binds to, defaults to 127.0.0.1:5000
	Addr string `json:"addr"`
	// path of the meeting cache database
	Db string `json:"db"`
	// directory agenda documents get downloaded to
	Downloads string `json:"downloads"`
	// hours until cached meeting details expire
	CacheTtlHours int `json:"cache_ttl_hours"`
	// skip document download + summarization when false
	Documents bool `json:"documents"`
}

func readConfig() (Config, error) {
	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	if config.Addr == "" {
		config.Addr = "127.0.0.1:5000"
	}
	if config.Db == "" {
		config.Db = "meetings.db"
	}
	if config.Downloads == "" {
		config.Downloads = "downloads"
	}
	if config.CacheTtlHours <= 0 {
		config.CacheTtlHours = 24
	}
	return config, nil
}
