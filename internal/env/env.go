// Copyright 2026 The vlsplot Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env reads vlsplot's settings from the environment and an
// optional .env file.
package env

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// PathVar names the variable that overrides the .env file location.
const PathVar = "VLSPLOT_ENV"

// Settings are the environment's overrides of the manifest and the
// output sinks. An empty field is unset.
type Settings struct {
	Data string // VLSPLOT_DATA
	Out  string // VLSPLOT_OUT
	DB   string // VLSPLOT_DB, as driver:dsn
	GCS  string // VLSPLOT_GCS, as bucket/prefix

	InfluxURL    string // VLSPLOT_INFLUX_URL
	InfluxToken  string // VLSPLOT_INFLUX_TOKEN
	InfluxOrg    string // VLSPLOT_INFLUX_ORG
	InfluxBucket string // VLSPLOT_INFLUX_BUCKET
}

// Load reads the .env file at path into the process environment and
// returns the resulting Settings. $VLSPLOT_ENV, if set, replaces path.
// A missing file is not an error. Variables that are already set keep
// their values.
func Load(path string) (Settings, error) {
	if p := os.Getenv(PathVar); p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, errors.Wrapf(err, "load %s", path)
	}
	return Read(os.Getenv), nil
}

// Read returns the Settings found through getenv.
func Read(getenv func(string) string) Settings {
	return Settings{
		Data:         getenv("VLSPLOT_DATA"),
		Out:          getenv("VLSPLOT_OUT"),
		DB:           getenv("VLSPLOT_DB"),
		GCS:          getenv("VLSPLOT_GCS"),
		InfluxURL:    getenv("VLSPLOT_INFLUX_URL"),
		InfluxToken:  getenv("VLSPLOT_INFLUX_TOKEN"),
		InfluxOrg:    getenv("VLSPLOT_INFLUX_ORG"),
		InfluxBucket: getenv("VLSPLOT_INFLUX_BUCKET"),
	}
}
