package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Addr     string   `koanf:"addr"`
	Frontend Frontend `koanf:"frontend"`
	Calendar Calendar `koanf:"calendar"`
	Breaks   Breaks   `koanf:"breaks"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

// Calendar configures the emitted iCalendar documents. Timezone is the
// institution's civil time zone; every event carries it as a fixed TZID.
type Calendar struct {
	Timezone  string `koanf:"timezone"`
	ProductID string `koanf:"productid"`
}

// Breaks points at the versioned break-calendar data file.
type Breaks struct {
	File string `koanf:"file"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Addr: ":8181",
		Frontend: Frontend{
			Enabled: true,
		},
		Calendar: Calendar{
			Timezone:  "America/Vancouver",
			ProductID: "-//coursecal//course schedule converter//EN",
		},
		Breaks: Breaks{
			File: "./config/breaks.yaml",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "COURSECAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "COURSECAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
