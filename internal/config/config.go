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
	Host     string   `koanf:"host"`
	Frontend Frontend `koanf:"frontend"`
	Database Database `koanf:"db"`
	Finance  Finance  `koanf:"finance"`
	Assist   Assist   `koanf:"assist"`
}

type Frontend struct {
	Enabled bool `koanf:"enabled"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type Finance struct {
	// PlannedMonthlyHours is used to derive an hourly cost rate from a monthly
	// salary when an employee has no planned hours of their own.
	PlannedMonthlyHours int `koanf:"plannedmonthlyhours"`
}

// Assist configures the LLM endpoint used by the free-text command layer.
type Assist struct {
	BaseUrl string `koanf:"baseurl"`
	ApiKey  string `koanf:"apikey"`
	Model   string `koanf:"model"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host: "http://localhost:3000",
		Frontend: Frontend{
			Enabled: true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "crewdeck",
			Pass:   "",
			Name:   "crewdeck",
			Schema: "crewdeck",
		},
		Finance: Finance{
			PlannedMonthlyHours: 160,
		},
		Assist: Assist{
			BaseUrl: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
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
		Prefix: "CREWDECK_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CREWDECK_")), "_", ".")
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
