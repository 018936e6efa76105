package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crosses/config"
	"crosses/experiments"
)

func main() {
	path := flag.String("config", "", "Path of the YAML experiment config, defaults apply without one")
	games := flag.Int("games", 0, "Number of games per matchup, overrides the config")
	out := flag.String("out", "", "Directory for the experiment records, overrides the config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	c := config.Default()
	if *path != "" {
		var err error
		c, err = config.Load(*path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}
	}
	if *games > 0 {
		c.Experiment.Games = *games
	}
	if *out != "" {
		c.Experiment.Out = *out
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if _, err := experiments.Run(c); err != nil {
		log.Fatal().Err(err).Msgf("%s experiment failed", c.Experiment.Name)
	}
}
