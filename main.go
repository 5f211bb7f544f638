package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var (
	// Holder of all service's configuration
	config *Config

	// Instance of the global logger
	log zerolog.Logger

	// Current service's version
	version string
)

func main() {
	/*
	 * Parse configuration file
	 */
	err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't load configuration: %s", err.Error())
		os.Exit(1)
	}

	/*
	 * Setup a global logger to the file or stderr
	 */
	err = setupLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Can't setup a logfile: %s", err.Error())
		os.Exit(1)
	}

	/*
	 * Register the compiled-in query dialects
	 */
	err = setupTranslators()
	if err != nil {
		log.Fatal().Msg("Can't setup translators: " + err.Error())
	}

	// Load service's version
	loadVersion()

	/*
	 * Start an API service if requested,
	 * translate the given batch otherwise
	 */
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		err = serve()
		if err != nil {
			log.Fatal().Msg("Can't start an API server: " + err.Error())
		}
		return
	}

	os.Exit(runBatch(os.Args[1:]))
}
