package main

import (
	"net"
	"net/http"
	"time"
)

/*
 * Serves '/api' to process translation requests with a query inside
 */
func apiHandler(w http.ResponseWriter, r *http.Request) {
	// Get requestor IP
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		log.Error().Msg("User IP: " + r.RemoteAddr + " is not IP:port")
	}

	// User inputs:
	//   - query dialect
	//   - output format
	//   - statement to translate
	dialect := r.FormValue("dialect")
	format := r.FormValue("format")
	query := r.FormValue("query")

	// Response to send back
	response := &Response{}

	// Validate the query
	if query == "" {
		response.Error = "Query can't be empty"
		response.send(w, ip, dialect, format, "")

		log.Error().
			Str("ip", ip).
			Msg("Query can't be empty")
		return
	}

	// Find the requested dialect
	translator, err := getTranslator(dialect)
	if err != nil {
		response.Error = err.Error()
		response.send(w, ip, dialect, format, query)

		log.Error().
			Str("ip", ip).
			Str("query", query).
			Msg(err.Error())
		return
	}

	log.Info().
		Str("ip", ip).
		Str("dialect", translator.Name()).
		Str("query", query).
		Msg("New request")

	// Translate the statement
	result, err := translator.Translate(query)
	if err != nil {
		response.Error = err.Error()

		log.Error().
			Str("ip", ip).
			Str("dialect", translator.Name()).
			Str("query", query).
			Msg("Can't translate: " + err.Error())

	} else {
		response.Query = result
	}

	response.send(w, ip, translator.Name(), format, query)
}

/*
 * Start an HTTP API server.
 *
 * TLS is enabled when both certificate files are configured,
 * otherwise a plain HTTP server is started
 */
func serve() error {
	http.HandleFunc("/api", apiHandler)

	server := &http.Server{
		Addr:              config.Server.Host + ":" + config.Server.Port,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
	}

	log.Info().Msgf("sql2mongo v%s. Starting the service listening on %s:%s", version, config.Server.Host, config.Server.Port)

	if config.Server.CertFile != "" && config.Server.KeyFile != "" {
		return server.ListenAndServeTLS(config.Server.CertFile, config.Server.KeyFile)
	}

	return server.ListenAndServe()
}
