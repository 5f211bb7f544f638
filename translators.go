package main

import (
	"fmt"

	"github.com/cert-lv/sql2mongo/tdk"
	"github.com/cert-lv/sql2mongo/translate"
	"github.com/cert-lv/sql2mongo/xquery"
)

var (
	// Registered query translators.
	// Is a map of dialect's name -> related translator
	translators map[string]tdk.Translator
)

/*
 * Translator of the SQL SELECT dialect
 */
type sqlTranslator struct{}

func (t *sqlTranslator) Name() string {
	return "sql"
}

func (t *sqlTranslator) Translate(statement string) (interface{}, error) {
	query, err := translate.Translate(statement)
	if err != nil {
		return nil, err
	}

	return query, nil
}

/*
 * Translator of the XQuery CRUD dialect
 */
type xqueryTranslator struct{}

func (t *xqueryTranslator) Name() string {
	return "xquery"
}

func (t *xqueryTranslator) Translate(statement string) (interface{}, error) {
	operation, err := xquery.Translate(statement)
	if err != nil {
		return nil, err
	}

	return operation, nil
}

/*
 * Register the compiled-in dialect translators
 */
func setupTranslators() error {
	// Clear old content
	translators = make(map[string]tdk.Translator)

	for _, translator := range []tdk.Translator{
		&sqlTranslator{},
		&xqueryTranslator{},
	} {
		name := translator.Name()

		if _, ok := translators[name]; ok {
			return fmt.Errorf("Duplicate dialect name: '%s'", name)
		}

		translators[name] = translator

		log.Info().
			Str("dialect", name).
			Msg("Translator registered")
	}

	// The batch mode default must be one of the registered dialects
	if _, ok := translators[config.Dialect]; !ok {
		return fmt.Errorf("Unknown default dialect configured: '%s'", config.Dialect)
	}

	return nil
}

/*
 * Pick a translator by the dialect's name,
 * an empty name selects the configured default
 */
func getTranslator(dialect string) (tdk.Translator, error) {
	if dialect == "" {
		dialect = config.Dialect
	}

	translator, ok := translators[dialect]
	if !ok {
		return nil, fmt.Errorf("Unknown dialect requested: '%s'", dialect)
	}

	return translator, nil
}
