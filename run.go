package main

import (
	"context"
	"fmt"

	"github.com/umpc/go-sortedmap"
	"github.com/umpc/go-sortedmap/desc"
	"golang.org/x/sync/errgroup"

	"github.com/cert-lv/sql2mongo/tdk"
	"github.com/cert-lv/sql2mongo/translate"
	"github.com/cert-lv/sql2mongo/xquery"
)

// Statistics fields tracked for a translated batch
var statsFields = []string{"collection", "operation"}

/*
 * Translate a batch of statements from the given files or the stdin
 * and print the results to the stdout, one document per statement.
 *
 * Returns the process exit code: 0 when the whole batch succeeded,
 * 1 when at least one statement was rejected. A failing statement
 * never aborts the rest of the batch
 */
func runBatch(paths []string) int {
	statements, err := readStatements(paths)
	if err != nil {
		log.Error().Msg(err.Error())
		return 1
	}

	if len(statements) == 0 {
		log.Warn().Msg("Nothing to translate")
		return 0
	}

	translator, err := getTranslator("")
	if err != nil {
		log.Error().Msg(err.Error())
		return 1
	}

	log.Info().
		Str("dialect", translator.Name()).
		Int("statements", len(statements)).
		Msgf("sql2mongo v%s. Translating a batch", version)

	// Translated operations and failures, indexed as the input
	// so the output order doesn't depend on the goroutines timing
	results := make([]interface{}, len(statements))
	failed := make([]error, len(statements))

	// Group of concurrent translations to improve performance
	group, _ := errgroup.WithContext(context.Background())

	if config.Workers > 0 {
		group.SetLimit(config.Workers)
	}

	for i, statement := range statements {
		group.Go(func() error {
			result, err := translator.Translate(statement)
			if err != nil {
				failed[i] = err
				return fmt.Errorf("%s", err.Error())
			}

			results[i] = result
			return nil
		})
	}

	// Individual failures are kept per statement,
	// here only remember whether the whole batch stayed clean
	ok := group.Wait() == nil

	// Struct to store statistics data
	// of the most frequent collections & operations
	stats := tdk.NewStats()

	if config.Output.Stats {
		for _, field := range statsFields {
			stats.Fields[field] = sortedmap.New(10, desc.Int)
		}
	}

	for i, statement := range statements {
		if failed[i] != nil {
			log.Error().
				Str("statement", statement).
				Msg("Can't translate: " + failed[i].Error())
			continue
		}

		// Warn about AND conditions silently replaced by a later
		// duplicate of the same field
		if query, isSQL := results[i].(*translate.Query); isSQL && len(query.Overwritten) != 0 {
			log.Warn().
				Str("statement", statement).
				Strs("fields", query.Overwritten).
				Msg("Duplicated AND fields, the last condition wins")
		}

		if config.Output.Stats {
			updateStats(stats, results[i])
		}

		output, err := formatTo(results[i], config.Output.Format)
		if err != nil {
			log.Error().
				Str("statement", statement).
				Msg(err.Error())

			ok = false
			continue
		}

		fmt.Println(output)
	}

	// Append the batch statistics in the selected format
	if config.Output.Stats {
		top, err := stats.ToJSON(translator.Name())
		if err != nil {
			log.Error().Msg("Can't collect batch statistics: " + err.Error())
			ok = false

		} else {
			output, err := formatTo(top, config.Output.Format)
			if err != nil {
				log.Error().Msg(err.Error())
				ok = false
			} else {
				fmt.Println(output)
			}
		}
	}

	if !ok {
		return 1
	}

	return 0
}

/*
 * Count a single translated operation in the batch statistics
 */
func updateStats(stats *tdk.Stats, result interface{}) {
	entry := map[string]interface{}{}

	switch operation := result.(type) {
	case *translate.Query:
		entry["collection"] = operation.Collection
		entry["operation"] = "find"
	case *xquery.Operation:
		entry["collection"] = operation.Collection
		entry["operation"] = operation.Kind
	default:
		return
	}

	for _, field := range statsFields {
		stats.Update(entry, field)
	}
}
