/*
 * Translator development kit.
 *
 * Shared bits of the compiled-in dialect translators: the interface
 * the service works with, batch statistics and small helpers
 */

package tdk

type Translator interface {
	// Dialect name as used in the configuration and in the API
	Name() string

	// Translate a single statement into its MongoDB operation
	// description. Must be safe for concurrent use, the service
	// translates batch input in parallel
	Translate(statement string) (interface{}, error)
}
