package main

import (
	"bufio"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
)

/*
 * Return content of the requested file by its path
 */
func loadFileIntoString(path string) (string, error) {
	file, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(file), nil
}

/*
 * Collect statements to translate from the given files,
 * from the stdin when no files are listed.
 *
 * One statement per line, empty lines and "#" comments are skipped
 */
func readStatements(paths []string) ([]string, error) {
	statements := []string{}

	if len(paths) == 0 {
		scanner := bufio.NewScanner(os.Stdin)

		for scanner.Scan() {
			statements = appendStatement(statements, scanner.Text())
		}

		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("Can't read statements from stdin: %s", err.Error())
		}

		return statements, nil
	}

	for _, path := range paths {
		content, err := loadFileIntoString(path)
		if err != nil {
			return nil, fmt.Errorf("Can't read statements file '%s': %s", path, err.Error())
		}

		for _, line := range strings.Split(content, "\n") {
			statements = appendStatement(statements, line)
		}
	}

	return statements, nil
}

/*
 * Skip empty lines and comments while collecting a batch
 */
func appendStatement(list []string, line string) []string {
	line = strings.TrimSpace(line)

	if line == "" || strings.HasPrefix(line, "#") {
		return list
	}

	return append(list, line)
}

/*
 * Load service's version
 */
func loadVersion() {
	path := "VERSION"

	// Try to get from the environment variable first
	if os.Getenv(path) != "" {
		version = os.Getenv(path)
		return
	}

	content, err := loadFileIntoString(path)
	if err != nil {
		// Keep the tool usable outside of its own directory
		version = "dev"
		return
	}

	version = strings.TrimSpace(content)
}
