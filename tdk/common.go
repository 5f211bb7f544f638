package tdk

/*
 * Check whether a slice of strings contains a given string
 */
func StringSliceContains(list []string, entry string) bool {
	for _, v := range list {
		if v == entry {
			return true
		}
	}

	return false
}
