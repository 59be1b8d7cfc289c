package normalize

import "fmt"

func issueLine(field string, count int, pct float64) string {
	return fmt.Sprintf("%s: %d missing (%.2f%%)", field, count, pct)
}

func countLine(what string, count int) string {
	return fmt.Sprintf("found %d %s", count, what)
}
