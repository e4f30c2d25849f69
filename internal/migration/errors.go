package migration

import "strings"

// CleanDriverError strips the severity prefixes MySQL and PostgreSQL
// drivers put on batch-update messages, for readability.
func CleanDriverError(err error) string {
	msg := err.Error()
	for _, prefix := range []string{"FATAL: ", "ERROR: "} {
		if i := strings.Index(msg, prefix); i >= 0 {
			msg = msg[:i] + msg[i+len(prefix):]
			break
		}
	}
	return strings.TrimSpace(msg)
}
