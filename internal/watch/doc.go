// Package watch keeps a working tree formatted while it is being edited.
// It watches the directories containing the formattable scope and reruns
// the format stage once a changed file settles. Rapid saves are debounced
// per file, and formatting failures are logged without stopping the
// watcher.
package watch
