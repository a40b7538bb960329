package engine

import "fmt"

// NotFoundError reports an explicitly requested file that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file %s does not exist", e.Path)
}

// DuplicateNameError reports two resolved files sharing a basename.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("duplicate file names: %s", e.Name)
}

// ToolError reports an external tool exiting nonzero. Output holds the
// tool's captured report.
type ToolError struct {
	Code   int
	Output string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool exited with code %d", e.Code)
}
