// Package toolchain invokes the Python formatting and analysis tools that
// back each pipeline stage. Formatters receive source on stdin and print the
// rewritten file; analyzers report findings and exit nonzero when a file
// fails. Every tool runs under the interpreter configured for the
// repository, so results match the project's own environment.
package toolchain
