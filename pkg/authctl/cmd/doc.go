// Package cmd implements the cobra command tree for the authctl CLI:
// device-code login, logout, whoami, token inspection, configuration,
// and shell completion.
package cmd
