// Package ui holds the color themes shared by the CLI output and the TUI
// dashboard, and decides whether colors are used at all.
package ui
