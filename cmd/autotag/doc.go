// Package main hosts the autotag CLI entrypoint and command graph.
//
// The Cobra-based command tree covers library tagging runs, single-file
// identification, configuration scaffolding, and response-cache maintenance.
// It centralizes configuration resolution, provider client assembly, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
