// Package ui renders verification progress for people watching the console.
//
// ConsoleProgressLogger observes git command lifecycle events and requirement
// outcomes and turns them into short log lines, while detailed telemetry keeps
// flowing through the structured logger.
package ui
