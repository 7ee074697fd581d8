// Package model holds the value types shared across the downloader:
// acquisition preferences, resolved resource metadata, the output
// naming convention, and per-item outcomes with their batch summary.
//
// Everything in this package is a plain immutable value; resolution,
// transfer and tagging live in their own packages.
package model
