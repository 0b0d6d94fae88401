// Package gesture implements the connect interaction: dragging from one
// element port to another creates a relationship between them.
package gesture
