/*
Package session keeps named diagrams and their edit history.

A Manager serializes access per diagram, runs actions through the engine and
stores the resulting snapshot together with the undo/redo stacks. Snapshots are
immutable, so history entries are plain references to earlier states.
*/
package session
