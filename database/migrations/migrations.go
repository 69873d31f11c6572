// Package migrations registers the catalog schema. Importing it for side
// effects makes every migration available to the migration runner.
package migrations
