// Package resource shapes models into the JSON the API exposes.
//
//	func UserResource(u models.User) resource.Map {
//	    return resource.Map{"id": u.ID, "name": u.Name}
//	}
//	c.JSON(http.StatusOK, resource.One(user, UserResource))
package resource

import "github.com/shashiranjanraj/catalog/pkg/collection"

type Map = map[string]any

// Transformer converts one model into its public representation.
type Transformer[T any] func(T) Map

func One[T any](v T, fn Transformer[T]) Map { return fn(v) }

// Many never returns nil, so an empty input encodes as [].
func Many[T any](items []T, fn Transformer[T]) []Map {
	return collection.Map(items, func(v T) Map { return fn(v) })
}

// Wrap nests data under "data" with optional meta, for endpoints that need
// an envelope.
func Wrap(data any, meta Map) Map {
	out := Map{"data": data}
	if len(meta) > 0 {
		out["meta"] = meta
	}
	return out
}
