// Package pkg provides the core libraries for Untangle, a planar graph puzzle.
//
// # Overview
//
// A level is a planar graph drawn with its vertices shuffled onto a circle
// so that segments cross. The player drags vertices until no two segments
// cross, and the next, larger level begins. The pkg directory is organized
// into three areas:
//
//  1. Domain: [geom], [generator], [puzzle], [game]
//  2. Persistence: [saves], [store]
//  3. Support: [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	[generator] package (planar graph + crossing-free embedding)
//	         ↓
//	[puzzle] package (level: circle layout, crossing index, interaction)
//	         ↓
//	[game] package (session: level numbers, advance on solve)
//	         ↓
//	[saves] package (hashed, compressed snapshot) → [store] package
//
// # Quick Start
//
// Start a session and move a vertex:
//
//	import (
//	    "github.com/matzehuels/untangle/pkg/game"
//	    "github.com/matzehuels/untangle/pkg/geom"
//	)
//
//	s, _ := game.New(0, game.WithSeed(42))
//	lvl := s.Level()
//	lvl.StartDrag(0)
//	lvl.DragTo(geom.Pt(120, 80))
//	lvl.FinishDrag()
//	fmt.Println(lvl.IntersectionCount())
//
// Save and restore it:
//
//	data, _ := saves.Encode(saves.Capture(s))
//	restored, _ := saves.Load(data)
//
// # Main Packages
//
// [geom] - Points and the strict segment intersection test.
//
// [generator] - Random connected planar graphs with bounded vertex degree,
// built on a triangulated grid so a crossing-free drawing is known.
//
// [puzzle] - The level engine. Vertices and segments live in an arena with
// stable IDs; the crossing index is updated incrementally when a drag
// finishes. Observers subscribe to state changes.
//
// [game] - A running game. Generates the next level when the current one is
// solved.
//
// [saves] - The save format: canonical JSON with a SHA-256 integrity hash,
// gzip-compressed. Loading rebuilds the level and recomputes every count.
//
// [store] - Save storage backends: file, SQLite, Redis, MongoDB and memory.
//
// [config] - TOML configuration with defaults and XDG lookup.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [observability] - Hook interfaces for generation, store and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test ./pkg/puzzle/...             # Specific package
//	go test -run Example ./...           # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/geom
// [generator]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/generator
// [puzzle]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/puzzle
// [game]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/game
// [saves]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/saves
// [store]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/untangle/pkg/buildinfo
package pkg
