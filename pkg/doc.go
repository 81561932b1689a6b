// Package pkg provides the core libraries for cellblend.
//
// # Overview
//
// cellblend scatters colored points over a rectangular plane and divides
// the plane into Voronoi cells, one per point. Clicking a cell blends the
// colors of its neighbors toward its own. When a neighbor's new color lands
// within the similarity threshold of the clicked color, both cells are
// removed and the diagram is repartitioned.
//
// # Architecture
//
// The typical data flow:
//
//	[points] (generate colored points)
//	     ↓
//	[diagram] (versioned store of the current points)
//	     ↓
//	[partition] (cells, adjacency, point location)
//	     ↓
//	[interact] (click → blend → converge → remove)
//	     ↓
//	[pipeline] (cached rendering to SVG, PNG, JSON, DOT)
//
// # Quick Start
//
//	gen := points.NewGenerator(points.Bounds{Width: 800, Height: 600}, color.DefaultPalette, 7)
//	store := diagram.NewStore(gen, 20, nil)
//	ctrl := interact.New(store, nil, 0, nil)
//
//	out, _ := ctrl.Click(ctx, 3)
//	svg := render.SVG(out.State)
//
// # Main Packages
//
// [color] - Hex colors, blending, Euclidean RGB distance and palettes.
//
// [points] - Plane bounds and the seeded generator of colored points.
//
// [diagram] - The store holding the current state. Every change publishes
// a new immutable State with a higher version to subscribers.
//
// [partition] - Delaunay-based neighbor computation, point location and
// rasterization of the cells.
//
// [interact] - The click rule and the controller applying it to a store.
//
// [render] - SVG, PNG and JSON output. [render/nodelink] draws the
// neighbor graph with Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Multi-format rendering behind a content-addressed cache.
//
// [cache] - File, Redis and null cache backends with key derivation.
//
// [server] - HTTP surface for playing in a browser.
//
// [config] - TOML configuration with defaults and validation.
//
// [errors] - Coded errors with user-facing messages and HTTP status mapping.
//
// [observability] - Hooks for clicks, renders, cache access and requests.
//
// [buildinfo] - Version information set at build time.
package pkg
