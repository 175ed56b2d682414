// Package graph provides the JSON wire format of patchlayout.
//
// This package defines the canonical serialization of routing graph
// snapshots and layout results, used for input files, API requests and
// responses, and cached results.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Snapshot], [ColumnsResult], [ResolveRequest], [ResolveResult],
//     [ArrangeResult]: serialization types (this package)
//   - pkg/core/patch.Graph: internal graph representation
//   - pkg/core/layout/...: internal layout results
//
// Use [ToPatch]/[FromPatch], [FromAssignment]/[ToAssignment] and the other
// From* helpers to convert between them.
//
// # Snapshot Format
//
// A snapshot lists clients, their connections and, optionally, the current
// boxes on the canvas:
//
//	{
//	  "nodes": [{"id": 1, "name": "system", "type": "hardware"},
//	            {"id": 2, "name": "synth"}],
//	  "edges": [{"from": 2, "to": 1}],
//	  "boxes": [{"node": 2, "mode": "both", "x": 0, "y": 0, "width": 100, "height": 40}]
//	}
//
// Node types and port modes are written by name. A missing "ports" field
// means the client has both inputs and outputs.
//
// # Skip and Warn
//
// Connections naming a client that is not part of the snapshot are dropped
// with a warning instead of failing the whole snapshot: hosts send
// snapshots while clients come and go. Malformed nodes and geometry are
// errors with code INVALID_INPUT.
package graph
