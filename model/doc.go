// Package model provides the intermediate representation for reconstructed
// treatment charts.
//
// This package defines the data structures shared by all reconstruction
// passes: raw decoded primitives, classified geometry, the page/visit/record/
// entry region tree, and the flat output rows that surrounding systems
// consume.
//
// # Document Structure
//
// The [Document] type represents one decoded source document:
//
//	doc := model.NewDocument("protocol.json")
//	doc.AddPage(page)
//
// Each [Page] owns the primitives decoded for one physical page plus the
// derived sets (classified lines, visible rectangles, sorted text lines) the
// passes work on. Regions reference their page, never the other way around:
// ownership flows strictly downward.
//
// # Geometry
//
//   - [BBox] - axis-aligned bounding box in page coordinates (origin
//     bottom-left), corner form
//   - [Point] - 2D point with distance calculation
//   - [Line] - a drawn separator reduced to two oriented endpoints
//
// # Output
//
// [Row] is the external contract: one fixed-key record per administration
// entry. Field presence is guaranteed; values may be empty when the source
// omitted or withheld them.
package model
