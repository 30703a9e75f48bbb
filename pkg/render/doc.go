// Package render serializes resolved layouts to output formats.
//
// # Overview
//
// The layout engine emits geometry only; this package turns a
// [layout.Layout] primitive sequence into bytes:
//
//   - SVG, the primary format ([SVG])
//   - PNG rastering, either natively ([PNG]) or via librsvg ([ToPNG])
//   - PDF via librsvg ([ToPDF])
//   - JSON, the raw primitive sequence ([JSON])
//   - Graphviz node-link views of the bare tree structure ([ToDOT])
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
// tool (from librsvg). [PNG] rasters natively and needs no external
// tooling, at the cost of approximating font metrics with the bundled
// Go font.
package render
