// Package visualizer implements the interactive graph controller.
//
// A [Controller] owns a drawing surface, a flow layout engine and the set of
// placed module boxes and connectors for one dataset. It can lay out the
// whole graph at once ([Controller.RenderAll]) or start from the
// entrypoints and reveal imports on click ([Controller.RenderCollapsed]).
// Search, the importer/import scatter plot and the tool and detail panels
// are modeled as view state next to the graph.
//
// # Index structures
//
// Two maps are kept consistent with the placed shapes:
//
//   - module index by path: position of a module's box in placement order
//   - connector indices by importer path: the connectors leaving a module
//
// Boxes and connectors are only ever appended during a session; Reset drops
// them together with both maps.
//
// # Redraw policy
//
// Changing the box set clears the surface and redraws every box. Connector
// highlights redraw only the affected importer's connectors.
//
// A Controller is not safe for concurrent use.
package visualizer
