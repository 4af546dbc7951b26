// Package surface provides display surfaces for container trees.
//
// [Memory] records every presentation command it receives and keeps the
// resulting element tree. The other files render that tree:
//
//   - [WriteJSON] exports it for the HTTP API and the json output format
//   - [RenderText] draws visible tracks as colored bars in a terminal
//   - [ToDOT] and [RenderSVG] draw the element hierarchy with Graphviz
package surface
