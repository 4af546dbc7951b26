// Package container assembles parsed track rows into a renderable tree.
//
// A tree is made of two node kinds:
//
//   - [Leaf]: one source's rows, drawn as a collapsed main track plus one
//     hidden subtrack per row
//   - [Composite]: an ordered group of child nodes
//
// [Node] is a closed union of the two; [Mount], [Populate] and [Collect]
// recurse over it with a type switch. Nodes never touch presentation
// primitives directly. Every presentation command goes through a [Target]:
//
//	leaf := container.NewLeaf("Structures", rows)
//	container.Mount(leaf, surface, "")
//	container.Populate(leaf, surface)
//	leaf.Toggle(surface) // show subtracks, hide the main track
//
// Mount creates the element structure; Populate binds accession data to it.
// Callers mount every tree before populating any of them.
package container
