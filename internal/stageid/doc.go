// internal/stageid/doc.go

/*
Package stageid provides addresses for stages within a planning tree.

An address is a dot-separated path of segments, one per level of the tree.
Every segment but the root carries the position of the stage among its
siblings, e.g. `pick.approach[1].move[0]`. Names alone are not unique: two
children of a container may share a name, their positions never do.

Addresses are used for log attributes, metric labels and stage lookup.
*/
package stageid
