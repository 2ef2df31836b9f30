/*
Package stage implements the stage contract and the containers that compose
stages into a planning tree.

A stage receives candidate boundary states through its pull interfaces
(Starts for start states, Ends for end states) and produces solutions that
connect a start to an end. New states it creates are pushed into the pull
interfaces of its neighbours (PrevEnds and NextStarts).

Containers are stages themselves. Each one decouples its own external
interfaces from those of its children:

  - states arriving at the container are copied into the children's
    interfaces, and the copy is remembered in an internal-to-external map;
  - states the children push upward land in pending buffers that only exist
    when the container itself has somewhere to push to;
  - child solutions are lifted to the container boundary through the map.

Serial chains its children and stitches their solutions into complete
start-to-end paths. Alternatives and Fallbacks broadcast every state to all
children. Wrapper adapts a single child and keeps its rejected solutions.

The tree is driven by a single cooperative loop (see the task package) and is
not safe for concurrent use.
*/
package stage
