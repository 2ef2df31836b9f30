/*
Package builder constructs the stage tree of a task. It acts as the bridge
between the static configuration model (defined in the 'config' package) and
the planning core (the 'stage' and 'task' packages).

Construction is a recursive, two-step process for every stage spec:

 1. Creation: container kinds are built directly, binding their own
    attributes (a wrapper accepts `max_cost` and `cost_scale`). All other
    kinds are created by the factory registered for them in the 'registry'
    package.

 2. Assembly: children are built depth first and added to their container in
    the order they were defined, and the configured timeout is applied.

The result is handed to task.New. Wiring of interfaces happens later, when
the task is initialized.
*/
package builder
