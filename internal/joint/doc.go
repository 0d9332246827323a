// Package joint manages the lifecycle of the physical constraints connecting
// rigid bodies. It mediates between backend-independent joint descriptors and
// a pluggable physics engine, and keeps a thread-safe registry that the
// simulation loop and editor threads mutate concurrently.
//
// The registry is linearizable: a single mutex guards all structural state,
// so an update sweep either sees a newly created joint completely or not at
// all. Collaborator callbacks (actuator detach, scene-change notification)
// are issued with the lock released, which keeps re-entrant collaborators
// deadlock free.
//
// The package also defines the contracts it consumes: the Engine/Binding
// backend capability and the BodyLookup, ActuatorNotifier and SceneSink
// collaborator interfaces.
package joint
