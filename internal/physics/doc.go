// Package physics provides the pluggable engine backends that materialize
// joint descriptors into live constraints.
//
// Two engines ship by default:
//
//   - chipmunk: a rigid-body backend built on jakecoffman/cp. The simulation
//     is planar; descriptors are projected onto the X/Y plane and the free
//     rotation axis is the out-of-plane Z axis.
//   - kinematic: a dependency-free backend that integrates joint coordinates
//     directly from their setpoints. Used headless and in tests.
//
// The joint core never branches on which engine is active; it sees only the
// joint.Engine contract.
package physics
