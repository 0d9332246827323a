package scene

// Presets are small built-in scenes, mostly useful for demos and smoke
// testing a backend.
var Presets = map[string]*Scene{
	"pendulum": {
		Name:    "pendulum",
		Gravity: [3]float64{0, -9.81, 0},
		Bodies: []BodySpec{
			{Index: 1, Name: "bob", Position: [3]float64{0, -1, 0}, Mass: 1.0},
		},
		Joints: []JointSpec{
			{
				Index: 1, Name: "pivot", Type: "hinge",
				BodyA: 1, BodyB: 0,
				Anchor: "explicit", AnchorPoint: [3]float64{0, 0, 0},
				Axis: [3]float64{0, 0, 1},
			},
		},
	},
	"double-pendulum": {
		Name:    "double-pendulum",
		Gravity: [3]float64{0, -9.81, 0},
		Bodies: []BodySpec{
			{Index: 1, Name: "upper", Position: [3]float64{0, -1, 0}, Mass: 1.0},
			{Index: 2, Name: "lower", Position: [3]float64{0, -2, 0}, Mass: 1.0},
		},
		Joints: []JointSpec{
			{
				Index: 1, Name: "shoulder", Type: "hinge",
				BodyA: 1, BodyB: 0,
				Anchor: "explicit", AnchorPoint: [3]float64{0, 0, 0},
				Axis: [3]float64{0, 0, 1},
			},
			{
				Index: 2, Name: "elbow", Type: "hinge",
				BodyA: 1, BodyB: 2,
				Anchor: "at_body_a",
				Axis:   [3]float64{0, 0, 1},
			},
		},
	},
	"cart": {
		Name:    "cart",
		Gravity: [3]float64{0, -9.81, 0},
		Bodies: []BodySpec{
			{Index: 1, Name: "cart", Position: [3]float64{0, 0, 0}, Mass: 5.0},
			{Index: 2, Name: "pole", Position: [3]float64{0, 1, 0}, Mass: 0.5},
		},
		Joints: []JointSpec{
			{
				Index: 1, Name: "rail", Type: "slider",
				BodyA: 1, BodyB: 0,
				Anchor: "at_body_a",
				Axis:   [3]float64{1, 0, 0},
				LowStop: -5, HighStop: 5,
			},
			{
				Index: 2, Name: "hinge", Type: "hinge",
				BodyA: 1, BodyB: 2,
				Anchor: "at_body_a",
				Axis:   [3]float64{0, 0, 1},
			},
		},
	},
	"suspension": {
		Name:    "suspension",
		Gravity: [3]float64{0, -9.81, 0},
		Bodies: []BodySpec{
			{Index: 1, Name: "chassis", Position: [3]float64{0, 1, 0}, Mass: 10.0},
			{Index: 2, Name: "wheel", Position: [3]float64{0, 0, 0}, Mass: 1.0},
		},
		Joints: []JointSpec{
			{
				Index: 1, Name: "strut", Type: "hinge2",
				BodyA: 1, BodyB: 2,
				Anchor: "midpoint",
				Axis:   [3]float64{0, 1, 0},
				Axis2:  [3]float64{0, 0, 1},
				Spring: 120, Damping: 8,
			},
		},
	},
}
