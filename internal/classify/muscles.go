package classify

import "slices"

// bodyMuscles are the non-finger humanoid muscle axes in rig order.
var bodyMuscles = []string{
	"Spine Front-Back",
	"Spine Left-Right",
	"Spine Twist Left-Right",
	"Chest Front-Back",
	"Chest Left-Right",
	"Chest Twist Left-Right",
	"UpperChest Front-Back",
	"UpperChest Left-Right",
	"UpperChest Twist Left-Right",
	"Neck Nod Down-Up",
	"Neck Tilt Left-Right",
	"Neck Turn Left-Right",
	"Head Nod Down-Up",
	"Head Tilt Left-Right",
	"Head Turn Left-Right",
	"Left Eye Down-Up",
	"Left Eye In-Out",
	"Right Eye Down-Up",
	"Right Eye In-Out",
	"Jaw Close",
	"Jaw Left-Right",
	"Left Upper Leg Front-Back",
	"Left Upper Leg In-Out",
	"Left Upper Leg Twist In-Out",
	"Left Lower Leg Stretch",
	"Left Lower Leg Twist In-Out",
	"Left Foot Up-Down",
	"Left Foot Twist In-Out",
	"Left Toes Up-Down",
	"Right Upper Leg Front-Back",
	"Right Upper Leg In-Out",
	"Right Upper Leg Twist In-Out",
	"Right Lower Leg Stretch",
	"Right Lower Leg Twist In-Out",
	"Right Foot Up-Down",
	"Right Foot Twist In-Out",
	"Right Toes Up-Down",
	"Left Shoulder Down-Up",
	"Left Shoulder Front-Back",
	"Left Arm Down-Up",
	"Left Arm Front-Back",
	"Left Arm Twist In-Out",
	"Left Forearm Stretch",
	"Left Forearm Twist In-Out",
	"Left Hand Down-Up",
	"Left Hand In-Out",
	"Right Shoulder Down-Up",
	"Right Shoulder Front-Back",
	"Right Arm Down-Up",
	"Right Arm Front-Back",
	"Right Arm Twist In-Out",
	"Right Forearm Stretch",
	"Right Forearm Twist In-Out",
	"Right Hand Down-Up",
	"Right Hand In-Out",
}

var (
	hands       = []string{"LeftHand", "RightHand"}
	fingers     = []string{"Thumb", "Index", "Middle", "Ring", "Little"}
	fingerAxes  = []string{"1 Stretched", "Spread", "2 Stretched", "3 Stretched"}
	muscleNames = buildMuscleNames()
	muscleSet   = buildMuscleSet(muscleNames)
)

// Finger axes use the dotted animator property form, e.g.
// "LeftHand.Thumb.1 Stretched".
func buildMuscleNames() []string {
	names := slices.Clone(bodyMuscles)
	for _, hand := range hands {
		for _, finger := range fingers {
			for _, axis := range fingerAxes {
				names = append(names, hand+"."+finger+"."+axis)
			}
		}
	}
	return names
}

func buildMuscleSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// MuscleAxisNames returns the full muscle-axis table in rig order.
// The returned slice is a copy.
func MuscleAxisNames() []string {
	return slices.Clone(muscleNames)
}
