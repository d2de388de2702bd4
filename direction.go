package junction

// Direction identifies one of the four compass approaches to an intersection.
type Direction int

const (
	// North is the northbound approach
	North Direction = iota
	// South is the southbound approach
	South
	// East is the eastbound approach
	East
	// West is the westbound approach
	West
)

// numDirections is the number of approaches at an intersection
const numDirections = 4

// Directions returns all four directions in declaration order
func Directions() [numDirections]Direction {
	return [numDirections]Direction{North, South, East, West}
}

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	default:
		return "UNKNOWN"
	}
}

// ConflictsWith reports whether this direction and other must never be
// green at the same time. Conflict is symmetric and never holds for a
// direction against itself.
func (d Direction) ConflictsWith(other Direction) bool {
	switch d {
	case North, South:
		return other == East || other == West
	case East, West:
		return other == North || other == South
	default:
		return false
	}
}

// ConflictingDirections returns the directions that conflict with this one
func (d Direction) ConflictingDirections() []Direction {
	switch d {
	case North, South:
		return []Direction{East, West}
	case East, West:
		return []Direction{North, South}
	default:
		return nil
	}
}

// Opposite returns the paired direction on the same axis.
// North <-> South, East <-> West.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// IsParallelTo reports whether this direction can be green together with
// other. A direction is not parallel to itself.
func (d Direction) IsParallelTo(other Direction) bool {
	return d != other && !d.ConflictsWith(other)
}
