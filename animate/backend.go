package animate

// Props maps property names to raw target specifications. The meaning of a
// raw value (absolute, relative, a colour, a unit) belongs to the Backend.
type Props map[string]any

// Backend reads and writes named properties on a target.
type Backend[T any] interface {
	// Current returns the live value of property on target.
	Current(target T, property string) (any, error)
	// Resolve turns raw into an absolute value. Relative specifications are
	// taken against base.
	Resolve(property string, base, raw any) (any, error)
	// Apply writes the blend of from and to at progress. progress is not
	// clamped and may leave [0,1].
	Apply(target T, property string, from, to any, progress float64) error
	// Set writes an absolute value verbatim.
	Set(target T, property string, value any) error
}
